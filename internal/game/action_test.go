package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"voidreach_combat/internal/apperrors"
	"voidreach_combat/internal/model"
)

func encounterForSubmission() model.Encounter {
	return model.Encounter{
		Participants: map[string]model.Combatant{
			"11111111-1111-1111-1111-111111111111": {ID: "11111111-1111-1111-1111-111111111111", Kind: model.CombatantCharacter},
			"22222222-2222-2222-2222-222222222222": {ID: "22222222-2222-2222-2222-222222222222", Kind: model.CombatantCharacter},
			"garrison:sector-1:owner-1":            {ID: "garrison:sector-1:owner-1", Kind: model.CombatantGarrison},
		},
	}
}

func TestValidateSubmission_RejectsUnknownCombatant(t *testing.T) {
	err := ValidateSubmission(encounterForSubmission(), "33333333-3333-3333-3333-333333333333", model.RoundAction{Tag: model.ActionBrace})

	assert.Equal(t, apperrors.KindCallerError, apperrors.KindOf(err))
}

func TestValidateSubmission_RejectsGarrisonSubmitter(t *testing.T) {
	err := ValidateSubmission(encounterForSubmission(), "garrison:sector-1:owner-1", model.RoundAction{Tag: model.ActionBrace})

	assert.Error(t, err)
	assert.Equal(t, apperrors.KindCallerError, apperrors.KindOf(err))
}

func TestValidateSubmission_AttackRequiresTarget(t *testing.T) {
	err := ValidateSubmission(encounterForSubmission(), "11111111-1111-1111-1111-111111111111", model.RoundAction{Tag: model.ActionAttack})

	assert.Error(t, err)
}

func TestValidateSubmission_AttackRejectsSelfTarget(t *testing.T) {
	self := "11111111-1111-1111-1111-111111111111"
	err := ValidateSubmission(encounterForSubmission(), self, model.RoundAction{Tag: model.ActionAttack, Target: self, Commit: 1})

	assert.Error(t, err)
}

func TestValidateSubmission_AttackRejectsUnknownTarget(t *testing.T) {
	err := ValidateSubmission(encounterForSubmission(), "11111111-1111-1111-1111-111111111111", model.RoundAction{
		Tag: model.ActionAttack, Target: "44444444-4444-4444-4444-444444444444", Commit: 1,
	})

	assert.Error(t, err)
}

func TestValidateSubmission_AttackRejectsNegativeCommit(t *testing.T) {
	err := ValidateSubmission(encounterForSubmission(), "11111111-1111-1111-1111-111111111111", model.RoundAction{
		Tag: model.ActionAttack, Target: "22222222-2222-2222-2222-222222222222", Commit: -1,
	})

	assert.Error(t, err)
}

func TestValidateSubmission_AcceptsValidAttack(t *testing.T) {
	err := ValidateSubmission(encounterForSubmission(), "11111111-1111-1111-1111-111111111111", model.RoundAction{
		Tag: model.ActionAttack, Target: "22222222-2222-2222-2222-222222222222", Commit: 5,
	})

	assert.NoError(t, err)
}

func TestValidateSubmission_AcceptsBracePayAndFleeWithNoTarget(t *testing.T) {
	for _, tag := range []model.ActionTag{model.ActionBrace, model.ActionPay, model.ActionFlee} {
		err := ValidateSubmission(encounterForSubmission(), "11111111-1111-1111-1111-111111111111", model.RoundAction{Tag: tag})
		assert.NoError(t, err, "tag %v", tag)
	}
}

func TestValidateSubmission_RejectsUnrecognizedTag(t *testing.T) {
	err := ValidateSubmission(encounterForSubmission(), "11111111-1111-1111-1111-111111111111", model.RoundAction{Tag: model.ActionTag("stall")})

	assert.Error(t, err)
}
