package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"voidreach_combat/internal/model"
)

func garrisonEncounter(mode model.GarrisonMode) model.Encounter {
	return model.Encounter{
		Participants: map[string]model.Combatant{
			"garrison:sector-1:owner-g": {
				ID: "garrison:sector-1:owner-g", Kind: model.CombatantGarrison,
				Fighters: 20, Mode: mode, OwnerID: "owner-g",
			},
			"char-weak": {ID: "char-weak", Kind: model.CombatantCharacter, Fighters: 3, OwnerID: "char-weak"},
			"char-strong": {ID: "char-strong", Kind: model.CombatantCharacter, Fighters: 8, OwnerID: "char-strong"},
		},
		Context: model.EncounterContext{TollRegistry: map[string]bool{}},
	}
}

func TestApplyGarrisonAutoActions_OffensiveAttacksStrongestEnemy(t *testing.T) {
	encounter := garrisonEncounter(model.GarrisonOffensive)
	actions := map[string]model.RoundAction{}

	ApplyGarrisonAutoActions(encounter, actions)

	action := actions["garrison:sector-1:owner-g"]
	assert.Equal(t, model.ActionAttack, action.Tag)
	assert.Equal(t, "char-strong", action.Target)
	assert.Equal(t, 20, action.Commit)
}

func TestApplyGarrisonAutoActions_OffensiveBracesWithNoEnemies(t *testing.T) {
	encounter := model.Encounter{
		Participants: map[string]model.Combatant{
			"garrison:sector-1:owner-g": {ID: "garrison:sector-1:owner-g", Kind: model.CombatantGarrison, Fighters: 20, Mode: model.GarrisonOffensive},
		},
		Context: model.EncounterContext{TollRegistry: map[string]bool{}},
	}
	actions := map[string]model.RoundAction{}

	ApplyGarrisonAutoActions(encounter, actions)

	assert.Equal(t, model.ActionBrace, actions["garrison:sector-1:owner-g"].Tag)
}

func TestApplyGarrisonAutoActions_DefensiveBracesWhenUntargeted(t *testing.T) {
	encounter := garrisonEncounter(model.GarrisonDefensive)
	actions := map[string]model.RoundAction{
		"char-strong": {Tag: model.ActionAttack, Target: "char-weak", Commit: 1},
	}

	ApplyGarrisonAutoActions(encounter, actions)

	assert.Equal(t, model.ActionBrace, actions["garrison:sector-1:owner-g"].Tag)
}

func TestApplyGarrisonAutoActions_DefensiveRetaliatesAgainstAttacker(t *testing.T) {
	encounter := garrisonEncounter(model.GarrisonDefensive)
	actions := map[string]model.RoundAction{
		"char-weak": {Tag: model.ActionAttack, Target: "garrison:sector-1:owner-g", Commit: 1},
	}

	ApplyGarrisonAutoActions(encounter, actions)

	action := actions["garrison:sector-1:owner-g"]
	assert.Equal(t, model.ActionAttack, action.Tag)
	assert.Equal(t, "char-weak", action.Target)
}

func TestApplyGarrisonAutoActions_TollBracesWhenOwnerPaid(t *testing.T) {
	encounter := garrisonEncounter(model.GarrisonToll)
	encounter.Context.TollRegistry["owner-g"] = true
	actions := map[string]model.RoundAction{}

	ApplyGarrisonAutoActions(encounter, actions)

	assert.Equal(t, model.ActionBrace, actions["garrison:sector-1:owner-g"].Tag)
}

func TestApplyGarrisonAutoActions_TollAttacksWhenOwnerUnpaid(t *testing.T) {
	encounter := garrisonEncounter(model.GarrisonToll)
	encounter.Context.TollRegistry["owner-g"] = false
	actions := map[string]model.RoundAction{}

	ApplyGarrisonAutoActions(encounter, actions)

	action := actions["garrison:sector-1:owner-g"]
	assert.Equal(t, model.ActionAttack, action.Tag)
	assert.Equal(t, "char-strong", action.Target)
}

func TestApplyGarrisonAutoActions_NeverClobbersExistingAction(t *testing.T) {
	encounter := garrisonEncounter(model.GarrisonOffensive)
	preset := model.RoundAction{Tag: model.ActionBrace}
	actions := map[string]model.RoundAction{
		"garrison:sector-1:owner-g": preset,
	}

	ApplyGarrisonAutoActions(encounter, actions)

	assert.Equal(t, preset, actions["garrison:sector-1:owner-g"])
}
