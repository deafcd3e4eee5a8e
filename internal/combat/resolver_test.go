package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voidreach_combat/internal/model"
)

func twoShipEncounter(baseSeed uint64, round int) model.Encounter {
	return model.Encounter{
		ID:       "enc-1",
		SectorID: "sector-1",
		Round:    round,
		BaseSeed: baseSeed,
		Participants: map[string]model.Combatant{
			"A": {ID: "A", Kind: model.CombatantCharacter, DisplayName: "Avery", Fighters: 10, Shields: 100, MaxFighters: 10, MaxShields: 100, TurnsPerWarp: 1},
			"B": {ID: "B", Kind: model.CombatantCharacter, DisplayName: "Brynn", Fighters: 10, Shields: 100, MaxFighters: 10, MaxShields: 100, TurnsPerWarp: 1},
		},
		Context: model.EncounterContext{TollRegistry: map[string]bool{}},
	}
}

func TestResolveRound_Determinism(t *testing.T) {
	encounter := twoShipEncounter(1, 1)
	actions := map[string]model.RoundAction{
		"A": {Tag: model.ActionAttack, Commit: 10, Target: "B"},
		"B": {Tag: model.ActionAttack, Commit: 10, Target: "A"},
	}

	first := ResolveRound(encounter, actions)
	second := ResolveRound(encounter, actions)

	assert.Equal(t, first, second)
}

func TestResolveRound_DuelConservationAndCommitBound(t *testing.T) {
	encounter := twoShipEncounter(1, 1)
	actions := map[string]model.RoundAction{
		"A": {Tag: model.ActionAttack, Commit: 10, Target: "B"},
		"B": {Tag: model.ActionAttack, Commit: 10, Target: "A"},
	}

	outcome := ResolveRound(encounter, actions)

	for _, id := range []string{"A", "B"} {
		start := encounter.Participants[id].Fighters
		conserved := start - outcome.OffensiveLosses[id] - outcome.DefensiveLosses[id]
		assert.Equal(t, conserved, outcome.FightersRemaining[id])

		assert.LessOrEqual(t, outcome.Hits[id]+outcome.OffensiveLosses[id], 10)

		assert.GreaterOrEqual(t, outcome.ShieldLoss[id], 0)
		assert.GreaterOrEqual(t, outcome.FightersRemaining[id], 0)
		assert.GreaterOrEqual(t, outcome.ShieldsRemaining[id], 0)
	}

	assert.Empty(t, outcome.EndState)
}

func TestResolveRound_ZeroFighterAttackCoercedToBrace(t *testing.T) {
	encounter := twoShipEncounter(7, 1)
	zeroed := encounter.Participants["A"]
	zeroed.Fighters = 0
	encounter.Participants["A"] = zeroed

	actions := map[string]model.RoundAction{
		"A": {Tag: model.ActionAttack, Commit: 5, Target: "B"},
		"B": {Tag: model.ActionBrace},
	}

	outcome := ResolveRound(encounter, actions)

	assert.Equal(t, model.ActionBrace, outcome.EffectiveActions["A"].Tag)
	assert.Equal(t, 0, outcome.EffectiveActions["A"].Commit)
}

func TestResolveRound_FleeWithNoOpponentAlwaysSucceeds(t *testing.T) {
	encounter := model.Encounter{
		ID:       "enc-solo",
		SectorID: "sector-1",
		Round:    1,
		BaseSeed: 99,
		Participants: map[string]model.Combatant{
			"A": {ID: "A", Kind: model.CombatantCharacter, Fighters: 10, Shields: 100, TurnsPerWarp: 1},
		},
	}

	outcome := ResolveRound(encounter, map[string]model.RoundAction{
		"A": {Tag: model.ActionFlee, Destination: "sector-7"},
	})

	assert.True(t, outcome.FleeResults["A"])
}

func TestResolveRound_FleeSucceedsWithoutAttackersEndsWithFleeState(t *testing.T) {
	// base_seed=42 is called out in the concrete scenario as yielding
	// a successful flee draw at 0.5 probability.
	encounter := twoShipEncounter(42, 1)
	actions := map[string]model.RoundAction{
		"A": {Tag: model.ActionFlee, Destination: "sector-7"},
		"B": {Tag: model.ActionBrace},
	}

	outcome := ResolveRound(encounter, actions)

	if outcome.FleeResults["A"] {
		assert.Equal(t, "A_fled", outcome.EndState)
		assert.Zero(t, outcome.Hits["A"])
		assert.Zero(t, outcome.Hits["B"])
	}
}

func TestResolveRound_AllTimeoutBraceIsStalemate(t *testing.T) {
	encounter := twoShipEncounter(3, 1)
	actions := map[string]model.RoundAction{
		"A": {Tag: model.ActionBrace, TimedOut: true},
		"B": {Tag: model.ActionBrace, TimedOut: true},
	}

	outcome := ResolveRound(encounter, actions)

	assert.Equal(t, "stalemate", outcome.EndState)
	assert.Zero(t, outcome.Hits["A"])
	assert.Zero(t, outcome.Hits["B"])
}

func TestResolveRound_CorpShipDestroyedLeavesZeroFighters(t *testing.T) {
	encounter := model.Encounter{
		ID:       "enc-corp",
		SectorID: "sector-1",
		Round:    1,
		BaseSeed: 5,
		Participants: map[string]model.Combatant{
			"S": {ID: "S", Kind: model.CombatantCharacter, Fighters: 1, Shields: 0, PlayerType: model.PlayerCorporationShip},
			"P": {ID: "P", Kind: model.CombatantCharacter, Fighters: 50, Shields: 0},
		},
	}

	outcome := ResolveRound(encounter, map[string]model.RoundAction{
		"S": {Tag: model.ActionAttack, Commit: 1, Target: "P"},
		"P": {Tag: model.ActionAttack, Commit: 50, Target: "S"},
	})

	require.Contains(t, outcome.FightersRemaining, "S")
	assert.Equal(t, 0, outcome.FightersRemaining["S"])
}

func TestApplyGarrisonAutoActions_OffensiveTargetsLargestEnemy(t *testing.T) {
	encounter := model.Encounter{
		Participants: map[string]model.Combatant{
			"garrison:sector-1:X": {ID: "garrison:sector-1:X", Kind: model.CombatantGarrison, Fighters: 5, OwnerID: "X", Mode: model.GarrisonOffensive},
			"C":                   {ID: "C", Kind: model.CombatantCharacter, Fighters: 8, OwnerID: "C", CorporationID: "corp-y"},
		},
		Context: model.EncounterContext{TollRegistry: map[string]bool{}},
	}

	actions := map[string]model.RoundAction{}
	ApplyGarrisonAutoActions(encounter, actions)

	action := actions["garrison:sector-1:X"]
	assert.Equal(t, model.ActionAttack, action.Tag)
	assert.Equal(t, "C", action.Target)
	assert.Equal(t, 5, action.Commit)
}

func TestApplyGarrisonAutoActions_TollBracesWhenPaid(t *testing.T) {
	encounter := model.Encounter{
		Participants: map[string]model.Combatant{
			"garrison:sector-1:X": {ID: "garrison:sector-1:X", Kind: model.CombatantGarrison, Fighters: 5, OwnerID: "X", Mode: model.GarrisonToll},
			"C":                   {ID: "C", Kind: model.CombatantCharacter, Fighters: 8, OwnerID: "C"},
		},
		Context: model.EncounterContext{TollRegistry: map[string]bool{"X": true}},
	}

	actions := map[string]model.RoundAction{}
	ApplyGarrisonAutoActions(encounter, actions)

	assert.Equal(t, model.ActionBrace, actions["garrison:sector-1:X"].Tag)
}
