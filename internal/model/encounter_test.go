package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func encounterWithCombatants() Encounter {
	return Encounter{
		Participants: map[string]Combatant{
			"char-1":    {ID: "char-1", Kind: CombatantCharacter, Fighters: 5},
			"char-2":    {ID: "char-2", Kind: CombatantCharacter, Fighters: 5},
			"char-dead": {ID: "char-dead", Kind: CombatantCharacter, Fighters: 0},
			"char-pod":  {ID: "char-pod", Kind: CombatantCharacter, Fighters: 1, IsEscapePod: true},
			"garrison:sector-1:owner-1": {ID: "garrison:sector-1:owner-1", Kind: CombatantGarrison, Fighters: 10},
		},
		PendingActions: map[string]RoundAction{},
	}
}

func TestLiveCharacterCombatants_ExcludesDeadPodsAndGarrisons(t *testing.T) {
	encounter := encounterWithCombatants()

	live := encounter.LiveCharacterCombatants()

	assert.ElementsMatch(t, []string{"char-1", "char-2"}, live)
}

func TestAllLiveCharactersSubmitted_FalseUntilEveryLiveCharacterHasSubmitted(t *testing.T) {
	encounter := encounterWithCombatants()

	assert.False(t, encounter.AllLiveCharactersSubmitted())

	encounter.PendingActions["char-1"] = RoundAction{Tag: ActionBrace}
	assert.False(t, encounter.AllLiveCharactersSubmitted())

	encounter.PendingActions["char-2"] = RoundAction{Tag: ActionBrace}
	assert.True(t, encounter.AllLiveCharactersSubmitted())
}

func TestAllLiveCharactersSubmitted_IgnoresGarrisonsAndDeadCombatants(t *testing.T) {
	encounter := Encounter{
		Participants: map[string]Combatant{
			"char-dead":                 {ID: "char-dead", Kind: CombatantCharacter, Fighters: 0},
			"garrison:sector-1:owner-1": {ID: "garrison:sector-1:owner-1", Kind: CombatantGarrison, Fighters: 10},
		},
		PendingActions: map[string]RoundAction{},
	}

	assert.True(t, encounter.AllLiveCharactersSubmitted())
}

func TestCombatant_IsGarrisonAndIsCorporationOwned(t *testing.T) {
	garrison := Combatant{Kind: CombatantGarrison}
	corpShip := Combatant{Kind: CombatantCharacter, PlayerType: PlayerCorporationShip}
	humanShip := Combatant{Kind: CombatantCharacter, PlayerType: PlayerHuman}

	assert.True(t, garrison.IsGarrison())
	assert.False(t, corpShip.IsGarrison())

	assert.True(t, corpShip.IsCorporationOwned())
	assert.False(t, humanShip.IsCorporationOwned())
}
