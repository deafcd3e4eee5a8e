package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voidreach_combat/internal/model"
)

func messageTestEncounter() model.Encounter {
	deadline := time.Now().Add(30 * time.Second)

	return model.Encounter{
		ID:       "encounter-1",
		SectorID: "sector-1",
		Round:    2,
		Deadline: &deadline,
		Participants: map[string]model.Combatant{
			"char-1": {ID: "char-1", DisplayName: "Avery", Kind: model.CombatantCharacter},
			"char-2": {ID: "char-2", DisplayName: "Brynn", Kind: model.CombatantCharacter},
		},
	}
}

func TestRoundWaitingPayload_IncludesDeadlineAndParticipants(t *testing.T) {
	encounter := messageTestEncounter()

	payload := roundWaitingPayload("create_encounter", encounter, "char-1")

	assert.Equal(t, "encounter-1", payload["combat_id"])
	assert.Equal(t, 2, payload["round"])
	assert.Equal(t, "char-1", payload["initiator"])
	assert.NotNil(t, payload["deadline_in"])
	assert.ElementsMatch(t, []string{"char-1", "char-2"}, payload["participants"])
}

func TestRoundWaitingPayload_OmitsInitiatorWhenEmpty(t *testing.T) {
	payload := roundWaitingPayload("resolve_round", messageTestEncounter(), "")

	_, ok := payload["initiator"]
	assert.False(t, ok)
}

func TestRoundWaitingPayload_OmitsDeadlineInWhenNoDeadline(t *testing.T) {
	encounter := messageTestEncounter()
	encounter.Deadline = nil

	payload := roundWaitingPayload("resolve_round", encounter, "")

	_, ok := payload["deadline_in"]
	assert.False(t, ok)
}

func TestRoundResolvedPayload_DuplicatesEndStateAcrossLegacyFields(t *testing.T) {
	encounter := messageTestEncounter()
	outcome := model.NewRoundOutcome(2)
	outcome.EndState = "victory"
	outcome.Hits["char-1"] = 3

	payload := roundResolvedPayload("resolve_round", encounter, outcome)

	assert.Equal(t, "victory", payload["end"])
	assert.Equal(t, "victory", payload["result"])
	assert.Equal(t, "victory", payload["round_result"])

	hits, ok := payload["hits"].(map[string]int)
	assert.True(t, ok)
	assert.Equal(t, 3, hits["Avery"])
}

func TestRoundResolvedPayload_TranslatesDefeatedAndFledEndStateToDisplayName(t *testing.T) {
	encounter := messageTestEncounter()

	defeated := model.NewRoundOutcome(2)
	defeated.EndState = "char-1_defeated"
	payload := roundResolvedPayload("resolve_round", encounter, defeated)
	assert.Equal(t, "Avery_defeated", payload["end"])
	assert.Equal(t, "Avery_defeated", payload["result"])
	assert.Equal(t, "Avery_defeated", payload["round_result"])

	fled := model.NewRoundOutcome(2)
	fled.EndState = "char-2_fled"
	payload = roundResolvedPayload("resolve_round", encounter, fled)
	assert.Equal(t, "Brynn_fled", payload["end"])
}

func TestTranslateEndState_FallsBackToIDWhenDisplayNameMissing(t *testing.T) {
	encounter := messageTestEncounter()

	assert.Equal(t, "unknown-id_defeated", translateEndState(encounter, "unknown-id_defeated"))
	assert.Equal(t, "stalemate", translateEndState(encounter, "stalemate"))
}

func TestByDisplayName_FallsBackToIDWhenNameMissing(t *testing.T) {
	encounter := messageTestEncounter()

	out := byDisplayName(encounter, map[string]int{"char-1": 1, "unknown-id": 2})

	assert.Equal(t, 1, out["Avery"])
	assert.Equal(t, 2, out["unknown-id"])
}

func TestRoundWaitingPayload_IncludesCurrentTimeAndNilGarrisonWhenNoneStationed(t *testing.T) {
	payload := roundWaitingPayload("create_encounter", messageTestEncounter(), "")

	assert.NotNil(t, payload["current_time"])
	assert.Nil(t, payload["garrison"])
}

func TestRoundWaitingPayload_IncludesGarrisonWhenStationed(t *testing.T) {
	encounter := messageTestEncounter()
	encounter.Participants["garrison-1"] = model.Combatant{ID: "garrison-1", Kind: model.CombatantGarrison}

	payload := roundWaitingPayload("create_encounter", encounter, "")

	garrison, ok := payload["garrison"].(model.Combatant)
	require.True(t, ok)
	assert.Equal(t, "garrison-1", garrison.ID)
}

func TestShipDestroyedPayload_IncludesTimestamp(t *testing.T) {
	now := time.Now()
	payload := shipDestroyedPayload("finalize", model.ShipRow{ID: "ship-1"}, "Stardust Runner", "character", "Avery", "sector-1", "encounter-1", true, now)

	assert.Equal(t, now, payload["timestamp"])
}

func TestSalvageCreatedPayload_IncludesTimestampFromSalvage(t *testing.T) {
	createdAt := time.Now().Add(-time.Minute)
	payload := salvageCreatedPayload("finalize", "sector-1", model.Salvage{ID: "salvage-1", CreatedAt: createdAt})

	assert.Equal(t, createdAt, payload["timestamp"])
}

func TestSectorUpdatePayload_CarriesSnapshotFields(t *testing.T) {
	snapshot := SectorSnapshot{
		SectorID: "sector-1",
		Region:   "frontier",
		Ships:    []model.ShipRow{{ID: "ship-1"}},
		Players:  []string{"char-1"},
	}

	payload := sectorUpdatePayload("finalize", snapshot)

	assert.Equal(t, "sector-1", payload["sector_id"])
	assert.Equal(t, "frontier", payload["region"])
	assert.Equal(t, []model.ShipRow{{ID: "ship-1"}}, payload["ships"])
	assert.Equal(t, []string{"char-1"}, payload["players"])
}

func TestCombatEndedPayload_CarriesSalvageLogsAndShip(t *testing.T) {
	encounter := messageTestEncounter()
	encounter.Log = []model.RoundOutcome{model.NewRoundOutcome(1)}
	outcome := model.NewRoundOutcome(2)
	outcome.EndState = "fled"

	salvage := []model.Salvage{{ID: "salvage-1"}}

	payload := combatEndedPayload("resolve_round", encounter, outcome, salvage, map[string]interface{}{"ship_id": "ship-1"})

	assert.Equal(t, salvage, payload["salvage"])
	assert.Equal(t, encounter.Log, payload["logs"])
	assert.Equal(t, map[string]interface{}{"ship_id": "ship-1"}, payload["ship"])
}
