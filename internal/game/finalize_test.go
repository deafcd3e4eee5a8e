package game

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"voidreach_combat/internal/model"
)

func TestSalvageFromDefeatedShip_CopiesCargoAndScrapYield(t *testing.T) {
	now := time.Now()
	ship := model.ShipRow{ID: "ship-1", Name: "Stardust Runner", ShipType: "freighter", Credits: 250, Cargo: map[string]int{"ore": 12}}
	template := model.ShipTemplate{PurchasePrice: 50000}

	salvage := salvageFromDefeatedShip("ship-1", ship, template, now, time.Hour, "salvage-1")

	assert.Equal(t, "salvage-1", salvage.ID)
	assert.Equal(t, now.Add(time.Hour), salvage.ExpiresAt)
	assert.Equal(t, 50, salvage.Scrap)
	assert.Equal(t, 250, salvage.Credits)
	assert.Equal(t, map[string]int{"ore": 12}, salvage.Cargo)
	assert.Equal(t, "Stardust Runner", salvage.FromShipName)
	assert.Equal(t, "freighter", salvage.FromShipType)
}

func TestSalvageFromDefeatedShip_CargoCopyIsIndependent(t *testing.T) {
	ship := model.ShipRow{Cargo: map[string]int{"ore": 1}}
	salvage := salvageFromDefeatedShip("s", ship, model.ShipTemplate{}, time.Now(), time.Hour, "id")

	salvage.Cargo["ore"] = 99

	assert.Equal(t, 1, ship.Cargo["ore"])
}

func TestConvertToEscapePod_StripsCombatCapability(t *testing.T) {
	ship := model.ShipRow{ID: "ship-1", ShipType: "fighter", Fighters: 5, Shields: 10, Credits: 100, Cargo: map[string]int{"ore": 3}}

	pod := convertToEscapePod(ship)

	assert.Equal(t, "ship-1", pod.ID)
	assert.Equal(t, "escape_pod", pod.ShipType)
	assert.Equal(t, 0, pod.Fighters)
	assert.Equal(t, 0, pod.Shields)
	assert.Equal(t, 0, pod.Credits)
	assert.Empty(t, pod.Cargo)
	assert.True(t, pod.IsEscapePod)
}

func TestZeroOutCorpShip_ZeroesCombatStatsAndQueuesDeletion(t *testing.T) {
	ship := model.ShipRow{ID: "ship-1", Fighters: 5, Shields: 10}

	zeroed, deferred := zeroOutCorpShip(ship, "pseudo-1")

	assert.Equal(t, 0, zeroed.Fighters)
	assert.Equal(t, 0, zeroed.Shields)
	assert.False(t, zeroed.IsEscapePod)
	assert.Equal(t, deferredShipDeletion{ShipID: "ship-1", PseudoCharacterID: "pseudo-1"}, deferred)
}

func TestRunDeferredDeletions_RunsEveryDeletionEvenOnEarlyError(t *testing.T) {
	deletions := []deferredShipDeletion{
		{ShipID: "ship-1", PseudoCharacterID: "pseudo-1"},
		{ShipID: "ship-2", PseudoCharacterID: "pseudo-2"},
	}

	var clearedFor, deletedCharFor, deletedShipFor []string

	err := runDeferredDeletions(
		deletions,
		func(id string) error { clearedFor = append(clearedFor, id); return errors.New("first clear failed") },
		func(id string) error { deletedCharFor = append(deletedCharFor, id); return nil },
		func(id string) error { deletedShipFor = append(deletedShipFor, id); return nil },
	)

	assert.Error(t, err)
	assert.Equal(t, []string{"pseudo-1", "pseudo-2"}, clearedFor)
	assert.Equal(t, []string{"pseudo-1", "pseudo-2"}, deletedCharFor)
	assert.Equal(t, []string{"ship-1", "ship-2"}, deletedShipFor)
}

func TestRunDeferredDeletions_NoErrorWhenEverythingSucceeds(t *testing.T) {
	err := runDeferredDeletions(
		[]deferredShipDeletion{{ShipID: "ship-1", PseudoCharacterID: "pseudo-1"}},
		func(string) error { return nil },
		func(string) error { return nil },
		func(string) error { return nil },
	)

	assert.NoError(t, err)
}
