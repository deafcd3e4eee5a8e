package game

import (
	"time"

	"voidreach_combat/internal/data"
	"voidreach_combat/internal/model"
)

// salvageFromDefeatedShip :
// Step 1 of finalization (C6): builds the salvage entry left
// behind by a defeated combatant's ship, carrying over its
// remaining cargo and credits plus a scrap yield derived from the
// ship's template.
//
// The `ship` is the defeated combatant's ship row, pre-conversion.
//
// The `template` supplies the scrap-yield formula's purchase price.
//
// The `now` stamps creation and drives the TTL-based expiry.
//
// Returns the salvage entry to append to the sector's list.
func salvageFromDefeatedShip(shipID string, ship model.ShipRow, template model.ShipTemplate, now time.Time, ttl time.Duration, salvageID string) model.Salvage {
	cargo := make(map[string]int, len(ship.Cargo))
	for k, v := range ship.Cargo {
		cargo[k] = v
	}

	return model.Salvage{
		ID:           salvageID,
		CreatedAt:    now,
		ExpiresAt:    now.Add(ttl),
		Cargo:        cargo,
		Scrap:        template.ScrapYield(),
		Credits:      ship.Credits,
		FromShipName: ship.Name,
		FromShipType: ship.ShipType,
	}
}

// convertToEscapePod :
// Step 2 of finalization: a defeated player-owned ship is
// converted into an escape pod in place, keeping its id so the
// character keeps piloting the same hull post-combat.
//
// The `ship` is the defeated combatant's ship row.
//
// Returns the ship row as it should be persisted.
func convertToEscapePod(ship model.ShipRow) model.ShipRow {
	return data.ToEscapePod(ship)
}
