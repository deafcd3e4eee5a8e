package data

import (
	"encoding/json"

	"voidreach_combat/internal/apperrors"
	"voidreach_combat/internal/model"
	"voidreach_combat/pkg/db"
	"voidreach_combat/pkg/logger"
)

// ShipProxy :
// Grants access to the `ships` table: the rows backing every
// character-piloted combatant loaded by the participant loader
// (C2) and mutated by finalization (C6).
type ShipProxy struct {
	commonProxy
}

// NewShipProxy :
// Creates a ship proxy wrapping the input DB and logger.
func NewShipProxy(dbase *db.DB, log logger.Logger) ShipProxy {
	return ShipProxy{newCommonProxy(dbase, log)}
}

// FetchInSector :
// Loads every ship present in a sector, in hyperspace or not —
// filtering by "in the sector and not in hyperspace" is the
// participant loader's responsibility, not this proxy's.
//
// The `sectorID` identifies the sector to query.
func (p ShipProxy) FetchInSector(sectorID string) ([]model.ShipRow, error) {
	query := db.QueryDesc{
		Props: []string{
			"id", "name", "owner_character_id", "owner_corporation_id", "ship_type",
			"sector_id", "in_hyperspace", "fighters", "shields", "cargo",
			"credits", "is_escape_pod",
		},
		Table:   "ships",
		Filters: []db.Filter{{Key: "sector_id", Values: []interface{}{sectorID}}},
	}

	rows, err := p.dbase.FetchFromDB(query)
	if err != nil {
		return nil, apperrors.ErrTransientStorage("failed to query ships in sector", err)
	}
	defer rows.Close()

	var out []model.ShipRow
	for rows.Next() {
		var s model.ShipRow
		var cargoRaw []byte

		if err := rows.Scan(
			&s.ID, &s.Name, &s.OwnerCharacterID, &s.OwnerCorporationID, &s.ShipType,
			&s.SectorID, &s.InHyperspace, &s.Fighters, &s.Shields, &cargoRaw,
			&s.Credits, &s.IsEscapePod,
		); err != nil {
			return nil, apperrors.ErrDataIntegrity("failed to scan ship row", err)
		}

		if len(cargoRaw) > 0 {
			if err := json.Unmarshal(cargoRaw, &s.Cargo); err != nil {
				return nil, apperrors.ErrDataIntegrity("failed to decode ship cargo", err)
			}
		}

		out = append(out, s)
	}

	return out, nil
}

// FetchByID :
// Loads a single ship row by id, used by finalization to read a
// defeated combatant's real cargo and credits before conversion.
func (p ShipProxy) FetchByID(shipID string) (model.ShipRow, error) {
	query := db.QueryDesc{
		Props: []string{
			"id", "name", "owner_character_id", "owner_corporation_id", "ship_type",
			"sector_id", "in_hyperspace", "fighters", "shields", "cargo",
			"credits", "is_escape_pod",
		},
		Table:   "ships",
		Filters: []db.Filter{{Key: "id", Values: []interface{}{shipID}}},
	}

	rows, err := p.dbase.FetchFromDB(query)
	if err != nil {
		return model.ShipRow{}, apperrors.ErrTransientStorage("failed to query ship", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s model.ShipRow
		var cargoRaw []byte

		if err := rows.Scan(
			&s.ID, &s.Name, &s.OwnerCharacterID, &s.OwnerCorporationID, &s.ShipType,
			&s.SectorID, &s.InHyperspace, &s.Fighters, &s.Shields, &cargoRaw,
			&s.Credits, &s.IsEscapePod,
		); err != nil {
			return model.ShipRow{}, apperrors.ErrDataIntegrity("failed to scan ship row", err)
		}

		if len(cargoRaw) > 0 {
			if err := json.Unmarshal(cargoRaw, &s.Cargo); err != nil {
				return model.ShipRow{}, apperrors.ErrDataIntegrity("failed to decode ship cargo", err)
			}
		}

		return s, nil
	}

	return model.ShipRow{}, apperrors.ErrDataIntegrity("ship not found", nil)
}

// Save :
// Persists the full row for a single ship. Used by finalization for
// the escape-pod conversion, for zeroing a defeated corporation
// ship, and for relocating a successful fleer.
func (p ShipProxy) Save(ship model.ShipRow) error {
	cargo, err := json.Marshal(ship.Cargo)
	if err != nil {
		return apperrors.ErrDataIntegrity("failed to encode ship cargo", err)
	}

	req := db.InsertReq{
		Script: "update_ship",
		Args: []interface{}{
			ship.ID, ship.Name, ship.OwnerCharacterID, ship.OwnerCorporationID, ship.ShipType,
			ship.SectorID, ship.InHyperspace, ship.Fighters, ship.Shields,
			string(cargo), ship.Credits, ship.IsEscapePod,
		},
		SkipReturn: true,
	}

	if err := p.dbase.InsertToDB(req); err != nil {
		return apperrors.ErrTransientStorage("failed to persist ship", err)
	}

	return nil
}

// Delete :
// Removes a ship row outright. Only called by the deferred
// deletion step of finalization, after `combat.ended` has already
// been emitted.
func (p ShipProxy) Delete(shipID string) error {
	req := db.InsertReq{
		Script:     "delete_ship",
		Args:       []interface{}{shipID},
		SkipReturn: true,
	}

	if err := p.dbase.InsertToDB(req); err != nil {
		return apperrors.ErrTransientStorage("failed to delete ship", err)
	}

	return nil
}

// ToEscapePod :
// Converts a defeated player-owned ship into an escape pod in
// place, keeping its id. The character keeps piloting the same
// ship id post-combat — only its capabilities change.
func ToEscapePod(ship model.ShipRow) model.ShipRow {
	ship.ShipType = "escape_pod"
	ship.Fighters = 0
	ship.Shields = 0
	ship.Cargo = map[string]int{}
	ship.Credits = 0
	ship.IsEscapePod = true

	return ship
}
