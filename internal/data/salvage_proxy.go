package data

import (
	"encoding/json"
	"time"

	"voidreach_combat/internal/apperrors"
	"voidreach_combat/internal/model"
	"voidreach_combat/pkg/db"
	"voidreach_combat/pkg/logger"
)

// SalvageProxy :
// Grants access to the per-sector salvage list created by
// finalization (C6) and surfaced in the sector snapshot (C9).
type SalvageProxy struct {
	commonProxy
}

// NewSalvageProxy :
// Creates a salvage proxy wrapping the input DB and logger.
func NewSalvageProxy(dbase *db.DB, log logger.Logger) SalvageProxy {
	return SalvageProxy{newCommonProxy(dbase, log)}
}

// FetchInSector :
// Loads every non-expired, unclaimed salvage entry for a sector.
// Expired entries are pruned as a side effect rather than merely
// filtered out, keeping the table from growing without bound.
//
// The `now` is the reference time used to decide expiry.
func (p SalvageProxy) FetchInSector(sectorID string, now time.Time) ([]model.Salvage, error) {
	query := db.QueryDesc{
		Props:   []string{"id", "created_at", "expires_at", "cargo", "scrap", "credits", "claimed", "from_ship_name", "from_ship_type"},
		Table:   "salvage",
		Filters: []db.Filter{{Key: "sector_id", Values: []interface{}{sectorID}}},
	}

	rows, err := p.dbase.FetchFromDB(query)
	if err != nil {
		return nil, apperrors.ErrTransientStorage("failed to query salvage", err)
	}
	defer rows.Close()

	var live []model.Salvage
	var expired []string

	for rows.Next() {
		var s model.Salvage
		var cargoRaw []byte

		if err := rows.Scan(&s.ID, &s.CreatedAt, &s.ExpiresAt, &cargoRaw, &s.Scrap, &s.Credits, &s.Claimed, &s.FromShipName, &s.FromShipType); err != nil {
			return nil, apperrors.ErrDataIntegrity("failed to scan salvage row", err)
		}

		if len(cargoRaw) > 0 {
			if err := json.Unmarshal(cargoRaw, &s.Cargo); err != nil {
				return nil, apperrors.ErrDataIntegrity("failed to decode salvage cargo", err)
			}
		}

		if s.Claimed || s.Expired(now) {
			expired = append(expired, s.ID)
			continue
		}

		live = append(live, s)
	}

	for _, id := range expired {
		if err := p.delete(id); err != nil {
			p.log.Trace(logger.Warning, "data", "failed to prune expired salvage "+id+": "+err.Error())
		}
	}

	return live, nil
}

// Append :
// Inserts one new salvage entry, as created by finalization for a
// single defeated combatant. The sector's expired and claimed
// entries are pruned first.
func (p SalvageProxy) Append(sectorID string, s model.Salvage) error {
	if _, err := p.FetchInSector(sectorID, s.CreatedAt); err != nil {
		p.log.Trace(logger.Warning, "data", "failed to prune salvage before append: "+err.Error())
	}

	cargo, err := json.Marshal(s.Cargo)
	if err != nil {
		return apperrors.ErrDataIntegrity("failed to encode salvage cargo", err)
	}

	req := db.InsertReq{
		Script: "create_salvage",
		Args: []interface{}{
			s.ID, sectorID, s.CreatedAt, s.ExpiresAt, string(cargo),
			s.Scrap, s.Credits, s.FromShipName, s.FromShipType,
		},
		SkipReturn: true,
	}

	if err := p.dbase.InsertToDB(req); err != nil {
		return apperrors.ErrTransientStorage("failed to persist salvage", err)
	}

	return nil
}

// delete :
// Removes a single salvage row, used by the pruning step of
// `FetchInSector`.
func (p SalvageProxy) delete(salvageID string) error {
	req := db.InsertReq{
		Script:     "delete_salvage",
		Args:       []interface{}{salvageID},
		SkipReturn: true,
	}

	return p.dbase.InsertToDB(req)
}
