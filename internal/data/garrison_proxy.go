package data

import (
	"voidreach_combat/internal/apperrors"
	"voidreach_combat/internal/model"
	"voidreach_combat/pkg/db"
	"voidreach_combat/pkg/logger"
)

// GarrisonProxy :
// Grants access to the `garrisons` table.
type GarrisonProxy struct {
	commonProxy
}

// NewGarrisonProxy :
// Creates a garrison proxy wrapping the input DB and logger.
func NewGarrisonProxy(dbase *db.DB, log logger.Logger) GarrisonProxy {
	return GarrisonProxy{newCommonProxy(dbase, log)}
}

// FetchInSector :
// Loads every garrison stationed in a sector, regardless of
// fighter count — the participant loader filters to `fighters>0`.
func (p GarrisonProxy) FetchInSector(sectorID string) ([]model.GarrisonRow, error) {
	query := db.QueryDesc{
		Props: []string{
			"sector_id", "owner_character_id", "owner_corporation_id", "mode",
			"fighters", "toll_amount", "toll_balance", "deployed_at",
		},
		Table:   "garrisons",
		Filters: []db.Filter{{Key: "sector_id", Values: []interface{}{sectorID}}},
	}

	rows, err := p.dbase.FetchFromDB(query)
	if err != nil {
		return nil, apperrors.ErrTransientStorage("failed to query garrisons in sector", err)
	}
	defer rows.Close()

	var out []model.GarrisonRow
	for rows.Next() {
		var g model.GarrisonRow
		if err := rows.Scan(
			&g.SectorID, &g.OwnerCharacterID, &g.OwnerCorporationID, &g.Mode,
			&g.Fighters, &g.TollAmount, &g.TollBalance, &g.DeployedAt,
		); err != nil {
			return nil, apperrors.ErrDataIntegrity("failed to scan garrison row", err)
		}

		out = append(out, g)
	}

	return out, nil
}

// Save :
// Persists the full row for a garrison, used for damage deltas
// applied by finalization.
func (p GarrisonProxy) Save(g model.GarrisonRow) error {
	req := db.InsertReq{
		Script: "update_garrison",
		Args: []interface{}{
			g.SectorID, g.OwnerCharacterID, g.OwnerCorporationID, g.Mode,
			g.Fighters, g.TollAmount, g.TollBalance,
		},
		SkipReturn: true,
	}

	if err := p.dbase.InsertToDB(req); err != nil {
		return apperrors.ErrTransientStorage("failed to persist garrison", err)
	}

	return nil
}

// Delete :
// Removes a garrison row once its fighters reach zero.
func (p GarrisonProxy) Delete(sectorID, ownerCharacterID string) error {
	req := db.InsertReq{
		Script:     "delete_garrison",
		Args:       []interface{}{sectorID, ownerCharacterID},
		SkipReturn: true,
	}

	if err := p.dbase.InsertToDB(req); err != nil {
		return apperrors.ErrTransientStorage("failed to delete garrison", err)
	}

	return nil
}
