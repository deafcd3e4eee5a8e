package data

import (
	"context"
	"fmt"

	"voidreach_combat/pkg/db"
	"voidreach_combat/pkg/logger"

	"voidreach_combat/internal/apperrors"
	"voidreach_combat/internal/model"
)

// ShipTemplateProxy :
// Implements the ship template catalog external interface on top
// of the `ship_templates` table. This is a fresh proxy rather than an
// adaptation of the legacy ship catalog: the column set it reads
// is entirely different (combat-relevant fields only), but the
// query shape — a single `QueryDesc` against a static table keyed
// by `ship_type` — follows the rest of this package.
type ShipTemplateProxy struct {
	commonProxy
}

// NewShipTemplateProxy :
// Creates a template proxy wrapping the input DB and logger.
func NewShipTemplateProxy(dbase *db.DB, log logger.Logger) ShipTemplateProxy {
	return ShipTemplateProxy{newCommonProxy(dbase, log)}
}

// Template :
// Fetches the catalog entry for a single ship type.
//
// The `shipType` identifies the template to load.
//
// Returns a `DataIntegrity`-kind error if no such template exists.
func (p ShipTemplateProxy) Template(ctx context.Context, shipType string) (model.ShipTemplate, error) {
	query := db.QueryDesc{
		Props: []string{
			"ship_type",
			"display_name",
			"cargo_holds",
			"max_shields",
			"max_fighters",
			"turns_per_warp",
			"purchase_price",
		},
		Table:   "ship_templates",
		Filters: []db.Filter{{Key: "ship_type", Values: []interface{}{shipType}}},
	}

	rows, err := p.dbase.FetchFromDB(query)
	if err != nil {
		return model.ShipTemplate{}, apperrors.ErrTransientStorage("failed to query ship template", err)
	}
	defer rows.Close()

	if rows.Err != nil {
		return model.ShipTemplate{}, apperrors.ErrTransientStorage("failed to query ship template", rows.Err)
	}

	var tpl model.ShipTemplate
	found := false

	for rows.Next() {
		if err := rows.Scan(
			&tpl.ShipType,
			&tpl.DisplayName,
			&tpl.CargoHolds,
			&tpl.MaxShields,
			&tpl.MaxFighters,
			&tpl.TurnsPerWarp,
			&tpl.PurchasePrice,
		); err != nil {
			return model.ShipTemplate{}, apperrors.ErrDataIntegrity("failed to scan ship template", err)
		}
		found = true
	}

	if !found {
		return model.ShipTemplate{}, apperrors.ErrDataIntegrity(fmt.Sprintf("no template registered for ship type %q", shipType), nil)
	}

	return tpl, nil
}
