package external

import (
	"context"

	"voidreach_combat/internal/model"
)

// MapService :
// Narrow contract onto the map/pathing subsystem (deliberately out
// of scope for this core). Used to validate garrison deployment
// and to pick a destination sector for an unspecified flee.
type MapService interface {
	AdjacentSectors(ctx context.Context, sectorID string) ([]string, error)
	IsFederationSpace(ctx context.Context, sectorID string) (bool, error)
}

// ShipTemplateCatalog :
// Narrow contract onto the ship-tech-tree/catalog subsystem. The
// combat core never reads the catalog tables directly; it always
// goes through this interface so that template resolution can be
// swapped or cached independently.
type ShipTemplateCatalog interface {
	Template(ctx context.Context, shipType string) (model.ShipTemplate, error)
}

// StatusSnapshot :
// The payload produced by the status builder for one character's
// ship, consumed verbatim as the viewer-specific `ship` field of a
// personalized `combat.ended` event and as the join response.
type StatusSnapshot struct {
	CharacterID string                 `json:"character_id"`
	ShipID      string                 `json:"ship_id"`
	Fields      map[string]interface{} `json:"fields"`
}

// StatusBuilder :
// Narrow contract onto the status-snapshot subsystem.
type StatusBuilder interface {
	Build(ctx context.Context, characterID string, ship model.ShipRow, template model.ShipTemplate) (StatusSnapshot, error)
}

// RateLimiter :
// Narrow contract onto the rate-limiting subsystem. `Check`
// returns a `RateLimitError`-kind error on exceedance; the core
// treats the limiter itself as opaque.
type RateLimiter interface {
	Check(ctx context.Context, characterID string, method string) error
}

// Authorizer :
// Narrow contract onto the authorization subsystem.
type Authorizer interface {
	Authorize(ctx context.Context, actorCharacterID string, shipID string, adminOverride bool) error
}
