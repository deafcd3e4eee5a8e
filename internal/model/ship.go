package model

import "time"

// ShipTemplate :
// The static, catalog-level description of a ship type: the
// values the participant loader (C2) falls back to whenever the
// corresponding field on a `ShipRow` is null, and the source of
// truth for `max_fighters`/`max_shields`/`turns_per_warp`.
type ShipTemplate struct {
	ShipType      string `json:"ship_type"`
	DisplayName   string `json:"display_name"`
	CargoHolds    int    `json:"cargo_holds"`
	MaxShields    int    `json:"max_shields"`
	MaxFighters   int    `json:"max_fighters"`
	TurnsPerWarp  int    `json:"turns_per_warp"`
	PurchasePrice int    `json:"purchase_price"`
}

// ScrapYield :
// Computes the scrap units a destroyed ship of this template
// yields as salvage, per the finalization rules (C6).
//
// Returns `max(5, floor(purchase_price / 1000))`.
func (t ShipTemplate) ScrapYield() int {
	yield := t.PurchasePrice / 1000
	if yield < 5 {
		yield = 5
	}

	return yield
}

// ShipRow :
// The persisted ship backing a character combatant. Current
// values fall back to the template whenever unset (represented
// here as a negative sentinel rather than nullable pointers, to
// keep arithmetic straightforward in the participant loader).
type ShipRow struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	OwnerCharacterID   string `json:"owner_character_id"`
	OwnerCorporationID string `json:"owner_corporation_id,omitempty"`
	ShipType           string `json:"ship_type"`
	SectorID           string `json:"sector_id"`
	InHyperspace       bool   `json:"in_hyperspace"`

	Fighters int `json:"fighters"`
	Shields  int `json:"shields"`
	Cargo    map[string]int `json:"cargo"`
	Credits  int `json:"credits"`

	IsEscapePod bool `json:"is_escape_pod"`
}

// GarrisonRow :
// The persisted garrison stationed in a sector.
type GarrisonRow struct {
	SectorID           string       `json:"sector_id"`
	OwnerCharacterID   string       `json:"owner_character_id"`
	OwnerCorporationID string       `json:"owner_corporation_id,omitempty"`
	Mode               GarrisonMode `json:"mode"`
	Fighters           int          `json:"fighters"`
	TollAmount         int          `json:"toll_amount"`
	TollBalance        int          `json:"toll_balance"`
	DeployedAt         time.Time    `json:"deployed_at"`
}

// CorporationMembership :
// Backs the `corp_member` visibility source and the garrison and
// corporation-ship ownership rules used by C2/C4/C7.
type CorporationMembership struct {
	CorporationID string     `json:"corporation_id"`
	CharacterID   string     `json:"character_id"`
	LeftAt        *time.Time `json:"left_at,omitempty"`
}

// Active :
// Returns `true` if this membership has not been terminated.
func (m CorporationMembership) Active() bool {
	return m.LeftAt == nil
}
