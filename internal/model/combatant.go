package model

// CombatantKind :
// Closed tag distinguishing the two flavors of combatant that
// can take part in an encounter. A combatant is either piloted
// by a character or is a stationed garrison.
type CombatantKind string

// The two kinds of combatant recognized by the resolver.
const (
	CombatantCharacter CombatantKind = "character"
	CombatantGarrison  CombatantKind = "garrison"
)

// PlayerType :
// Distinguishes a human-piloted ship from a ship registered to
// a corporation pseudo-character.
type PlayerType string

// The two player types a character combatant can represent.
const (
	PlayerHuman           PlayerType = "human"
	PlayerCorporationShip PlayerType = "corporation_ship"
)

// GarrisonMode :
// Posture assigned to a garrison, driving its auto-actions.
type GarrisonMode string

// The three garrison postures.
const (
	GarrisonOffensive GarrisonMode = "offensive"
	GarrisonDefensive GarrisonMode = "defensive"
	GarrisonToll      GarrisonMode = "toll"
)

// Combatant :
// Represents a single participant in an encounter, either a
// character-piloted ship or a garrison. The resolver operates
// exclusively on this tagged-variant shape so that it never
// needs to know where the underlying row came from.
//
// The `ID` uniquely identifies the combatant within the scope
// of a single encounter. Garrison ids follow the convention
// `garrison:<sector>:<owner>`.
//
// The `Fighters`/`Shields` are the live values used by the
// resolver; `MaxFighters`/`MaxShields` bound the between-round
// shield regeneration performed by the encounter lifecycle.
type Combatant struct {
	ID          string        `json:"id"`
	Kind        CombatantKind `json:"kind"`
	DisplayName string        `json:"display_name"`

	Fighters    int `json:"fighters"`
	Shields     int `json:"shields"`
	MaxFighters int `json:"max_fighters"`
	MaxShields  int `json:"max_shields"`

	IsEscapePod bool   `json:"is_escape_pod"`
	OwnerID     string `json:"owner_character_id,omitempty"`
	ShipType    string `json:"ship_type,omitempty"`

	TurnsPerWarp int `json:"turns_per_warp"`

	// Character-specific metadata, empty for garrisons.
	ShipID          string     `json:"ship_id,omitempty"`
	CorporationID   string     `json:"corporation_id,omitempty"`
	PlayerType      PlayerType `json:"player_type,omitempty"`

	// Garrison-specific metadata, empty for characters.
	Mode           GarrisonMode `json:"mode,omitempty"`
	TollAmount     int          `json:"toll_amount,omitempty"`
	TollBalance    int          `json:"toll_balance,omitempty"`
	OwnerCorpID    string       `json:"owner_corporation_id,omitempty"`
}

// IsGarrison :
// Convenience predicate mirroring the `Kind` tag.
//
// Returns `true` if this combatant is a garrison.
func (c Combatant) IsGarrison() bool {
	return c.Kind == CombatantGarrison
}

// IsCorporationOwned :
// Used by finalization to decide between the escape-pod and the
// deferred-deletion path for a defeated character combatant.
//
// Returns `true` if this combatant's ship belongs to a corporation
// pseudo-character rather than a human player.
func (c Combatant) IsCorporationOwned() bool {
	return c.PlayerType == PlayerCorporationShip
}
