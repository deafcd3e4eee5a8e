package model

import "time"

// EncounterContext :
// Immutable-once-created bag of metadata describing why and how
// an encounter came to exist. Carried alongside the encounter so
// that finalization and auditing can explain a round's history
// without re-deriving it from surrounding tables.
//
// The `TollRegistry` records, per owner character id, whether the
// toll has been paid. It is consulted by the garrison auto-action
// logic (C4) for `toll`-mode garrisons. The encounter lifecycle
// creates it empty and does not reset it between rounds.
type EncounterContext struct {
	InitiatorID  string            `json:"initiator_id"`
	CreatedAt    time.Time         `json:"created_at"`
	Reason       string            `json:"reason"`
	TollRegistry map[string]bool   `json:"toll_registry"`
}

// Encounter :
// One combat instance confined to a single sector, spanning one
// or more rounds. At most one non-ended encounter may exist for
// a given sector at any time; this invariant is enforced by the
// encounter lifecycle (C5), not by this type.
//
// The `BaseSeed` is derived once at creation time from the first
// 48 bits of the encounter id and never changes; every round's
// RNG stream is reconstructible from `(BaseSeed, Round)`.
//
// The `Participants`/`PendingActions` maps are both keyed by
// combatant id. `PendingActions` only ever holds actions for the
// round currently in `AWAITING_ACTIONS`; it is cleared once the
// round resolves.
type Encounter struct {
	ID       string `json:"id"`
	SectorID string `json:"sector_id"`

	Round    int        `json:"round"`
	Deadline *time.Time `json:"deadline,omitempty"`

	Participants   map[string]Combatant    `json:"participants"`
	PendingActions map[string]RoundAction  `json:"pending_actions"`

	Log []RoundOutcome `json:"log"`

	BaseSeed uint64           `json:"base_seed"`
	Context  EncounterContext `json:"context"`

	AwaitingResolution bool `json:"awaiting_resolution"`
	Ended              bool `json:"ended"`
	EndState           string `json:"end_state,omitempty"`
}

// LiveCharacterCombatants :
// Convenience accessor returning the ids of all character
// combatants that are still active (non-zero fighters, not an
// escape pod) and thus expected to submit an action this round.
//
// Returns the ids in no particular order; callers that need a
// stable order should sort the result.
func (e Encounter) LiveCharacterCombatants() []string {
	ids := make([]string, 0, len(e.Participants))

	for id, c := range e.Participants {
		if c.Kind != CombatantCharacter {
			continue
		}
		if c.Fighters <= 0 || c.IsEscapePod {
			continue
		}

		ids = append(ids, id)
	}

	return ids
}

// AllLiveCharactersSubmitted :
// Used by the submission handler to decide whether a round can
// resolve immediately instead of waiting for the deadline.
//
// Returns `true` if every live character combatant has a pending
// action recorded for the current round.
func (e Encounter) AllLiveCharactersSubmitted() bool {
	for _, id := range e.LiveCharacterCombatants() {
		if _, ok := e.PendingActions[id]; !ok {
			return false
		}
	}

	return true
}
