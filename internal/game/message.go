package game

import (
	"strings"
	"time"

	"voidreach_combat/internal/model"
	"voidreach_combat/pkg/duration"
)

// byDisplayName :
// Re-keys an id-keyed map by combatant display name, to match the
// legacy payload shape clients expect for `actions`, `hits`, and
// similar round-resolution fields. The resolver and persistence
// layers never use display names internally; only this boundary
// does.
func byDisplayName(encounter model.Encounter, byID map[string]int) map[string]int {
	out := make(map[string]int, len(byID))
	for id, v := range byID {
		out[displayNameOf(encounter, id)] = v
	}
	return out
}

func byDisplayNameBool(encounter model.Encounter, byID map[string]bool) map[string]bool {
	out := make(map[string]bool, len(byID))
	for id, v := range byID {
		out[displayNameOf(encounter, id)] = v
	}
	return out
}

func byDisplayNameAction(encounter model.Encounter, byID map[string]model.RoundAction) map[string]interface{} {
	out := make(map[string]interface{}, len(byID))
	for id, v := range byID {
		out[displayNameOf(encounter, id)] = v
	}
	return out
}

func displayNameOf(encounter model.Encounter, id string) string {
	if c, ok := encounter.Participants[id]; ok && c.DisplayName != "" {
		return c.DisplayName
	}
	return id
}

// endStateSuffixes :
// The resolver's end-state labels that embed a combatant id as their
// prefix; every other label (`stalemate`, `victory`, `mutual_defeat`)
// stands alone.
var endStateSuffixes = []string{"_defeated", "_fled"}

// translateEndState :
// Re-keys the resolver's `<combatant_id>_defeated`/`_fled` end-state
// labels by combatant display name, the same way `byDisplayName`
// re-keys the per-combatant maps. The resolver itself stays ignorant
// of display names; this is the payload boundary where the swap
// happens.
func translateEndState(encounter model.Encounter, endState string) string {
	for _, suffix := range endStateSuffixes {
		if id := strings.TrimSuffix(endState, suffix); id != endState {
			return displayNameOf(encounter, id) + suffix
		}
	}
	return endState
}

// roundWaitingPayload :
// Builds the payload for `combat.round_waiting`, emitted on
// creation, after every non-terminal round, and — addressed to a
// single character only — on auto-join.
func roundWaitingPayload(source string, encounter model.Encounter, initiator string) map[string]interface{} {
	participants := make([]string, 0, len(encounter.Participants))
	for id := range encounter.Participants {
		participants = append(participants, id)
	}

	payload := map[string]interface{}{
		"source":       source,
		"combat_id":    encounter.ID,
		"sector":       map[string]interface{}{"id": encounter.SectorID},
		"round":        encounter.Round,
		"deadline":     encounter.Deadline,
		"current_time": time.Now(),
		"participants": participants,
		"garrison":     garrisonOf(encounter),
	}

	if initiator != "" {
		payload["initiator"] = initiator
	}

	if encounter.Deadline != nil {
		payload["deadline_in"] = duration.NewDuration(time.Until(*encounter.Deadline))
	}

	return payload
}

// garrisonOf :
// Finds the single garrison combatant present in an encounter, if
// any, for the `garrison` field of `combat.round_waiting`. At most
// one garrison can ever be stationed in a sector, so the first one
// found is the only one.
//
// Returns `nil` if the encounter has no garrison combatant.
func garrisonOf(encounter model.Encounter) interface{} {
	for _, c := range encounter.Participants {
		if c.IsGarrison() {
			return c
		}
	}
	return nil
}

// roundResolvedPayload :
// Builds the payload for `combat.round_resolved`. Per the open
// question about legacy duplicate fields, `end`, `result` and
// `round_result` are all populated identically until clients are
// confirmed to consume only one of them.
func roundResolvedPayload(source string, encounter model.Encounter, outcome model.RoundOutcome) map[string]interface{} {
	payload := roundWaitingPayload(source, encounter, "")

	payload["hits"] = byDisplayName(encounter, outcome.Hits)
	payload["offensive_losses"] = byDisplayName(encounter, outcome.OffensiveLosses)
	payload["defensive_losses"] = byDisplayName(encounter, outcome.DefensiveLosses)
	payload["shield_loss"] = byDisplayName(encounter, outcome.ShieldLoss)
	payload["fighters_remaining"] = byDisplayName(encounter, outcome.FightersRemaining)
	payload["shields_remaining"] = byDisplayName(encounter, outcome.ShieldsRemaining)
	payload["flee_results"] = byDisplayNameBool(encounter, outcome.FleeResults)
	payload["actions"] = byDisplayNameAction(encounter, outcome.EffectiveActions)

	endState := translateEndState(encounter, outcome.EndState)
	payload["end"] = endState
	payload["result"] = endState
	payload["round_result"] = endState

	return payload
}

// combatEndedPayload :
// Builds the personalized `combat.ended` payload for a single
// viewer (C8's special case): everything `combat.round_resolved`
// carries, plus the salvage list, the round log, and this viewer's
// own post-combat ship snapshot so that no viewer ever observes
// another viewer's escape-pod state.
func combatEndedPayload(source string, encounter model.Encounter, outcome model.RoundOutcome, salvage []model.Salvage, viewerShip interface{}) map[string]interface{} {
	payload := roundResolvedPayload(source, encounter, outcome)

	payload["salvage"] = salvage
	payload["logs"] = encounter.Log
	payload["ship"] = viewerShip

	return payload
}

// shipDestroyedPayload :
// Builds the payload for `ship.destroyed`.
func shipDestroyedPayload(source string, ship model.ShipRow, shipName, playerType, playerName string, sectorID, combatID string, salvageCreated bool, now time.Time) map[string]interface{} {
	return map[string]interface{}{
		"source":          source,
		"ship_id":         ship.ID,
		"ship_type":       ship.ShipType,
		"ship_name":       shipName,
		"player_type":     playerType,
		"player_name":     playerName,
		"sector":          map[string]interface{}{"id": sectorID},
		"combat_id":       combatID,
		"salvage_created": salvageCreated,
		"timestamp":       now,
	}
}

// salvageCreatedPayload :
// Builds the payload for `salvage.created`.
func salvageCreatedPayload(source string, sectorID string, s model.Salvage) map[string]interface{} {
	return map[string]interface{}{
		"source":         source,
		"salvage_id":     s.ID,
		"sector":         map[string]interface{}{"id": sectorID},
		"cargo":          s.Cargo,
		"scrap":          s.Scrap,
		"credits":        s.Credits,
		"from_ship_type": s.FromShipType,
		"from_ship_name": s.FromShipName,
		"timestamp":      s.CreatedAt,
	}
}

// sectorUpdatePayload :
// Builds the payload for `sector.update`: the C9 snapshot itself,
// wrapped with the event envelope's `source` field to match every
// other payload builder in this file.
func sectorUpdatePayload(source string, snapshot SectorSnapshot) map[string]interface{} {
	return map[string]interface{}{
		"source":        source,
		"sector_id":     snapshot.SectorID,
		"region":        snapshot.Region,
		"ships":         snapshot.Ships,
		"garrisons":     snapshot.Garrisons,
		"salvage":       snapshot.Salvage,
		"players":       snapshot.Players,
		"unowned_ships": snapshot.Unowned,
		"port_summary":  snapshot.PortSummary,
	}
}
