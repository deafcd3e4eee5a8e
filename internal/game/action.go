package game

import (
	"voidreach_combat/internal/apperrors"
	"voidreach_combat/internal/model"
)

// ValidateSubmission :
// Determines whether a submitted round action is syntactically
// valid before it is ever handed to the resolver. By valid we only
// mean obvious errors that a caller could have avoided — whether
// the action makes sense given the rest of the encounter (e.g. a
// commit larger than current fighters) is normalized away by the
// resolver itself, not rejected here.
//
// The `combatantID` identifies the submitter; it must name a
// participant of `encounter`.
//
// The `submission` is the action as received from the wire.
//
// Returns a `CallerError` describing the first problem found, or
// `nil` if the submission is well-formed.
func ValidateSubmission(encounter model.Encounter, combatantID string, submission model.RoundAction) error {
	if !validUUID(combatantID) && !isGarrisonID(combatantID) {
		return apperrors.ErrCaller("invalid combatant id")
	}

	combatant, ok := encounter.Participants[combatantID]
	if !ok {
		return apperrors.ErrCaller("combatant is not part of this encounter")
	}

	if combatant.Kind != model.CombatantCharacter {
		return apperrors.ErrCaller("only character combatants may submit actions")
	}

	switch submission.Tag {
	case model.ActionAttack:
		if submission.Target == "" {
			return apperrors.ErrCaller("attack requires a target")
		}
		if submission.Target == combatantID {
			return apperrors.ErrCaller("cannot target self")
		}
		if _, ok := encounter.Participants[submission.Target]; !ok {
			return apperrors.ErrCaller("attack target is not part of this encounter")
		}
		if submission.Commit < 0 {
			return apperrors.ErrCaller("commit cannot be negative")
		}

	case model.ActionBrace, model.ActionPay, model.ActionFlee:
		// No further structural constraints; the resolver forces
		// commit/target to their canonical zero values.

	default:
		return apperrors.ErrCaller("unrecognized action tag")
	}

	return nil
}

// isGarrisonID :
// Garrison combatant ids don't parse as UUIDs — they follow the
// `garrison:<sector>:<owner>` convention — so submission validation
// needs a second check alongside `validUUID`.
func isGarrisonID(id string) bool {
	return len(id) > len("garrison:") && id[:len("garrison:")] == "garrison:"
}
