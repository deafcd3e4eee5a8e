package game

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"voidreach_combat/internal/apperrors"
	"voidreach_combat/internal/combat"
	"voidreach_combat/internal/data"
	"voidreach_combat/internal/external"
	"voidreach_combat/internal/model"
	"voidreach_combat/pkg/logger"

	"github.com/google/uuid"
)

// Lifecycle :
// Owns the encounter state machine (C5) for every sector. All
// mutation goes through `Encounters.WithSectorLock`, so no two
// goroutines ever advance the same sector's encounter concurrently;
// `group` additionally collapses concurrent deadline-sweep
// *triggers* for the same sector into a single resolution. A
// submission that completes a round resolves it directly under the
// lock; a sweep for that round arriving later finds the round
// already advanced and returns without resolving.
type Lifecycle struct {
	Encounters data.EncounterProxy
	Ships      data.ShipProxy
	Garrisons  data.GarrisonProxy
	Salvage    data.SalvageProxy
	Characters data.CharacterProxy
	Events     data.EventProxy

	Loader     ParticipantLoader
	Recipients RecipientResolver
	Snapshots  SnapshotBuilder
	Map        external.MapService

	RoundTimeout        time.Duration
	ShieldRegenPerRound int
	SalvageTTL          time.Duration

	Log logger.Logger

	group singleflight.Group
}

// Create :
// Implements encounter creation. Fails with `StateConflict` if the
// sector already has a non-ended encounter.
func (l *Lifecycle) Create(ctx context.Context, sectorID, initiatorID, reason string) (model.Encounter, error) {
	var created model.Encounter

	err := l.Encounters.WithSectorLock(sectorID, func() error {
		_, exists, err := l.Encounters.FetchActive(sectorID)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.ErrStateConflict("sector already has an active encounter")
		}

		participants, err := l.Loader.Load(ctx, sectorID)
		if err != nil {
			return err
		}

		now := time.Now()
		deadline := now.Add(l.RoundTimeout)
		id := uuid.New().String()

		created = model.Encounter{
			ID:             id,
			SectorID:       sectorID,
			Round:          1,
			Deadline:       &deadline,
			Participants:   participants,
			PendingActions: map[string]model.RoundAction{},
			BaseSeed:       seedFromID(id),
			Context: model.EncounterContext{
				InitiatorID:  initiatorID,
				CreatedAt:    now,
				Reason:       reason,
				TollRegistry: map[string]bool{},
			},
			AwaitingResolution: true,
		}

		if err := l.Encounters.Save(created); err != nil {
			return err
		}

		l.emitBestEffort(model.Event{
			Type:       "combat.round_waiting",
			Scope:      model.ScopeSector,
			SectorID:   sectorID,
			ActorID:    initiatorID,
			Payload:    roundWaitingPayload("create_encounter", created, initiatorID),
			Source:     model.EventSource{Method: "create_encounter", Timestamp: now},
			Recipients: l.recipientsForEncounter(created, nil),
		})

		return nil
	})

	return created, err
}

// seedFromID :
// Derives an encounter's base seed from the first 48 bits of its
// id, per the creation rules. The id is a UUID string; its hyphens
// are stripped before taking the leading 12 hex digits.
func seedFromID(id string) uint64 {
	hex := make([]byte, 0, len(id))
	for _, c := range []byte(id) {
		if c != '-' {
			hex = append(hex, c)
		}
	}

	var seed uint64
	count := 0
	for _, c := range hex {
		if count >= 12 {
			break
		}
		var v uint64
		switch {
		case c >= '0' && c <= '9':
			v = uint64(c - '0')
		case c >= 'a' && c <= 'f':
			v = uint64(c-'a') + 10
		case c >= 'A' && c <= 'F':
			v = uint64(c-'A') + 10
		default:
			continue
		}
		seed = (seed << 4) | v
		count++
	}

	return seed
}

// SubmitAction :
// Implements submission: replaces any prior submission from the
// same combatant for the current round. Advances immediately to
// resolution if every live character combatant has now submitted.
func (l *Lifecycle) SubmitAction(ctx context.Context, sectorID, combatantID string, action model.RoundAction) error {
	return l.Encounters.WithSectorLock(sectorID, func() error {
		encounter, exists, err := l.Encounters.FetchActive(sectorID)
		if err != nil {
			return err
		}
		if !exists {
			return apperrors.ErrStateConflict("sector has no active encounter")
		}

		if err := ValidateSubmission(encounter, combatantID, action); err != nil {
			return err
		}

		action.SubmittedAt = time.Now()
		encounter.PendingActions[combatantID] = action

		if err := l.Encounters.Save(encounter); err != nil {
			return err
		}

		if encounter.AllLiveCharactersSubmitted() {
			return l.resolveLocked(ctx, encounter)
		}

		return nil
	})
}

// ResolveDeadline :
// Invoked by the round-deadline sweeper for a sector whose round
// has timed out. Idempotent by round: if the persisted round has
// already advanced past `requestedRound`, this is a no-op.
func (l *Lifecycle) ResolveDeadline(ctx context.Context, sectorID string, requestedRound int) error {
	_, err, _ := l.group.Do(sectorID, func() (interface{}, error) {
		return nil, l.Encounters.WithSectorLock(sectorID, func() error {
			encounter, exists, err := l.Encounters.FetchActive(sectorID)
			if err != nil {
				return err
			}
			if !exists || encounter.Round > requestedRound {
				return nil
			}

			return l.resolveLocked(ctx, encounter)
		})
	})

	return err
}

// resolveLocked :
// The resolution step of the state machine. Must be called with
// the sector's lock already held. Builds the effective action map,
// calls the pure resolver, persists the delta, emits
// `combat.round_resolved`, and either advances to the next round or
// terminates the encounter.
func (l *Lifecycle) resolveLocked(ctx context.Context, encounter model.Encounter) error {
	actions := map[string]model.RoundAction{}
	for id, a := range encounter.PendingActions {
		actions[id] = a
	}
	for id, c := range encounter.Participants {
		if c.IsGarrison() {
			continue
		}
		if _, ok := actions[id]; !ok {
			actions[id] = model.RoundAction{Tag: model.ActionBrace, TimedOut: true}
		}
	}

	combat.ApplyGarrisonAutoActions(encounter, actions)

	outcome := combat.ResolveRound(encounter, actions)

	for id, fighters := range outcome.FightersRemaining {
		if c, ok := encounter.Participants[id]; ok {
			c.Fighters = fighters
			c.Shields = outcome.ShieldsRemaining[id]
			encounter.Participants[id] = c
		}
	}

	encounter.Log = append(encounter.Log, outcome)
	encounter.PendingActions = map[string]model.RoundAction{}

	now := time.Now()

	l.emitBestEffort(model.Event{
		Type:       "combat.round_resolved",
		Scope:      model.ScopeSector,
		SectorID:   encounter.SectorID,
		Payload:    roundResolvedPayload("resolve_round", encounter, outcome),
		Source:     model.EventSource{Method: "resolve_round", Timestamp: now},
		Recipients: l.recipientsForEncounter(encounter, nil),
	})

	if outcome.EndState == "" {
		encounter.Round++
		l.regenerateShields(&encounter)
		deadline := now.Add(l.RoundTimeout)
		encounter.Deadline = &deadline

		if err := l.Encounters.Save(encounter); err != nil {
			return err
		}

		l.emitBestEffort(model.Event{
			Type:       "combat.round_waiting",
			Scope:      model.ScopeSector,
			SectorID:   encounter.SectorID,
			Payload:    roundWaitingPayload("resolve_round", encounter, ""),
			Source:     model.EventSource{Method: "resolve_round", Timestamp: now},
			Recipients: l.recipientsForEncounter(encounter, nil),
		})

		return nil
	}

	encounter.Ended = true
	encounter.EndState = outcome.EndState
	encounter.AwaitingResolution = false

	if err := l.Encounters.Save(encounter); err != nil {
		return err
	}

	return l.terminate(ctx, encounter, outcome)
}

// regenerateShields :
// Applies the between-round shield recovery to every live,
// non-pod combatant, capped at `max_shields`.
func (l *Lifecycle) regenerateShields(encounter *model.Encounter) {
	for id, c := range encounter.Participants {
		if c.Fighters <= 0 || c.IsEscapePod {
			continue
		}

		c.Shields += l.ShieldRegenPerRound
		if c.Shields > c.MaxShields {
			c.Shields = c.MaxShields
		}

		encounter.Participants[id] = c
	}
}

// recipientsForEncounter :
// Convenience wrapper around `ComputeRecipients` for events whose
// audience is simply "everyone in this encounter's sector".
func (l *Lifecycle) recipientsForEncounter(encounter model.Encounter, exclude []string) []model.Recipient {
	recipients, err := l.Recipients.ComputeRecipients(encounter.SectorID, nil, nil, nil, exclude)
	if err != nil {
		l.logWarn("failed to compute recipients: " + err.Error())
		return nil
	}
	return recipients
}

// emitBestEffort :
// Emits an event and swallows the error per the `EmissionFailure`
// policy: a subsidiary event failing to record is logged, never
// allowed to roll back the primary state transition.
func (l *Lifecycle) emitBestEffort(event model.Event) {
	if _, err := l.Events.Emit(event); err != nil {
		l.logWarn("failed to emit " + event.Type + ": " + err.Error())
	}
}

func (l *Lifecycle) logWarn(message string) {
	if l.Log != nil {
		l.Log.Trace(logger.Warning, "game", message)
	}
}
