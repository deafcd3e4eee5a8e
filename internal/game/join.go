package game

import (
	"context"
	"time"

	"voidreach_combat/internal/model"
)

// JoinSector :
// Implements auto-join on arrival: if the sector has a non-ended
// encounter, the arriving character is added as a participant right
// away, taking part in the round currently awaiting resolution (the
// round number and deadline are left unchanged), and
// `combat.round_waiting` is sent only to them. A sector with no
// active encounter is a no-op.
func (l *Lifecycle) JoinSector(ctx context.Context, sectorID, characterID string) error {
	return l.Encounters.WithSectorLock(sectorID, func() error {
		encounter, exists, err := l.Encounters.FetchActive(sectorID)
		if err != nil {
			return err
		}
		if !exists {
			return nil
		}

		if _, already := encounter.Participants[characterID]; already {
			return nil
		}

		all, err := l.Loader.Load(ctx, sectorID)
		if err != nil {
			return err
		}

		joined, ok := all[characterID]
		if !ok {
			return nil
		}

		encounter.Participants[characterID] = joined

		if err := l.Encounters.Save(encounter); err != nil {
			return err
		}

		l.emitBestEffort(model.Event{
			Type:       "combat.round_waiting",
			Scope:      model.ScopeDirect,
			SectorID:   sectorID,
			ActorID:    characterID,
			Payload:    roundWaitingPayload("join_sector", encounter, ""),
			Source:     model.EventSource{Method: "join_sector", Timestamp: time.Now()},
			Recipients: []model.Recipient{{CharacterID: characterID, Reason: model.VisibilityDirect}},
		})

		return nil
	})
}
