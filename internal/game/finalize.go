package game

import (
	"context"
	"math/rand"
	"time"

	"voidreach_combat/internal/model"

	"github.com/google/uuid"
)

// terminate :
// Implements termination (C5) and finalization (C6) once the
// resolver has produced a non-null end state. Runs, in order:
// finalize casualties (salvage/escape-pod/teardown), move
// successful fleers, emit a personalized `combat.ended` per
// participant, run deferred deletions, then emit `sector.update`.
//
// Per the failure policy, a failure before the deferred deletions
// never prevents them from running: they execute unconditionally
// in a guaranteed-cleanup step at the end of this method.
func (l *Lifecycle) terminate(ctx context.Context, encounter model.Encounter, outcome model.RoundOutcome) error {
	now := time.Now()

	var deferredDeletions []deferredShipDeletion
	shipSnapshots := make(map[string]interface{})

	for id, c := range encounter.Participants {
		if c.Kind != model.CombatantCharacter || c.Fighters > 0 {
			continue
		}

		ship, err := l.fetchShip(c)
		if err != nil {
			l.logWarn("failed to load defeated ship for finalization: " + err.Error())
			continue
		}

		template, err := l.Loader.Templates.Template(ctx, ship.ShipType)
		if err != nil {
			l.logWarn("failed to resolve template for finalization: " + err.Error())
			continue
		}

		salvage := salvageFromDefeatedShip(ship.ID, ship, template, now, l.SalvageTTL, uuid.New().String())
		salvageCreated := false
		if err := l.Salvage.Append(encounter.SectorID, salvage); err != nil {
			l.logWarn("failed to persist salvage: " + err.Error())
		} else {
			salvageCreated = true
			l.emitBestEffort(model.Event{
				Type:       "salvage.created",
				Scope:      model.ScopeSector,
				SectorID:   encounter.SectorID,
				Payload:    salvageCreatedPayload("finalize", encounter.SectorID, salvage),
				Source:     model.EventSource{Method: "finalize", Timestamp: now},
				Recipients: l.recipientsForEncounter(encounter, nil),
			})
		}

		var finalShip model.ShipRow

		if c.IsCorporationOwned() {
			var deferred deferredShipDeletion
			finalShip, deferred = zeroOutCorpShip(ship, c.OwnerID)
			deferredDeletions = append(deferredDeletions, deferred)
			if err := l.Ships.Save(finalShip); err != nil {
				l.logWarn("failed to persist zeroed corp ship: " + err.Error())
			}
		} else {
			finalShip = convertToEscapePod(ship)
			if err := l.Ships.Save(finalShip); err != nil {
				l.logWarn("failed to persist escape pod conversion: " + err.Error())
			}
		}

		shipSnapshots[id] = finalShip

		l.emitBestEffort(model.Event{
			Type:     "ship.destroyed",
			Scope:    model.ScopeSector,
			SectorID: encounter.SectorID,
			ShipID:   ship.ID,
			Payload:  shipDestroyedPayload("finalize", finalShip, ship.Name, string(c.PlayerType), c.DisplayName, encounter.SectorID, encounter.ID, salvageCreated, now),
			Source:   model.EventSource{Method: "finalize", Timestamp: now},
			Recipients: l.recipientsForShip(encounter.SectorID, c),
		})
	}

	for _, c := range encounter.Participants {
		if c.Kind != model.CombatantGarrison {
			continue
		}
		if c.Fighters > 0 {
			row := model.GarrisonRow{
				SectorID: encounter.SectorID, OwnerCharacterID: c.OwnerID, OwnerCorporationID: c.OwnerCorpID,
				Mode: c.Mode, Fighters: c.Fighters, TollAmount: c.TollAmount, TollBalance: c.TollBalance,
			}
			if err := l.Garrisons.Save(row); err != nil {
				l.logWarn("failed to persist garrison fighter losses: " + err.Error())
			}
			continue
		}
		if err := l.Garrisons.Delete(encounter.SectorID, c.OwnerID); err != nil {
			l.logWarn("failed to delete defeated garrison: " + err.Error())
		}
	}

	l.moveFleers(ctx, encounter, outcome)

	for id, c := range encounter.Participants {
		if c.Kind != model.CombatantCharacter {
			continue
		}

		viewerShip, ok := shipSnapshots[id]
		if !ok {
			if ship, err := l.fetchShip(c); err == nil {
				ship.Fighters = c.Fighters
				ship.Shields = c.Shields
				viewerShip = ship
			}
		}
		salvageList, err := l.Salvage.FetchInSector(encounter.SectorID, now)
		if err != nil {
			salvageList = nil
		}

		l.emitBestEffort(model.Event{
			Type:       "combat.ended",
			Scope:      model.ScopeDirect,
			SectorID:   encounter.SectorID,
			ActorID:    id,
			Payload:    combatEndedPayload("finalize", encounter, outcome, salvageList, viewerShip),
			Source:     model.EventSource{Method: "finalize", Timestamp: now},
			Recipients: []model.Recipient{{CharacterID: id, Reason: model.VisibilityDirect}},
		})
	}

	if err := runDeferredDeletions(
		deferredDeletions,
		l.Characters.ClearCurrentShip,
		l.Characters.Delete,
		l.Ships.Delete,
	); err != nil {
		l.logWarn("deferred deletion failed: " + err.Error())
	}

	snapshot, err := l.Snapshots.Build(encounter.SectorID, now)
	if err != nil {
		l.logWarn("failed to build sector snapshot for sector.update: " + err.Error())
	}

	l.emitBestEffort(model.Event{
		Type:       "sector.update",
		Scope:      model.ScopeSector,
		SectorID:   encounter.SectorID,
		Payload:    sectorUpdatePayload("finalize", snapshot),
		Source:     model.EventSource{Method: "finalize", Timestamp: now},
		Recipients: l.recipientsForEncounter(encounter, nil),
	})

	return nil
}

// fetchShip :
// Loads the ship row backing a character combatant.
func (l *Lifecycle) fetchShip(c model.Combatant) (model.ShipRow, error) {
	return l.Ships.FetchByID(c.ShipID)
}

// recipientsForShip :
// `ship.destroyed` goes to the sector visibility set plus the
// ship's corp members, per finalization step 5.
func (l *Lifecycle) recipientsForShip(sectorID string, c model.Combatant) []model.Recipient {
	var corpIDs []string
	if c.CorporationID != "" {
		corpIDs = append(corpIDs, c.CorporationID)
	}

	recipients, err := l.Recipients.ComputeRecipients(sectorID, corpIDs, nil, nil, nil)
	if err != nil {
		l.logWarn("failed to compute ship.destroyed recipients: " + err.Error())
		return nil
	}

	return recipients
}

// moveFleers :
// Moves every successful fleer to their chosen destination,
// falling back to a uniformly-random adjacent sector when none was
// specified.
func (l *Lifecycle) moveFleers(ctx context.Context, encounter model.Encounter, outcome model.RoundOutcome) {
	for id, fled := range outcome.FleeResults {
		if !fled {
			continue
		}

		action := outcome.EffectiveActions[id]
		destination := action.Destination

		if destination == "" && l.Map != nil {
			adjacent, err := l.Map.AdjacentSectors(ctx, encounter.SectorID)
			if err == nil && len(adjacent) > 0 {
				destination = adjacent[rand.Intn(len(adjacent))]
			}
		}

		if destination == "" {
			continue
		}

		c, ok := encounter.Participants[id]
		if !ok || c.ShipID == "" {
			continue
		}

		ship, err := l.fetchShip(c)
		if err != nil {
			continue
		}
		ship.SectorID = destination

		if err := l.Ships.Save(ship); err != nil {
			l.logWarn("failed to relocate fleeing ship: " + err.Error())
		}
	}
}
