package game

import "voidreach_combat/internal/model"

// deferredShipDeletion :
// A corp-owned ship's teardown, recorded during finalization but
// executed only after `combat.ended` has been emitted to every
// viewer — so a viewer's personalized payload can still describe
// the destroyed state before the rows disappear.
type deferredShipDeletion struct {
	ShipID            string
	PseudoCharacterID string
}

// zeroOutCorpShip :
// Step 3 of finalization for a defeated corporation-owned ship:
// its fighters and shields are zeroed immediately (so readers
// never observe a "defeated but still armed" ship), but it is
// *not* converted to an escape pod — corp ships don't get pilots
// back. The actual row deletion is queued, not executed here.
//
// The `ship` is the defeated combatant's ship row.
//
// Returns the ship row as it should be persisted pre-deletion, and
// the deferred deletion descriptor to run after event emission.
func zeroOutCorpShip(ship model.ShipRow, pseudoCharacterID string) (model.ShipRow, deferredShipDeletion) {
	ship.Fighters = 0
	ship.Shields = 0

	return ship, deferredShipDeletion{ShipID: ship.ID, PseudoCharacterID: pseudoCharacterID}
}

// runDeferredDeletions :
// Executes queued corp-ship teardowns in the mandated order: null
// the pseudo-character's current ship, delete the pseudo-character
// row, then delete the ship row. Runs unconditionally once
// finalization reaches this point, even if an earlier step (salvage
// or event emission) failed — per the failure policy, only the
// deletions themselves are guaranteed.
//
// The `deletions` is the queue accumulated during finalization.
//
// The `clearCurrentShip` nulls a pseudo-character's current ship
// pointer.
//
// The `deleteCharacter` removes the pseudo-character row.
//
// The `deleteShip` removes the ship row.
//
// Returns the first error encountered, if any, after attempting
// every queued deletion.
func runDeferredDeletions(
	deletions []deferredShipDeletion,
	clearCurrentShip func(pseudoCharacterID string) error,
	deleteCharacter func(pseudoCharacterID string) error,
	deleteShip func(shipID string) error,
) error {
	var firstErr error

	for _, d := range deletions {
		if err := clearCurrentShip(d.PseudoCharacterID); err != nil && firstErr == nil {
			firstErr = err
		}
		if err := deleteCharacter(d.PseudoCharacterID); err != nil && firstErr == nil {
			firstErr = err
		}
		if err := deleteShip(d.ShipID); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
