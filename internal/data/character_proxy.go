package data

import (
	"voidreach_combat/internal/apperrors"
	"voidreach_combat/pkg/db"
	"voidreach_combat/pkg/logger"
)

// CharacterProxy :
// Grants read access to the minimal character fields the combat
// core needs: which ship a character is currently piloting (used
// to reject stale pilots in the participant loader) and which
// corporation, if any, they belong to.
type CharacterProxy struct {
	commonProxy
}

// NewCharacterProxy :
// Creates a character proxy wrapping the input DB and logger.
func NewCharacterProxy(dbase *db.DB, log logger.Logger) CharacterProxy {
	return CharacterProxy{newCommonProxy(dbase, log)}
}

// CurrentShipID :
// Returns the ship id a character is presently piloting.
func (p CharacterProxy) CurrentShipID(characterID string) (string, error) {
	query := db.QueryDesc{
		Props:   []string{"current_ship_id"},
		Table:   "characters",
		Filters: []db.Filter{{Key: "id", Values: []interface{}{characterID}}},
	}

	rows, err := p.dbase.FetchFromDB(query)
	if err != nil {
		return "", apperrors.ErrTransientStorage("failed to query character", err)
	}
	defer rows.Close()

	for rows.Next() {
		var shipID string
		if err := rows.Scan(&shipID); err != nil {
			return "", apperrors.ErrDataIntegrity("failed to scan character row", err)
		}
		return shipID, nil
	}

	return "", apperrors.ErrDataIntegrity("character not found", nil)
}

// ClearCurrentShip :
// Nulls a character's current ship pointer. Used by the first step
// of deferred corp-ship deletion.
func (p CharacterProxy) ClearCurrentShip(characterID string) error {
	req := db.InsertReq{
		Script:     "clear_character_current_ship",
		Args:       []interface{}{characterID},
		SkipReturn: true,
	}

	if err := p.dbase.InsertToDB(req); err != nil {
		return apperrors.ErrTransientStorage("failed to clear current ship", err)
	}

	return nil
}

// Delete :
// Removes a character row outright. Only used for corporation
// pseudo-characters torn down after their ship is destroyed.
func (p CharacterProxy) Delete(characterID string) error {
	req := db.InsertReq{
		Script:     "delete_character",
		Args:       []interface{}{characterID},
		SkipReturn: true,
	}

	if err := p.dbase.InsertToDB(req); err != nil {
		return apperrors.ErrTransientStorage("failed to delete character", err)
	}

	return nil
}
