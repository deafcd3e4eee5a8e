package data

import (
	"voidreach_combat/internal/apperrors"
	"voidreach_combat/internal/model"
	"voidreach_combat/pkg/db"
	"voidreach_combat/pkg/logger"
)

// CorpProxy :
// Grants read-mostly access to corporation membership. Per the
// concurrency model, readers need no lock here.
type CorpProxy struct {
	commonProxy
}

// NewCorpProxy :
// Creates a corporation-membership proxy wrapping the input DB
// and logger.
func NewCorpProxy(dbase *db.DB, log logger.Logger) CorpProxy {
	return CorpProxy{newCommonProxy(dbase, log)}
}

// ActiveMembers :
// Returns every character id with an active (not-left) membership
// in the given corporation. Backs the `corp_member` visibility
// source (C7).
func (p CorpProxy) ActiveMembers(corporationID string) ([]string, error) {
	query := db.QueryDesc{
		Props: []string{"character_id"},
		Table: "corporation_memberships",
		Filters: []db.Filter{
			{Key: "corporation_id", Values: []interface{}{corporationID}},
			{Key: "left_at", Values: []interface{}{nil}},
		},
	}

	rows, err := p.dbase.FetchFromDB(query)
	if err != nil {
		return nil, apperrors.ErrTransientStorage("failed to query corporation members", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.ErrDataIntegrity("failed to scan corporation membership", err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// MembershipFor :
// Returns the active corporation membership for a single
// character, if any.
func (p CorpProxy) MembershipFor(characterID string) (model.CorporationMembership, bool, error) {
	query := db.QueryDesc{
		Props: []string{"corporation_id", "character_id", "left_at"},
		Table: "corporation_memberships",
		Filters: []db.Filter{
			{Key: "character_id", Values: []interface{}{characterID}},
			{Key: "left_at", Values: []interface{}{nil}},
		},
	}

	rows, err := p.dbase.FetchFromDB(query)
	if err != nil {
		return model.CorporationMembership{}, false, apperrors.ErrTransientStorage("failed to query membership", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m model.CorporationMembership
		if err := rows.Scan(&m.CorporationID, &m.CharacterID, &m.LeftAt); err != nil {
			return model.CorporationMembership{}, false, apperrors.ErrDataIntegrity("failed to scan membership", err)
		}
		return m, true, nil
	}

	return model.CorporationMembership{}, false, nil
}
