package data

import (
	"encoding/json"
	"time"

	"voidreach_combat/internal/apperrors"
	"voidreach_combat/internal/model"
	"voidreach_combat/pkg/db"
	"voidreach_combat/pkg/logger"
)

// EncounterProxy :
// Grants access to the single non-ended encounter (if any) for a
// sector. The sector-scoped lock used to serialize resolution is
// owned here and exposed to callers through `WithSectorLock`, since
// the encounter lifecycle (C5) needs resolve+persist+emit to run as
// one critical section rather than three separately-locked calls.
type EncounterProxy struct {
	commonProxy
}

// NewEncounterProxy :
// Creates an encounter proxy wrapping the input DB and logger.
func NewEncounterProxy(dbase *db.DB, log logger.Logger) EncounterProxy {
	return EncounterProxy{newCommonProxy(dbase, log)}
}

// WithSectorLock :
// Runs `op` under the advisory lock for `sectorID`. Every state
// transition described by the encounter lifecycle — creation,
// submission, resolution, termination — goes through this method
// so that at most one transition is ever in flight per sector.
func (p EncounterProxy) WithSectorLock(sectorID string, op func() error) error {
	return p.performWithLock(sectorID, op)
}

// encounterRow :
// Flattened shape used purely for (de)serialization; `Encounter`
// itself stays free of storage concerns.
type encounterRow struct {
	Participants   json.RawMessage `json:"participants"`
	PendingActions json.RawMessage `json:"pending_actions"`
	Log            json.RawMessage `json:"log"`
	TollRegistry   json.RawMessage `json:"toll_registry"`
}

// FetchActive :
// Loads the non-ended encounter for a sector, if any.
//
// Returns `(encounter, true, nil)` if one exists, `(_, false, nil)`
// if the sector currently has none.
func (p EncounterProxy) FetchActive(sectorID string) (model.Encounter, bool, error) {
	query := db.QueryDesc{
		Props: []string{
			"id", "sector_id", "round", "deadline", "base_seed",
			"initiator_id", "created_at", "reason", "awaiting_resolution",
			"ended", "end_state", "participants", "pending_actions", "log", "toll_registry",
		},
		Table: "encounters",
		Filters: []db.Filter{
			{Key: "sector_id", Values: []interface{}{sectorID}},
			{Key: "ended", Values: []interface{}{false}},
		},
	}

	rows, err := p.dbase.FetchFromDB(query)
	if err != nil {
		return model.Encounter{}, false, apperrors.ErrTransientStorage("failed to query encounter", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e model.Encounter
		var row encounterRow

		if err := rows.Scan(
			&e.ID, &e.SectorID, &e.Round, &e.Deadline, &e.BaseSeed,
			&e.Context.InitiatorID, &e.Context.CreatedAt, &e.Context.Reason,
			&e.AwaitingResolution, &e.Ended, &e.EndState,
			&row.Participants, &row.PendingActions, &row.Log, &row.TollRegistry,
		); err != nil {
			return model.Encounter{}, false, apperrors.ErrDataIntegrity("failed to scan encounter row", err)
		}

		if err := decodeEncounterRow(&e, row); err != nil {
			return model.Encounter{}, false, err
		}

		return e, true, nil
	}

	return model.Encounter{}, false, nil
}

// FetchDueForResolution :
// Loads every non-ended encounter whose deadline has elapsed as of
// `now`. Used by the deadline sweeper to drive rounds forward when
// no submission ever completed the round naturally.
func (p EncounterProxy) FetchDueForResolution(now time.Time) ([]model.Encounter, error) {
	query := db.QueryDesc{
		Props: []string{
			"id", "sector_id", "round", "deadline", "base_seed",
			"initiator_id", "created_at", "reason", "awaiting_resolution",
			"ended", "end_state", "participants", "pending_actions", "log", "toll_registry",
		},
		Table: "encounters",
		Filters: []db.Filter{
			{Key: "ended", Values: []interface{}{false}},
			{Key: "deadline", Values: []interface{}{now}, Operator: db.LessThan},
		},
	}

	rows, err := p.dbase.FetchFromDB(query)
	if err != nil {
		return nil, apperrors.ErrTransientStorage("failed to query due encounters", err)
	}
	defer rows.Close()

	var due []model.Encounter
	for rows.Next() {
		var e model.Encounter
		var row encounterRow

		if err := rows.Scan(
			&e.ID, &e.SectorID, &e.Round, &e.Deadline, &e.BaseSeed,
			&e.Context.InitiatorID, &e.Context.CreatedAt, &e.Context.Reason,
			&e.AwaitingResolution, &e.Ended, &e.EndState,
			&row.Participants, &row.PendingActions, &row.Log, &row.TollRegistry,
		); err != nil {
			return nil, apperrors.ErrDataIntegrity("failed to scan encounter row", err)
		}

		if err := decodeEncounterRow(&e, row); err != nil {
			return nil, err
		}

		due = append(due, e)
	}

	return due, nil
}

// Save :
// Persists a full snapshot of the encounter. Per the shared-
// resource policy, writers are exclusive under the sector lock and
// every write replaces the whole row, so readers never observe a
// partially-updated encounter.
func (p EncounterProxy) Save(e model.Encounter) error {
	participants, err := json.Marshal(e.Participants)
	if err != nil {
		return apperrors.ErrDataIntegrity("failed to encode participants", err)
	}
	pending, err := json.Marshal(e.PendingActions)
	if err != nil {
		return apperrors.ErrDataIntegrity("failed to encode pending actions", err)
	}
	log, err := json.Marshal(e.Log)
	if err != nil {
		return apperrors.ErrDataIntegrity("failed to encode round log", err)
	}
	toll, err := json.Marshal(e.Context.TollRegistry)
	if err != nil {
		return apperrors.ErrDataIntegrity("failed to encode toll registry", err)
	}

	req := db.InsertReq{
		Script: "upsert_encounter",
		Args: []interface{}{
			e.ID, e.SectorID, e.Round, e.Deadline, e.BaseSeed,
			e.Context.InitiatorID, e.Context.CreatedAt, e.Context.Reason,
			e.AwaitingResolution, e.Ended, e.EndState,
			string(participants), string(pending), string(log), string(toll),
		},
		SkipReturn: true,
	}

	if err := p.dbase.InsertToDB(req); err != nil {
		return apperrors.ErrTransientStorage("failed to persist encounter", err)
	}

	return nil
}

// decodeEncounterRow :
// Unmarshals the JSON-carrying columns of a scanned row into the
// nested maps/slices on `Encounter`.
func decodeEncounterRow(e *model.Encounter, row encounterRow) error {
	e.Participants = map[string]model.Combatant{}
	e.PendingActions = map[string]model.RoundAction{}
	e.Context.TollRegistry = map[string]bool{}

	if len(row.Participants) > 0 {
		if err := json.Unmarshal(row.Participants, &e.Participants); err != nil {
			return apperrors.ErrDataIntegrity("failed to decode participants", err)
		}
	}
	if len(row.PendingActions) > 0 {
		if err := json.Unmarshal(row.PendingActions, &e.PendingActions); err != nil {
			return apperrors.ErrDataIntegrity("failed to decode pending actions", err)
		}
	}
	if len(row.Log) > 0 {
		if err := json.Unmarshal(row.Log, &e.Log); err != nil {
			return apperrors.ErrDataIntegrity("failed to decode round log", err)
		}
	}
	if len(row.TollRegistry) > 0 {
		if err := json.Unmarshal(row.TollRegistry, &e.Context.TollRegistry); err != nil {
			return apperrors.ErrDataIntegrity("failed to decode toll registry", err)
		}
	}

	return nil
}
