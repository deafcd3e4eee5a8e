package data

import (
	"encoding/json"

	"voidreach_combat/internal/apperrors"
	"voidreach_combat/internal/model"
	"voidreach_combat/pkg/db"
	"voidreach_combat/pkg/logger"

	"github.com/google/uuid"
)

// EventProxy :
// Implements the event emitter (C8): every call inserts one event
// row and its recipient rows through a single stored-procedure
// call, so the two can never be observed out of sync by a reader.
type EventProxy struct {
	commonProxy
}

// NewEventProxy :
// Creates an event proxy wrapping the input DB and logger.
func NewEventProxy(dbase *db.DB, log logger.Logger) EventProxy {
	return EventProxy{newCommonProxy(dbase, log)}
}

// Emit :
// Persists an event and its recipient list atomically. Per the
// emitter's contract, an empty recipient set is not an error: it
// simply skips persistence and returns a nil id, unless the event
// is explicitly a broadcast (which always has an implicit audience).
//
// The `event` carries everything but `ID`, which is assigned here.
//
// Returns the new event id, or an empty string if emission was
// skipped.
func (p EventProxy) Emit(event model.Event) (string, error) {
	if len(event.Recipients) == 0 && event.Scope != model.ScopeBroadcast {
		return "", nil
	}

	event.ID = uuid.New().String()

	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return "", apperrors.ErrDataIntegrity("failed to encode event payload", err)
	}

	recipients, err := json.Marshal(event.Recipients)
	if err != nil {
		return "", apperrors.ErrDataIntegrity("failed to encode event recipients", err)
	}

	req := db.InsertReq{
		Script: "create_event_with_recipients",
		Args: []interface{}{
			event.ID, event.Type, string(event.Scope), event.SectorID, event.ActorID,
			event.CorpID, event.ShipID, string(payload), event.Source.Method,
			event.Source.RequestID, event.Source.Timestamp, string(recipients),
		},
		SkipReturn: true,
	}

	if err := p.dbase.InsertToDB(req); err != nil {
		return "", apperrors.ErrEmissionFailure("failed to persist event", err)
	}

	return event.ID, nil
}
