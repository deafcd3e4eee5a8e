package routes

import (
	"encoding/json"
	"net/http"
	"time"

	"voidreach_combat/internal/apperrors"
	"voidreach_combat/internal/model"
	"voidreach_combat/pkg/logger"
)

// writeJSON :
// Marshals `data` and writes it to `w` with a `200` status. Mirrors
// the legacy server's `marshalAndSend` but lives here since this
// package no longer goes through the generic `EndpointDesc` path
// for every route.
func writeJSON(w http.ResponseWriter, log logger.Logger, data interface{}) {
	out, err := json.Marshal(data)
	if err != nil {
		log.Trace(logger.Error, "routes", "failed to marshal response: "+err.Error())
		http.Error(w, InternalServerErrorString(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}

// writeError :
// Maps a combat-core error to the HTTP status the error-handling
// policy assigns to its kind and writes it back to the caller.
func writeError(w http.ResponseWriter, log logger.Logger, err error) {
	kind := apperrors.KindOf(err)
	log.Trace(logger.Warning, "routes", "request failed: "+err.Error())
	http.Error(w, err.Error(), kind.HTTPStatus())
}

// createEncounterRequest :
// Wire shape accepted by `POST /combat/encounters`.
type createEncounterRequest struct {
	SectorID    string `json:"sector_id"`
	InitiatorID string `json:"initiator_id"`
	Reason      string `json:"reason"`
}

// handleCreateEncounter :
// Starts a new encounter in a sector with no active one.
func (s *Server) handleCreateEncounter(w http.ResponseWriter, r *http.Request) {
	var req createEncounterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.log, apperrors.ErrCaller("malformed request body"))
		return
	}

	encounter, err := s.lifecycle.Create(r.Context(), req.SectorID, req.InitiatorID, req.Reason)
	if err != nil {
		writeError(w, s.log, err)
		return
	}

	writeJSON(w, s.log, encounter)
}

// submitActionRequest :
// Wire shape accepted by `POST /combat/actions`.
type submitActionRequest struct {
	SectorID    string           `json:"sector_id"`
	CombatantID string           `json:"combatant_id"`
	Action      model.RoundAction `json:"action"`
}

// handleSubmitAction :
// Records a combatant's intent for the current round, resolving
// it immediately if it was the last live character to submit.
func (s *Server) handleSubmitAction(w http.ResponseWriter, r *http.Request) {
	var req submitActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.log, apperrors.ErrCaller("malformed request body"))
		return
	}

	if err := s.lifecycle.SubmitAction(r.Context(), req.SectorID, req.CombatantID, req.Action); err != nil {
		writeError(w, s.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// joinSectorRequest :
// Wire shape accepted by `POST /combat/join`.
type joinSectorRequest struct {
	SectorID    string `json:"sector_id"`
	CharacterID string `json:"character_id"`
}

// handleJoinSector :
// Auto-joins an arriving character into the sector's active
// encounter, if any.
func (s *Server) handleJoinSector(w http.ResponseWriter, r *http.Request) {
	var req joinSectorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.log, apperrors.ErrCaller("malformed request body"))
		return
	}

	if err := s.lifecycle.JoinSector(r.Context(), req.SectorID, req.CharacterID); err != nil {
		writeError(w, s.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleSectorSnapshot :
// Serves the aggregated sector state (C9) for the sector named by
// the route's single extra path element, e.g. `/combat/sectors/42`.
func (s *Server) handleSectorSnapshot(w http.ResponseWriter, r *http.Request) {
	vars, err := extractRouteVars("/combat/sectors", r)
	if err != nil {
		writeError(w, s.log, apperrors.ErrCaller("malformed sector snapshot route"))
		return
	}
	if len(vars.ExtraElems) == 0 {
		writeError(w, s.log, apperrors.ErrCaller("missing sector id"))
		return
	}

	snapshot, err := s.snapshots.Build(vars.ExtraElems[0], time.Now())
	if err != nil {
		writeError(w, s.log, err)
		return
	}

	writeJSON(w, s.log, snapshot)
}
