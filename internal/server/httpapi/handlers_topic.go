package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/gofrs/uuid/v5"
	"github.com/gorilla/mux"

	"github.com/akarpov87/revisio/internal/model"
)

// ownerHeader carries the caller's opaque owner id; filled in by whatever
// auth proxy fronts this service.
const ownerHeader = "X-Owner-ID"

func ownerID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.FromString(r.Header.Get(ownerHeader))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

func pathID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.FromString(mux.Vars(r)["id"])
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// createTopic POST /api/topics
func (s *Server) createTopic(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		writeBadRequest(w, "missing or invalid "+ownerHeader+" header")
		return
	}
	var req struct {
		Title               string `json:"title"`
		Description         string `json:"description"`
		InitialRevisionDate string `json:"initial_revision_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON")
		return
	}

	ctx, cancel := s.reqContext(r)
	defer cancel()
	topic, err := s.topics.Create(ctx, owner, req.Title, req.Description, req.InitialRevisionDate)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTopicJSON(*topic))
}

// listTopics GET /api/topics
func (s *Server) listTopics(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		writeBadRequest(w, "missing or invalid "+ownerHeader+" header")
		return
	}
	ctx, cancel := s.reqContext(r)
	defer cancel()
	topics, err := s.topics.List(ctx, owner)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"topics": toTopicListJSON(topics),
		"count":  len(topics),
	})
}

// getTopic GET /api/topics/{id}
func (s *Server) getTopic(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		writeBadRequest(w, "missing or invalid "+ownerHeader+" header")
		return
	}
	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "invalid topic id")
		return
	}
	ctx, cancel := s.reqContext(r)
	defer cancel()
	topic, err := s.topics.Get(ctx, owner, id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTopicJSON(*topic))
}

// updateTopic PATCH /api/topics/{id}
func (s *Server) updateTopic(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		writeBadRequest(w, "missing or invalid "+ownerHeader+" header")
		return
	}
	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "invalid topic id")
		return
	}
	var req struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON")
		return
	}

	ctx, cancel := s.reqContext(r)
	defer cancel()
	topic, err := s.topics.Update(ctx, owner, id, model.TopicPatch{Title: req.Title, Description: req.Description})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTopicJSON(*topic))
}

// deleteTopic DELETE /api/topics/{id}
func (s *Server) deleteTopic(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		writeBadRequest(w, "missing or invalid "+ownerHeader+" header")
		return
	}
	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "invalid topic id")
		return
	}
	ctx, cancel := s.reqContext(r)
	defer cancel()
	if err := s.topics.Delete(ctx, owner, id); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
