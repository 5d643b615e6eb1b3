package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gofrs/uuid/v5"

	"github.com/akarpov87/revisio/internal/clock"
	"github.com/akarpov87/revisio/internal/model"
	"github.com/akarpov87/revisio/internal/service"
)

// listRevisions GET /api/revisions?date=YYYY-MM-DD&status=pending
func (s *Server) listRevisions(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		writeBadRequest(w, "missing or invalid "+ownerHeader+" header")
		return
	}

	filter := model.RevisionFilter{OwnerID: owner}
	if raw := r.URL.Query().Get("date"); raw != "" {
		d, err := clock.ParseDate(raw)
		if err != nil {
			writeBadRequest(w, "invalid date filter, want YYYY-MM-DD")
			return
		}
		filter.Date = &d
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		st := model.RevisionStatus(raw)
		switch st {
		case model.StatusPending, model.StatusCompleted, model.StatusPostponed:
			filter.Status = &st
		default:
			writeBadRequest(w, "invalid status filter")
			return
		}
	}

	ctx, cancel := s.reqContext(r)
	defer cancel()
	revs, err := s.revisions.List(ctx, filter)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeRevisionList(w, revs)
}

// getRevision GET /api/revisions/{id}
func (s *Server) getRevision(w http.ResponseWriter, r *http.Request) {
	owner, id, ok := revisionTarget(w, r)
	if !ok {
		return
	}
	ctx, cancel := s.reqContext(r)
	defer cancel()
	rev, err := s.revisions.Get(ctx, owner, id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toClassifiedJSON(*rev))
}

// completeRevision POST /api/revisions/{id}/complete
func (s *Server) completeRevision(w http.ResponseWriter, r *http.Request) {
	owner, id, ok := revisionTarget(w, r)
	if !ok {
		return
	}
	ctx, cancel := s.reqContext(r)
	defer cancel()
	rev, err := s.revisions.Complete(ctx, owner, id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRevisionJSON(*rev))
}

// postponeRevision POST /api/revisions/{id}/postpone
func (s *Server) postponeRevision(w http.ResponseWriter, r *http.Request) {
	owner, id, ok := revisionTarget(w, r)
	if !ok {
		return
	}
	// Body is optional; an absent or empty days field means 1 day.
	days := 1
	var req struct {
		Days *int `json:"days"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeBadRequest(w, "invalid JSON")
		return
	}
	if req.Days != nil {
		days = *req.Days
	}

	ctx, cancel := s.reqContext(r)
	defer cancel()
	rev, err := s.revisions.Postpone(ctx, owner, id, days)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRevisionJSON(*rev))
}

// rescheduleRevision PATCH /api/revisions/{id}
func (s *Server) rescheduleRevision(w http.ResponseWriter, r *http.Request) {
	owner, id, ok := revisionTarget(w, r)
	if !ok {
		return
	}
	var req struct {
		ScheduledDate string `json:"scheduled_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON")
		return
	}
	d, err := clock.ParseDate(req.ScheduledDate)
	if err != nil {
		writeBadRequest(w, "invalid scheduled_date, want YYYY-MM-DD")
		return
	}

	ctx, cancel := s.reqContext(r)
	defer cancel()
	rev, err := s.revisions.Reschedule(ctx, owner, id, d)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRevisionJSON(*rev))
}

// listToday GET /api/revisions/today
func (s *Server) listToday(w http.ResponseWriter, r *http.Request) {
	s.listDerived(w, r, s.revisions.ListToday)
}

// listMissed GET /api/revisions/missed
func (s *Server) listMissed(w http.ResponseWriter, r *http.Request) {
	s.listDerived(w, r, s.revisions.ListMissed)
}

// listUpcoming GET /api/revisions/upcoming
func (s *Server) listUpcoming(w http.ResponseWriter, r *http.Request) {
	s.listDerived(w, r, s.revisions.ListUpcoming)
}

func (s *Server) listDerived(
	w http.ResponseWriter, r *http.Request,
	list func(ctx context.Context, ownerID uuid.UUID) ([]service.ClassifiedRevision, error),
) {
	owner, ok := ownerID(r)
	if !ok {
		writeBadRequest(w, "missing or invalid "+ownerHeader+" header")
		return
	}
	ctx, cancel := s.reqContext(r)
	defer cancel()
	revs, err := list(ctx, owner)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeRevisionList(w, revs)
}

func writeRevisionList(w http.ResponseWriter, revs []service.ClassifiedRevision) {
	writeJSON(w, http.StatusOK, map[string]any{
		"revisions": toClassifiedListJSON(revs),
		"count":     len(revs),
	})
}

func revisionTarget(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	owner, ok := ownerID(r)
	if !ok {
		writeBadRequest(w, "missing or invalid "+ownerHeader+" header")
		return uuid.Nil, uuid.Nil, false
	}
	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "invalid revision id")
		return uuid.Nil, uuid.Nil, false
	}
	return owner, id, true
}
