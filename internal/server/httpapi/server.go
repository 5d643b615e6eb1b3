// Package httpapi exposes the scheduling services over a JSON REST API.
// Authentication is the upstream proxy's concern; the owner arrives as an
// opaque id in the X-Owner-ID header.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/akarpov87/revisio/internal/service"
)

// Server wires services into HTTP handlers.
type Server struct {
	topics    service.TopicService
	revisions service.RevisionService
	timeout   time.Duration
}

// New constructs a server with injected services. timeout bounds each
// request's repository work; zero means no bound.
func New(topics service.TopicService, revisions service.RevisionService, timeout time.Duration) *Server {
	return &Server{topics: topics, revisions: revisions, timeout: timeout}
}

// Router builds the API route table.
func (s *Server) Router(log *zap.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(Recover(log), Logging(log))

	r.HandleFunc("/healthz", s.health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/topics", s.createTopic).Methods(http.MethodPost)
	api.HandleFunc("/topics", s.listTopics).Methods(http.MethodGet)
	api.HandleFunc("/topics/{id}", s.getTopic).Methods(http.MethodGet)
	api.HandleFunc("/topics/{id}", s.updateTopic).Methods(http.MethodPatch)
	api.HandleFunc("/topics/{id}", s.deleteTopic).Methods(http.MethodDelete)

	api.HandleFunc("/revisions", s.listRevisions).Methods(http.MethodGet)
	api.HandleFunc("/revisions/today", s.listToday).Methods(http.MethodGet)
	api.HandleFunc("/revisions/missed", s.listMissed).Methods(http.MethodGet)
	api.HandleFunc("/revisions/upcoming", s.listUpcoming).Methods(http.MethodGet)
	api.HandleFunc("/revisions/{id}", s.getRevision).Methods(http.MethodGet)
	api.HandleFunc("/revisions/{id}", s.rescheduleRevision).Methods(http.MethodPatch)
	api.HandleFunc("/revisions/{id}/complete", s.completeRevision).Methods(http.MethodPost)
	api.HandleFunc("/revisions/{id}/postpone", s.postponeRevision).Methods(http.MethodPost)

	return r
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// reqContext bounds the request's downstream work with the server timeout.
func (s *Server) reqContext(r *http.Request) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return r.Context(), func() {}
	}
	return context.WithTimeout(r.Context(), s.timeout)
}
