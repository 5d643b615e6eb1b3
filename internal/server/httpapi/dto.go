package httpapi

import (
	"time"

	"github.com/akarpov87/revisio/internal/clock"
	"github.com/akarpov87/revisio/internal/model"
	"github.com/akarpov87/revisio/internal/service"
)

// Wire types. Calendar dates travel as ISO-8601 date strings; timestamps as
// RFC 3339. The temporal label is derived per response and never stored.

type revisionJSON struct {
	ID             string    `json:"id"`
	TopicID        string    `json:"topic_id"`
	ScheduledDate  string    `json:"scheduled_date"`
	Interval       int       `json:"interval"`
	Status         string    `json:"status"`
	CompletionDate *string   `json:"completion_date,omitempty"`
	PostponedTo    *string   `json:"postponed_to,omitempty"`
	Temporal       string    `json:"temporal,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type topicJSON struct {
	ID          string         `json:"id"`
	OwnerID     string         `json:"owner_id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Revisions   []revisionJSON `json:"revisions,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func dateStr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := clock.FormatDate(*t)
	return &s
}

func toRevisionJSON(rev model.Revision) revisionJSON {
	return revisionJSON{
		ID:             rev.ID.String(),
		TopicID:        rev.TopicID.String(),
		ScheduledDate:  clock.FormatDate(rev.ScheduledDate),
		Interval:       rev.Interval,
		Status:         string(rev.Status),
		CompletionDate: dateStr(rev.CompletionDate),
		PostponedTo:    dateStr(rev.PostponedTo),
		CreatedAt:      rev.CreatedAt,
		UpdatedAt:      rev.UpdatedAt,
	}
}

func toClassifiedJSON(rev service.ClassifiedRevision) revisionJSON {
	out := toRevisionJSON(rev.Revision)
	out.Temporal = string(rev.Temporal)
	return out
}

func toClassifiedListJSON(revs []service.ClassifiedRevision) []revisionJSON {
	out := make([]revisionJSON, 0, len(revs))
	for _, rev := range revs {
		out = append(out, toClassifiedJSON(rev))
	}
	return out
}

func toTopicJSON(t model.Topic) topicJSON {
	out := topicJSON{
		ID:          t.ID.String(),
		OwnerID:     t.OwnerID.String(),
		Title:       t.Title,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	for _, rev := range t.Revisions {
		out.Revisions = append(out.Revisions, toRevisionJSON(rev))
	}
	return out
}

func toTopicListJSON(ts []model.Topic) []topicJSON {
	out := make([]topicJSON, 0, len(ts))
	for _, t := range ts {
		out = append(out, toTopicJSON(t))
	}
	return out
}
