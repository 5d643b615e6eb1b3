// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// RevisionStatus is the stored lifecycle state of a revision.
type RevisionStatus string

const (
	// StatusPending marks a revision that still awaits review.
	StatusPending RevisionStatus = "pending"
	// StatusCompleted marks a reviewed revision; terminal.
	StatusCompleted RevisionStatus = "completed"
	// StatusPostponed marks a revision closed by postponement; its replacement
	// pending revision lives at PostponedTo.
	StatusPostponed RevisionStatus = "postponed"
)

// Topic is a study subject owning a chain of revisions.
type Topic struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID // FK -> external user store
	Title       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Revisions holds the topic's revision chain ordered by scheduled date.
	// Populated on single-topic reads, nil on list reads.
	Revisions []Revision
}

// Revision is one scheduled review of a topic. Revisions are never deleted
// individually; they are closed by status transition, so the chain doubles
// as an audit trail of past intervals and postponements.
type Revision struct {
	ID            uuid.UUID
	TopicID       uuid.UUID
	ScheduledDate  time.Time // calendar date, midnight UTC
	Interval       int       // days since the previous revision; first is 1
	Status         RevisionStatus
	CompletionDate *time.Time // set iff Status == completed
	PostponedTo    *time.Time // set iff Status == postponed
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TopicPatch carries optional topic field updates; nil means "leave unchanged".
type TopicPatch struct {
	Title       *string
	Description *string
}

// RevisionPatch carries optional revision field updates; nil means "leave unchanged".
type RevisionPatch struct {
	ScheduledDate *time.Time
}

// RevisionFilter narrows revision list queries. OwnerID is mandatory;
// Date matches the exact scheduled date, Status the stored state.
type RevisionFilter struct {
	OwnerID uuid.UUID
	Date    *time.Time
	Status  *RevisionStatus
}
