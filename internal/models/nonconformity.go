package models

import (
	"time"

	"github.com/google/uuid"
)

// NC statuses. Any status may transition to any other; there is no
// forward-only constraint.
const (
	NCStatusOpen       = "OPEN"
	NCStatusInProgress = "IN_PROGRESS"
	NCStatusResolved   = "RESOLVED"
)

func IsValidNCStatus(s string) bool {
	switch s {
	case NCStatusOpen, NCStatusInProgress, NCStatusResolved:
		return true
	}
	return false
}

// NC severities. New NCs always start at MEDIUM; severity is only adjustable
// after creation.
const (
	SeverityLow      = "LOW"
	SeverityMedium   = "MEDIUM"
	SeverityHigh     = "HIGH"
	SeverityCritical = "CRITICAL"
)

func IsValidSeverity(s string) bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// SeverityDeadlineDays maps severity to the remediation window quoted in
// notification emails. Display only; it does not drive due_date.
var SeverityDeadlineDays = map[string]int{
	SeverityLow:      5,
	SeverityMedium:   4,
	SeverityHigh:     3,
	SeverityCritical: 2,
}

var severityLabels = map[string]string{
	SeverityLow:      "Low",
	SeverityMedium:   "Medium",
	SeverityHigh:     "High",
	SeverityCritical: "Critical",
}

func SeverityLabel(s string) string {
	if l, ok := severityLabels[s]; ok {
		return l
	}
	return severityLabels[SeverityMedium]
}

// NC event types
const (
	NCEventStatusChanged     = "STATUS_CHANGED"
	NCEventAssignmentChanged = "ASSIGNMENT_CHANGED"
)

// NonConformity is opened automatically for every NON_COMPLIANT answer and
// mutated by lifecycle updates. Never deleted in normal operation.
type NonConformity struct {
	ID               uuid.UUID  `json:"id"`
	AuditID          uuid.UUID  `json:"audit_id"`
	ChecklistItemID  uuid.UUID  `json:"checklist_item_id"`
	OpenedByUserID   uuid.UUID  `json:"opened_by_user_id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Status           string     `json:"status"`
	Severity         string     `json:"severity"`
	RootCause        *string    `json:"root_cause,omitempty"`
	CorrectiveAction *string    `json:"corrective_action,omitempty"`
	Responsible      *string    `json:"responsible,omitempty"`
	AssignedToUserID *uuid.UUID `json:"assigned_to_user_id,omitempty"`
	DueDate          *time.Time `json:"due_date,omitempty"`
	ResolvedAt       *time.Time `json:"resolved_at,omitempty"`
	EmailSent        bool       `json:"email_sent"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// NonConformityWithRefs embeds the NC plus its checklist item and user refs.
type NonConformityWithRefs struct {
	NonConformity
	ChecklistItem ChecklistItem `json:"checklist_item"`
	OpenedBy      *UserRef      `json:"opened_by,omitempty"`
	AssignedTo    *UserRef      `json:"assigned_to,omitempty"`
}

// NonConformityEvent is the append-only trail of mutations to an NC.
type NonConformityEvent struct {
	ID               uuid.UUID `json:"id"`
	NonConformityID  uuid.UUID `json:"non_conformity_id"`
	EventType        string    `json:"event_type"`
	OldStatus        *string   `json:"old_status,omitempty"`
	NewStatus        *string   `json:"new_status,omitempty"`
	Comment          *string   `json:"comment,omitempty"`
	CreatedByUserID  uuid.UUID `json:"created_by_user_id"`
	CreatedAt        time.Time `json:"created_at"`
	CreatedBy        *UserRef  `json:"created_by,omitempty"`
}

// NonConformityDetail is the single-NC projection including its event trail.
type NonConformityDetail struct {
	NonConformityWithRefs
	Events []NonConformityEvent `json:"events"`
}
