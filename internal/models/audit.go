package models

import (
	"time"

	"github.com/google/uuid"
)

// Answer values for a single checklist item.
const (
	AnswerCompliant     = "COMPLIANT"
	AnswerNonCompliant  = "NON_COMPLIANT"
	AnswerNotApplicable = "NOT_APPLICABLE"
)

func IsValidAnswer(a string) bool {
	switch a {
	case AnswerCompliant, AnswerNonCompliant, AnswerNotApplicable:
		return true
	}
	return false
}

// Audit is an immutable record of one point-in-time assessment. It is created
// atomically with its answers and never updated afterward.
type Audit struct {
	ID                         uuid.UUID `json:"id"`
	PerformedByUserID          uuid.UUID `json:"performed_by_user_id"`
	MeasurementPlanVersion     *string   `json:"measurement_plan_version,omitempty"`
	Notes                      *string   `json:"notes,omitempty"`
	OverallAdherencePercentage float64   `json:"overall_adherence_percentage"`
	PerformedAt                time.Time `json:"performed_at"`
}

type AuditAnswer struct {
	ID              uuid.UUID `json:"id"`
	AuditID         uuid.UUID `json:"audit_id"`
	ChecklistItemID uuid.UUID `json:"checklist_item_id"`
	Answer          string    `json:"answer"`
	Comment         *string   `json:"comment,omitempty"`
}

// AuditAnswerWithItem embeds the answer plus its checklist item to avoid N+1 queries.
type AuditAnswerWithItem struct {
	AuditAnswer
	ChecklistItem ChecklistItem `json:"checklist_item"`
}

// AuditSummary is the list-view projection: audit + performer + NC count.
type AuditSummary struct {
	Audit
	PerformedBy          UserRef `json:"performed_by"`
	NonConformitiesCount int     `json:"non_conformities_count"`
}

// AuditDetail is the fully hydrated audit returned by create/get.
type AuditDetail struct {
	Audit
	PerformedBy     UserRef                 `json:"performed_by"`
	Answers         []AuditAnswerWithItem   `json:"answers"`
	NonConformities []NonConformityWithRefs `json:"non_conformities"`
}
