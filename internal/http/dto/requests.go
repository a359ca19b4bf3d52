package dto

import "time"

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuditAnswerRequest struct {
	ChecklistItemID string  `json:"checklist_item_id"`
	Answer          string  `json:"answer"`
	Comment         *string `json:"comment,omitempty"`
}

type CreateAuditRequest struct {
	PerformedByUserID      string               `json:"performed_by_user_id"`
	MeasurementPlanVersion *string              `json:"measurement_plan_version,omitempty"`
	Notes                  *string              `json:"notes,omitempty"`
	Answers                []AuditAnswerRequest `json:"answers"`
}

// UpdateNonConformityRequest is a partial update; absent fields are left
// untouched. assigned_to_user_id accepts an explicit null to clear the
// assignment.
type UpdateNonConformityRequest struct {
	Status           *string          `json:"status,omitempty"`
	Severity         *string          `json:"severity,omitempty"`
	Responsible      *string          `json:"responsible,omitempty"`
	RootCause        *string          `json:"root_cause,omitempty"`
	CorrectiveAction *string          `json:"corrective_action,omitempty"`
	DueDate          *time.Time       `json:"due_date,omitempty"`
	AssignedToUserID Optional[string] `json:"assigned_to_user_id,omitempty"`
}
