package services

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/quality-audit/backend/internal/models"
)

func strPtr(s string) *string { return &s }

func openNC() models.NonConformity {
	return models.NonConformity{
		ID:       uuid.New(),
		Status:   models.NCStatusOpen,
		Severity: models.SeverityMedium,
		Title:    "NC - 3: Strategic Alignment",
	}
}

func TestPlanNCUpdateStatusChange(t *testing.T) {
	current := openNC()
	actor := uuid.New()
	now := time.Now()

	updated, evs, err := planNCUpdate(current, UpdateNonConformityInput{
		Status: strPtr(models.NCStatusResolved),
	}, actor, now)
	if err != nil {
		t.Fatalf("planNCUpdate failed: %v", err)
	}

	if updated.Status != models.NCStatusResolved {
		t.Errorf("Status = %q, want RESOLVED", updated.Status)
	}
	if updated.ResolvedAt == nil || !updated.ResolvedAt.Equal(now) {
		t.Errorf("ResolvedAt = %v, want %v", updated.ResolvedAt, now)
	}

	if len(evs) != 1 {
		t.Fatalf("got %d events, want 1", len(evs))
	}
	ev := evs[0]
	if ev.EventType != models.NCEventStatusChanged {
		t.Errorf("EventType = %q, want STATUS_CHANGED", ev.EventType)
	}
	if ev.OldStatus == nil || *ev.OldStatus != models.NCStatusOpen {
		t.Errorf("OldStatus = %v, want OPEN", ev.OldStatus)
	}
	if ev.NewStatus == nil || *ev.NewStatus != models.NCStatusResolved {
		t.Errorf("NewStatus = %v, want RESOLVED", ev.NewStatus)
	}
	if ev.CreatedByUserID != actor {
		t.Errorf("CreatedByUserID = %v, want %v", ev.CreatedByUserID, actor)
	}
}

func TestPlanNCUpdateReopenKeepsResolvedAt(t *testing.T) {
	resolvedAt := time.Now().Add(-time.Hour)
	current := openNC()
	current.Status = models.NCStatusResolved
	current.ResolvedAt = &resolvedAt

	updated, evs, err := planNCUpdate(current, UpdateNonConformityInput{
		Status: strPtr(models.NCStatusOpen),
	}, uuid.New(), time.Now())
	if err != nil {
		t.Fatalf("planNCUpdate failed: %v", err)
	}

	// Known quirk: resolvedAt is not cleared when an NC leaves RESOLVED.
	if updated.ResolvedAt == nil || !updated.ResolvedAt.Equal(resolvedAt) {
		t.Errorf("ResolvedAt = %v, want untouched %v", updated.ResolvedAt, resolvedAt)
	}
	if updated.Status != models.NCStatusOpen {
		t.Errorf("Status = %q, want OPEN", updated.Status)
	}
	if len(evs) != 1 || evs[0].EventType != models.NCEventStatusChanged {
		t.Errorf("expected exactly one STATUS_CHANGED event, got %v", evs)
	}
}

func TestPlanNCUpdateSameStatusNoEvent(t *testing.T) {
	current := openNC()

	_, evs, err := planNCUpdate(current, UpdateNonConformityInput{
		Status: strPtr(models.NCStatusOpen),
	}, uuid.New(), time.Now())
	if err != nil {
		t.Fatalf("planNCUpdate failed: %v", err)
	}
	if len(evs) != 0 {
		t.Errorf("got %d events for unchanged status, want 0", len(evs))
	}
}

func TestPlanNCUpdateSeverityOnlyNoEvents(t *testing.T) {
	current := openNC()

	updated, evs, err := planNCUpdate(current, UpdateNonConformityInput{
		Severity: strPtr(models.SeverityCritical),
	}, uuid.New(), time.Now())
	if err != nil {
		t.Fatalf("planNCUpdate failed: %v", err)
	}

	if updated.Severity != models.SeverityCritical {
		t.Errorf("Severity = %q, want CRITICAL", updated.Severity)
	}
	if len(evs) != 0 {
		t.Errorf("severity-only update produced %d events, want 0", len(evs))
	}
	if updated.ResolvedAt != nil {
		t.Errorf("ResolvedAt = %v, want nil", updated.ResolvedAt)
	}
}

func TestPlanNCUpdateAssignmentChange(t *testing.T) {
	current := openNC()
	assignee := uuid.New()

	updated, evs, err := planNCUpdate(current, UpdateNonConformityInput{
		AssignedToUserID: &assignee,
		AssignedToSet:    true,
	}, uuid.New(), time.Now())
	if err != nil {
		t.Fatalf("planNCUpdate failed: %v", err)
	}

	if updated.AssignedToUserID == nil || *updated.AssignedToUserID != assignee {
		t.Errorf("AssignedToUserID = %v, want %v", updated.AssignedToUserID, assignee)
	}
	if len(evs) != 1 {
		t.Fatalf("got %d events, want 1", len(evs))
	}
	if evs[0].EventType != models.NCEventAssignmentChanged {
		t.Errorf("EventType = %q, want ASSIGNMENT_CHANGED", evs[0].EventType)
	}
	if evs[0].OldStatus != nil || evs[0].NewStatus != nil {
		t.Error("assignment event should not carry statuses")
	}
}

func TestPlanNCUpdateClearAssignment(t *testing.T) {
	assignee := uuid.New()
	current := openNC()
	current.AssignedToUserID = &assignee

	updated, evs, err := planNCUpdate(current, UpdateNonConformityInput{
		AssignedToUserID: nil,
		AssignedToSet:    true,
	}, uuid.New(), time.Now())
	if err != nil {
		t.Fatalf("planNCUpdate failed: %v", err)
	}

	if updated.AssignedToUserID != nil {
		t.Errorf("AssignedToUserID = %v, want nil", updated.AssignedToUserID)
	}
	if len(evs) != 1 || evs[0].EventType != models.NCEventAssignmentChanged {
		t.Errorf("expected one ASSIGNMENT_CHANGED event, got %v", evs)
	}
}

func TestPlanNCUpdateAbsentAssignmentNoEvent(t *testing.T) {
	assignee := uuid.New()
	current := openNC()
	current.AssignedToUserID = &assignee

	updated, evs, err := planNCUpdate(current, UpdateNonConformityInput{
		Responsible: strPtr("QA Team"),
	}, uuid.New(), time.Now())
	if err != nil {
		t.Fatalf("planNCUpdate failed: %v", err)
	}

	if updated.AssignedToUserID == nil || *updated.AssignedToUserID != assignee {
		t.Error("absent assigned_to_user_id must not touch the assignment")
	}
	if len(evs) != 0 {
		t.Errorf("got %d events, want 0", len(evs))
	}
	if updated.Responsible == nil || *updated.Responsible != "QA Team" {
		t.Errorf("Responsible = %v, want QA Team", updated.Responsible)
	}
}

func TestPlanNCUpdateStatusAndAssignment(t *testing.T) {
	current := openNC()
	assignee := uuid.New()

	_, evs, err := planNCUpdate(current, UpdateNonConformityInput{
		Status:           strPtr(models.NCStatusInProgress),
		AssignedToUserID: &assignee,
		AssignedToSet:    true,
	}, uuid.New(), time.Now())
	if err != nil {
		t.Fatalf("planNCUpdate failed: %v", err)
	}

	if len(evs) != 2 {
		t.Fatalf("got %d events, want 2", len(evs))
	}
	types := map[string]bool{}
	for _, ev := range evs {
		types[ev.EventType] = true
	}
	if !types[models.NCEventStatusChanged] || !types[models.NCEventAssignmentChanged] {
		t.Errorf("expected STATUS_CHANGED and ASSIGNMENT_CHANGED, got %v", types)
	}
}

func TestPlanNCUpdateInvalidEnums(t *testing.T) {
	current := openNC()

	_, _, err := planNCUpdate(current, UpdateNonConformityInput{Status: strPtr("CLOSED")}, uuid.New(), time.Now())
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("invalid status: err = %v, want ErrInvalidInput", err)
	}

	_, _, err = planNCUpdate(current, UpdateNonConformityInput{Severity: strPtr("EXTREME")}, uuid.New(), time.Now())
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("invalid severity: err = %v, want ErrInvalidInput", err)
	}
}

func TestValidateAnswers(t *testing.T) {
	itemA := uuid.New()
	itemB := uuid.New()
	items := map[uuid.UUID]models.ChecklistItem{
		itemA: {ID: itemA, Code: "1"},
		itemB: {ID: itemB, Code: "2"},
	}

	tests := []struct {
		name    string
		answers []AnswerInput
		wantErr bool
	}{
		{
			name: "valid",
			answers: []AnswerInput{
				{ChecklistItemID: itemA, Answer: models.AnswerCompliant},
				{ChecklistItemID: itemB, Answer: models.AnswerNotApplicable},
			},
		},
		{
			name:    "empty",
			answers: nil,
			wantErr: true,
		},
		{
			name: "invalid enum",
			answers: []AnswerInput{
				{ChecklistItemID: itemA, Answer: "MAYBE"},
			},
			wantErr: true,
		},
		{
			name: "duplicate item",
			answers: []AnswerInput{
				{ChecklistItemID: itemA, Answer: models.AnswerCompliant},
				{ChecklistItemID: itemA, Answer: models.AnswerNonCompliant},
			},
			wantErr: true,
		},
		{
			name: "unknown item",
			answers: []AnswerInput{
				{ChecklistItemID: uuid.New(), Answer: models.AnswerCompliant},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateAnswers(tt.answers, items)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("err = %v, want ErrInvalidInput", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
