package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quality-audit/backend/internal/events"
	"github.com/quality-audit/backend/internal/models"
	"github.com/quality-audit/backend/internal/repositories"
	"go.uber.org/zap"
)

type AuditService struct {
	pool          *pgxpool.Pool
	auditRepo     *repositories.AuditRepo
	checklistRepo *repositories.ChecklistRepo
	ncRepo        *repositories.NonConformityRepo
	userRepo      *repositories.UserRepo
	mailer        *Mailer
	publisher     events.Publisher
	log           *zap.Logger
}

func NewAuditService(
	pool *pgxpool.Pool,
	auditRepo *repositories.AuditRepo,
	checklistRepo *repositories.ChecklistRepo,
	ncRepo *repositories.NonConformityRepo,
	userRepo *repositories.UserRepo,
	mailer *Mailer,
	publisher events.Publisher,
	log *zap.Logger,
) *AuditService {
	return &AuditService{
		pool:          pool,
		auditRepo:     auditRepo,
		checklistRepo: checklistRepo,
		ncRepo:        ncRepo,
		userRepo:      userRepo,
		mailer:        mailer,
		publisher:     publisher,
		log:           log,
	}
}

type AnswerInput struct {
	ChecklistItemID uuid.UUID
	Answer          string
	Comment         *string
}

type CreateAuditInput struct {
	PerformedByUserID      uuid.UUID
	MeasurementPlanVersion *string
	Notes                  *string
	Answers                []AnswerInput
}

// validateAnswers rejects empty sets, invalid enum values, duplicate items and
// references to checklist items that do not exist. It does not cross-check
// completeness against the full registry.
func validateAnswers(answers []AnswerInput, items map[uuid.UUID]models.ChecklistItem) error {
	if len(answers) == 0 {
		return fmt.Errorf("%w: at least one answer is required", ErrInvalidInput)
	}

	seen := make(map[uuid.UUID]bool, len(answers))
	for _, a := range answers {
		if !models.IsValidAnswer(a.Answer) {
			return fmt.Errorf("%w: invalid answer value %q", ErrInvalidInput, a.Answer)
		}
		if seen[a.ChecklistItemID] {
			return fmt.Errorf("%w: duplicate answer for checklist item %s", ErrInvalidInput, a.ChecklistItemID)
		}
		seen[a.ChecklistItemID] = true
		if _, ok := items[a.ChecklistItemID]; !ok {
			return fmt.Errorf("%w: unknown checklist item %s", ErrInvalidInput, a.ChecklistItemID)
		}
	}
	return nil
}

// CreateAudit validates the submission, persists the audit with its answers
// and derived NCs in one transaction, then dispatches creation emails and
// events after commit.
func (s *AuditService) CreateAudit(ctx context.Context, in CreateAuditInput) (*models.AuditDetail, error) {
	if len(in.Answers) == 0 {
		return nil, fmt.Errorf("%w: at least one answer is required", ErrInvalidInput)
	}

	ids := make([]uuid.UUID, 0, len(in.Answers))
	for _, a := range in.Answers {
		ids = append(ids, a.ChecklistItemID)
	}
	items, err := s.checklistRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if err := validateAnswers(in.Answers, items); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.GetByID(ctx, in.PerformedByUserID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: unknown user %s", ErrInvalidInput, in.PerformedByUserID)
		}
		return nil, err
	}

	values := make([]string, len(in.Answers))
	for i, a := range in.Answers {
		values[i] = a.Answer
	}
	score := ScoreAnswers(values)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	audit := &models.Audit{
		PerformedByUserID:          in.PerformedByUserID,
		MeasurementPlanVersion:     in.MeasurementPlanVersion,
		Notes:                      in.Notes,
		OverallAdherencePercentage: score.AdherencePercentage,
	}
	if err := s.auditRepo.CreateTx(ctx, tx, audit); err != nil {
		return nil, err
	}

	for _, a := range in.Answers {
		ans := &models.AuditAnswer{
			AuditID:         audit.ID,
			ChecklistItemID: a.ChecklistItemID,
			Answer:          a.Answer,
			Comment:         a.Comment,
		}
		if err := s.auditRepo.InsertAnswerTx(ctx, tx, ans); err != nil {
			return nil, err
		}

		if a.Answer != models.AnswerNonCompliant {
			continue
		}

		item := items[a.ChecklistItemID]
		description := item.Description
		if a.Comment != nil && *a.Comment != "" {
			description = *a.Comment
		}
		nc := &models.NonConformity{
			AuditID:         audit.ID,
			ChecklistItemID: a.ChecklistItemID,
			OpenedByUserID:  in.PerformedByUserID,
			Title:           fmt.Sprintf("NC - %s: %s", item.Code, item.Title),
			Description:     description,
			Status:          models.NCStatusOpen,
			Severity:        models.SeverityMedium,
		}
		if err := s.ncRepo.CreateTx(ctx, tx, nc); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	detail, err := s.GetAudit(ctx, audit.ID)
	if err != nil {
		return nil, err
	}

	// Post-commit side effects: best effort, never fail the request.
	go s.dispatchCreationEmails(detail.NonConformities)

	_ = s.publisher.Publish(ctx, events.StreamNC, events.Event{
		Type: events.EventAuditCreated,
		Payload: map[string]any{
			"audit_id":             audit.ID.String(),
			"adherence_percentage": audit.OverallAdherencePercentage,
			"non_conformities":     len(detail.NonConformities),
		},
	})
	for _, nc := range detail.NonConformities {
		_ = s.publisher.Publish(ctx, events.StreamNC, events.Event{
			Type: events.EventNCCreated,
			Payload: map[string]any{
				"nc_id":    nc.ID.String(),
				"audit_id": audit.ID.String(),
				"title":    nc.Title,
				"severity": nc.Severity,
			},
		})
	}

	return detail, nil
}

// dispatchCreationEmails sends one notification per created NC. Runs detached
// from the request; success is recorded only via the email_sent flag.
func (s *AuditService) dispatchCreationEmails(ncs []models.NonConformityWithRefs) {
	ctx := context.Background()
	for _, nc := range ncs {
		if err := s.mailer.SendNCCreation(nc); err != nil {
			s.log.Warn("NC creation email failed", zap.String("nc_id", nc.ID.String()), zap.Error(err))
			continue
		}
		if err := s.ncRepo.MarkEmailSent(ctx, nc.ID); err != nil {
			s.log.Warn("failed to mark NC email sent", zap.String("nc_id", nc.ID.String()), zap.Error(err))
		}
	}
}

func (s *AuditService) GetAudit(ctx context.Context, id uuid.UUID) (*models.AuditDetail, error) {
	audit, err := s.auditRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("audit %s: %w", id, ErrNotFound)
		}
		return nil, err
	}

	performer, err := s.userRepo.GetByID(ctx, audit.PerformedByUserID)
	if err != nil {
		return nil, err
	}

	answers, err := s.auditRepo.ListAnswers(ctx, id)
	if err != nil {
		return nil, err
	}

	ncs, err := s.ncRepo.List(ctx, repositories.NCFilter{AuditID: &id})
	if err != nil {
		return nil, err
	}

	return &models.AuditDetail{
		Audit:           *audit,
		PerformedBy:     performer.Ref(),
		Answers:         answers,
		NonConformities: ncs,
	}, nil
}

func (s *AuditService) ListAudits(ctx context.Context) ([]models.AuditSummary, error) {
	return s.auditRepo.List(ctx)
}

// GetReport re-aggregates a persisted audit into its per-category projection.
func (s *AuditService) GetReport(ctx context.Context, id uuid.UUID) (*AuditReport, error) {
	detail, err := s.GetAudit(ctx, id)
	if err != nil {
		return nil, err
	}

	report := BuildReport(detail.Audit, detail.PerformedBy, detail.Answers, detail.NonConformities)
	return &report, nil
}
