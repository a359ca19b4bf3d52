package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quality-audit/backend/internal/events"
	"github.com/quality-audit/backend/internal/models"
	"github.com/quality-audit/backend/internal/repositories"
	"go.uber.org/zap"
)

type NCService struct {
	pool      *pgxpool.Pool
	ncRepo    *repositories.NonConformityRepo
	userRepo  *repositories.UserRepo
	mailer    *Mailer
	publisher events.Publisher
	log       *zap.Logger
}

func NewNCService(
	pool *pgxpool.Pool,
	ncRepo *repositories.NonConformityRepo,
	userRepo *repositories.UserRepo,
	mailer *Mailer,
	publisher events.Publisher,
	log *zap.Logger,
) *NCService {
	return &NCService{
		pool:      pool,
		ncRepo:    ncRepo,
		userRepo:  userRepo,
		mailer:    mailer,
		publisher: publisher,
		log:       log,
	}
}

// UpdateNonConformityInput carries the PATCH payload. Nil pointers mean the
// field was absent. AssignedToSet distinguishes an absent assigned_to_user_id
// from an explicit null, which clears the assignment.
type UpdateNonConformityInput struct {
	Status           *string
	Severity         *string
	Responsible      *string
	RootCause        *string
	CorrectiveAction *string
	DueDate          *time.Time
	AssignedToUserID *uuid.UUID
	AssignedToSet    bool
}

func uuidPtrEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// planNCUpdate applies the patch to a copy of the current NC and derives the
// lifecycle events to append. Setting status to RESOLVED stamps resolvedAt;
// moving away from RESOLVED leaves the old timestamp in place.
func planNCUpdate(current models.NonConformity, in UpdateNonConformityInput, actorID uuid.UUID, now time.Time) (models.NonConformity, []models.NonConformityEvent, error) {
	if in.Status != nil && !models.IsValidNCStatus(*in.Status) {
		return current, nil, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, *in.Status)
	}
	if in.Severity != nil && !models.IsValidSeverity(*in.Severity) {
		return current, nil, fmt.Errorf("%w: invalid severity %q", ErrInvalidInput, *in.Severity)
	}

	updated := current
	var evs []models.NonConformityEvent

	if in.Status != nil {
		if *in.Status != current.Status {
			oldStatus := current.Status
			newStatus := *in.Status
			evs = append(evs, models.NonConformityEvent{
				NonConformityID: current.ID,
				EventType:       models.NCEventStatusChanged,
				OldStatus:       &oldStatus,
				NewStatus:       &newStatus,
				CreatedByUserID: actorID,
			})
		}
		updated.Status = *in.Status
		if *in.Status == models.NCStatusResolved {
			updated.ResolvedAt = &now
		}
	}

	if in.Severity != nil {
		updated.Severity = *in.Severity
	}
	if in.Responsible != nil {
		updated.Responsible = in.Responsible
	}
	if in.RootCause != nil {
		updated.RootCause = in.RootCause
	}
	if in.CorrectiveAction != nil {
		updated.CorrectiveAction = in.CorrectiveAction
	}
	if in.DueDate != nil {
		updated.DueDate = in.DueDate
	}

	if in.AssignedToSet && !uuidPtrEqual(in.AssignedToUserID, current.AssignedToUserID) {
		comment := "Assignee changed"
		evs = append(evs, models.NonConformityEvent{
			NonConformityID: current.ID,
			EventType:       models.NCEventAssignmentChanged,
			Comment:         &comment,
			CreatedByUserID: actorID,
		})
		updated.AssignedToUserID = in.AssignedToUserID
	} else if in.AssignedToSet {
		updated.AssignedToUserID = in.AssignedToUserID
	}

	return updated, evs, nil
}

// UpdateNonConformity applies a partial update and its lifecycle events in one
// transaction, then dispatches the status-change notification after commit.
func (s *NCService) UpdateNonConformity(ctx context.Context, id uuid.UUID, in UpdateNonConformityInput, actorID uuid.UUID) (*models.NonConformityDetail, error) {
	current, err := s.ncRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("non-conformity %s: %w", id, ErrNotFound)
		}
		return nil, err
	}

	if in.AssignedToSet && in.AssignedToUserID != nil {
		if _, err := s.userRepo.GetByID(ctx, *in.AssignedToUserID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("%w: unknown user %s", ErrInvalidInput, *in.AssignedToUserID)
			}
			return nil, err
		}
	}

	updated, evs, err := planNCUpdate(current.NonConformity, in, actorID, time.Now())
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := s.ncRepo.UpdateTx(ctx, tx, &updated); err != nil {
		return nil, err
	}
	for i := range evs {
		if err := s.ncRepo.InsertEventTx(ctx, tx, &evs[i]); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	for _, ev := range evs {
		if ev.EventType != models.NCEventStatusChanged {
			continue
		}
		go s.dispatchStatusChangeEmail(updated, *ev.OldStatus, *ev.NewStatus)
		_ = s.publisher.Publish(ctx, events.StreamNC, events.Event{
			Type: events.EventNCStatusChanged,
			Payload: map[string]any{
				"nc_id":      id.String(),
				"old_status": *ev.OldStatus,
				"new_status": *ev.NewStatus,
			},
		})
	}

	return s.GetNonConformity(ctx, id)
}

// dispatchStatusChangeEmail notifies the assigned user, if any. Best effort.
func (s *NCService) dispatchStatusChangeEmail(nc models.NonConformity, oldStatus, newStatus string) {
	if nc.AssignedToUserID == nil {
		return
	}

	assignee, err := s.userRepo.GetByID(context.Background(), *nc.AssignedToUserID)
	if err != nil {
		s.log.Warn("failed to load assignee for status email", zap.String("nc_id", nc.ID.String()), zap.Error(err))
		return
	}

	if err := s.mailer.SendNCStatusChange(nc.Title, oldStatus, newStatus, assignee.Email); err != nil {
		s.log.Warn("NC status email failed", zap.String("nc_id", nc.ID.String()), zap.Error(err))
	}
}

func (s *NCService) GetNonConformity(ctx context.Context, id uuid.UUID) (*models.NonConformityDetail, error) {
	nc, err := s.ncRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("non-conformity %s: %w", id, ErrNotFound)
		}
		return nil, err
	}

	evs, err := s.ncRepo.ListEvents(ctx, id)
	if err != nil {
		return nil, err
	}

	return &models.NonConformityDetail{NonConformityWithRefs: *nc, Events: evs}, nil
}

func (s *NCService) ListNonConformities(ctx context.Context, status *string) ([]models.NonConformityWithRefs, error) {
	if status != nil && !models.IsValidNCStatus(*status) {
		return nil, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, *status)
	}
	return s.ncRepo.List(ctx, repositories.NCFilter{Status: status})
}
