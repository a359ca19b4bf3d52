package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quality-audit/backend/internal/models"
)

type NonConformityRepo struct {
	pool *pgxpool.Pool
}

func NewNonConformityRepo(pool *pgxpool.Pool) *NonConformityRepo {
	return &NonConformityRepo{pool: pool}
}

// NCFilter narrows ListNonConformities results.
type NCFilter struct {
	Status  *string
	AuditID *uuid.UUID
}

const ncSelectColumns = `
	nc.id, nc.audit_id, nc.checklist_item_id, nc.opened_by_user_id,
	nc.title, nc.description, nc.status, nc.severity,
	nc.root_cause, nc.corrective_action, nc.responsible,
	nc.assigned_to_user_id, nc.due_date, nc.resolved_at, nc.email_sent,
	nc.created_at, nc.updated_at,
	ci.id, ci.code, ci.title, ci.description, ci.category, ci.sort_order,
	ob.id, ob.name, ob.email,
	au.id, au.name, au.email
`

const ncSelectJoins = `
	FROM non_conformities nc
	JOIN checklist_items ci ON ci.id = nc.checklist_item_id
	JOIN users ob ON ob.id = nc.opened_by_user_id
	LEFT JOIN users au ON au.id = nc.assigned_to_user_id
`

func scanNCWithRefs(row pgx.Row) (*models.NonConformityWithRefs, error) {
	var n models.NonConformityWithRefs
	var opened models.UserRef
	var assignedID *uuid.UUID
	var assignedName, assignedEmail *string

	err := row.Scan(&n.ID, &n.AuditID, &n.ChecklistItemID, &n.OpenedByUserID,
		&n.Title, &n.Description, &n.Status, &n.Severity,
		&n.RootCause, &n.CorrectiveAction, &n.Responsible,
		&n.AssignedToUserID, &n.DueDate, &n.ResolvedAt, &n.EmailSent,
		&n.CreatedAt, &n.UpdatedAt,
		&n.ChecklistItem.ID, &n.ChecklistItem.Code, &n.ChecklistItem.Title,
		&n.ChecklistItem.Description, &n.ChecklistItem.Category, &n.ChecklistItem.SortOrder,
		&opened.ID, &opened.Name, &opened.Email,
		&assignedID, &assignedName, &assignedEmail)
	if err != nil {
		return nil, err
	}

	n.OpenedBy = &opened
	if assignedID != nil {
		n.AssignedTo = &models.UserRef{ID: *assignedID, Name: *assignedName, Email: *assignedEmail}
	}
	return &n, nil
}

// CreateTx inserts the NC inside the caller's transaction.
func (r *NonConformityRepo) CreateTx(ctx context.Context, tx pgx.Tx, nc *models.NonConformity) error {
	return tx.QueryRow(ctx, `
		INSERT INTO non_conformities (audit_id, checklist_item_id, opened_by_user_id, title, description, status, severity)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, email_sent, created_at, updated_at
	`, nc.AuditID, nc.ChecklistItemID, nc.OpenedByUserID, nc.Title, nc.Description, nc.Status, nc.Severity,
	).Scan(&nc.ID, &nc.EmailSent, &nc.CreatedAt, &nc.UpdatedAt)
}

func (r *NonConformityRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.NonConformityWithRefs, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+ncSelectColumns+ncSelectJoins+" WHERE nc.id = $1", id)
	return scanNCWithRefs(row)
}

// List returns NCs newest first, optionally filtered.
func (r *NonConformityRepo) List(ctx context.Context, f NCFilter) ([]models.NonConformityWithRefs, error) {
	query := "SELECT " + ncSelectColumns + ncSelectJoins
	args := []any{}
	argIdx := 1
	where := []string{}

	if f.Status != nil {
		where = append(where, fmt.Sprintf("nc.status = $%d", argIdx))
		args = append(args, *f.Status)
		argIdx++
	}
	if f.AuditID != nil {
		where = append(where, fmt.Sprintf("nc.audit_id = $%d", argIdx))
		args = append(args, *f.AuditID)
		argIdx++
	}

	if len(where) > 0 {
		query += " WHERE "
		for i, w := range where {
			if i > 0 {
				query += " AND "
			}
			query += w
		}
	}
	query += " ORDER BY nc.created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ncs []models.NonConformityWithRefs
	for rows.Next() {
		n, err := scanNCWithRefs(rows)
		if err != nil {
			return nil, err
		}
		ncs = append(ncs, *n)
	}
	return ncs, nil
}

// UpdateTx writes the mutable NC fields inside the caller's transaction.
func (r *NonConformityRepo) UpdateTx(ctx context.Context, tx pgx.Tx, nc *models.NonConformity) error {
	_, err := tx.Exec(ctx, `
		UPDATE non_conformities
		SET status = $1, severity = $2, root_cause = $3, corrective_action = $4,
		    responsible = $5, assigned_to_user_id = $6, due_date = $7,
		    resolved_at = $8, updated_at = now()
		WHERE id = $9
	`, nc.Status, nc.Severity, nc.RootCause, nc.CorrectiveAction,
		nc.Responsible, nc.AssignedToUserID, nc.DueDate, nc.ResolvedAt, nc.ID)
	return err
}

// InsertEventTx appends one lifecycle event inside the caller's transaction.
func (r *NonConformityRepo) InsertEventTx(ctx context.Context, tx pgx.Tx, ev *models.NonConformityEvent) error {
	return tx.QueryRow(ctx, `
		INSERT INTO non_conformity_events (non_conformity_id, event_type, old_status, new_status, comment, created_by_user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, ev.NonConformityID, ev.EventType, ev.OldStatus, ev.NewStatus, ev.Comment, ev.CreatedByUserID,
	).Scan(&ev.ID, &ev.CreatedAt)
}

// ListEvents returns the NC's event trail newest first.
func (r *NonConformityRepo) ListEvents(ctx context.Context, ncID uuid.UUID) ([]models.NonConformityEvent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT ev.id, ev.non_conformity_id, ev.event_type, ev.old_status, ev.new_status,
		       ev.comment, ev.created_by_user_id, ev.created_at,
		       u.id, u.name, u.email
		FROM non_conformity_events ev
		JOIN users u ON u.id = ev.created_by_user_id
		WHERE ev.non_conformity_id = $1
		ORDER BY ev.created_at DESC
	`, ncID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.NonConformityEvent
	for rows.Next() {
		var ev models.NonConformityEvent
		var by models.UserRef
		if err := rows.Scan(&ev.ID, &ev.NonConformityID, &ev.EventType, &ev.OldStatus, &ev.NewStatus,
			&ev.Comment, &ev.CreatedByUserID, &ev.CreatedAt,
			&by.ID, &by.Name, &by.Email); err != nil {
			return nil, err
		}
		ev.CreatedBy = &by
		events = append(events, ev)
	}
	return events, nil
}

func (r *NonConformityRepo) MarkEmailSent(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE non_conformities SET email_sent = TRUE, updated_at = now() WHERE id = $1`, id)
	return err
}

// ListEmailPending returns NCs whose creation email has not gone out and that
// are older than the grace window. Used by the notifier worker.
func (r *NonConformityRepo) ListEmailPending(ctx context.Context, olderThan time.Duration, limit int) ([]models.NonConformityWithRefs, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx,
		"SELECT "+ncSelectColumns+ncSelectJoins+`
		WHERE nc.email_sent = FALSE AND nc.created_at < $1
		ORDER BY nc.created_at
		LIMIT $2
	`, time.Now().Add(-olderThan), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ncs []models.NonConformityWithRefs
	for rows.Next() {
		n, err := scanNCWithRefs(rows)
		if err != nil {
			return nil, err
		}
		ncs = append(ncs, *n)
	}
	return ncs, nil
}
