package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quality-audit/backend/internal/models"
)

type AuditRepo struct {
	pool *pgxpool.Pool
}

func NewAuditRepo(pool *pgxpool.Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

// CreateTx inserts the audit row inside the caller's transaction.
func (r *AuditRepo) CreateTx(ctx context.Context, tx pgx.Tx, a *models.Audit) error {
	return tx.QueryRow(ctx, `
		INSERT INTO audits (performed_by_user_id, measurement_plan_version, notes, overall_adherence_percentage)
		VALUES ($1, $2, $3, $4)
		RETURNING id, performed_at
	`, a.PerformedByUserID, a.MeasurementPlanVersion, a.Notes, a.OverallAdherencePercentage,
	).Scan(&a.ID, &a.PerformedAt)
}

// InsertAnswerTx inserts one answer row inside the caller's transaction.
func (r *AuditRepo) InsertAnswerTx(ctx context.Context, tx pgx.Tx, ans *models.AuditAnswer) error {
	return tx.QueryRow(ctx, `
		INSERT INTO audit_answers (audit_id, checklist_item_id, answer, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, ans.AuditID, ans.ChecklistItemID, ans.Answer, ans.Comment).Scan(&ans.ID)
}

func (r *AuditRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Audit, error) {
	var a models.Audit
	err := r.pool.QueryRow(ctx, `
		SELECT id, performed_by_user_id, measurement_plan_version, notes,
		       overall_adherence_percentage, performed_at
		FROM audits WHERE id = $1
	`, id).Scan(&a.ID, &a.PerformedByUserID, &a.MeasurementPlanVersion, &a.Notes,
		&a.OverallAdherencePercentage, &a.PerformedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// List returns all audits newest first, with performer info and NC counts.
func (r *AuditRepo) List(ctx context.Context) ([]models.AuditSummary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.performed_by_user_id, a.measurement_plan_version, a.notes,
		       a.overall_adherence_percentage, a.performed_at,
		       u.id, u.name, u.email,
		       (SELECT count(*) FROM non_conformities nc WHERE nc.audit_id = a.id)
		FROM audits a
		JOIN users u ON u.id = a.performed_by_user_id
		ORDER BY a.performed_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var audits []models.AuditSummary
	for rows.Next() {
		var s models.AuditSummary
		if err := rows.Scan(&s.ID, &s.PerformedByUserID, &s.MeasurementPlanVersion, &s.Notes,
			&s.OverallAdherencePercentage, &s.PerformedAt,
			&s.PerformedBy.ID, &s.PerformedBy.Name, &s.PerformedBy.Email,
			&s.NonConformitiesCount); err != nil {
			return nil, err
		}
		audits = append(audits, s)
	}
	return audits, nil
}

// ListAnswers returns the audit's answers with their checklist items, in
// checklist display order.
func (r *AuditRepo) ListAnswers(ctx context.Context, auditID uuid.UUID) ([]models.AuditAnswerWithItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT ans.id, ans.audit_id, ans.checklist_item_id, ans.answer, ans.comment,
		       ci.id, ci.code, ci.title, ci.description, ci.category, ci.sort_order
		FROM audit_answers ans
		JOIN checklist_items ci ON ci.id = ans.checklist_item_id
		WHERE ans.audit_id = $1
		ORDER BY ci.sort_order, ci.code
	`, auditID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []models.AuditAnswerWithItem
	for rows.Next() {
		var a models.AuditAnswerWithItem
		if err := rows.Scan(&a.ID, &a.AuditID, &a.ChecklistItemID, &a.Answer, &a.Comment,
			&a.ChecklistItem.ID, &a.ChecklistItem.Code, &a.ChecklistItem.Title,
			&a.ChecklistItem.Description, &a.ChecklistItem.Category, &a.ChecklistItem.SortOrder); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, nil
}
