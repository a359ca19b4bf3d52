package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quality-audit/backend/internal/models"
)

type ChecklistRepo struct {
	pool *pgxpool.Pool
}

func NewChecklistRepo(pool *pgxpool.Pool) *ChecklistRepo {
	return &ChecklistRepo{pool: pool}
}

func (r *ChecklistRepo) List(ctx context.Context) ([]models.ChecklistItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, code, title, description, category, sort_order
		FROM checklist_items ORDER BY sort_order, code
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.ChecklistItem
	for rows.Next() {
		var it models.ChecklistItem
		if err := rows.Scan(&it.ID, &it.Code, &it.Title, &it.Description, &it.Category, &it.SortOrder); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

func (r *ChecklistRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ChecklistItem, error) {
	var it models.ChecklistItem
	err := r.pool.QueryRow(ctx, `
		SELECT id, code, title, description, category, sort_order
		FROM checklist_items WHERE id = $1
	`, id).Scan(&it.ID, &it.Code, &it.Title, &it.Description, &it.Category, &it.SortOrder)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// GetByIDs loads the given items keyed by id. Missing ids are simply absent
// from the result; callers decide whether that is an error.
func (r *ChecklistRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.ChecklistItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, code, title, description, category, sort_order
		FROM checklist_items WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make(map[uuid.UUID]models.ChecklistItem, len(ids))
	for rows.Next() {
		var it models.ChecklistItem
		if err := rows.Scan(&it.ID, &it.Code, &it.Title, &it.Description, &it.Category, &it.SortOrder); err != nil {
			return nil, err
		}
		items[it.ID] = it
	}
	return items, nil
}

// Upsert inserts or refreshes a checklist item by code. Used by the seed command.
func (r *ChecklistRepo) Upsert(ctx context.Context, it *models.ChecklistItem) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO checklist_items (code, title, description, category, sort_order)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (code) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			category = EXCLUDED.category,
			sort_order = EXCLUDED.sort_order
		RETURNING id
	`, it.Code, it.Title, it.Description, it.Category, it.SortOrder).Scan(&it.ID)
}
