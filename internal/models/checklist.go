package models

import "github.com/google/uuid"

// ChecklistItem is one fixed evaluation criterion. Items are seeded at
// deployment time and never created by end users.
type ChecklistItem struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	SortOrder   int       `json:"sort_order"`
}
