package models

import (
	"time"

	"github.com/google/uuid"
)

// User roles
const (
	RoleAuditor        = "AUDITOR"
	RoleQualityManager = "QUALITY_MANAGER"
	RoleViewer         = "VIEWER"
)

func IsValidRole(role string) bool {
	switch role {
	case RoleAuditor, RoleQualityManager, RoleViewer:
		return true
	}
	return false
}

type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserRef is the minimal user projection embedded in audits and NCs.
type UserRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

func (u *User) Ref() UserRef {
	return UserRef{ID: u.ID, Name: u.Name, Email: u.Email}
}
