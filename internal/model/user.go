package model

import (
	"time"

	"github.com/google/uuid"
)

// User stores tenant staff with role-based access.
// Role: "admin" | "manager" | "cashier"
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	Role         string    `gorm:"type:varchar(20);not null;default:'cashier'"`
	FirstName    *string
	LastName     *string
	Phone        *string
	// Superadmin users operate the marketplace across tenants.
	Superadmin bool `gorm:"not null;default:false"`
	Active     bool `gorm:"not null;default:true"`
	LastLogin  *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Tenant *Tenant `gorm:"foreignKey:TenantID"`
}
