package model

import (
	"time"

	"github.com/google/uuid"
)

// Tenant is an isolated store account. Every catalog, sales, and inventory
// row belongs to exactly one tenant; repositories filter by tenant_id on
// every query.
type Tenant struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name       string    `gorm:"not null"`
	Email      string    `gorm:"uniqueIndex;not null"`
	Phone      *string
	Address    *string
	City       *string
	PostalCode *string
	Subdomain  *string `gorm:"uniqueIndex"`
	Active     bool    `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
