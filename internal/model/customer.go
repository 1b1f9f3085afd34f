package model

import (
	"time"

	"github.com/google/uuid"
)

// Customer is an optional CRM record a sale can be attributed to.
type Customer struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Name          string    `gorm:"not null"`
	Email         *string
	Phone         *string
	Address       *string
	LoyaltyPoints int `gorm:"not null;default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
