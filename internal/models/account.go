package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account status values.
const (
	AccountActive   = "ACTIVE"
	AccountInactive = "INACTIVE"
	AccountExpired  = "EXPIRED"
)

// ValidAccountStatus reports whether s is one of the known statuses.
func ValidAccountStatus(s string) bool {
	switch s {
	case AccountActive, AccountInactive, AccountExpired:
		return true
	}
	return false
}

// Account is a shared paid subscription owned by a single user.
// Price is kept in cents to avoid float rounding, e.g. 39.90 = 3990.
type Account struct {
	ID             string    `gorm:"primaryKey;size:36"`
	OwnerID        string    `gorm:"size:36;index;not null"`
	ServiceName    string    `gorm:"size:128;not null"`
	StartDate      time.Time `gorm:"not null"`
	ExpirationDate time.Time `gorm:"index;not null"`
	MaxUsers       int       `gorm:"not null"`
	PriceCents     int64     `gorm:"not null"`
	Status         string    `gorm:"size:16;index;not null;default:ACTIVE"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Owner User `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Status == "" {
		a.Status = AccountActive
	}
	return nil
}
