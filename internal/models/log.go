package models

import "time"

// History actions.
const (
	ActionAccountCreated = "ACCOUNT_CREATED"
	ActionAccountUpdated = "ACCOUNT_UPDATED"
	ActionAccountDeleted = "ACCOUNT_DELETED"
)

// AccountHistory is written in the same transaction as the account change it describes.
// AccountID is not a foreign key: rows outlive deleted accounts.
type AccountHistory struct {
	ID        uint   `gorm:"primaryKey"`
	AccountID string `gorm:"size:36;index;not null"`
	UserID    string `gorm:"size:36;index;not null"`
	Action    string `gorm:"size:32;not null"`
	Details   string `gorm:"type:text"` // JSON snapshot, AES+base64 when a key is configured
	CreatedAt time.Time
}

// AuditLog records authenticated requests.
type AuditLog struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    string `gorm:"size:36;index"`
	PathEnc   string `gorm:"size:1024"` // AES+base64, plain when no key is configured
	Method    string `gorm:"size:16"`
	Status    int
	IP        string `gorm:"size:64"`
	UserAgent string `gorm:"size:255"`
	CreatedAt time.Time
}
