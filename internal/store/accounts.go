package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"carteira/internal/models"
	"carteira/internal/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AccountStore persists accounts; every mutation appends an AccountHistory
// row inside the same transaction.
type AccountStore struct {
	db         *gorm.DB
	encryptKey string
}

func NewAccountStore(db *gorm.DB, encryptKey string) *AccountStore {
	return &AccountStore{db: db, encryptKey: encryptKey}
}

// Get loads an account by id regardless of owner.
func (s *AccountStore) Get(ctx context.Context, id string) (*models.Account, error) {
	var acc models.Account
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&acc).Error; err != nil {
		return nil, translate(err)
	}
	return &acc, nil
}

// List returns the owner's accounts, optionally filtered by status, newest first.
func (s *AccountStore) List(ctx context.Context, ownerID, status string) ([]models.Account, error) {
	q := s.db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var accounts []models.Account
	if err := q.Order("created_at DESC, id DESC").Find(&accounts).Error; err != nil {
		return nil, translate(err)
	}
	return accounts, nil
}

// Create inserts acc (owned by acc.OwnerID) and its ACCOUNT_CREATED history row.
func (s *AccountStore) Create(ctx context.Context, acc *models.Account) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(acc).Error; err != nil {
			return translate(err)
		}
		return s.appendHistory(tx, acc.ID, acc.OwnerID, models.ActionAccountCreated,
			map[string]any{"account": snapshot(acc)})
	})
}

// Update re-reads the account inside a transaction, re-checks ownership,
// lets apply mutate it and records the before/after pair.
// Only the mutable columns are written, so apply cannot move ownership.
func (s *AccountStore) Update(ctx context.Context, userID, id string, apply func(*models.Account) error) (*models.Account, error) {
	var updated models.Account
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var acc models.Account
		if err := tx.Where("id = ?", id).First(&acc).Error; err != nil {
			return translate(err)
		}
		if acc.OwnerID != userID {
			return ErrNotOwner
		}

		before := snapshot(&acc)
		if err := apply(&acc); err != nil {
			return err
		}

		res := tx.Model(&models.Account{}).
			Where("id = ? AND owner_id = ?", id, userID).
			Updates(map[string]any{
				"service_name":    acc.ServiceName,
				"start_date":      acc.StartDate,
				"expiration_date": acc.ExpirationDate,
				"max_users":       acc.MaxUsers,
				"price_cents":     acc.PriceCents,
				"status":          acc.Status,
			})
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("id = ?", id).First(&updated).Error; err != nil {
			return translate(err)
		}

		return s.appendHistory(tx, id, userID, models.ActionAccountUpdated,
			map[string]any{"before": before, "after": snapshot(&updated)})
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the account and records ACCOUNT_DELETED with its last state.
func (s *AccountStore) Delete(ctx context.Context, userID string, acc *models.Account) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND owner_id = ?", acc.ID, userID).Delete(&models.Account{})
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return s.appendHistory(tx, acc.ID, userID, models.ActionAccountDeleted,
			map[string]any{"account": snapshot(acc)})
	})
}

// History lists the user's account history, newest first.
// Details are returned decrypted.
func (s *AccountStore) History(ctx context.Context, userID string, limit, offset int) ([]models.AccountHistory, int64, error) {
	base := s.db.WithContext(ctx).Model(&models.AccountHistory{}).Where("user_id = ?", userID)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var rows []models.AccountHistory
	if err := base.Session(&gorm.Session{}).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, 0, translate(err)
	}
	for i := range rows {
		rows[i].Details = util.DecryptField(s.encryptKey, rows[i].Details)
	}
	return rows, total, nil
}

func (s *AccountStore) appendHistory(tx *gorm.DB, accountID, userID, action string, details any) error {
	raw, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("marshal history details: %w", err)
	}
	enc, err := util.EncryptField(s.encryptKey, string(raw))
	if err != nil {
		return fmt.Errorf("encrypt history details: %w", err)
	}
	return tx.Create(&models.AccountHistory{
		AccountID: accountID,
		UserID:    userID,
		Action:    action,
		Details:   enc,
	}).Error
}

// AccountSnapshot is the JSON form of an account stored in history rows.
type AccountSnapshot struct {
	ID             string `json:"id"`
	OwnerID        string `json:"ownerId"`
	ServiceName    string `json:"serviceName"`
	StartDate      string `json:"startDate"`
	ExpirationDate string `json:"expirationDate"`
	MaxUsers       int    `json:"maxUsers"`
	Price          string `json:"price"`
	Status         string `json:"status"`
}

func snapshot(a *models.Account) AccountSnapshot {
	return AccountSnapshot{
		ID:             a.ID,
		OwnerID:        a.OwnerID,
		ServiceName:    a.ServiceName,
		StartDate:      a.StartDate.UTC().Format(time.RFC3339),
		ExpirationDate: a.ExpirationDate.UTC().Format(time.RFC3339),
		MaxUsers:       a.MaxUsers,
		Price:          util.FormatPrice(a.PriceCents),
		Status:         a.Status,
	}
}
