package store

import (
	"context"

	"carteira/internal/models"
	"carteira/internal/util"

	"gorm.io/gorm"
)

// AuditStore keeps the per-request audit trail. Paths are stored encrypted
// when a key is configured.
type AuditStore struct {
	db         *gorm.DB
	encryptKey string
}

func NewAuditStore(db *gorm.DB, encryptKey string) *AuditStore {
	return &AuditStore{db: db, encryptKey: encryptKey}
}

// Record stores entry, encrypting the plain path into PathEnc.
func (s *AuditStore) Record(ctx context.Context, entry models.AuditLog, path string) error {
	enc, err := util.EncryptField(s.encryptKey, path)
	if err != nil {
		return err
	}
	entry.PathEnc = enc
	return translate(s.db.WithContext(ctx).Create(&entry).Error)
}

// AuditEntry is an audit row with its path decrypted.
type AuditEntry struct {
	models.AuditLog
	Path string
}

// List pages through the user's audit rows, newest first.
func (s *AuditStore) List(ctx context.Context, userID string, limit, offset int) ([]AuditEntry, int64, error) {
	base := s.db.WithContext(ctx).Model(&models.AuditLog{}).Where("user_id = ?", userID)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var rows []models.AuditLog
	if err := base.Session(&gorm.Session{}).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, 0, translate(err)
	}

	out := make([]AuditEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, AuditEntry{AuditLog: r, Path: util.DecryptField(s.encryptKey, r.PathEnc)})
	}
	return out, total, nil
}
