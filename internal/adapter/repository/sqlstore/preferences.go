package sqlstore

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tejashwikalptaru/tunebox/internal/domain"
	"github.com/tejashwikalptaru/tunebox/internal/ports"
)

// "key" is reserved in MySQL, hence the prefixed column names.
type preferenceRecord struct {
	Key       string `gorm:"column:pref_key;primaryKey;size:128"`
	Value     string `gorm:"column:pref_value;type:text;not null"`
	UpdatedAt time.Time
}

func (preferenceRecord) TableName() string {
	return "preferences"
}

// PreferenceStore implements ports.PreferenceStore on the preferences table.
type PreferenceStore struct {
	db *gorm.DB
}

// NewPreferenceStore creates a preference store sharing the given connection.
func NewPreferenceStore(db *gorm.DB) *PreferenceStore {
	return &PreferenceStore{db: db}
}

// Get returns the stored value and whether it exists.
func (s *PreferenceStore) Get(ctx context.Context, key domain.PreferenceKey) (string, bool, error) {
	var records []preferenceRecord
	err := s.db.WithContext(ctx).
		Where("pref_key = ?", string(key)).
		Limit(1).
		Find(&records).Error
	if err != nil {
		return "", false, domain.NewRepositoryError("get", "preferences", string(key), err)
	}
	if len(records) == 0 {
		return "", false, nil
	}
	return records[0].Value, true, nil
}

// Set upserts a value.
func (s *PreferenceStore) Set(ctx context.Context, key domain.PreferenceKey, value string) error {
	record := preferenceRecord{Key: string(key), Value: value}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "pref_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"pref_value", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return domain.NewRepositoryError("set", "preferences", string(key), err)
	}
	return nil
}

// Delete removes a key.
func (s *PreferenceStore) Delete(ctx context.Context, key domain.PreferenceKey) error {
	err := s.db.WithContext(ctx).
		Where("pref_key = ?", string(key)).
		Delete(&preferenceRecord{}).Error
	if err != nil {
		return domain.NewRepositoryError("delete", "preferences", string(key), err)
	}
	return nil
}

var _ ports.PreferenceStore = (*PreferenceStore)(nil)
