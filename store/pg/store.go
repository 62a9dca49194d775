package pg

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	st "payflow/store/store"
)

// pgIntentStore is a postgres-backed st.IntentStore. The primary key on the
// reference column enforces single use.
type pgIntentStore struct {
	db *gorm.DB
}

// NewPgIntentStore wraps a GORM connection as an IntentStore.
func NewPgIntentStore(db *gorm.DB) st.IntentStore {
	return &pgIntentStore{db: db}
}

func (s *pgIntentStore) Consume(ctx context.Context, reference string, outcome st.Outcome) error {
	record := ConsumptionModel{
		Reference:  reference,
		Outcome:    string(outcome),
		ConsumedAt: time.Now(),
	}
	err := s.db.WithContext(ctx).Create(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return st.ErrAlreadyConsumed
		}
		return err
	}
	return nil
}

func (s *pgIntentStore) Consumed(ctx context.Context, reference string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&ConsumptionModel{}).
		Where("reference = ?", reference).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
