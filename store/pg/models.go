package pg

import "time"

type ConsumptionModel struct {
	Reference  string    `gorm:"size:255;primaryKey"`
	Outcome    string    `gorm:"size:32;not null"`
	ConsumedAt time.Time `gorm:"not null"`
	// meta data
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for ConsumptionModel.
func (ConsumptionModel) TableName() string {
	return "qr_consumptions"
}
