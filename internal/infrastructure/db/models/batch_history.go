package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BatchHistory is one failure-ledger entry: the rejected row and its
// validation errors, as a jsonb payload keyed by batch and user.
type BatchHistory struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"`
	BatchID   uuid.UUID `gorm:"type:uuid;index;not null"`
	Kind      string    `gorm:"size:64;not null"`
	Data      []byte    `gorm:"type:jsonb;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (BatchHistory) TableName() string {
	return "batch_histories"
}
