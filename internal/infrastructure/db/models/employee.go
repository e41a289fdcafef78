package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Employee rows are soft-deleted; the per-user uniqueness of email and
// cpf applies to live rows only (partial indexes in the migration).
type Employee struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"`
	Name      string    `gorm:"size:255;not null"`
	Email     string    `gorm:"size:320;not null"`
	CPF       string    `gorm:"column:cpf;size:11;not null"`
	City      string    `gorm:"size:120;not null"`
	State     string    `gorm:"size:120;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Employee) TableName() string {
	return "employees"
}
