package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// time_slots — 30-минутные окна записи, которые публикует консультант.
// Пара (fp_id, start_time) уникальна; пересечения интервалов одного
// консультанта дополнительно проверяются в репозитории внутри транзакции.
type TimeSlot struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	FpID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_time_slots_fp_start"`

	StartTime time.Time `gorm:"not null;index;uniqueIndex:idx_time_slots_fp_start"`
	EndTime   time.Time `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Fp *User `gorm:"foreignKey:FpID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (s *TimeSlot) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
