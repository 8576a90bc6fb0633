package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Роль пользователя в системе записи.
type UserRole string

const (
	// Обычный пользователь, который бронирует слоты.
	UserRoleGeneral UserRole = "general"
	// Консультант (FP), который публикует слоты и подтверждает брони.
	UserRoleFP UserRole = "fp"
)

// users
type User struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	Name  string `gorm:"type:varchar(255);not null"`
	Email string `gorm:"type:varchar(255);not null;uniqueIndex"`

	Role UserRole `gorm:"type:varchar(32);not null;default:'general';index"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	// Навигационные поля (опционально, удобно для Preload).
	TimeSlots []TimeSlot `gorm:"foreignKey:FpID"`
	Bookings  []Booking  `gorm:"foreignKey:UserID"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *User) IsFP() bool {
	return u.Role == UserRoleFP
}
