package model

import "gorm.io/gorm"

// AutoMigrate выполняет миграцию всех сущностей ядра записи.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&User{},
		&TimeSlot{},
		&Booking{},
		&Event{},
	); err != nil {
		return err
	}

	// Частичный уникальный индекс: не более одной активной брони на слот.
	// Конечные статусы индекс не учитывает, поэтому слот после
	// completed/cancelled/rejected можно бронировать заново.
	// Синтаксис одинаково работает в Postgres и SQLite.
	return db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_bookings_active_slot
		 ON bookings (time_slot_id)
		 WHERE status NOT IN ('completed', 'cancelled', 'rejected')`,
	).Error
}
