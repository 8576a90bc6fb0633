package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Leganyst/fp-booking/internal/model"
	"github.com/Leganyst/fp-booking/internal/repository"
)

func newTestService(t *testing.T) (*SchedulingService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// Одно соединение, иначе каждый коннект пула получит свою :memory:-базу.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := model.AutoMigrate(db); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	svc := NewSchedulingService(
		repository.NewGormUserRepository(db),
		repository.NewGormTimeSlotRepository(db),
		repository.NewGormBookingRepository(db),
		repository.NewGormEventRepository(db),
		time.UTC,
		zap.NewNop(),
	)
	return svc, db
}

func seedUser(t *testing.T, db *gorm.DB, role model.UserRole, name string) *model.User {
	t.Helper()
	u := &model.User{Name: name, Email: name + "@example.com", Role: role}
	if err := repository.NewGormUserRepository(db).Create(context.Background(), u); err != nil {
		t.Fatalf("seed user %s: %v", name, err)
	}
	return u
}

// futureMonday возвращает понедельник не раньше чем через неделю —
// валидное и гарантированно будущее время слота.
func futureMonday(hour, min int) time.Time {
	d := time.Now().UTC().AddDate(0, 0, 7)
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, 1)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), hour, min, 0, 0, time.UTC)
}
