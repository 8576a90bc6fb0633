package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Leganyst/fp-booking/internal/model"
)

type BookingRepository interface {
	// Создать бронь, если слот существует, лежит в будущем и свободен.
	// Проверка и вставка выполняются в одной транзакции.
	CreateIfAvailable(ctx context.Context, booking *model.Booking) error
	// Найти бронь по ID вместе со слотом и клиентом.
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	// Атомарно перевести бронь в статус to, если текущий статус входит в from.
	// Если конкурирующий переход успел раньше — ErrBookingStateChanged.
	TransitionStatus(ctx context.Context, id string, to model.BookingStatus, from []model.BookingStatus) error
	// Брони клиента, новые сверху.
	ListByClient(ctx context.Context, userID string, limit, offset int) ([]model.Booking, int64, error)
	// Брони по слотам консультанта, новые сверху.
	ListByFP(ctx context.Context, fpID string, limit, offset int) ([]model.Booking, int64, error)
	// Подмножество slotIDs, на которые есть активная бронь.
	ActiveSlotIDs(ctx context.Context, slotIDs []uuid.UUID) (map[uuid.UUID]struct{}, error)
}

// Реализация на GORM.
type GormBookingRepository struct {
	db *gorm.DB
}

func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

func (r *GormBookingRepository) CreateIfAvailable(ctx context.Context, booking *model.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Блокируем строку слота: конкурирующие брони и удаление слота
		// встают в очередь на этой же блокировке.
		var slot model.TimeSlot
		err := lockForUpdate(tx).First(&slot, "id = ?", booking.TimeSlotID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSlotNotFound
		}
		if err != nil {
			return err
		}

		if slot.StartTime.Before(time.Now().UTC()) {
			return ErrSlotInPast
		}

		var existing model.Booking
		err = lockForUpdate(tx.Model(&model.Booking{})).
			Where("time_slot_id = ?", booking.TimeSlotID).
			Where("status NOT IN ?", model.TerminalStatuses).
			Take(&existing).Error
		if err == nil {
			return ErrSlotTaken
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Create(booking).Error; err != nil {
			// Частичный уникальный индекс по активным броням —
			// подстраховка на случай гонки.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrSlotTaken
			}
			return err
		}
		return nil
	})
}

func (r *GormBookingRepository) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	var b model.Booking
	err := r.db.WithContext(ctx).
		Preload("TimeSlot").
		Preload("User").
		First(&b, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *GormBookingRepository) TransitionStatus(
	ctx context.Context,
	id string,
	to model.BookingStatus,
	from []model.BookingStatus,
) error {
	// Условие по текущему статусу прямо в UPDATE: из двух конкурирующих
	// переходов строку затронет ровно один.
	res := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("id = ?", id).
		Where("status IN ?", from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBookingStateChanged
	}
	return nil
}

func (r *GormBookingRepository) ListByClient(
	ctx context.Context,
	userID string,
	limit, offset int,
) ([]model.Booking, int64, error) {
	var (
		bookings []model.Booking
		total    int64
	)

	q := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("user_id = ?", userID)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	err := q.Preload("TimeSlot").
		Preload("User").
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

func (r *GormBookingRepository) ListByFP(
	ctx context.Context,
	fpID string,
	limit, offset int,
) ([]model.Booking, int64, error) {
	var (
		bookings []model.Booking
		total    int64
	)

	q := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Joins("JOIN time_slots ON time_slots.id = bookings.time_slot_id").
		Where("time_slots.fp_id = ?", fpID)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	err := q.Preload("TimeSlot").
		Preload("User").
		Order("bookings.created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

func (r *GormBookingRepository) ActiveSlotIDs(
	ctx context.Context,
	slotIDs []uuid.UUID,
) (map[uuid.UUID]struct{}, error) {
	taken := make(map[uuid.UUID]struct{}, len(slotIDs))
	if len(slotIDs) == 0 {
		return taken, nil
	}

	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("time_slot_id IN ?", slotIDs).
		Where("status NOT IN ?", model.TerminalStatuses).
		Pluck("time_slot_id", &ids).Error
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		taken[id] = struct{}{}
	}
	return taken, nil
}
