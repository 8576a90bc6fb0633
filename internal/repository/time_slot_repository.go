package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Leganyst/fp-booking/internal/model"
	"github.com/Leganyst/fp-booking/internal/schedule"
)

type TimeSlotRepository interface {
	// Найти слот по ID.
	GetByID(ctx context.Context, id string) (*model.TimeSlot, error)
	// Все слоты консультанта (прошлые и будущие), по возрастанию начала.
	ListByFP(ctx context.Context, fpID string) ([]model.TimeSlot, error)
	// Будущие слоты с начала from, опционально по одному консультанту.
	ListFuture(ctx context.Context, fpID string, from time.Time) ([]model.TimeSlot, error)
	// Создать слот; пересечения с другими слотами того же консультанта
	// проверяются в одной транзакции со вставкой.
	CreateExclusive(ctx context.Context, slot *model.TimeSlot) error
	// Обновить границы слота с той же проверкой, исключая сам слот.
	UpdateExclusive(ctx context.Context, slot *model.TimeSlot) error
	// Удалить слот, если по нему нет блокирующих броней.
	DeleteIfNotBooked(ctx context.Context, id string) error
}

// Статусы броней, запрещающие удаление слота. Завершённые брони тоже
// блокируют: слот с прошедшей консультацией — часть истории.
var blockingStatuses = []model.BookingStatus{
	model.BookingStatusPending,
	model.BookingStatusConfirmed,
	model.BookingStatusCompleted,
}

type GormTimeSlotRepository struct {
	db *gorm.DB
}

func NewGormTimeSlotRepository(db *gorm.DB) *GormTimeSlotRepository {
	return &GormTimeSlotRepository{db: db}
}

func (r *GormTimeSlotRepository) GetByID(ctx context.Context, id string) (*model.TimeSlot, error) {
	var slot model.TimeSlot
	if err := r.db.WithContext(ctx).First(&slot, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *GormTimeSlotRepository) ListByFP(ctx context.Context, fpID string) ([]model.TimeSlot, error) {
	var slots []model.TimeSlot
	err := r.db.WithContext(ctx).
		Where("fp_id = ?", fpID).
		Order("start_time ASC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *GormTimeSlotRepository) ListFuture(ctx context.Context, fpID string, from time.Time) ([]model.TimeSlot, error) {
	var slots []model.TimeSlot
	q := r.db.WithContext(ctx).
		Preload("Fp").
		Where("start_time >= ?", from)
	if fpID != "" {
		q = q.Where("fp_id = ?", fpID)
	}
	if err := q.Order("start_time ASC").Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *GormTimeSlotRepository) CreateExclusive(ctx context.Context, slot *model.TimeSlot) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkNoOverlap(tx, slot, uuid.Nil); err != nil {
			return err
		}
		if err := tx.Create(slot).Error; err != nil {
			// Уникальный индекс (fp_id, start_time) — подстраховка
			// для гонок, которые не поймала проверка выше.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrSlotOverlap
			}
			return err
		}
		return nil
	})
}

func (r *GormTimeSlotRepository) UpdateExclusive(ctx context.Context, slot *model.TimeSlot) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkNoOverlap(tx, slot, slot.ID); err != nil {
			return err
		}
		err := tx.Model(&model.TimeSlot{}).
			Where("id = ?", slot.ID).
			Updates(map[string]any{
				"start_time": slot.StartTime,
				"end_time":   slot.EndTime,
			}).Error
		if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrSlotOverlap
		}
		return err
	})
}

func (r *GormTimeSlotRepository) DeleteIfNotBooked(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Блокируем сам слот: параллельное создание брони держит ту же
		// блокировку, так что удаление и бронирование сериализуются.
		var slot model.TimeSlot
		if err := lockForUpdate(tx).First(&slot, "id = ?", id).Error; err != nil {
			return err
		}

		var blocking model.Booking
		err := lockForUpdate(tx.Model(&model.Booking{})).
			Where("time_slot_id = ?", id).
			Where("status IN ?", blockingStatuses).
			Take(&blocking).Error
		if err == nil {
			return ErrSlotHasBookings
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return tx.Delete(&model.TimeSlot{}, "id = ?", id).Error
	})
}

// checkNoOverlap блокирует слоты консультанта и проверяет пересечение с ними.
// excludeID исключает собственную строку при обновлении.
func checkNoOverlap(tx *gorm.DB, slot *model.TimeSlot, excludeID uuid.UUID) error {
	// Сериализацию якорим на строке владельца: она есть всегда, даже когда
	// слотов ещё нет, а блокировка существующих строк не видит чужую
	// незакоммиченную вставку. Конкурирующие вставки одного консультанта
	// встают в очередь здесь, до сканирования пересечений.
	var owner model.User
	if err := lockForUpdate(tx).First(&owner, "id = ?", slot.FpID).Error; err != nil {
		return err
	}

	var existing []model.TimeSlot
	q := lockForUpdate(tx.Model(&model.TimeSlot{})).Where("fp_id = ?", slot.FpID)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Find(&existing).Error; err != nil {
		return err
	}

	ranges := make([]schedule.TimeRange, 0, len(existing))
	for _, s := range existing {
		ranges = append(ranges, schedule.TimeRange{Start: s.StartTime, End: s.EndTime})
	}

	newRange := schedule.TimeRange{Start: slot.StartTime, End: slot.EndTime}
	if overlap, _ := schedule.HasOverlap(newRange, ranges); overlap {
		return ErrSlotOverlap
	}
	return nil
}
