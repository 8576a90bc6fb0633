package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Leganyst/fp-booking/internal/model"
	"github.com/Leganyst/fp-booking/internal/repository"
	"github.com/Leganyst/fp-booking/internal/schedule"
)

// SchedulingService — фасад ядра записи. Все операции принимают ID актора
// явным параметром и сами выводят права из сохранённых данных; никакого
// «текущего пользователя» из окружения.
type SchedulingService struct {
	users    repository.UserRepository
	slots    repository.TimeSlotRepository
	bookings repository.BookingRepository
	events   repository.EventRepository

	// Часовой пояс, в котором трактуются рабочие часы консультантов.
	loc *time.Location
	log *zap.Logger
}

func NewSchedulingService(
	users repository.UserRepository,
	slots repository.TimeSlotRepository,
	bookings repository.BookingRepository,
	events repository.EventRepository,
	loc *time.Location,
	log *zap.Logger,
) *SchedulingService {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &SchedulingService{
		users:    users,
		slots:    slots,
		bookings: bookings,
		events:   events,
		loc:      loc,
		log:      log,
	}
}

// AvailableSlot — слот в выдаче доступности с вычисленным признаком занятости.
type AvailableSlot struct {
	ID        uuid.UUID `json:"id"`
	FpID      uuid.UUID `json:"fp_id"`
	FpName    string    `json:"fp_name"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Available bool      `json:"available"`
}

// CreateSlot публикует новый слот консультанта.
func (s *SchedulingService) CreateSlot(
	ctx context.Context,
	fpID uuid.UUID,
	start, end time.Time,
) (*model.TimeSlot, error) {
	fp, err := s.requireFP(ctx, fpID)
	if err != nil {
		return nil, err
	}

	if verr := schedule.ValidateSlotTimes(start, end, s.loc); verr != nil {
		return nil, verr
	}

	slot := &model.TimeSlot{
		FpID:      fp.ID,
		StartTime: start.UTC(),
		EndTime:   end.UTC(),
	}
	if err := s.slots.CreateExclusive(ctx, slot); err != nil {
		if errors.Is(err, repository.ErrSlotOverlap) {
			return nil, &schedule.ValidationError{Field: "start_time", Message: schedule.MsgDuplicateSlot}
		}
		return nil, fmt.Errorf("create slot: %w", err)
	}

	s.log.Info("slot created",
		zap.String("slot_id", slot.ID.String()),
		zap.String("fp_id", fpID.String()),
	)
	s.recordEvent(ctx, model.EventTypeSlotCreated, fpID, &slot.ID, nil, map[string]any{
		"slot": schedule.FormatSlotRange(schedule.TimeRange{Start: slot.StartTime, End: slot.EndTime}, s.loc),
	})

	return slot, nil
}

// UpdateSlot меняет границы слота. Разрешено только владельцу; все проверки
// выполняются заново, пересечения — без учёта самого слота.
func (s *SchedulingService) UpdateSlot(
	ctx context.Context,
	slotID, actorID uuid.UUID,
	start, end time.Time,
) (*model.TimeSlot, error) {
	slot, err := s.slots.GetByID(ctx, slotID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &schedule.ValidationError{Field: "id", Message: schedule.MsgSlotNotFound}
		}
		return nil, fmt.Errorf("load slot: %w", err)
	}
	if slot.FpID != actorID {
		return nil, &schedule.AuthorizationError{Message: schedule.MsgNotOwner}
	}

	if verr := schedule.ValidateSlotTimes(start, end, s.loc); verr != nil {
		return nil, verr
	}

	slot.StartTime = start.UTC()
	slot.EndTime = end.UTC()
	if err := s.slots.UpdateExclusive(ctx, slot); err != nil {
		if errors.Is(err, repository.ErrSlotOverlap) {
			return nil, &schedule.ValidationError{Field: "start_time", Message: schedule.MsgDuplicateSlot}
		}
		return nil, fmt.Errorf("update slot: %w", err)
	}

	s.log.Info("slot updated", zap.String("slot_id", slot.ID.String()))
	s.recordEvent(ctx, model.EventTypeSlotUpdated, actorID, &slot.ID, nil, map[string]any{
		"slot": schedule.FormatSlotRange(schedule.TimeRange{Start: slot.StartTime, End: slot.EndTime}, s.loc),
	})

	return slot, nil
}

// DeleteSlot удаляет слот владельца. Удаление и проверка броней атомарны:
// слот с активной или завершённой бронью удалить нельзя.
func (s *SchedulingService) DeleteSlot(ctx context.Context, slotID, actorID uuid.UUID) error {
	slot, err := s.slots.GetByID(ctx, slotID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &schedule.ValidationError{Field: "id", Message: schedule.MsgSlotNotFound}
		}
		return fmt.Errorf("load slot: %w", err)
	}
	if slot.FpID != actorID {
		return &schedule.AuthorizationError{Message: schedule.MsgNotOwner}
	}

	if err := s.slots.DeleteIfNotBooked(ctx, slotID.String()); err != nil {
		switch {
		case errors.Is(err, repository.ErrSlotHasBookings):
			return &schedule.ConflictError{Message: schedule.MsgSlotHasBookings}
		case errors.Is(err, gorm.ErrRecordNotFound):
			return &schedule.ValidationError{Field: "id", Message: schedule.MsgSlotNotFound}
		}
		return fmt.Errorf("delete slot: %w", err)
	}

	s.log.Info("slot deleted", zap.String("slot_id", slotID.String()))
	s.recordEvent(ctx, model.EventTypeSlotDeleted, actorID, &slotID, nil, nil)

	return nil
}

// ListSlotsForFP возвращает все слоты консультанта, прошлые и будущие,
// по возрастанию времени начала.
func (s *SchedulingService) ListSlotsForFP(ctx context.Context, fpID uuid.UUID) ([]model.TimeSlot, error) {
	if _, err := s.requireFP(ctx, fpID); err != nil {
		return nil, err
	}
	slots, err := s.slots.ListByFP(ctx, fpID.String())
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return slots, nil
}

// ListAvailableSlots возвращает страницу будущих слотов с признаком
// доступности. fpID == uuid.Nil — слоты всех консультантов.
func (s *SchedulingService) ListAvailableSlots(
	ctx context.Context,
	fpID uuid.UUID,
	from time.Time,
	page, pageSize int,
) (schedule.Page[AvailableSlot], error) {
	if from.IsZero() {
		from = time.Now().UTC()
	}

	fpFilter := ""
	if fpID != uuid.Nil {
		fpFilter = fpID.String()
	}
	slots, err := s.slots.ListFuture(ctx, fpFilter, from)
	if err != nil {
		return schedule.Page[AvailableSlot]{}, fmt.Errorf("list future slots: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(slots))
	for _, sl := range slots {
		ids = append(ids, sl.ID)
	}
	taken, err := s.bookings.ActiveSlotIDs(ctx, ids)
	if err != nil {
		return schedule.Page[AvailableSlot]{}, fmt.Errorf("resolve availability: %w", err)
	}

	items := make([]AvailableSlot, 0, len(slots))
	for _, sl := range slots {
		_, busy := taken[sl.ID]
		fpName := ""
		if sl.Fp != nil {
			fpName = sl.Fp.Name
		}
		items = append(items, AvailableSlot{
			ID:        sl.ID,
			FpID:      sl.FpID,
			FpName:    fpName,
			StartTime: sl.StartTime,
			EndTime:   sl.EndTime,
			Available: !busy,
		})
	}

	return schedule.Paginate(items, page, pageSize), nil
}

// requireFP загружает актора и убеждается, что он консультант.
func (s *SchedulingService) requireFP(ctx context.Context, actorID uuid.UUID) (*model.User, error) {
	u, err := s.users.GetByID(ctx, actorID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &schedule.AuthorizationError{Message: schedule.MsgFPOnly}
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !u.IsFP() {
		return nil, &schedule.AuthorizationError{Message: schedule.MsgFPOnly}
	}
	return u, nil
}
