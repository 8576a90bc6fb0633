package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Leganyst/fp-booking/internal/model"
	"github.com/Leganyst/fp-booking/internal/repository"
	"github.com/Leganyst/fp-booking/internal/schedule"
)

// CreateBooking создаёт заявку клиента на слот. Слот должен существовать,
// лежать в будущем и не иметь активной брони; проверка и вставка атомарны.
func (s *SchedulingService) CreateBooking(
	ctx context.Context,
	slotID, clientID uuid.UUID,
	description string,
) (*model.Booking, error) {
	if _, err := s.users.GetByID(ctx, clientID.String()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &schedule.ValidationError{Field: "user_id", Message: schedule.MsgUserNotFound}
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if strings.TrimSpace(description) == "" {
		return nil, &schedule.ValidationError{Field: "description", Message: schedule.MsgDescriptionRequired}
	}

	booking := &model.Booking{
		TimeSlotID:  slotID,
		UserID:      clientID,
		Status:      model.BookingStatusPending,
		Description: description,
	}
	if err := s.bookings.CreateIfAvailable(ctx, booking); err != nil {
		switch {
		case errors.Is(err, repository.ErrSlotNotFound):
			return nil, &schedule.ValidationError{Field: "time_slot_id", Message: schedule.MsgSlotNotFound}
		case errors.Is(err, repository.ErrSlotInPast):
			return nil, &schedule.ValidationError{Field: "time_slot_id", Message: schedule.MsgSlotInPast}
		case errors.Is(err, repository.ErrSlotTaken):
			return nil, &schedule.ConflictError{Message: schedule.MsgSlotTaken}
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.log.Info("booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("slot_id", slotID.String()),
		zap.String("client_id", clientID.String()),
	)

	details := map[string]any{}
	if slot, err := s.slots.GetByID(ctx, slotID.String()); err == nil {
		details["slot"] = schedule.FormatSlotRange(
			schedule.TimeRange{Start: slot.StartTime, End: slot.EndTime}, s.loc)
	}
	s.recordEvent(ctx, model.EventTypeBookingCreated, clientID, &slotID, &booking.ID, details)

	return booking, nil
}

// ConfirmBooking подтверждает заявку. Доступно только консультанту-владельцу
// слота и только для брони в статусе ожидания.
func (s *SchedulingService) ConfirmBooking(ctx context.Context, bookingID, actorID uuid.UUID) (*model.Booking, error) {
	return s.decideBooking(ctx, bookingID, actorID, model.BookingStatusConfirmed)
}

// RejectBooking отклоняет заявку. Права и статус — как у подтверждения.
func (s *SchedulingService) RejectBooking(ctx context.Context, bookingID, actorID uuid.UUID) (*model.Booking, error) {
	return s.decideBooking(ctx, bookingID, actorID, model.BookingStatusRejected)
}

func (s *SchedulingService) decideBooking(
	ctx context.Context,
	bookingID, actorID uuid.UUID,
	to model.BookingStatus,
) (*model.Booking, error) {
	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	actor, err := s.users.GetByID(ctx, actorID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &schedule.AuthorizationError{Message: schedule.MsgFPOnly}
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !actor.IsFP() {
		return nil, &schedule.AuthorizationError{Message: schedule.MsgFPOnly}
	}
	if booking.TimeSlot == nil || booking.TimeSlot.FpID != actorID {
		return nil, &schedule.AuthorizationError{Message: schedule.MsgNotOwner}
	}

	msg := schedule.MsgOnlyPendingConfirm
	if to == model.BookingStatusRejected {
		msg = schedule.MsgOnlyPendingReject
	}
	if booking.Status != model.BookingStatusPending {
		return nil, &schedule.StateError{Message: msg}
	}

	// Переход условный: из двух конкурирующих решений выигрывает одно,
	// второе получает ту же ошибку состояния, что и при обычном повторе.
	err = s.bookings.TransitionStatus(ctx, bookingID.String(), to,
		[]model.BookingStatus{model.BookingStatusPending})
	switch {
	case errors.Is(err, repository.ErrBookingStateChanged):
		return nil, &schedule.StateError{Message: msg}
	case err != nil:
		return nil, fmt.Errorf("update booking status: %w", err)
	}
	booking.Status = to

	eventType := model.EventTypeBookingConfirmed
	if to == model.BookingStatusRejected {
		eventType = model.EventTypeBookingRejected
	}
	s.log.Info("booking decided",
		zap.String("booking_id", bookingID.String()),
		zap.String("status", string(to)),
	)
	s.recordEvent(ctx, eventType, actorID, &booking.TimeSlotID, &booking.ID, nil)

	return booking, nil
}

// CancelBooking отменяет бронь клиента. Возможно только для ожидающей или
// подтверждённой брони, пока слот ещё не закончился.
func (s *SchedulingService) CancelBooking(ctx context.Context, bookingID, actorID uuid.UUID) (*model.Booking, error) {
	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != actorID {
		return nil, &schedule.AuthorizationError{Message: schedule.MsgNotBookingOwner}
	}

	now := time.Now().UTC()
	if booking.Status.Terminal() || booking.TimeSlot == nil || !booking.TimeSlot.EndTime.After(now) {
		return nil, &schedule.StateError{Message: schedule.MsgNotCancellable}
	}

	err = s.bookings.TransitionStatus(ctx, bookingID.String(), model.BookingStatusCancelled,
		[]model.BookingStatus{model.BookingStatusPending, model.BookingStatusConfirmed})
	switch {
	case errors.Is(err, repository.ErrBookingStateChanged):
		return nil, &schedule.StateError{Message: schedule.MsgNotCancellable}
	case err != nil:
		return nil, fmt.Errorf("cancel booking: %w", err)
	}
	booking.Status = model.BookingStatusCancelled

	s.log.Info("booking cancelled", zap.String("booking_id", bookingID.String()))
	s.recordEvent(ctx, model.EventTypeBookingCancelled, actorID, &booking.TimeSlotID, &booking.ID, nil)

	return booking, nil
}

// GetBooking возвращает бронь, видимую актору: клиент видит свои брони,
// консультант — брони на свои слоты. Чужие брони неотличимы от несуществующих.
func (s *SchedulingService) GetBooking(ctx context.Context, bookingID, actorID uuid.UUID) (*model.Booking, error) {
	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	actor, err := s.users.GetByID(ctx, actorID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &schedule.ValidationError{Field: "id", Message: schedule.MsgBookingNotFound}
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	visible := booking.UserID == actorID ||
		(actor.IsFP() && booking.TimeSlot != nil && booking.TimeSlot.FpID == actorID)
	if !visible {
		return nil, &schedule.ValidationError{Field: "id", Message: schedule.MsgBookingNotFound}
	}

	if err := s.completeIfElapsed(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// ListBookingsForActor возвращает страницу броней актора: для клиента — его
// заявки, для консультанта — заявки на его слоты. Каждая бронь перед выдачей
// проходит через перевод просроченных подтверждённых броней в completed.
func (s *SchedulingService) ListBookingsForActor(
	ctx context.Context,
	actorID uuid.UUID,
	page, pageSize int,
) (schedule.Page[model.Booking], error) {
	actor, err := s.users.GetByID(ctx, actorID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return schedule.Page[model.Booking]{}, &schedule.ValidationError{Field: "user_id", Message: schedule.MsgUserNotFound}
		}
		return schedule.Page[model.Booking]{}, fmt.Errorf("load user: %w", err)
	}

	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	var (
		bookings []model.Booking
		total    int64
	)
	if actor.IsFP() {
		bookings, total, err = s.bookings.ListByFP(ctx, actorID.String(), pageSize, offset)
	} else {
		bookings, total, err = s.bookings.ListByClient(ctx, actorID.String(), pageSize, offset)
	}
	if err != nil {
		return schedule.Page[model.Booking]{}, fmt.Errorf("list bookings: %w", err)
	}

	for i := range bookings {
		if err := s.completeIfElapsed(ctx, &bookings[i]); err != nil {
			return schedule.Page[model.Booking]{}, err
		}
	}

	return schedule.NewPage(bookings, page, pageSize, int(total)), nil
}

// ListEventsForUser возвращает журнал аудита актора, новые события сверху.
func (s *SchedulingService) ListEventsForUser(ctx context.Context, actorID uuid.UUID, limit int) ([]model.Event, error) {
	events, err := s.events.ListByUser(ctx, actorID.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (s *SchedulingService) loadBooking(ctx context.Context, bookingID uuid.UUID) (*model.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &schedule.ValidationError{Field: "id", Message: schedule.MsgBookingNotFound}
		}
		return nil, fmt.Errorf("load booking: %w", err)
	}
	return booking, nil
}
