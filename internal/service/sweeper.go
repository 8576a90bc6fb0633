package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Leganyst/fp-booking/internal/model"
	"github.com/Leganyst/fp-booking/internal/repository"
)

// completeIfElapsed переводит подтверждённую бронь с прошедшим слотом в
// completed и сохраняет переход. Идемпотентна: для остальных статусов и
// незакончившихся слотов ничего не делает. Вызывается на путях чтения,
// поэтому просроченная бронь никогда не показывается как confirmed.
func (s *SchedulingService) completeIfElapsed(ctx context.Context, b *model.Booking) error {
	if b.Status != model.BookingStatusConfirmed || b.TimeSlot == nil {
		return nil
	}
	if b.TimeSlot.EndTime.After(time.Now().UTC()) {
		return nil
	}

	err := s.bookings.TransitionStatus(ctx, b.ID.String(), model.BookingStatusCompleted,
		[]model.BookingStatus{model.BookingStatusConfirmed})
	if errors.Is(err, repository.ErrBookingStateChanged) {
		// Конкурент успел сменить статус между нашим чтением и переходом;
		// показываем то, что реально сохранено.
		fresh, gerr := s.bookings.GetByID(ctx, b.ID.String())
		if gerr != nil {
			return fmt.Errorf("reload booking: %w", gerr)
		}
		b.Status = fresh.Status
		return nil
	}
	if err != nil {
		return fmt.Errorf("complete booking: %w", err)
	}
	b.Status = model.BookingStatusCompleted

	s.recordEvent(ctx, model.EventTypeBookingCompleted, b.UserID, &b.TimeSlotID, &b.ID, nil)
	return nil
}
