package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/Leganyst/fp-booking/internal/model"
)

// recordEvent пишет событие аудита. Ошибка записи не роняет операцию:
// журнал вторичен по отношению к самим данным.
func (s *SchedulingService) recordEvent(
	ctx context.Context,
	eventType model.EventType,
	userID uuid.UUID,
	slotID, bookingID *uuid.UUID,
	details map[string]any,
) {
	event := &model.Event{
		EventType:  eventType,
		UserID:     &userID,
		TimeSlotID: slotID,
		BookingID:  bookingID,
	}

	if len(details) > 0 {
		payload, err := json.Marshal(details)
		if err != nil {
			s.log.Warn("marshal event details", zap.Error(err))
		} else {
			event.Details = datatypes.JSON(payload)
		}
	}

	if err := s.events.Create(ctx, event); err != nil {
		s.log.Warn("record audit event",
			zap.String("event_type", string(eventType)),
			zap.Error(err),
		)
	}
}
