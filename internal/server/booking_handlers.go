package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Leganyst/fp-booking/internal/model"
)

type bookingRequest struct {
	Description string `json:"description"`
}

type bookingResponse struct {
	ID          uuid.UUID           `json:"id"`
	TimeSlotID  uuid.UUID           `json:"time_slot_id"`
	UserID      uuid.UUID           `json:"user_id"`
	Status      model.BookingStatus `json:"status"`
	Description string              `json:"description"`
	CreatedAt   time.Time           `json:"created_at"`
	StartTime   *time.Time          `json:"start_time,omitempty"`
	EndTime     *time.Time          `json:"end_time,omitempty"`
}

func toBookingResponse(b *model.Booking) bookingResponse {
	resp := bookingResponse{
		ID:          b.ID,
		TimeSlotID:  b.TimeSlotID,
		UserID:      b.UserID,
		Status:      b.Status,
		Description: b.Description,
		CreatedAt:   b.CreatedAt,
	}
	if b.TimeSlot != nil {
		resp.StartTime = &b.TimeSlot.StartTime
		resp.EndTime = &b.TimeSlot.EndTime
	}
	return resp
}

func (s *Server) createBooking(c *gin.Context) {
	actor, ok := s.actorID(c)
	if !ok {
		return
	}
	slotID, ok := parseID(c)
	if !ok {
		return
	}

	var req bookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	booking, err := s.svc.CreateBooking(c.Request.Context(), slotID, actor, req.Description)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBookingResponse(booking))
}

func (s *Server) getBooking(c *gin.Context) {
	actor, ok := s.actorID(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	booking, err := s.svc.GetBooking(c.Request.Context(), id, actor)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(booking))
}

func (s *Server) listBookings(c *gin.Context) {
	actor, ok := s.actorID(c)
	if !ok {
		return
	}

	page, err := s.svc.ListBookingsForActor(
		c.Request.Context(), actor, intQuery(c, "page"), intQuery(c, "page_size"))
	if err != nil {
		s.renderError(c, err)
		return
	}

	out := make([]bookingResponse, 0, len(page.Items))
	for i := range page.Items {
		out = append(out, toBookingResponse(&page.Items[i]))
	}
	c.JSON(http.StatusOK, gin.H{
		"bookings":  out,
		"page":      page.Page,
		"page_size": page.PageSize,
		"total":     page.Total,
		"has_next":  page.HasNext,
	})
}

func (s *Server) confirmBooking(c *gin.Context) {
	s.decideBooking(c, s.svc.ConfirmBooking)
}

func (s *Server) rejectBooking(c *gin.Context) {
	s.decideBooking(c, s.svc.RejectBooking)
}

func (s *Server) cancelBooking(c *gin.Context) {
	s.decideBooking(c, s.svc.CancelBooking)
}

func (s *Server) decideBooking(
	c *gin.Context,
	op func(ctx context.Context, bookingID, actorID uuid.UUID) (*model.Booking, error),
) {
	actor, ok := s.actorID(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	booking, err := op(c.Request.Context(), id, actor)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(booking))
}

func (s *Server) listEvents(c *gin.Context) {
	actor, ok := s.actorID(c)
	if !ok {
		return
	}

	events, err := s.svc.ListEventsForUser(c.Request.Context(), actor, intQuery(c, "limit"))
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}
