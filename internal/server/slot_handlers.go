package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Leganyst/fp-booking/internal/model"
)

type slotRequest struct {
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
}

type slotResponse struct {
	ID        uuid.UUID `json:"id"`
	FpID      uuid.UUID `json:"fp_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
}

func toSlotResponse(s *model.TimeSlot) slotResponse {
	return slotResponse{
		ID:        s.ID,
		FpID:      s.FpID,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		CreatedAt: s.CreatedAt,
	}
}

func (s *Server) createSlot(c *gin.Context) {
	actor, ok := s.actorID(c)
	if !ok {
		return
	}

	var req slotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_time and end_time are required (RFC3339)"})
		return
	}

	slot, err := s.svc.CreateSlot(c.Request.Context(), actor, req.StartTime, req.EndTime)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toSlotResponse(slot))
}

func (s *Server) updateSlot(c *gin.Context) {
	actor, ok := s.actorID(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req slotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_time and end_time are required (RFC3339)"})
		return
	}

	slot, err := s.svc.UpdateSlot(c.Request.Context(), id, actor, req.StartTime, req.EndTime)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSlotResponse(slot))
}

func (s *Server) deleteSlot(c *gin.Context) {
	actor, ok := s.actorID(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := s.svc.DeleteSlot(c.Request.Context(), id, actor); err != nil {
		s.renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listOwnSlots(c *gin.Context) {
	actor, ok := s.actorID(c)
	if !ok {
		return
	}

	slots, err := s.svc.ListSlotsForFP(c.Request.Context(), actor)
	if err != nil {
		s.renderError(c, err)
		return
	}

	out := make([]slotResponse, 0, len(slots))
	for i := range slots {
		out = append(out, toSlotResponse(&slots[i]))
	}
	c.JSON(http.StatusOK, gin.H{"slots": out})
}

func (s *Server) listAvailableSlots(c *gin.Context) {
	if _, ok := s.actorID(c); !ok {
		return
	}

	fpID := uuid.Nil
	if raw := c.Query("fp_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fp_id"})
			return
		}
		fpID = id
	}

	var from time.Time
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from (RFC3339)"})
			return
		}
		from = t
	}

	page, err := s.svc.ListAvailableSlots(
		c.Request.Context(), fpID, from, intQuery(c, "page"), intQuery(c, "page_size"))
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"slots":     page.Items,
		"page":      page.Page,
		"page_size": page.PageSize,
		"total":     page.Total,
		"has_next":  page.HasNext,
	})
}
