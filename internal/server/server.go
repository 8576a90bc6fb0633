package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Leganyst/fp-booking/internal/schedule"
	"github.com/Leganyst/fp-booking/internal/service"
)

// Заголовок с ID аутентифицированного пользователя. Его проставляет
// вышестоящий шлюз; ядро ничего не знает о сессиях и паролях.
const actorHeader = "X-User-ID"

type Server struct {
	svc *service.SchedulingService
	log *zap.Logger
}

func New(svc *service.SchedulingService, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{svc: svc, log: log}
}

// Routes регистрирует маршруты ядра.
func (s *Server) Routes(r *gin.Engine) {
	r.GET("/slots", s.listAvailableSlots)
	r.POST("/slots", s.createSlot)
	r.GET("/slots/mine", s.listOwnSlots)
	r.PATCH("/slots/:id", s.updateSlot)
	r.DELETE("/slots/:id", s.deleteSlot)
	r.POST("/slots/:id/bookings", s.createBooking)

	r.GET("/bookings", s.listBookings)
	r.GET("/bookings/:id", s.getBooking)
	r.POST("/bookings/:id/confirm", s.confirmBooking)
	r.POST("/bookings/:id/reject", s.rejectBooking)
	r.POST("/bookings/:id/cancel", s.cancelBooking)

	r.GET("/events", s.listEvents)
}

// actorID извлекает ID актора из заголовка. При отсутствии или мусоре
// отвечает 401 и возвращает false.
func (s *Server) actorID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetHeader(actorHeader)
	if raw == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing " + actorHeader + " header"})
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid " + actorHeader + " header"})
		return uuid.Nil, false
	}
	return id, true
}

// renderError переводит типизированные ошибки ядра в HTTP-статусы.
func (s *Server) renderError(c *gin.Context, err error) {
	var (
		validationErr    *schedule.ValidationError
		authorizationErr *schedule.AuthorizationError
		stateErr         *schedule.StateError
		conflictErr      *schedule.ConflictError
	)

	switch {
	case errors.As(err, &validationErr):
		body := gin.H{"error": validationErr.Message}
		if validationErr.Field != "" {
			body["field"] = validationErr.Field
		}
		c.JSON(http.StatusUnprocessableEntity, body)
	case errors.As(err, &authorizationErr):
		c.JSON(http.StatusForbidden, gin.H{"error": authorizationErr.Message})
	case errors.As(err, &stateErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": stateErr.Message})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, gin.H{"error": conflictErr.Message})
	default:
		s.log.Error("internal error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func intQuery(c *gin.Context, name string) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return v
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return uuid.Nil, false
	}
	return id, true
}
