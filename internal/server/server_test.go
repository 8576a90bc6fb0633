package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Leganyst/fp-booking/internal/model"
	"github.com/Leganyst/fp-booking/internal/repository"
	"github.com/Leganyst/fp-booking/internal/service"
)

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

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

	svc := service.NewSchedulingService(
		repository.NewGormUserRepository(db),
		repository.NewGormTimeSlotRepository(db),
		repository.NewGormBookingRepository(db),
		repository.NewGormEventRepository(db),
		time.UTC,
		zap.NewNop(),
	)

	r := gin.New()
	New(svc, zap.NewNop()).Routes(r)
	return r, db
}

func seedUser(t *testing.T, db *gorm.DB, role model.UserRole, name string) *model.User {
	t.Helper()
	u := &model.User{Name: name, Email: name + "@example.com", Role: role}
	if err := repository.NewGormUserRepository(db).Create(context.Background(), u); err != nil {
		t.Fatalf("seed user %s: %v", name, err)
	}
	return u
}

// futureMonday — понедельник не раньше чем через неделю, валидное время слота.
func futureMonday(hour, min int) time.Time {
	d := time.Now().UTC().AddDate(0, 0, 7)
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, 1)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), hour, min, 0, 0, time.UTC)
}

func doJSON(r *gin.Engine, method, path, actor string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if actor != "" {
		req.Header.Set("X-User-ID", actor)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func slotBody(start time.Time) map[string]string {
	return map[string]string{
		"start_time": start.Format(time.RFC3339),
		"end_time":   start.Add(30 * time.Minute).Format(time.RFC3339),
	}
}

func TestAuth_MissingOrBadHeader(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodGet, "/bookings", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without header, got %d", w.Code)
	}

	w = doJSON(r, http.MethodGet, "/bookings", "not-a-uuid", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage header, got %d", w.Code)
	}
}

func TestCreateSlot_HTTP(t *testing.T) {
	r, db := newTestRouter(t)
	fp := seedUser(t, db, model.UserRoleFP, "fp")
	client := seedUser(t, db, model.UserRoleGeneral, "client")

	start := futureMonday(10, 0)

	// Консультант создаёт слот.
	w := doJSON(r, http.MethodPost, "/slots", fp.ID.String(), slotBody(start))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created struct {
		ID   string `json:"id"`
		FpID string `json:"fp_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.FpID != fp.ID.String() {
		t.Fatalf("expected fp_id %s, got %s", fp.ID, created.FpID)
	}

	// Повтор того же интервала — 422.
	w = doJSON(r, http.MethodPost, "/slots", fp.ID.String(), slotBody(start))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for duplicate, got %d: %s", w.Code, w.Body.String())
	}

	// Клиент — 403.
	w = doJSON(r, http.MethodPost, "/slots", client.ID.String(), slotBody(start.Add(time.Hour)))
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for client, got %d: %s", w.Code, w.Body.String())
	}

	// Тело без обязательных полей — 400.
	w = doJSON(r, http.MethodPost, "/slots", fp.ID.String(), map[string]string{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty body, got %d: %s", w.Code, w.Body.String())
	}
}

func TestBookingFlow_HTTP(t *testing.T) {
	r, db := newTestRouter(t)
	fp := seedUser(t, db, model.UserRoleFP, "fp")
	client := seedUser(t, db, model.UserRoleGeneral, "client")
	second := seedUser(t, db, model.UserRoleGeneral, "client2")

	start := futureMonday(11, 0)
	w := doJSON(r, http.MethodPost, "/slots", fp.ID.String(), slotBody(start))
	if w.Code != http.StatusCreated {
		t.Fatalf("create slot: %d: %s", w.Code, w.Body.String())
	}
	var slot struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &slot); err != nil {
		t.Fatalf("decode slot: %v", err)
	}

	bookPath := fmt.Sprintf("/slots/%s/bookings", slot.ID)

	// Клиент бронирует.
	w = doJSON(r, http.MethodPost, bookPath, client.ID.String(), map[string]string{"description": "консультация"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create booking: %d: %s", w.Code, w.Body.String())
	}
	var booking struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &booking); err != nil {
		t.Fatalf("decode booking: %v", err)
	}
	if booking.Status != string(model.BookingStatusPending) {
		t.Fatalf("expected pending, got %s", booking.Status)
	}

	// Второй клиент на занятый слот — 409.
	w = doJSON(r, http.MethodPost, bookPath, second.ID.String(), map[string]string{"description": "тоже"})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}

	// Пустое описание — 422.
	w = doJSON(r, http.MethodPost, bookPath, second.ID.String(), map[string]string{"description": "  "})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for blank description, got %d: %s", w.Code, w.Body.String())
	}

	// Подтверждать может только владелец слота.
	confirmPath := fmt.Sprintf("/bookings/%s/confirm", booking.ID)
	w = doJSON(r, http.MethodPost, confirmPath, client.ID.String(), nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for client confirm, got %d: %s", w.Code, w.Body.String())
	}
	w = doJSON(r, http.MethodPost, confirmPath, fp.ID.String(), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("confirm: %d: %s", w.Code, w.Body.String())
	}

	// Повторное подтверждение — 422.
	w = doJSON(r, http.MethodPost, confirmPath, fp.ID.String(), nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for double confirm, got %d: %s", w.Code, w.Body.String())
	}

	// Посторонний не видит бронь — 422 «не найдена».
	getPath := "/bookings/" + booking.ID
	w = doJSON(r, http.MethodGet, getPath, second.ID.String(), nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for stranger, got %d: %s", w.Code, w.Body.String())
	}
	w = doJSON(r, http.MethodGet, getPath, client.ID.String(), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("owner get booking: %d: %s", w.Code, w.Body.String())
	}

	// Клиент отменяет, слот снова в выдаче доступности.
	w = doJSON(r, http.MethodPost, fmt.Sprintf("/bookings/%s/cancel", booking.ID), client.ID.String(), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("cancel: %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(r, http.MethodGet, "/slots?fp_id="+fp.ID.String(), second.ID.String(), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list slots: %d: %s", w.Code, w.Body.String())
	}
	var listing struct {
		Slots []struct {
			ID        string `json:"id"`
			Available bool   `json:"available"`
		} `json:"slots"`
		Total int `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listing); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if listing.Total != 1 || !listing.Slots[0].Available {
		t.Fatalf("slot must be available after cancellation: %s", w.Body.String())
	}
}

func TestDeleteSlot_HTTP(t *testing.T) {
	r, db := newTestRouter(t)
	fp := seedUser(t, db, model.UserRoleFP, "fp")
	client := seedUser(t, db, model.UserRoleGeneral, "client")

	start := futureMonday(12, 0)
	w := doJSON(r, http.MethodPost, "/slots", fp.ID.String(), slotBody(start))
	if w.Code != http.StatusCreated {
		t.Fatalf("create slot: %d: %s", w.Code, w.Body.String())
	}
	var slot struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &slot); err != nil {
		t.Fatalf("decode slot: %v", err)
	}

	w = doJSON(r, http.MethodPost, "/slots/"+slot.ID+"/bookings", client.ID.String(), map[string]string{"description": "консультация"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create booking: %d: %s", w.Code, w.Body.String())
	}

	// Слот с ожидающей бронью удалить нельзя — 409.
	w = doJSON(r, http.MethodDelete, "/slots/"+slot.ID, fp.ID.String(), nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}

	// Мусорный ID в пути — 404, не 500.
	w = doJSON(r, http.MethodDelete, "/slots/garbage", fp.ID.String(), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for bad id, got %d: %s", w.Code, w.Body.String())
	}
}

func TestListBookings_HTTP(t *testing.T) {
	r, db := newTestRouter(t)
	fp := seedUser(t, db, model.UserRoleFP, "fp")
	client := seedUser(t, db, model.UserRoleGeneral, "client")

	start := futureMonday(13, 0)
	w := doJSON(r, http.MethodPost, "/slots", fp.ID.String(), slotBody(start))
	if w.Code != http.StatusCreated {
		t.Fatalf("create slot: %d: %s", w.Code, w.Body.String())
	}
	var slot struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &slot); err != nil {
		t.Fatalf("decode slot: %v", err)
	}
	w = doJSON(r, http.MethodPost, "/slots/"+slot.ID+"/bookings", client.ID.String(), map[string]string{"description": "консультация"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create booking: %d: %s", w.Code, w.Body.String())
	}

	// Выдача содержит времена слота.
	w = doJSON(r, http.MethodGet, "/bookings", client.ID.String(), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list bookings: %d: %s", w.Code, w.Body.String())
	}
	var listing struct {
		Bookings []struct {
			Status    string     `json:"status"`
			StartTime *time.Time `json:"start_time"`
		} `json:"bookings"`
		Total int `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listing); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if listing.Total != 1 || listing.Bookings[0].StartTime == nil {
		t.Fatalf("unexpected listing: %s", w.Body.String())
	}

	// У консультанта та же бронь видна через его слоты.
	w = doJSON(r, http.MethodGet, "/bookings", fp.ID.String(), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list fp bookings: %d: %s", w.Code, w.Body.String())
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listing); err != nil {
		t.Fatalf("decode fp listing: %v", err)
	}
	if listing.Total != 1 {
		t.Fatalf("expected 1 booking for fp, got %d", listing.Total)
	}
}
