package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glossline/detailing-booking/backend/internal/availability"
	"github.com/glossline/detailing-booking/backend/internal/config"
	"github.com/glossline/detailing-booking/backend/internal/domain"
)

type fakePublisher struct {
	sent []domain.MailMessage
}

func (f *fakePublisher) Publish(msg domain.MailMessage) error {
	f.sent = append(f.sent, msg)
	return nil
}

// newTestHandler wires a handler without a database. Only routes that answer before touching the
// repository can be exercised.
func newTestHandler(t *testing.T, bookingsPerWindow int) *Handler {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.Business.MaxAdvanceDays = 60
	cfg.Redis.OperationExpiration = 1
	cfg.RateLimit.BookingsPerWindow = bookingsPerWindow
	cfg.RateLimit.WindowSeconds = 60

	h, err := NewHandler(cfg, nil, &fakePublisher{}, rdb, availability.NewEngine(time.UTC))
	require.NoError(t, err)
	h.RegisterRoutes()
	return h
}

func do(t *testing.T, h *Handler, req *http.Request) (int, Response) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, req)

	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return rec.Code, resp
}

func TestGetAvailabilityWithoutRepository(t *testing.T) {
	h := newTestHandler(t, 5)

	tests := []struct {
		name    string
		query   string
		success bool
	}{
		{"missing date", "", true},
		{"past date", "?date=2000-01-01", true},
		{"beyond horizon", "?date=2999-01-01", true},
		{"malformed date", "?date=2025-13-45", false},
		{"malformed service id", "?date=2000-01-01&serviceID=abc", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp := do(t, h, httptest.NewRequest(http.MethodGet, "/availability"+tt.query, nil))
			assert.Equal(t, http.StatusOK, code)
			assert.Equal(t, tt.success, resp.Success, resp.Message)
			if tt.success {
				assert.Equal(t, []any{}, resp.Data)
			}
		})
	}
}

func TestCreateBookingRejectsBeforeStorage(t *testing.T) {
	h := newTestHandler(t, 10)

	valid := map[string]any{
		"date":          "2000-01-01",
		"time":          "9:00 AM",
		"worker":        "Nick",
		"serviceID":     1,
		"vehicleSize":   "small",
		"customerName":  "Jane Doe",
		"customerEmail": "jane@example.com",
		"customerPhone": "555-010-0000",
		"address":       "12 Oak St",
	}
	with := func(key string, value any) map[string]any {
		body := map[string]any{}
		for k, v := range valid {
			body[k] = v
		}
		body[key] = value
		return body
	}

	tests := []struct {
		name    string
		body    any
		message string
	}{
		{"past date", valid, "date is in the past"},
		{"bad email", with("customerEmail", "not-an-email"), ""},
		{"unknown size", with("vehicleSize", "huge"), ""},
		{"missing worker", with("worker", ""), ""},
		{"bad date", with("date", "01/02/2025"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := json.Marshal(tt.body)
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, "/bookings/", strings.NewReader(string(raw)))
			code, resp := do(t, h, req)
			assert.Equal(t, http.StatusOK, code)
			assert.False(t, resp.Success)
			if tt.message != "" {
				assert.Equal(t, tt.message, resp.Message)
			}
		})
	}
}

func TestCreateBookingRateLimited(t *testing.T) {
	h := newTestHandler(t, 2)

	for i := 0; i < 2; i++ {
		code, _ := do(t, h, httptest.NewRequest(http.MethodPost, "/bookings/", strings.NewReader("{")))
		assert.Equal(t, http.StatusOK, code)
	}

	code, resp := do(t, h, httptest.NewRequest(http.MethodPost, "/bookings/", strings.NewReader("{")))
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.False(t, resp.Success)
}

func TestGetBookingByMalformedReference(t *testing.T) {
	h := newTestHandler(t, 5)

	_, resp := do(t, h, httptest.NewRequest(http.MethodGet, "/bookings/not-a-reference", nil))
	assert.False(t, resp.Success)
	assert.Equal(t, "Booking not found", resp.Message)
}

func TestAdminRoutesRequireLogin(t *testing.T) {
	h := newTestHandler(t, 5)

	_, resp := do(t, h, httptest.NewRequest(http.MethodGet, "/admin/workers/", nil))
	assert.False(t, resp.Success)
	assert.Equal(t, "Not logged in", resp.Message)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, AuthClaims{
		Role:             string(domain.RoleOwner),
		RegisteredClaims: jwt.RegisteredClaims{Subject: "1"},
	})
	ss, err := forged.SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin/workers/", nil)
	req.AddCookie(&http.Cookie{Name: tokenCookieName, Value: ss})
	_, resp = do(t, h, req)
	assert.False(t, resp.Success)
	assert.Equal(t, "Invalid token", resp.Message)
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "$0.00"},
		{5, "$0.05"},
		{3500, "$35.00"},
		{18599, "$185.99"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatPrice(tt.cents))
	}
}

func TestBookingMailData(t *testing.T) {
	h := newTestHandler(t, 5)
	h.config.Business.Name = "Glossline"

	b := &domain.Booking{
		Reference:   "ref",
		Date:        "2025-08-18",
		Time:        "9:00 AM",
		Worker:      "Nick",
		VehicleSize: domain.VehicleLarge,
		PriceCents:  22000,
		Status:      domain.StatusConfirmed,
	}

	data := h.bookingMailData(b)
	assert.Equal(t, "Glossline", data.BusinessName)
	assert.Equal(t, "9:00 AM (Nick)", data.Slot)
	assert.Equal(t, "$220.00", data.Price)
	assert.Equal(t, "large", data.VehicleSize)
	assert.Equal(t, "confirmed", data.Status)
}

func TestMetricsNotOnPublicMux(t *testing.T) {
	h := newTestHandler(t, 5)

	rec := httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
