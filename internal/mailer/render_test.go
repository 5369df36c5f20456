package mailer

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"

	"github.com/glossline/detailing-booking/backend/internal/domain"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer("bookings@glossline.example", "Glossline")
	require.NoError(t, err)
	return r
}

func encode(t *testing.T, msg domain.MailMessage) []byte {
	t.Helper()
	body, err := json.Marshal(msg)
	require.NoError(t, err)
	return body
}

func bookingData() domain.BookingMailData {
	return domain.BookingMailData{
		BusinessName:  "Glossline",
		CustomerName:  "Maria Garcia",
		CustomerEmail: "maria@example.com",
		CustomerPhone: "555-010-2000",
		Reference:     "3f1c0f7e-52a4-4d3c-9d7e-0c1f2b3a4d5e",
		ServiceName:   "Full Detail",
		VehicleSize:   "medium",
		Date:          "2025-08-18",
		Slot:          "9:00 AM (Nick)",
		Address:       "120 Oak St",
		Price:         "$129.00",
		Status:        "confirmed",
	}
}

func TestRenderAllTypes(t *testing.T) {
	r := newTestRenderer(t)

	tests := []struct {
		mailType string
		data     any
		subject  string
		contains []string
	}{
		{
			mailType: domain.MailBookingReceived,
			data:     bookingData(),
			subject:  "Glossline - We received your booking",
			contains: []string{"Maria Garcia", "9:00 AM (Nick)", "$129.00", "pending"},
		},
		{
			mailType: domain.MailBookingNotification,
			data:     bookingData(),
			subject:  "Glossline - New booking request",
			contains: []string{"maria@example.com", "555-010-2000", "120 Oak St"},
		},
		{
			mailType: domain.MailBookingStatusChanged,
			data:     bookingData(),
			subject:  "Glossline - Your booking was updated",
			contains: []string{"confirmed", "3f1c0f7e-52a4-4d3c-9d7e-0c1f2b3a4d5e"},
		},
		{
			mailType: domain.MailResetPassword,
			data:     domain.ResetPasswordMailData{FullName: "Shop Owner", OTP: "123456", Expiration: 15},
			subject:  "Glossline - Password reset code",
			contains: []string{"123456", "15 minutes"},
		},
		{
			mailType: domain.MailCreateAdmin,
			data:     domain.CreateAdminMailData{FullName: "Kim Lee", Username: "kim", Password: "s3cret-pass"},
			subject:  "Glossline - Your back office account",
			contains: []string{"kim", "s3cret-pass"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.mailType, func(t *testing.T) {
			rendered, err := r.Render(encode(t, domain.MailMessage{Type: tt.mailType, To: "someone@example.com", Data: tt.data}))
			require.NoError(t, err)

			assert.Equal(t, tt.mailType, rendered.Type)
			assert.Equal(t, "someone@example.com", rendered.To)
			assert.Equal(t, tt.subject, rendered.Subject)
			for _, s := range tt.contains {
				assert.Contains(t, rendered.HTML, s)
			}
		})
	}
}

func TestRenderEscapesHTML(t *testing.T) {
	r := newTestRenderer(t)

	data := bookingData()
	data.CustomerName = "<script>alert(1)</script>"

	rendered, err := r.Render(encode(t, domain.MailMessage{Type: domain.MailBookingReceived, To: "a@example.com", Data: data}))
	require.NoError(t, err)
	assert.NotContains(t, rendered.HTML, "<script>")
}

func TestRenderRejects(t *testing.T) {
	r := newTestRenderer(t)

	_, err := r.Render(encode(t, domain.MailMessage{Type: "change_email", To: "a@example.com"}))
	assert.ErrorIs(t, err, ErrUnknownMailType)

	_, err = r.Render([]byte("{not json"))
	assert.Error(t, err)
}

type fakeSender struct {
	err  error
	sent []*mail.Msg
}

func (f *fakeSender) DialAndSend(messages ...*mail.Msg) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, messages...)
	return nil
}

func TestWorkerProcess(t *testing.T) {
	r := newTestRenderer(t)
	valid := encode(t, domain.MailMessage{Type: domain.MailBookingReceived, To: "maria@example.com", Data: bookingData()})

	t.Run("sent", func(t *testing.T) {
		sender := &fakeSender{}
		assert.Equal(t, Ack, NewWorker(r, sender).Process(valid))
		require.Len(t, sender.sent, 1)
		assert.Equal(t, []string{"Glossline - We received your booking"}, sender.sent[0].GetGenHeader(mail.HeaderSubject))
	})

	t.Run("smtp failure requeues", func(t *testing.T) {
		sender := &fakeSender{err: errors.New("connection refused")}
		assert.Equal(t, Requeue, NewWorker(r, sender).Process(valid))
	})

	t.Run("unknown type dropped", func(t *testing.T) {
		sender := &fakeSender{}
		body := encode(t, domain.MailMessage{Type: "newsletter", To: "maria@example.com"})
		assert.Equal(t, Drop, NewWorker(r, sender).Process(body))
		assert.Empty(t, sender.sent)
	})

	t.Run("bad recipient dropped", func(t *testing.T) {
		sender := &fakeSender{}
		body := encode(t, domain.MailMessage{Type: domain.MailBookingReceived, To: "not an address", Data: bookingData()})
		assert.Equal(t, Drop, NewWorker(r, sender).Process(body))
	})
}
