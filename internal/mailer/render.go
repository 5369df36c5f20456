package mailer

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"

	"github.com/wneessen/go-mail"

	"github.com/glossline/detailing-booking/backend/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var ErrUnknownMailType = errors.New("unknown mail type")

type mailKind struct {
	template string
	subject  string
	data     func() any
}

var mailKinds = map[string]mailKind{
	domain.MailBookingReceived: {
		template: "booking_received.html",
		subject:  "%s - We received your booking",
		data:     func() any { return &domain.BookingMailData{} },
	},
	domain.MailBookingNotification: {
		template: "booking_notification.html",
		subject:  "%s - New booking request",
		data:     func() any { return &domain.BookingMailData{} },
	},
	domain.MailBookingStatusChanged: {
		template: "booking_status_changed.html",
		subject:  "%s - Your booking was updated",
		data:     func() any { return &domain.BookingMailData{} },
	},
	domain.MailResetPassword: {
		template: "reset_password.html",
		subject:  "%s - Password reset code",
		data:     func() any { return &domain.ResetPasswordMailData{} },
	},
	domain.MailCreateAdmin: {
		template: "create_admin.html",
		subject:  "%s - Your back office account",
		data:     func() any { return &domain.CreateAdminMailData{} },
	},
}

// Rendered is a queued mail message turned into its final subject and HTML body.
type Rendered struct {
	Type    string
	To      string
	Subject string
	HTML    string
}

type Renderer struct {
	templates    *template.Template
	from         string
	businessName string
}

func NewRenderer(from, businessName string) (*Renderer, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &Renderer{
		templates:    templates,
		from:         from,
		businessName: businessName,
	}, nil
}

// Render decodes a queue message body. Every error it returns is permanent for that message.
func (r *Renderer) Render(body []byte) (*Rendered, error) {
	var envelope struct {
		Type string          `json:"type"`
		To   string          `json:"to"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, err
	}

	kind, ok := mailKinds[envelope.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMailType, envelope.Type)
	}

	data := kind.data()
	if len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, data); err != nil {
			return nil, err
		}
	}

	var html bytes.Buffer
	if err := r.templates.ExecuteTemplate(&html, kind.template, data); err != nil {
		return nil, err
	}

	return &Rendered{
		Type:    envelope.Type,
		To:      envelope.To,
		Subject: fmt.Sprintf(kind.subject, r.businessName),
		HTML:    html.String(),
	}, nil
}

func (r *Renderer) Build(rendered *Rendered) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(r.from); err != nil {
		return nil, err
	}
	if err := msg.To(rendered.To); err != nil {
		return nil, err
	}
	msg.Subject(rendered.Subject)
	msg.SetBodyString(mail.TypeTextHTML, rendered.HTML)

	return msg, nil
}
