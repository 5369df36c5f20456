package domain

const (
	MailBookingReceived      = "booking_received"
	MailBookingNotification  = "booking_notification"
	MailBookingStatusChanged = "booking_status_changed"
	MailResetPassword        = "reset_password"
	MailCreateAdmin          = "create_admin"
)

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type BookingMailData struct {
	BusinessName  string `json:"businessName"`
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	CustomerPhone string `json:"customerPhone"`
	Reference     string `json:"reference"`
	ServiceName   string `json:"serviceName"`
	VehicleSize   string `json:"vehicleSize"`
	Date          string `json:"date"`
	Slot          string `json:"slot"`
	Address       string `json:"address"`
	Price         string `json:"price"`
	Status        string `json:"status"`
}

type CreateAdminMailData struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type ResetPasswordMailData struct {
	FullName   string `json:"fullName"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}
