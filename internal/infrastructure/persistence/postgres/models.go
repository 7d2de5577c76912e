package postgres

import "time"

// BookingModel mirrors the bookings table columns this service touches.
type BookingModel struct {
	ID          string
	UserID      string
	TotalAmount int64
	Status      string
}

// PaymentModel mirrors the payments table.
type PaymentModel struct {
	ID                string
	BookingID         string
	UserID            string
	Provider          string
	RequestID         string
	ProviderPaymentID *string
	Amount            int64
	Status            string
	RawInitResponse   []byte
	RawWebhookPayload []byte
	CreatedAt         time.Time
}
