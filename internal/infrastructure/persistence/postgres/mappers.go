package postgres

import "github.com/demal-app/payments-service/internal/domain"

func toBookingDomain(m BookingModel) *domain.Booking {
	return &domain.Booking{
		ID:          m.ID,
		UserID:      m.UserID,
		TotalAmount: m.TotalAmount,
		Status:      domain.BookingStatus(m.Status),
	}
}

func toPaymentDomain(m PaymentModel) *domain.PaymentAttempt {
	return &domain.PaymentAttempt{
		ID:                m.ID,
		BookingID:         m.BookingID,
		UserID:            m.UserID,
		Provider:          m.Provider,
		RequestID:         m.RequestID,
		ProviderPaymentID: m.ProviderPaymentID,
		Amount:            m.Amount,
		Status:            domain.PaymentStatus(m.Status),
		RawInitResponse:   m.RawInitResponse,
		RawWebhookPayload: m.RawWebhookPayload,
		CreatedAt:         m.CreatedAt,
	}
}

func toPaymentModel(p *domain.PaymentAttempt) PaymentModel {
	return PaymentModel{
		ID:                p.ID,
		BookingID:         p.BookingID,
		UserID:            p.UserID,
		Provider:          p.Provider,
		RequestID:         p.RequestID,
		ProviderPaymentID: p.ProviderPaymentID,
		Amount:            p.Amount,
		Status:            string(p.Status),
		RawInitResponse:   p.RawInitResponse,
		RawWebhookPayload: p.RawWebhookPayload,
		CreatedAt:         p.CreatedAt,
	}
}
