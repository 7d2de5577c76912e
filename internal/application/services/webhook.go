package services

import (
	"context"

	"github.com/demal-app/payments-service/internal/application"
	"github.com/demal-app/payments-service/internal/domain"
)

// ProcessWebhook applies a verified provider notification. It is safe for
// any number of identical deliveries: the first terminal transition wins and
// every later delivery only refreshes the audit fields.
func (s *PaymentsService) ProcessWebhook(ctx context.Context, rawPayload []byte) error {
	event, err := domain.ParseWebhookEvent(rawPayload)
	if err != nil {
		// Permanent rejection: there is nothing to correlate on and a
		// retry would carry the same payload. Malformed JSON lands here too.
		return application.NewIdentifiersMissingError()
	}

	err = s.tx.WithSerializable(ctx, func(ctx context.Context, bookings application.BookingTxStore, payments application.PaymentTxStore) error {
		attempt, err := payments.FindByCorrelation(ctx, event.RequestID, event.ProviderPaymentID)
		if err != nil {
			return err
		}

		if attempt == nil {
			// The provider may notify about items this service never
			// initiated, or the delivery may have raced the initiation
			// commit. Acknowledge so the provider stops retrying.
			s.logger.Warn("payment not found for webhook",
				"request_id", event.RequestID,
				"provider_payment_id", event.ProviderPaymentID,
			)
			return nil
		}

		if attempt.Status.IsTerminal() {
			// Exactly-once: duplicate deliveries after the terminal
			// transition touch audit fields only.
			return payments.UpdateAudit(ctx, attempt.ID, providerIDOrNil(event), event.Raw)
		}

		next, ok := event.Outcome.PaymentStatus()
		if !ok {
			return payments.UpdateAudit(ctx, attempt.ID, providerIDOrNil(event), event.Raw)
		}

		if err := attempt.ApplyOutcome(next); err != nil {
			return err
		}
		attempt.LearnProviderPaymentID(event.ProviderPaymentID)
		attempt.RawWebhookPayload = event.Raw

		if err := payments.UpdateOutcome(ctx, attempt); err != nil {
			return err
		}

		if next == domain.StatusPaid {
			// The only path by which a booking becomes PAID.
			return bookings.UpdateStatus(ctx, attempt.BookingID, domain.BookingPaid)
		}

		return nil
	})
	if err != nil {
		if svcErr, ok := application.IsServiceError(err); ok {
			return svcErr
		}
		s.logger.Error("webhook transaction failed",
			"request_id", event.RequestID,
			"provider_payment_id", event.ProviderPaymentID,
			"error", err,
		)
		return application.NewInternalError(err)
	}

	return nil
}

func providerIDOrNil(event *domain.WebhookEvent) *string {
	if event.ProviderPaymentID == "" {
		return nil
	}
	id := event.ProviderPaymentID
	return &id
}
