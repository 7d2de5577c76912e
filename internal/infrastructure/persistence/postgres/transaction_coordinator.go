package postgres

import (
	"context"
	"fmt"

	"github.com/demal-app/payments-service/internal/application"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TransactionCoordinator runs orchestrator callbacks inside a serializable
// transaction, handing them transaction-scoped repository views.
type TransactionCoordinator struct {
	pool *pgxpool.Pool
}

func NewTransactionCoordinator(db *DB) *TransactionCoordinator {
	return &TransactionCoordinator{
		pool: db.Pool,
	}
}

func (tc *TransactionCoordinator) WithSerializable(
	ctx context.Context,
	fn func(ctx context.Context, bookings application.BookingTxStore, payments application.PaymentTxStore) error,
) error {
	tx, err := tc.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	txBookingRepo := &BookingRepository{q: tx}
	txPaymentRepo := &PaymentRepository{q: tx}

	if err := fn(ctx, txBookingRepo, txPaymentRepo); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
