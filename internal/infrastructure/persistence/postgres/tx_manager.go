package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bibbank/credit-engine/internal/domain/port"
	pkgpostgres "github.com/bibbank/credit-engine/pkg/postgres"
)

// Store implements port.Store over a single Querier.
type Store struct {
	customers *CustomerRepo
	loans     *LoanRepo
	inbox     *InboxRepo
}

// NewStore binds all repositories to q.
func NewStore(q pkgpostgres.Querier) *Store {
	return &Store{
		customers: NewCustomerRepo(q),
		loans:     NewLoanRepo(q),
		inbox:     NewInboxRepo(q),
	}
}

func (s *Store) Customers() port.CustomerRepository { return s.customers }
func (s *Store) Loans() port.LoanRepository         { return s.loans }
func (s *Store) Inbox() port.InboxRepository        { return s.inbox }

// TxManager implements port.TxManager with a transaction-scoped advisory
// lock keyed by customer ID.
type TxManager struct {
	pool *pgxpool.Pool
}

// NewTxManager creates a transaction manager on pool.
func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return &TxManager{pool: pool}
}

// WithinCustomerLock runs fn in a transaction holding the customer's lock.
// The lock is released when the transaction ends.
func (m *TxManager) WithinCustomerLock(
	ctx context.Context,
	customerID uuid.UUID,
	fn func(ctx context.Context, store port.Store) error,
) error {
	return pkgpostgres.WithTransaction(ctx, m.pool, func(tx pgx.Tx) error {
		if err := pkgpostgres.AdvisoryXactLock(ctx, tx, "customer:"+customerID.String()); err != nil {
			return err
		}
		return fn(ctx, NewStore(tx))
	})
}
