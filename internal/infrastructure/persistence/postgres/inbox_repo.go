package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	pkgpostgres "github.com/bibbank/credit-engine/pkg/postgres"
)

// InboxRepo implements port.InboxRepository.
type InboxRepo struct {
	q pkgpostgres.Querier
}

// NewInboxRepo creates an inbox repository over a pool or transaction.
func NewInboxRepo(q pkgpostgres.Querier) *InboxRepo {
	return &InboxRepo{q: q}
}

// MarkProcessed records messageID, reporting false if it was already there.
func (r *InboxRepo) MarkProcessed(ctx context.Context, messageID uuid.UUID, handledAt time.Time) (bool, error) {
	tag, err := r.q.Exec(ctx,
		`INSERT INTO processed_messages (message_id, handled_at) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		messageID, handledAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert processed message: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
