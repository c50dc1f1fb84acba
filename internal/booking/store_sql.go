package booking

import (
	"context"
	"database/sql"

	"github.com/chayapol-b/jobfair-booking/internal/model"
	"github.com/chayapol-b/jobfair-booking/internal/repository"
)

// sqlStore adapts a BookingRepo to the engine's Store interface.  The
// Tx values it hands out are always *sql.Tx, so the assertions below
// cannot fail in production wiring; they only guard against a mock tx
// leaking into the SQL path.
type sqlStore struct {
	repo *repository.BookingRepo
}

// NewSQLStore wraps a booking repository for use by the engine.
func NewSQLStore(repo *repository.BookingRepo) Store {
	return &sqlStore{repo: repo}
}

func (s *sqlStore) Begin(ctx context.Context) (Tx, error) {
	return s.repo.DB().BeginTx(ctx, nil)
}

func (s *sqlStore) CountByUser(ctx context.Context, tx Tx, userID uint64) (int, error) {
	return s.repo.CountByUserTx(ctx, tx.(*sql.Tx), userID)
}

func (s *sqlStore) Create(ctx context.Context, tx Tx, b *model.Booking) error {
	return s.repo.CreateTx(ctx, tx.(*sql.Tx), b)
}
