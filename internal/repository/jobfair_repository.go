package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/chayapol-b/jobfair-booking/internal/model"
)

// ErrJobfairNotFound is returned when a job fair cannot be found in the DB.
var ErrJobfairNotFound = errors.New("jobfair not found")

// JobfairRepo encapsulates all database queries related to job fairs.
// It mirrors CompanyRepo: job fairs are the other parent resource,
// referenced by reservations instead of appointments.
type JobfairRepo struct {
	db *sql.DB
}

func NewJobfairRepo(db *sql.DB) *JobfairRepo { return &JobfairRepo{db: db} }

// DB exposes the underlying handle for transaction-composing callers.
func (r *JobfairRepo) DB() *sql.DB { return r.db }

// Create inserts a new job fair and populates the generated ID and
// timestamp fields on the given record.
func (r *JobfairRepo) Create(ctx context.Context, j *model.Jobfair) error {
	const qInsert = `INSERT INTO jobfairs (name, address, district, province, postalcode, tel, region)
	                 VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, j.Name, j.Address, j.District, j.Province, j.Postalcode, j.Tel, j.Region)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrDuplicateName
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	j.ID = uint64(id)

	const qSelect = `SELECT name, address, district, province, postalcode, tel, region, created_at, updated_at
	                 FROM jobfairs WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, j.ID).Scan(
		&j.Name, &j.Address, &j.District, &j.Province, &j.Postalcode, &j.Tel, &j.Region, &j.CreatedAt, &j.UpdatedAt)
}

// GetByID fetches a job fair by id, returning ErrJobfairNotFound when absent.
func (r *JobfairRepo) GetByID(ctx context.Context, id uint64) (*model.Jobfair, error) {
	const q = `SELECT id, name, address, district, province, postalcode, tel, region, created_at, updated_at
	           FROM jobfairs WHERE id = ?`
	var j model.Jobfair
	if err := r.db.QueryRowContext(ctx, q, id).Scan(
		&j.ID, &j.Name, &j.Address, &j.District, &j.Province, &j.Postalcode, &j.Tel, &j.Region, &j.CreatedAt, &j.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJobfairNotFound
		}
		return nil, err
	}
	return &j, nil
}

// List returns one page of job fairs (newest first) plus the total count.
func (r *JobfairRepo) List(ctx context.Context, limit, offset int) ([]*model.Jobfair, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM jobfairs").Scan(&total); err != nil {
		return nil, 0, err
	}
	const q = `SELECT id, name, address, district, province, postalcode, tel, region, created_at, updated_at
	           FROM jobfairs ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]*model.Jobfair, 0)
	for rows.Next() {
		j := new(model.Jobfair)
		if err := rows.Scan(&j.ID, &j.Name, &j.Address, &j.District, &j.Province, &j.Postalcode, &j.Tel, &j.Region, &j.CreatedAt, &j.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Update replaces the descriptive fields of a job fair.
func (r *JobfairRepo) Update(ctx context.Context, j *model.Jobfair) error {
	const q = `UPDATE jobfairs
	           SET name = ?, address = ?, district = ?, province = ?, postalcode = ?, tel = ?, region = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, j.Name, j.Address, j.District, j.Province, j.Postalcode, j.Tel, j.Region, j.ID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrDuplicateName
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists int
		if scanErr := r.db.QueryRowContext(ctx, "SELECT 1 FROM jobfairs WHERE id = ?", j.ID).Scan(&exists); scanErr != nil {
			if errors.Is(scanErr, sql.ErrNoRows) {
				return ErrJobfairNotFound
			}
			return scanErr
		}
	}
	const qSelect = `SELECT name, address, district, province, postalcode, tel, region, created_at, updated_at
	                 FROM jobfairs WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, j.ID).Scan(
		&j.Name, &j.Address, &j.District, &j.Province, &j.Postalcode, &j.Tel, &j.Region, &j.CreatedAt, &j.UpdatedAt)
}

// DeleteWithBookings removes a job fair and every reservation referencing
// it inside one transaction, returning the number of reservations removed.
// ErrJobfairNotFound is returned when the job fair does not exist.
func (r *JobfairRepo) DeleteWithBookings(ctx context.Context, id uint64) (removed int64, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()
	var exists int
	if err = tx.QueryRowContext(ctx, "SELECT 1 FROM jobfairs WHERE id = ?", id).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrJobfairNotFound
		}
		return 0, err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM reservations WHERE jobfair_id = ?", id)
	if err != nil {
		return 0, err
	}
	removed, _ = res.RowsAffected()
	if _, err = tx.ExecContext(ctx, "DELETE FROM jobfairs WHERE id = ?", id); err != nil {
		return 0, err
	}
	return removed, nil
}
