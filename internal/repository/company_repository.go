// Package repository contains data access logic separated from HTTP handlers.
// This file defines repository methods for companies. A company is a parent
// resource: appointments reference it and are cascade-deleted with it.
package repository

import (
	"context"      // context allows passing deadlines and cancellation signals to DB operations
	"database/sql" // sql provides generic database operations and drivers
	"errors"       // errors is used to define custom error values
	"strings"

	"github.com/chayapol-b/jobfair-booking/internal/model"
)

// ErrCompanyNotFound is returned when a company cannot be found in the DB.
var ErrCompanyNotFound = errors.New("company not found")

// CompanyRepo encapsulates all database queries related to companies.  It
// depends on a sql.DB connection which should be configured elsewhere.
type CompanyRepo struct {
	db *sql.DB // db is the underlying database connection pool
}

// NewCompanyRepo constructs a CompanyRepo with the provided DB handle.  This
// function allows dependency injection of the database in tests and at
// startup.  There is no initialization logic beyond assigning the field.
func NewCompanyRepo(db *sql.DB) *CompanyRepo {
	return &CompanyRepo{db: db}
}

// DB exposes the underlying handle so that callers composing
// multi-repository transactions (the cascade coordinator) can begin one.
func (r *CompanyRepo) DB() *sql.DB { return r.db }

// Create inserts a new company.  On success the ID field is populated
// with the auto-generated value and a follow-up SELECT fills the default
// timestamp columns so that callers receive a fully populated record.
func (r *CompanyRepo) Create(ctx context.Context, c *model.Company) error {
	const qInsert = "INSERT INTO companies (name, address, website, description, tel) VALUES (?, ?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, c.Name, c.Address, c.Website, c.Description, c.Tel)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrDuplicateName
		}
		return err // propagate DB errors to the caller
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)

	const qSelect = "SELECT name, address, website, description, tel, created_at, updated_at FROM companies WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, c.ID).Scan(
		&c.Name, &c.Address, &c.Website, &c.Description, &c.Tel, &c.CreatedAt, &c.UpdatedAt)
}

// GetByID fetches a company by its ID.  It returns ErrCompanyNotFound
// if no row is found.
func (r *CompanyRepo) GetByID(ctx context.Context, id uint64) (*model.Company, error) {
	const q = "SELECT id, name, address, website, description, tel, created_at, updated_at FROM companies WHERE id = ?"
	var c model.Company
	if err := r.db.QueryRowContext(ctx, q, id).Scan(
		&c.ID, &c.Name, &c.Address, &c.Website, &c.Description, &c.Tel, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}
	return &c, nil
}

// List returns one page of companies ordered by creation time descending
// together with the total row count, which handlers use to build the
// pagination part of the envelope.
func (r *CompanyRepo) List(ctx context.Context, limit, offset int) ([]*model.Company, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM companies").Scan(&total); err != nil {
		return nil, 0, err
	}
	const q = `SELECT id, name, address, website, description, tel, created_at, updated_at
	           FROM companies ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]*model.Company, 0)
	for rows.Next() {
		c := new(model.Company)
		if err := rows.Scan(&c.ID, &c.Name, &c.Address, &c.Website, &c.Description, &c.Tel, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Update replaces the descriptive fields of a company.  It returns
// ErrCompanyNotFound when no row matches the id.
func (r *CompanyRepo) Update(ctx context.Context, c *model.Company) error {
	const q = `UPDATE companies
	           SET name = ?, address = ?, website = ?, description = ?, tel = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, c.Name, c.Address, c.Website, c.Description, c.Tel, c.ID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrDuplicateName
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Rows affected is also zero for a no-op update; verify existence.
		var exists int
		if scanErr := r.db.QueryRowContext(ctx, "SELECT 1 FROM companies WHERE id = ?", c.ID).Scan(&exists); scanErr != nil {
			if errors.Is(scanErr, sql.ErrNoRows) {
				return ErrCompanyNotFound
			}
			return scanErr
		}
	}
	const qSelect = "SELECT name, address, website, description, tel, created_at, updated_at FROM companies WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, c.ID).Scan(
		&c.Name, &c.Address, &c.Website, &c.Description, &c.Tel, &c.CreatedAt, &c.UpdatedAt)
}

// DeleteWithBookings removes a company and every appointment referencing
// it as one transaction: either both collections are mutated or neither
// is, so a failed cleanup can never leave orphaned appointments behind a
// missing company.  It returns the number of appointments removed, or
// ErrCompanyNotFound when the company does not exist.
func (r *CompanyRepo) DeleteWithBookings(ctx context.Context, id uint64) (removed int64, err error) {
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
	if err = tx.QueryRowContext(ctx, "SELECT 1 FROM companies WHERE id = ?", id).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrCompanyNotFound
		}
		return 0, err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM appointments WHERE company_id = ?", id)
	if err != nil {
		return 0, err
	}
	removed, _ = res.RowsAffected()
	if _, err = tx.ExecContext(ctx, "DELETE FROM companies WHERE id = ?", id); err != nil {
		return 0, err
	}
	return removed, nil
}
