package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/andriansp/account-service/internal/model"
)

const accountColumns = "id,name,email,password_hash,phone,is_active,otp,token,created_at,updated_at"

// AccountRepo is the MySQL-backed AccountStore.
type AccountRepo struct{ DB *sql.DB }

func NewAccountRepo(db *sql.DB) *AccountRepo { return &AccountRepo{DB: db} }

// Create inserts a new inactive account and returns its ID.
func (r *AccountRepo) Create(ctx context.Context, acc model.Account) (uint64, error) {
	email := normalizeEmail(acc.Email)
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO accounts (name, email, password_hash, phone, is_active, otp, token) VALUES (?,?,?,?,?,?,?)",
		acc.Name, email, acc.PasswordHash, acc.Phone, acc.IsActive, acc.OTP, acc.Token)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches an account by normalized email.
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (model.Account, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE email=? LIMIT 1",
		normalizeEmail(email))
	return scanAccount(row)
}

// GetByID fetches an account by id.
func (r *AccountRepo) GetByID(ctx context.Context, id uint64) (model.Account, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE id=? LIMIT 1", id)
	return scanAccount(row)
}

// SetOTP overwrites the pending one-time code for the account.
func (r *AccountRepo) SetOTP(ctx context.Context, email, otp string) error {
	return r.exec(ctx, "UPDATE accounts SET otp=? WHERE email=?", otp, normalizeEmail(email))
}

// Activate flips is_active and consumes the OTP in a single statement.
func (r *AccountRepo) Activate(ctx context.Context, email string) error {
	return r.exec(ctx, "UPDATE accounts SET is_active=1, otp=NULL WHERE email=?", normalizeEmail(email))
}

// ClearOTP consumes the OTP without touching activation state.
func (r *AccountRepo) ClearOTP(ctx context.Context, email string) error {
	return r.exec(ctx, "UPDATE accounts SET otp=NULL WHERE email=?", normalizeEmail(email))
}

// SetToken stores the newly issued session token.
func (r *AccountRepo) SetToken(ctx context.Context, email, token string) error {
	return r.exec(ctx, "UPDATE accounts SET token=? WHERE email=?", token, normalizeEmail(email))
}

// UpdateProfile overwrites the mutable profile fields.
func (r *AccountRepo) UpdateProfile(ctx context.Context, email, name, phone string) error {
	return r.exec(ctx, "UPDATE accounts SET name=?, phone=? WHERE email=?", name, phone, normalizeEmail(email))
}

// SetPasswordHash overwrites the stored password hash.
func (r *AccountRepo) SetPasswordHash(ctx context.Context, email, hash string) error {
	return r.exec(ctx, "UPDATE accounts SET password_hash=? WHERE email=?", hash, normalizeEmail(email))
}

// Search returns one page of accounts plus the total match count. When term
// is non-empty it must appear as a substring of the name or the email,
// compared case-insensitively. Results are newest first.
func (r *AccountRepo) Search(ctx context.Context, term string, page, perPage int) ([]model.Account, int64, error) {
	cond := "1=1"
	args := []any{}
	if term != "" {
		cond = "(LOWER(name) LIKE ? OR LOWER(email) LIKE ?)"
		pat := "%" + strings.ToLower(term) + "%"
		args = append(args, pat, pat)
	}

	var total int64
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM accounts WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := perPage
	offset := (page - 1) * perPage
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE "+cond+
			" ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
		append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []model.Account{}
	for rows.Next() {
		var a model.Account
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Phone,
			&a.IsActive, &a.OTP, &a.Token, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

// exec runs an UPDATE keyed on email and maps a zero-row result to
// ErrNotFound. The connection is opened with clientFoundRows, so the count
// is rows matched, not rows changed; an update that rewrites the current
// values still reports one row.
func (r *AccountRepo) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAccount(row *sql.Row) (model.Account, error) {
	var a model.Account
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Phone,
		&a.IsActive, &a.OTP, &a.Token, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, ErrNotFound
	}
	return a, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
