package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/alpayabdullayev/Basic-Reservation-System/internal/model"
)

// UserRepo provides access to the 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = "id,username,email,password_hash,role,is_verified,is_active," +
	"verification_token,verification_expires,reset_token,reset_expires,created_at,updated_at"

func scanUser(row *sql.Row) (model.User, error) {
	var (
		u          model.User
		verTok     sql.NullString
		verExp     sql.NullTime
		resetTok   sql.NullString
		resetExp   sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role,
		&u.IsVerified, &u.IsActive, &verTok, &verExp, &resetTok, &resetExp,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	if verTok.Valid {
		u.VerificationToken = &verTok.String
	}
	if verExp.Valid {
		u.VerificationExpires = &verExp.Time
	}
	if resetTok.Valid {
		u.ResetToken = &resetTok.String
	}
	if resetExp.Valid {
		u.ResetExpires = &resetExp.Time
	}
	return u, nil
}

// Create inserts an unverified user with a pending verification token and
// returns its ID. The password must already be hashed by the caller.
// Username and email uniqueness violations map to ErrUserExists.
func (r *UserRepo) Create(ctx context.Context, username, email, passwordHash, verificationToken string, verificationExpires time.Time) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, verification_token, verification_expires) VALUES (?,?,?,?,?)",
		username, email, passwordHash, verificationToken, verificationExpires)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrUserExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id))
}

// GetByVerificationToken fetches the user holding a pending verification token.
func (r *UserRepo) GetByVerificationToken(ctx context.Context, token string) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE verification_token=? LIMIT 1", token))
}

// MarkVerified flags the user as verified and clears the token pair.
func (r *UserRepo) MarkVerified(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET is_verified=1, verification_token=NULL, verification_expires=NULL WHERE id=?", id)
	return err
}

// SetResetToken stores a pending password reset token for the user.
func (r *UserRepo) SetResetToken(ctx context.Context, id uint64, token string, expires time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET reset_token=?, reset_expires=? WHERE id=?", token, expires, id)
	return err
}

// GetByResetToken fetches the user holding a pending reset token.
func (r *UserRepo) GetByResetToken(ctx context.Context, token string) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE reset_token=? LIMIT 1", token))
}

// UpdatePassword replaces the password hash and clears any reset token.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, passwordHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=?, reset_token=NULL, reset_expires=NULL WHERE id=?", passwordHash, id)
	return err
}
