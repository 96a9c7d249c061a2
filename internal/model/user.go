package model

import "time"

// User represents an application user record as stored in the `users`
// table.  The password hash is never serialized; handlers build
// sanitized response types from this struct.  Verification and reset
// tokens are nullable: they only exist while the corresponding flow
// is in progress and are cleared once consumed.
//
// Fields:
//  ID                  – primary key identifier of the user.
//  Username            – unique display name.
//  Email               – unique email address.
//  PasswordHash        – bcrypt hashed password.
//  Role                – "user" or "admin".
//  IsVerified          – whether the email address has been confirmed.
//  IsActive            – whether the account may log in.
//  VerificationToken   – pending email verification token (nullable).
//  VerificationExpires – expiry of the verification token (nullable).
//  ResetToken          – pending password reset token (nullable).
//  ResetExpires        – expiry of the reset token (nullable).
//  CreatedAt           – timestamp of creation.
//  UpdatedAt           – timestamp of last update.
type User struct {
    ID                  uint64     // users.id
    Username            string     // users.username
    Email               string     // users.email
    PasswordHash        string     // users.password_hash
    Role                string     // users.role
    IsVerified          bool       // users.is_verified
    IsActive            bool       // users.is_active
    VerificationToken   *string    // users.verification_token (nullable)
    VerificationExpires *time.Time // users.verification_expires (nullable)
    ResetToken          *string    // users.reset_token (nullable)
    ResetExpires        *time.Time // users.reset_expires (nullable)
    CreatedAt           time.Time  // users.created_at
    UpdatedAt           time.Time  // users.updated_at
}

// Roles stored in users.role.
const (
    RoleUser  = "user"
    RoleAdmin = "admin"
)

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user and contains metadata for expiry
// and revocation.  The plain token is not stored; only its
// SHA‑256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA‑256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
    ID        uint64     // refresh_tokens.id
    UserID    uint64     // refresh_tokens.user_id
    TokenHash string     // refresh_tokens.token_hash
    ExpiresAt time.Time  // refresh_tokens.expires_at
    RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
    CreatedAt time.Time  // refresh_tokens.created_at
}
