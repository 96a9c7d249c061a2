package handler

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/alpayabdullayev/Basic-Reservation-System/internal/config"
	"github.com/alpayabdullayev/Basic-Reservation-System/internal/mailer"
	"github.com/alpayabdullayev/Basic-Reservation-System/internal/model"
	"github.com/alpayabdullayev/Basic-Reservation-System/internal/repository"
	"github.com/alpayabdullayev/Basic-Reservation-System/internal/utils"
)

// verificationTTL bounds how long email verification and password
// reset tokens stay valid.
const verificationTTL = time.Hour

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
	Mail   *mailer.Mailer
	Log    *zap.Logger
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo, m *mailer.Mailer, log *zap.Logger) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t, Mail: m, Log: log}
}

// ----- DTOs -----

type registerReq struct {
	Username string `json:"username" validate:"required,min=3,max=20"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
}
type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
type forgotPasswordReq struct {
	Email string `json:"email" validate:"required,email"`
}
type resetPasswordReq struct {
	NewPassword string `json:"newPassword" validate:"required,password"`
}
type logoutReq struct {
	RefreshToken string `json:"refresh_token"`
}

// userResp is the sanitized user representation. The password hash
// and pending tokens never leave the server.
type userResp struct {
	ID         uint64    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	IsVerified bool      `json:"isVerified"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
}

func sanitizeUser(u model.User) userResp {
	return userResp{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Role:       u.Role,
		IsVerified: u.IsVerified,
		IsActive:   u.IsActive,
		CreatedAt:  u.CreatedAt,
	}
}

// setAuthCookies attaches both session tokens as cookies. httpOnly is
// always set; secure and SameSite=None only in production so local
// HTTP development keeps working.
func setAuthCookies(c echo.Context, cfg config.Config, access utils.AccessToken, refresh utils.RefreshToken) {
	sameSite := http.SameSiteLaxMode
	if cfg.IsProd() {
		sameSite = http.SameSiteNoneMode
	}
	c.SetCookie(&http.Cookie{
		Name:     "accessToken",
		Value:    access.Token,
		Path:     "/",
		Expires:  access.Exp,
		HttpOnly: true,
		Secure:   cfg.IsProd(),
		SameSite: sameSite,
	})
	c.SetCookie(&http.Cookie{
		Name:     "refreshToken",
		Value:    refresh.Raw,
		Path:     "/",
		Expires:  refresh.Exp,
		HttpOnly: true,
		Secure:   cfg.IsProd(),
		SameSite: sameSite,
	})
}

func clearAuthCookies(c echo.Context) {
	for _, name := range []string{"accessToken", "refreshToken"} {
		c.SetCookie(&http.Cookie{Name: name, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	}
}

// issueSession creates an access/refresh token pair and persists the
// refresh token hash.
func (h *AuthHandler) issueSession(ctx context.Context, u model.User) (utils.AccessToken, utils.RefreshToken, error) {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return utils.AccessToken{}, utils.RefreshToken{}, err
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return utils.AccessToken{}, utils.RefreshToken{}, err
	}
	if err := h.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return utils.AccessToken{}, utils.RefreshToken{}, err
	}
	return access, refresh, nil
}

// Register creates an unverified user and emails a verification link.
// Password hashing happens here, before persistence, as an explicit
// step of the registration path.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "create user failed"})
	}

	token := uuid.NewString()
	expires := time.Now().UTC().Add(verificationTTL)

	uid, err := h.Users.Create(ctx, req.Username, req.Email, hash, token, expires)
	if err != nil {
		if err == repository.ErrUserExists {
			return c.JSON(http.StatusConflict, echo.Map{"message": "User already exists"})
		}
		h.Log.Error("create user failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "create user failed"})
	}

	// Verification mail is best-effort: a delivery failure must not
	// undo the registration. The user can request a fresh link later.
	link := fmt.Sprintf("%s/verify-email?token=%s", h.Cfg.ClientURL, token)
	text := "Please click the link below to verify your email: \n" + link
	if err := h.Mail.Send(req.Email, "Please verify your email", text); err != nil {
		h.Log.Warn("verification mail failed", zap.String("email", req.Email), zap.Error(err))
	}

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "load user failed"})
	}
	h.Log.Info("user registered", zap.Uint64("user_id", uid))
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User created successfully",
		"user":    sanitizeUser(u),
	})
}

// VerifyEmail confirms the address tied to a verification token and
// starts a session for the verified user.
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid token."})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByVerificationToken(ctx, token)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid token."})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "query failed"})
	}
	if u.IsVerified {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Email already verified."})
	}
	if u.VerificationExpires != nil && time.Now().UTC().After(*u.VerificationExpires) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid token."})
	}

	if err := h.Users.MarkVerified(ctx, u.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "verify failed"})
	}

	access, refresh, err := h.issueSession(ctx, u)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "issue session failed"})
	}
	setAuthCookies(c, h.Cfg, access, refresh)

	h.Log.Info("email verified", zap.Uint64("user_id", u.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Email verified successfully."})
}

// Login verifies credentials and starts a session. Unverified and
// deactivated accounts are rejected with 403.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found."})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Incorrect email or password."})
	}
	if !u.IsVerified {
		return c.JSON(http.StatusForbidden, echo.Map{
			"message": "Account not verified. Please verify your account before logging in.",
		})
	}
	if !u.IsActive {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Your account is not active."})
	}

	access, refresh, err := h.issueSession(ctx, u)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "issue session failed"})
	}
	setAuthCookies(c, h.Cfg, access, refresh)

	h.Log.Info("login", zap.Uint64("user_id", u.ID))
	return c.JSON(http.StatusOK, echo.Map{
		"message":      "Login successful",
		"user":         sanitizeUser(u),
		"accessToken":  access.Token,
		"refreshToken": refresh.Raw,
	})
}

// Logout revokes the presented refresh token (cookie or body) and
// clears the session cookies.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req logoutReq
	_ = c.Bind(&req)
	raw := strings.TrimSpace(req.RefreshToken)
	if raw == "" {
		if ck, err := c.Cookie("refreshToken"); err == nil {
			raw = ck.Value
		}
	}

	if raw != "" {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()
		if err := h.Tokens.RevokeByHash(ctx, utils.HashRefreshRaw(raw)); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "logout failed"})
		}
	}

	clearAuthCookies(c)
	return c.NoContent(http.StatusNoContent)
}

// ForgotPassword issues a reset token and emails the reset link.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found."})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "query failed"})
	}

	token := uuid.NewString()
	expires := time.Now().UTC().Add(verificationTTL)
	if err := h.Users.SetResetToken(ctx, u.ID, token, expires); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "reset request failed"})
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", h.Cfg.ClientURL, token)
	text := "Please click the link below to reset your password: \n" + link
	if err := h.Mail.Send(u.Email, "Password reset", text); err != nil {
		h.Log.Warn("reset mail failed", zap.String("email", u.Email), zap.Error(err))
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Password reset email sent."})
}

// ResetPassword consumes a reset token and replaces the password hash.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid token."})
	}
	var req resetPasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByResetToken(ctx, token)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid token."})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "query failed"})
	}
	if u.ResetExpires != nil && time.Now().UTC().After(*u.ResetExpires) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Token has expired."})
	}

	hash, err := utils.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "reset failed"})
	}
	if err := h.Users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "reset failed"})
	}

	h.Log.Info("password reset", zap.Uint64("user_id", u.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Password reset successfully."})
}
