package handler

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/andriansp/account-service/internal/config"
	"github.com/andriansp/account-service/internal/mail"
	"github.com/andriansp/account-service/internal/model"
	"github.com/andriansp/account-service/internal/repository"
	"github.com/andriansp/account-service/internal/utils"
)

// Every storage call is bounded by this timeout.
const dbTimeout = 5 * time.Second

const (
	defaultPerPage = 5
	maxPerPage     = 100
)

// AccountHandler bundles the storage and mail capabilities behind the
// account endpoints. It owns the whole account lifecycle: registration,
// OTP verification, login, profile reads/updates and password reset.
type AccountHandler struct {
	Cfg    config.Config
	Store  repository.AccountStore
	Mailer mail.Mailer
}

func NewAccountHandler(cfg config.Config, store repository.AccountStore, mailer mail.Mailer) *AccountHandler {
	return &AccountHandler{Cfg: cfg, Store: store, Mailer: mailer}
}

// ----- DTOs -----

type registerReq struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
	Phone                string `json:"phone"`
}
type verifyOtpReq struct {
	Email string `json:"email"`
	Otp   string `json:"otp"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type emailReq struct {
	Email string `json:"email"`
}
type updateProfileReq struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}
type updatePasswordReq struct {
	Email                   string `json:"email"`
	NewPassword             string `json:"new_password"`
	NewPasswordConfirmation string `json:"new_password_confirmation"`
}

// Register: create an inactive account, issue an OTP and mail it.
func (h *AccountHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	req.Email = normalizeEmail(req.Email)

	rules := []rule{
		{req.Name != "", "The name field is required."},
		{len(req.Name) <= 255, "The name field must not be greater than 255 characters."},
	}
	rules = append(rules, emailRules(req.Email)...)
	rules = append(rules,
		rule{len(req.Email) <= 255, "The email field must not be greater than 255 characters."},
		rule{req.Password != "", "The password field is required."},
		rule{len(req.Password) >= 6, "The password field must be at least 6 characters."},
		rule{req.Password == req.PasswordConfirmation, "The password field confirmation does not match."},
		rule{req.Phone != "", "The phone field is required."},
		rule{len(req.Phone) <= 255, "The phone field must not be greater than 255 characters."},
	)
	if msg := firstViolation(rules); msg != "" {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to hash password"})
	}
	otp, err := utils.GenerateOTP()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to generate OTP"})
	}

	acc := model.Account{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Phone:        req.Phone,
		IsActive:     false,
		OTP:          sql.NullString{String: otp, Valid: true},
		Token:        utils.NewSessionToken(req.Email),
	}
	if _, err := h.Store.Create(ctx, acc); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": "The email has already been taken."})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to create account"})
	}

	// Fire-and-forget: a failed dispatch never rolls back the registration.
	if err := h.Mailer.Send(ctx, req.Email, mail.KindVerification, otp); err != nil {
		log.Printf("register: mail dispatch failed for %s: %v", req.Email, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Registration successful. Please verify the OTP sent to your email to activate your account.",
	})
}

// VerifyOtp: activate the account when the supplied code matches the
// outstanding one. A cleared OTP never matches, so repeating the call after
// success always fails.
func (h *AccountHandler) VerifyOtp(c echo.Context) error {
	var req verifyOtpReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	req.Email = normalizeEmail(req.Email)

	rules := append(emailRules(req.Email), rule{req.Otp != "", "The otp field is required."})
	if msg := firstViolation(rules); msg != "" {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	acc, err := h.Store.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Email not found."})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "query failed"})
	}

	if !acc.OTP.Valid || acc.OTP.String != req.Otp {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "The OTP code is incorrect or invalid."})
	}

	if err := h.Store.Activate(ctx, req.Email); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to activate account"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Account verified successfully."})
}

// ResendOtp: issue a fresh code for an account still awaiting verification.
func (h *AccountHandler) ResendOtp(c echo.Context) error {
	var req emailReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	req.Email = normalizeEmail(req.Email)

	if msg := firstViolation(emailRules(req.Email)); msg != "" {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	acc, err := h.Store.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Email not found."})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "query failed"})
	}
	if acc.IsActive {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Account is already active. No OTP verification needed."})
	}

	otp, err := utils.GenerateOTP()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to generate OTP"})
	}
	if err := h.Store.SetOTP(ctx, req.Email, otp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to store OTP"})
	}
	if err := h.Mailer.Send(ctx, req.Email, mail.KindVerification, otp); err != nil {
		log.Printf("resend-otp: mail dispatch failed for %s: %v", req.Email, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "A new OTP code has been sent to your email.",
		"data":    echo.Map{"email": acc.Email},
	})
}

// Login: verify credentials, require activation, rotate the session token.
// Failure order is fixed: unknown email (404), wrong password (401),
// inactive account (403).
func (h *AccountHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	req.Email = normalizeEmail(req.Email)

	rules := append(emailRules(req.Email),
		rule{req.Password != "", "The password field is required."},
		rule{len(req.Password) >= 6, "The password field must be at least 6 characters."},
	)
	if msg := firstViolation(rules); msg != "" {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	acc, err := h.Store.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Email not found."})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "query failed"})
	}
	if !utils.VerifyPassword(acc.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Incorrect password."})
	}
	if !acc.IsActive {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Account is not active. Please verify the OTP first."})
	}

	token := utils.NewSessionToken(acc.Email)
	if err := h.Store.SetToken(ctx, req.Email, token); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to store token"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Login successful.",
		"data": model.LoginView{
			ID:       acc.ID,
			Name:     acc.Name,
			Email:    acc.Email,
			Phone:    acc.Phone,
			IsActive: true,
			Token:    token,
		},
	})
}

// ListAccounts: paged listing with an optional substring search over name
// and email. No authentication is required.
func (h *AccountHandler) ListAccounts(c echo.Context) error {
	term := strings.TrimSpace(c.QueryParam("search"))
	page := queryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}
	perPage := queryInt(c, "per_page", defaultPerPage)
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	accounts, total, err := h.Store.Search(ctx, term, page, perPage)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "query failed"})
	}

	views := make([]model.AccountView, 0, len(accounts))
	for _, a := range accounts {
		views = append(views, a.View())
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Accounts retrieved successfully.",
		"data": echo.Map{
			"users":    views,
			"total":    total,
			"page":     page,
			"per_page": perPage,
		},
	})
}

// GetUserDetail: fetch one account by path id.
func (h *AccountHandler) GetUserDetail(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found."})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	acc, err := h.Store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found."})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Account detail retrieved successfully.",
		"data":    acc.View(),
	})
}

// GetProfileByEmail: fetch one account by posted email.
func (h *AccountHandler) GetProfileByEmail(c echo.Context) error {
	var req emailReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	req.Email = normalizeEmail(req.Email)

	if msg := firstViolation(emailRules(req.Email)); msg != "" {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	acc, err := h.Store.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "No user found with that email."})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Profile data retrieved successfully.",
		"data":    acc.View(),
	})
}

// UpdateProfile: overwrite name and phone. The response carries the
// restricted view, never the raw record.
func (h *AccountHandler) UpdateProfile(c echo.Context) error {
	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	req.Email = normalizeEmail(req.Email)

	rules := append(emailRules(req.Email),
		rule{req.Name != "", "The name field is required."},
		rule{len(req.Name) <= 255, "The name field must not be greater than 255 characters."},
		rule{req.Phone != "", "The phone field is required."},
		rule{len(req.Phone) <= 20, "The phone field must not be greater than 20 characters."},
	)
	if msg := firstViolation(rules); msg != "" {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Store.UpdateProfile(ctx, req.Email, req.Name, req.Phone); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "No user found with that email."})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to update profile"})
	}

	acc, err := h.Store.GetByEmail(ctx, req.Email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Profile updated successfully.",
		"data":    acc.View(),
	})
}

// RequestPasswordResetOtp: issue a reset code. Unlike ResendOtp this is
// allowed for active accounts; the reset sub-state is orthogonal to
// activation.
func (h *AccountHandler) RequestPasswordResetOtp(c echo.Context) error {
	var req emailReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	req.Email = normalizeEmail(req.Email)

	if msg := firstViolation(emailRules(req.Email)); msg != "" {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	acc, err := h.Store.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Email not found."})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "query failed"})
	}

	otp, err := utils.GenerateOTP()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to generate OTP"})
	}
	if err := h.Store.SetOTP(ctx, req.Email, otp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to store OTP"})
	}
	if err := h.Mailer.Send(ctx, req.Email, mail.KindPasswordReset, otp); err != nil {
		log.Printf("password/request-otp: mail dispatch failed for %s: %v", req.Email, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "An OTP code has been sent to your email. Check your inbox to continue.",
		"data":    echo.Map{"email": acc.Email},
	})
}

// VerifyPasswordResetOtp: consume the reset code on a match. Activation
// state is left untouched.
func (h *AccountHandler) VerifyPasswordResetOtp(c echo.Context) error {
	var req verifyOtpReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	req.Email = normalizeEmail(req.Email)

	rules := append(emailRules(req.Email), rule{req.Otp != "", "The otp field is required."})
	if msg := firstViolation(rules); msg != "" {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	acc, err := h.Store.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Email not found."})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "query failed"})
	}

	if !acc.OTP.Valid || acc.OTP.String != req.Otp {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "The OTP code is incorrect or invalid."})
	}

	if err := h.Store.ClearOTP(ctx, req.Email); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to clear OTP"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "OTP verified successfully. You can now reset your password.",
		"data":    echo.Map{"email": acc.Email},
	})
}

// UpdatePassword: re-hash and overwrite the password. Note: nothing checks
// that a reset OTP was ever issued or consumed for this email; any caller
// who knows the address can set a new password. Kept as-is, documented as a
// known gap.
func (h *AccountHandler) UpdatePassword(c echo.Context) error {
	var req updatePasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	req.Email = normalizeEmail(req.Email)

	rules := append(emailRules(req.Email),
		rule{req.NewPassword != "", "The new password field is required."},
		rule{len(req.NewPassword) >= 6, "The new password field must be at least 6 characters."},
		rule{req.NewPassword == req.NewPasswordConfirmation, "The new password field confirmation does not match."},
	)
	if msg := firstViolation(rules); msg != "" {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	hash, err := utils.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to hash password"})
	}
	if err := h.Store.SetPasswordHash(ctx, req.Email, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Email not found."})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to update password"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Password updated successfully. Please log in with your new password.",
	})
}

// ----- helpers -----

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func queryInt(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
