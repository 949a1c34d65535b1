package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/PhamNghia11/career-web/internal/models"
	"github.com/PhamNghia11/career-web/pkg/repository"
)

type AuthHandler struct {
	accounts      repository.AccountRepo
	validator     *Validator
	jwtSecret     string
	tokenDuration time.Duration
	now           func() time.Time
}

// NewAuthHandler creates a new AuthHandler with required dependencies.
func NewAuthHandler(ar repository.AccountRepo, v *Validator, jwtSecret string, tokenDuration time.Duration) *AuthHandler {
	return &AuthHandler{accounts: ar, validator: v, jwtSecret: jwtSecret, tokenDuration: tokenDuration, now: time.Now}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type accountResponse struct {
	OK      bool            `json:"ok"`
	Account *models.Account `json:"account"`
}

type authResponse struct {
	OK      bool            `json:"ok"`
	Token   string          `json:"token"`
	Account *models.Account `json:"account"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.validator.decode(w, r, "register", &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
		writeError(w, r, models.ErrInvalidInput)
		return
	}

	role := models.RoleStudent
	if req.Role != "" {
		parsed, err := models.ParseRole(req.Role)
		if err != nil || parsed == models.RoleAdmin {
			writeError(w, r, models.ErrInvalidInput)
			return
		}
		role = parsed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("hash password", slog.Any("err", err))
		writeError(w, r, err)
		return
	}

	now := h.now()
	account := models.Account{
		Name:         strings.TrimSpace(req.Name),
		Email:        models.NormalizeEmail(req.Email),
		Phone:        models.NormalizePhone(req.Phone),
		Role:         role,
		PasswordHash: string(hash),
		Created:      now,
		Updated:      now,
	}

	id, err := h.accounts.CreateAccount(r.Context(), &account)
	if err != nil {
		writeError(w, r, err)
		return
	}
	account.ID = id

	logger.Info("account registered", slog.String("account_id", id), slog.String("role", string(role)))
	writeJSON(w, accountResponse{OK: true, Account: &account}, http.StatusCreated)
}

func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if !h.validator.decode(w, r, "signin", &req) {
		return
	}

	account, err := h.accounts.GetAccountByEmail(r.Context(), req.Email)
	if err != nil {
		writeError(w, r, errors.Join(models.ErrStorage, err))
		return
	}
	if account == nil || bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)) != nil {
		writeErrorCode(w, http.StatusUnauthorized, "unauthorized", "Email hoặc mật khẩu không đúng")
		return
	}

	tokenStr, err := h.issueToken(account)
	if err != nil {
		logger.Error("sign token", slog.Any("err", err))
		writeError(w, r, err)
		return
	}

	writeJSON(w, authResponse{OK: true, Token: tokenStr, Account: account}, http.StatusOK)
}

func (h *AuthHandler) issueToken(a *models.Account) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"account_id": a.ID,
		"role":       string(a.Role),
		"email":      a.Email,
		"exp":        h.now().Add(h.tokenDuration).Unix(),
	})
	return token.SignedString([]byte(h.jwtSecret))
}

func (h *AuthHandler) Signout(w http.ResponseWriter, r *http.Request) {
	// For stateless JWT, signout is client-side (just delete token)
	writeJSON(w, map[string]any{"ok": true, "message": "signed out"}, http.StatusOK)
}
