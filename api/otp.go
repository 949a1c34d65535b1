package api

import (
	"context"
	"net/http"
	"time"

	"github.com/PhamNghia11/career-web/internal/models"
	"github.com/PhamNghia11/career-web/internal/otp"
)

// ChallengeService issues and checks OTP challenges.
type ChallengeService interface {
	RequestChallenge(ctx context.Context, identifier string, ch models.Channel) (*otp.Ack, error)
	VerifyChallenge(ctx context.Context, identifier string, ch models.Channel, code string) (*models.Account, error)
}

type OTPHandler struct {
	svc       ChallengeService
	validator *Validator
}

func NewOTPHandler(svc ChallengeService, v *Validator) *OTPHandler {
	return &OTPHandler{svc: svc, validator: v}
}

type otpRequest struct {
	Identifier string `json:"identifier"`
	Channel    string `json:"channel"`
	Code       string `json:"code"`
}

type otpRequestResponse struct {
	OK        bool           `json:"ok"`
	Message   string         `json:"message"`
	Channel   models.Channel `json:"channel"`
	ExpiresAt time.Time      `json:"expiresAt"`
}

type otpVerifyResponse struct {
	OK                     bool            `json:"ok"`
	Message                string          `json:"message"`
	Account                *models.Account `json:"account"`
	NeedsPhoneVerification bool            `json:"needsPhoneVerification"`
}

func (h *OTPHandler) Request(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if !h.validator.decode(w, r, "otp_request", &req) {
		return
	}
	ch, err := models.ParseChannel(req.Channel)
	if err != nil {
		writeError(w, r, err)
		return
	}

	ack, err := h.svc.RequestChallenge(r.Context(), req.Identifier, ch)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, otpRequestResponse{
		OK:        true,
		Message:   "Mã OTP mới đã được gửi",
		Channel:   ack.Channel,
		ExpiresAt: ack.ExpiresAt,
	}, http.StatusOK)
}

func (h *OTPHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if !h.validator.decode(w, r, "otp_verify", &req) {
		return
	}
	ch, err := models.ParseChannel(req.Channel)
	if err != nil {
		writeError(w, r, err)
		return
	}

	account, err := h.svc.VerifyChallenge(r.Context(), req.Identifier, ch, req.Code)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, otpVerifyResponse{
		OK:                     true,
		Message:                "Xác minh thành công",
		Account:                account,
		NeedsPhoneVerification: account.Phone != "" && !account.PhoneVerified,
	}, http.StatusOK)
}
