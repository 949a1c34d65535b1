package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/PhamNghia11/career-web/internal/models"
	"github.com/PhamNghia11/career-web/internal/moderation"
	"github.com/PhamNghia11/career-web/internal/notify"
	"github.com/PhamNghia11/career-web/internal/otp"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	OK    bool     `json:"ok"`
	Error apiError `json:"error"`
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", slog.Any("err", err))
	}
}

func writeErrorCode(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, errorResponse{Error: apiError{Code: code, Message: message}}, status)
}

// errorStatus maps a service error to its HTTP status, machine code and
// user-facing message. Specific sentinels are checked before the generic
// ones they wrap.
func errorStatus(err error) (int, string, string) {
	switch {
	case errors.Is(err, otp.ErrInvalidCode):
		return http.StatusBadRequest, "invalid_code", "Mã OTP không đúng"
	case errors.Is(err, otp.ErrExpired):
		return http.StatusBadRequest, "expired", "Mã OTP đã hết hạn. Vui lòng yêu cầu mã mới."
	case errors.Is(err, otp.ErrAlreadyVerified):
		return http.StatusConflict, "already_verified", "Tài khoản này đã được xác minh"
	case errors.Is(err, otp.ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited", "Bạn đã yêu cầu quá nhiều mã OTP. Vui lòng thử lại sau."
	case errors.Is(err, notify.ErrInvalidTarget):
		return http.StatusBadRequest, "invalid_target", "Cần chỉ định đúng một người nhận hoặc một vai trò"
	case errors.Is(err, moderation.ErrInvalidStatus):
		return http.StatusBadRequest, "invalid_status", "Trạng thái không hợp lệ"
	case errors.Is(err, models.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input", "Vui lòng điền đầy đủ thông tin"
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, "not_found", "Không tìm thấy dữ liệu"
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict, "conflict", "Email đã được sử dụng"
	case errors.Is(err, models.ErrDeliveryFailed):
		return http.StatusInternalServerError, "delivery_failed", "Không thể gửi email. Vui lòng thử lại sau."
	case errors.Is(err, models.ErrStorage):
		return http.StatusInternalServerError, "storage_error", "Lỗi lưu trữ dữ liệu. Vui lòng thử lại."
	}
	return http.StatusInternalServerError, "internal", "Có lỗi xảy ra. Vui lòng thử lại."
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, msg := errorStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("code", code),
			slog.Any("err", err),
		)
	}
	writeErrorCode(w, status, code, msg)
}
