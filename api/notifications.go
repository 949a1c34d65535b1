package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/PhamNghia11/career-web/internal/models"
	"github.com/PhamNghia11/career-web/internal/notify"
)

// NotificationService routes and reads inbox entries.
type NotificationService interface {
	Create(ctx context.Context, s notify.Spec) (*models.Notification, error)
	Inbox(ctx context.Context, accountID string, role models.Role, limit int) (*notify.Inbox, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, accountID string) (int64, error)
	Delete(ctx context.Context, id string) error
}

type NotificationsHandler struct {
	svc       NotificationService
	validator *Validator
}

func NewNotificationsHandler(svc NotificationService, v *Validator) *NotificationsHandler {
	return &NotificationsHandler{svc: svc, validator: v}
}

type notificationCreateRequest struct {
	TargetUserID string `json:"targetUserId"`
	TargetRole   string `json:"targetRole"`
	Kind         string `json:"kind"`
	Title        string `json:"title"`
	Message      string `json:"message"`
	Link         string `json:"link"`
}

type notificationUpdateRequest struct {
	Action         string `json:"action"`
	NotificationID string `json:"notificationId"`
	AccountID      string `json:"accountId"`
}

type inboxResponse struct {
	OK          bool                  `json:"ok"`
	Items       []models.Notification `json:"items"`
	UnreadCount int64                 `json:"unreadCount"`
}

// callerMay reports whether the authenticated caller may act on accountID.
func callerMay(ctx context.Context, accountID string) bool {
	return RoleFrom(ctx) == models.RoleAdmin || AccountID(ctx) == accountID
}

// ListNotifications returns the inbox of accountId. Non-admins may only read
// their own inbox with their own role.
func (h *NotificationsHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	accountID := strings.TrimSpace(q.Get("accountId"))
	if accountID == "" {
		writeErrorCode(w, http.StatusBadRequest, "invalid_input", "Thiếu accountId")
		return
	}
	if !callerMay(ctx, accountID) {
		writeErrorCode(w, http.StatusForbidden, "forbidden", "Bạn không có quyền xem thông báo này")
		return
	}

	role := RoleFrom(ctx)
	if s := q.Get("role"); s != "" && role == models.RoleAdmin {
		parsed, err := models.ParseRole(s)
		if err != nil {
			writeError(w, r, err)
			return
		}
		role = parsed
	}

	limit := 0
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			writeErrorCode(w, http.StatusBadRequest, "invalid_input", "limit không hợp lệ")
			return
		}
		limit = n
	}

	inbox, err := h.svc.Inbox(ctx, accountID, role, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	items := inbox.Items
	if items == nil {
		items = []models.Notification{}
	}

	writeJSON(w, inboxResponse{OK: true, Items: items, UnreadCount: inbox.UnreadCount}, http.StatusOK)
}

// CreateNotification records a notification. Role broadcasts are reserved
// for admins.
func (h *NotificationsHandler) CreateNotification(w http.ResponseWriter, r *http.Request) {
	var req notificationCreateRequest
	if !h.validator.decode(w, r, "notification_create", &req) {
		return
	}
	if req.TargetRole != "" && RoleFrom(r.Context()) != models.RoleAdmin {
		writeErrorCode(w, http.StatusForbidden, "forbidden", "Chỉ quản trị viên mới gửi được thông báo theo vai trò")
		return
	}

	n, err := h.svc.Create(r.Context(), notify.Spec{
		TargetUserID: req.TargetUserID,
		TargetRole:   models.Role(req.TargetRole),
		Kind:         models.NotificationKind(req.Kind),
		Title:        req.Title,
		Message:      req.Message,
		Link:         req.Link,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, map[string]any{"ok": true, "notification": n}, http.StatusCreated)
}

func (h *NotificationsHandler) UpdateNotifications(w http.ResponseWriter, r *http.Request) {
	var req notificationUpdateRequest
	if !h.validator.decode(w, r, "notification_update", &req) {
		return
	}
	ctx := r.Context()

	switch req.Action {
	case "mark_read":
		if strings.TrimSpace(req.NotificationID) == "" {
			writeErrorCode(w, http.StatusBadRequest, "invalid_input", "Thiếu notificationId")
			return
		}
		if err := h.svc.MarkRead(ctx, req.NotificationID); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, map[string]any{"ok": true}, http.StatusOK)

	case "mark_all_read":
		accountID := strings.TrimSpace(req.AccountID)
		if accountID == "" {
			accountID = AccountID(ctx)
		}
		if !callerMay(ctx, accountID) {
			writeErrorCode(w, http.StatusForbidden, "forbidden", "Bạn không có quyền thực hiện thao tác này")
			return
		}
		n, err := h.svc.MarkAllRead(ctx, accountID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, map[string]any{"ok": true, "updated": n}, http.StatusOK)

	default:
		writeErrorCode(w, http.StatusBadRequest, "invalid_input", "Hành động không hợp lệ")
	}
}

func (h *NotificationsHandler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		writeErrorCode(w, http.StatusBadRequest, "invalid_input", "Thiếu id")
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, map[string]any{"ok": true}, http.StatusOK)
}
