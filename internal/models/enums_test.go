package models_test

import (
	"errors"
	"testing"

	"github.com/PhamNghia11/career-web/internal/models"
)

func TestParseEnums(t *testing.T) {
	if r, err := models.ParseRole("admin"); err != nil || r != models.RoleAdmin {
		t.Fatalf("ParseRole(admin) = %q, %v", r, err)
	}
	if _, err := models.ParseRole("root"); !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("ParseRole(root) err = %v, want ErrInvalidInput", err)
	}

	if c, err := models.ParseChannel("phone"); err != nil || c != models.ChannelPhone {
		t.Fatalf("ParseChannel(phone) = %q, %v", c, err)
	}
	if _, err := models.ParseChannel("fax"); !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("ParseChannel(fax) err = %v, want ErrInvalidInput", err)
	}

	for _, s := range []string{"pending", "active", "rejected", "request_changes"} {
		if _, err := models.ParseJobStatus(s); err != nil {
			t.Fatalf("ParseJobStatus(%q): %v", s, err)
		}
	}
	if _, err := models.ParseJobStatus("closed"); !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("ParseJobStatus(closed) err = %v", err)
	}

	for _, s := range []string{"job", "message", "interview", "system", "visitor"} {
		if _, err := models.ParseNotificationKind(s); err != nil {
			t.Fatalf("ParseNotificationKind(%q): %v", s, err)
		}
	}
	if _, err := models.ParseNotificationKind("alert"); !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("ParseNotificationKind(alert) err = %v", err)
	}
}

func TestAccountChannelAccessors(t *testing.T) {
	a := &models.Account{EmailVerified: true, PhoneOTPHash: "h"}
	if !a.Verified(models.ChannelEmail) || a.Verified(models.ChannelPhone) {
		t.Fatalf("unexpected verification flags")
	}
	if h, _ := a.Challenge(models.ChannelPhone); h != "h" {
		t.Fatalf("phone challenge hash = %q", h)
	}
	if h, _ := a.Challenge(models.ChannelEmail); h != "" {
		t.Fatalf("email challenge hash = %q", h)
	}
}

func TestNormalize(t *testing.T) {
	if got := models.NormalizeEmail("  A@X.com "); got != "a@x.com" {
		t.Fatalf("NormalizeEmail = %q", got)
	}
	if got := models.NormalizePhone(" 090 123 4567 "); got != "0901234567" {
		t.Fatalf("NormalizePhone = %q", got)
	}
}
