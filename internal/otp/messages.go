package otp

import (
	"fmt"
	"html"

	"github.com/PhamNghia11/career-web/internal/models"
	"github.com/PhamNghia11/career-web/pkg/transport"
)

func emailMessage(a *models.Account, code string) transport.Message {
	return transport.Message{
		To:      a.Email,
		Subject: "Mã xác minh tài khoản GDU Career",
		Body: fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #1e3a5f;">Xin chào %s!</h2>
  <p>Mã xác minh của bạn là:</p>
  <div style="background: #1e3a5f; color: white; font-size: 32px; font-weight: bold; text-align: center; padding: 20px; border-radius: 8px; letter-spacing: 8px;">%s</div>
  <p style="color: #999; font-size: 14px; text-align: center;">Mã này sẽ hết hạn sau <strong>5 phút</strong></p>
</div>`, html.EscapeString(a.Name), code),
	}
}

func smsMessage(a *models.Account, code string) transport.Message {
	return transport.Message{
		To:   a.Phone,
		Body: fmt.Sprintf("GDU Career: ma xac minh cua ban la %s. Ma het han sau 5 phut.", code),
	}
}

func operatorMessage(n operatorNotice) transport.Message {
	return transport.Message{
		To:      n.To,
		Subject: "Tài khoản mới đã xác minh: " + n.Name,
		Body: fmt.Sprintf(`<p>Tài khoản <strong>%s</strong> (%s) vừa xác minh email.</p>
<p>Vai trò: %s<br>Thời gian: %s</p>`,
			html.EscapeString(n.Name), html.EscapeString(n.Email), roleLabel(models.Role(n.Role)), n.VerifiedAt.Format("02/01/2006 15:04")),
	}
}

func roleLabel(r models.Role) string {
	switch r {
	case models.RoleEmployer:
		return "Nhà tuyển dụng"
	case models.RoleAdmin:
		return "Quản trị viên"
	default:
		return "Sinh viên"
	}
}
