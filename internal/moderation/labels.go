package moderation

import (
	"fmt"
	"html"

	"github.com/PhamNghia11/career-web/internal/models"
	"github.com/PhamNghia11/career-web/pkg/transport"
)

// StatusLabel is the human-readable name of a job status.
func StatusLabel(s models.JobStatus) string {
	switch s {
	case models.JobActive:
		return "Đã duyệt"
	case models.JobRejected:
		return "Bị từ chối"
	case models.JobRequestChanges:
		return "Cần chỉnh sửa"
	case models.JobPending:
		return "Chờ duyệt"
	}
	return string(s)
}

// StatusNotice returns the notification title and message for the job's
// current status.
func StatusNotice(j *models.Job) (string, string) {
	var title, message string
	switch j.Status {
	case models.JobActive:
		title = "Tin tuyển dụng được duyệt"
		message = fmt.Sprintf("Tin \"%s\" của bạn đã được duyệt và đăng công khai.", j.Title)
	case models.JobRejected:
		title = "Tin tuyển dụng bị từ chối"
		message = fmt.Sprintf("Tin \"%s\" của bạn đã bị từ chối.", j.Title)
	case models.JobRequestChanges:
		title = "Tin tuyển dụng cần chỉnh sửa"
		message = fmt.Sprintf("Tin \"%s\" của bạn cần được chỉnh sửa trước khi đăng.", j.Title)
	default:
		title = "Trạng thái tin tuyển dụng: " + StatusLabel(j.Status)
		message = fmt.Sprintf("Tin \"%s\" đã chuyển sang trạng thái %s.", j.Title, StatusLabel(j.Status))
	}
	if j.AdminFeedback != "" {
		message += " Góp ý: " + j.AdminFeedback
	}
	return title, message
}

func statusMessage(p statusEmail) transport.Message {
	title, message := StatusNotice(&models.Job{Title: p.JobTitle, Status: p.Status, AdminFeedback: p.Feedback})
	body := fmt.Sprintf(`<p>Xin chào %s,</p>
<p>%s</p>
<p>Trạng thái hiện tại: <strong>%s</strong></p>`,
		html.EscapeString(p.Name), html.EscapeString(message), StatusLabel(p.Status))
	if p.Link != "" {
		body += fmt.Sprintf(`
<p><a href="%s">Quản lý tin tuyển dụng</a></p>`, html.EscapeString(p.Link))
	}
	return transport.Message{To: p.To, Subject: title, Body: body}
}
