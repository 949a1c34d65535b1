package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/PhamNghia11/career-web/internal/models"
)

// ModerationService stores postings and applies admin decisions.
type ModerationService interface {
	Submit(ctx context.Context, j models.Job, creatorRole models.Role) (*models.Job, error)
	Get(ctx context.Context, id string) (*models.Job, error)
	Moderate(ctx context.Context, jobID string, status models.JobStatus, feedback string) (*models.Job, error)
}

type JobsHandler struct {
	svc       ModerationService
	validator *Validator
}

func NewJobsHandler(svc ModerationService, v *Validator) *JobsHandler {
	return &JobsHandler{svc: svc, validator: v}
}

type jobCreateRequest struct {
	Title        string `json:"title"`
	Company      string `json:"company"`
	Location     string `json:"location"`
	Type         string `json:"type"`
	Salary       string `json:"salary"`
	Description  string `json:"description"`
	ContactEmail string `json:"contactEmail"`
}

type jobStatusRequest struct {
	Status   string `json:"status"`
	Feedback string `json:"feedback"`
}

type jobResponse struct {
	OK  bool        `json:"ok"`
	Job *models.Job `json:"job"`
}

// CreateJob submits a posting. Students cannot post; admin postings carry
// no creator and go live immediately.
func (h *JobsHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	role := RoleFrom(r.Context())
	if role != models.RoleEmployer && role != models.RoleAdmin {
		writeErrorCode(w, http.StatusForbidden, "forbidden", "Chỉ nhà tuyển dụng mới có thể đăng tin")
		return
	}

	var req jobCreateRequest
	if !h.validator.decode(w, r, "job_create", &req) {
		return
	}

	j := models.Job{
		Title:        req.Title,
		Company:      req.Company,
		Location:     req.Location,
		Type:         req.Type,
		Salary:       req.Salary,
		Description:  req.Description,
		ContactEmail: req.ContactEmail,
	}
	if role != models.RoleAdmin {
		j.CreatorID = AccountID(r.Context())
	}

	created, err := h.svc.Submit(r.Context(), j, role)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, jobResponse{OK: true, Job: created}, http.StatusCreated)
}

func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	j, err := h.svc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, jobResponse{OK: true, Job: j}, http.StatusOK)
}

// UpdateStatus applies an admin moderation decision.
func (h *JobsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req jobStatusRequest
	if !h.validator.decode(w, r, "job_status", &req) {
		return
	}

	j, err := h.svc.Moderate(r.Context(), mux.Vars(r)["id"], models.JobStatus(req.Status), req.Feedback)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, jobResponse{OK: true, Job: j}, http.StatusOK)
}
