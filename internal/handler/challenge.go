package handler

import (
	"net/http"

	"github.com/twentyhard/twentyhard/internal/ctxkeys"
	"github.com/twentyhard/twentyhard/internal/model"
	"github.com/twentyhard/twentyhard/internal/service"
)

type challengeHandler struct {
	challengeService *service.ChallengeService
	photoService     *service.PhotoService
}

func NewChallengeHandler(challengeService *service.ChallengeService, photoService *service.PhotoService) *challengeHandler {
	return &challengeHandler{
		challengeService: challengeService,
		photoService:     photoService,
	}
}

type logDayRequest struct {
	Date  string      `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Tasks model.Tasks `json:"tasks" validate:"required"`
}

type updateTasksRequest struct {
	CustomTasks []model.CustomTask `json:"customTasks" validate:"required,min=1,dive"`
}

func (h *challengeHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	ch, err := h.challengeService.Challenge(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ch)
}

func (h *challengeHandler) LogDay(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req logDayRequest
	err := decode(w, r, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	ch, err := h.challengeService.LogDay(r.Context(), user.ID, req.Date, req.Tasks)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ch)
}

func (h *challengeHandler) UpdateTasks(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req updateTasksRequest
	err := decode(w, r, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	ch, err := h.challengeService.UpdateTasks(r.Context(), user.ID, req.CustomTasks)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ch)
}

func (h *challengeHandler) Status(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	status, err := h.challengeService.Status(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *challengeHandler) ValidateDay(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	report, err := h.challengeService.ValidateDay(r.Context(), user.ID, r.PathValue("date"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *challengeHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	if !h.photoService.Enabled() {
		writeServiceError(w, r, service.ErrPhotosDisabled)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 11<<20)
	err := r.ParseMultipartForm(10 << 20)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "upload must be multipart and at most 10MB")
		return
	}

	_, header, err := r.FormFile("photo")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "photo file is required")
		return
	}

	ch, err := h.photoService.Upload(r.Context(), user.ID, header)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ch)
}
