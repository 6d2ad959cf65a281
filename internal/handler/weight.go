package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/twentyhard/twentyhard/internal/ctxkeys"
	"github.com/twentyhard/twentyhard/internal/service"
)

type weightHandler struct {
	weightService *service.WeightService
}

func NewWeightHandler(weightService *service.WeightService) *weightHandler {
	return &weightHandler{weightService: weightService}
}

type weightGoalRequest struct {
	StartWeight float64 `json:"startWeight" validate:"required,gt=0"`
	GoalWeight  float64 `json:"goalWeight" validate:"required,gt=0"`
	Days        int     `json:"days" validate:"required,gt=0,lte=365"`
}

type weightEntryRequest struct {
	Date   string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Weight float64 `json:"weight" validate:"required"`
}

func (h *weightHandler) SetGoal(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req weightGoalRequest
	err := decode(w, r, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	goal, err := h.weightService.SetGoal(r.Context(), user.ID, req.StartWeight, req.GoalWeight, req.Days)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

func (h *weightHandler) LogEntry(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req weightEntryRequest
	err := decode(w, r, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	goal, err := h.weightService.LogEntry(r.Context(), user.ID, req.Date, req.Weight)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

func (h *weightHandler) Summary(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	sum, err := h.weightService.Summary(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (h *weightHandler) Progress(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	day, err := strconv.Atoi(r.PathValue("day"))
	if err != nil {
		writeServiceError(w, r, fmt.Errorf("%w: day must be a number", service.ErrInvalidInput))
		return
	}

	check, err := h.weightService.Progress(r.Context(), user.ID, day)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, check)
}

func (h *weightHandler) Export(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	format := r.URL.Query().Get("format")

	body, contentType, err := h.weightService.Export(r.Context(), user.ID, format)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	ext := service.ExportJSON
	if contentType == "text/csv" {
		ext = service.ExportCSV
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="weight-log.%s"`, ext))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
