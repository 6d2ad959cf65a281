package handler

import (
	"net/http"

	"github.com/twentyhard/twentyhard/internal/ctxkeys"
	"github.com/twentyhard/twentyhard/internal/service"
)

type userHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *userHandler {
	return &userHandler{userService: userService}
}

type profileRequest struct {
	Name         *string  `json:"name" validate:"omitempty,max=100"`
	Theme        *string  `json:"theme" validate:"omitempty,oneof=dark light"`
	StartWeight  *float64 `json:"startWeight"`
	TargetWeight *float64 `json:"targetWeight"`
}

func (h *userHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	u, err := h.userService.ByID(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *userHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req profileRequest
	err := decode(w, r, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	u, err := h.userService.UpdateProfile(r.Context(), user.ID, service.ProfileUpdate{
		Name:         req.Name,
		Theme:        req.Theme,
		StartWeight:  req.StartWeight,
		TargetWeight: req.TargetWeight,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *userHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.userService.DeleteAccount(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
