package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/docvault-app/docvault/internal/common"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	OwnerID     string `json:"owner_id"`
	AccessToken string `json:"access_token"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: malformed body", common.ErrInvalidArgument))
		return
	}

	user, err := h.users.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info(r.Context(), "user registered", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, map[string]string{"id": user.ID})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: malformed body", common.ErrInvalidArgument))
		return
	}

	ownerID, token, err := h.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{OwnerID: ownerID, AccessToken: token})
}
