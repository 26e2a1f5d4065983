package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/docvault-app/docvault/internal/common"
	"github.com/docvault-app/docvault/internal/server/models"
)

func (h *Handler) listDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.docs.List(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (h *Handler) createDocument(w http.ResponseWriter, r *http.Request) {
	var doc models.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeError(w, fmt.Errorf("%w: malformed body", common.ErrInvalidArgument))
		return
	}

	id, err := h.docs.Create(r.Context(), userID(r), doc)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *Handler) updateDocument(w http.ResponseWriter, r *http.Request) {
	var patch models.DocumentPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, fmt.Errorf("%w: malformed body", common.ErrInvalidArgument))
		return
	}

	if err := h.docs.Update(r.Context(), userID(r), mux.Vars(r)["id"], patch); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

func (h *Handler) deleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := h.docs.Delete(r.Context(), userID(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

func (h *Handler) presignPayloadPut(w http.ResponseWriter, r *http.Request) {
	grant, err := h.payloads.PresignUpload(r.Context(), userID(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, grant)
}

func (h *Handler) presignPayloadGet(w http.ResponseWriter, r *http.Request) {
	url, err := h.payloads.PresignDownload(r.Context(), userID(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
