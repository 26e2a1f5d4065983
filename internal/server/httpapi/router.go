package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/docvault-app/docvault/internal/logging"
	"github.com/docvault-app/docvault/internal/server/services"
)

// Handler bundles the HTTP surface of the document service.
type Handler struct {
	logger   logging.Logger
	users    *services.UserService
	docs     *services.DocumentService
	cats     *services.CategoryService
	payloads *services.PayloadService
}

func NewHandler(logger logging.Logger, users *services.UserService, docs *services.DocumentService,
	cats *services.CategoryService, payloads *services.PayloadService) *Handler {
	return &Handler{
		logger:   logger.With("component", "httpapi"),
		users:    users,
		docs:     docs,
		cats:     cats,
		payloads: payloads,
	}
}

// Router assembles all routes. Everything under /api except register and
// login requires a valid bearer token.
func (h *Handler) Router(secretKey []byte) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.health).Methods(http.MethodGet)
	r.HandleFunc("/api/register", h.register).Methods(http.MethodPost)
	r.HandleFunc("/api/login", h.login).Methods(http.MethodPost)

	authed := r.PathPrefix("/api").Subrouter()
	authed.Use(authMiddleware(secretKey))

	authed.HandleFunc("/documents", h.listDocuments).Methods(http.MethodGet)
	authed.HandleFunc("/documents", h.createDocument).Methods(http.MethodPost)
	authed.HandleFunc("/documents/{id}", h.updateDocument).Methods(http.MethodPatch)
	authed.HandleFunc("/documents/{id}", h.deleteDocument).Methods(http.MethodDelete)

	authed.HandleFunc("/categories", h.listCategories).Methods(http.MethodGet)
	authed.HandleFunc("/categories", h.createCategory).Methods(http.MethodPost)
	authed.HandleFunc("/categories/{id}", h.updateCategory).Methods(http.MethodPatch)
	authed.HandleFunc("/categories/{id}", h.deleteCategory).Methods(http.MethodDelete)

	authed.HandleFunc("/documents/{id}/payload/put-url", h.presignPayloadPut).Methods(http.MethodPost)
	authed.HandleFunc("/documents/{id}/payload/get-url", h.presignPayloadGet).Methods(http.MethodGet)

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
