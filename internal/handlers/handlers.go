// Package handlers exposes the menu service over HTTP.
package handlers

import (
	"encoding/json"
	"net/http"

	"menu-service/internal/cache"
	"menu-service/internal/common/errors"
	"menu-service/internal/common/logging"
	"menu-service/internal/common/validation"
	"menu-service/internal/menu"
	"menu-service/internal/storage"
)

// maxBodyBytes caps request bodies
const maxBodyBytes = 1 << 20

// Handlers holds the dependencies of the HTTP API
type Handlers struct {
	menus      *menu.Service
	cache      *cache.Coordinator
	db         *storage.DB
	validator  *validation.Validator
	adminToken string
	logger     logging.Logger
}

// DetailResponse is the body of every error response
type DetailResponse struct {
	Detail string `json:"detail"`
}

// DeleteResponse is returned after a successful delete
type DeleteResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

// New creates the HTTP handlers. An empty adminToken disables the admin endpoints.
func New(menus *menu.Service, coordinator *cache.Coordinator, db *storage.DB, adminToken string) *Handlers {
	v := validation.New()
	if err := v.Register("price", func(s string) bool {
		_, err := storage.ParsePrice(s)
		return err == nil
	}); err != nil {
		panic(err)
	}

	return &Handlers{
		menus:      menus,
		cache:      coordinator,
		db:         db,
		validator:  v,
		adminToken: adminToken,
		logger:     logging.Component("http"),
	}
}

// decode reads a JSON body into dst and validates it
func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.ValidationError("invalid JSON body: " + err.Error())
	}
	return h.validator.ValidateStruct(dst)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError maps err onto its status and a {"detail": ...} body
func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.WithContext(r.Context()).Error("Request failed", err,
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
		)
	}
	writeJSON(w, status, DetailResponse{Detail: errors.PublicMessage(err)})
}

func deleted(w http.ResponseWriter, kind string) {
	writeJSON(w, http.StatusOK, DeleteResponse{
		Status:  true,
		Message: "The " + kind + " has been deleted",
	})
}
