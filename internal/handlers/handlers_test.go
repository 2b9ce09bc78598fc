package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menu-service/internal/common/errors"
	"menu-service/internal/common/logging"
	"menu-service/internal/menu"
	"menu-service/internal/testutil"
)

func newTestRouter(t *testing.T, adminToken string) (*mux.Router, testutil.Tree) {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	coordinator := testutil.NewCoordinator(t, nil)
	h := New(menu.NewService(db, coordinator, nil), coordinator, db, adminToken)

	r := mux.NewRouter()
	r.HandleFunc("/menus", h.CreateMenu).Methods(http.MethodPost)
	r.HandleFunc("/menus/{menu_id}", h.GetMenu).Methods(http.MethodGet)
	r.HandleFunc("/menus/{menu_id}/submenus/{submenu_id}", h.UpdateSubmenu).Methods(http.MethodPatch)
	r.HandleFunc("/menus/{menu_id}/submenus/{submenu_id}/dishes", h.CreateDish).Methods(http.MethodPost)
	r.HandleFunc("/menus/{menu_id}/submenus/{submenu_id}/dishes/{dish_id}", h.DeleteDish).Methods(http.MethodDelete)
	r.Handle("/flush", h.RequireAdmin(http.HandlerFunc(h.FlushCache))).Methods(http.MethodPost)
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)

	return r, testutil.SeedTree(t, db, 1, 1)
}

func serve(r http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandlers_StatusMapping(t *testing.T) {
	r, tree := newTestRouter(t, "")
	subPath := "/menus/" + tree.Menu.ID + "/submenus/" + tree.Submenus[0].ID

	tests := []struct {
		name     string
		method   string
		path     string
		body     string
		wantCode int
		wantBody string
	}{
		{"create", http.MethodPost, "/menus", `{"title":"Lunch"}`, http.StatusCreated, ""},
		{"malformed json", http.MethodPost, "/menus", `{"title":`, http.StatusUnprocessableEntity, ""},
		{"unknown field", http.MethodPost, "/menus", `{"title":"a","name":"b"}`, http.StatusUnprocessableEntity, ""},
		{"empty patch title", http.MethodPatch, subPath, `{"title":""}`, http.StatusUnprocessableEntity, ""},
		{"missing menu", http.MethodGet, "/menus/6f1c9a0e-4a8a-4c55-9a57-8f0f0f0f0f0f", "", http.StatusNotFound, `{"detail":"menu not found"}`},
		{"bad price", http.MethodPost, subPath + "/dishes", `{"title":"x","price":"1.234"}`, http.StatusUnprocessableEntity, ""},
		{"negative price", http.MethodPost, subPath + "/dishes", `{"title":"x","price":"-1"}`, http.StatusUnprocessableEntity, ""},
		{"dish created", http.MethodPost, subPath + "/dishes", `{"title":"x","price":"3.5"}`, http.StatusCreated, ""},
		{"dish deleted", http.MethodDelete, subPath + "/dishes/" + tree.Dishes[0][0].ID, "", http.StatusOK, `{"status":true,"message":"The dish has been deleted"}`},
		{"dish gone", http.MethodDelete, subPath + "/dishes/" + tree.Dishes[0][0].ID, "", http.StatusNotFound, `{"detail":"dish not found"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(r, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	t.Run("disabled without a token", func(t *testing.T) {
		r, _ := newTestRouter(t, "")
		rec := serve(r, http.MethodPost, "/flush", "", AdminTokenHeader, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("token checked", func(t *testing.T) {
		r, _ := newTestRouter(t, "s3cret")
		rec := serve(r, http.MethodPost, "/flush", "", AdminTokenHeader, "nope")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"detail":"invalid admin token"}`, rec.Body.String())

		rec = serve(r, http.MethodPost, "/flush", "", AdminTokenHeader, "s3cret")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":true,"message":"The cache has been flushed"}`, rec.Body.String())
	})
}

func TestHealthCheck(t *testing.T) {
	r, _ := newTestRouter(t, "")
	rec := serve(r, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
}

func TestWriteError_HidesInternalDetails(t *testing.T) {
	h := &Handlers{logger: logging.Component("http")}
	rec := httptest.NewRecorder()
	h.writeError(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.InternalError("dial tcp 10.0.0.5:5432", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"detail":"internal server error"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.writeError(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.BackendUnavailableError("database", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"detail":"database unavailable"}`, rec.Body.String())
}
