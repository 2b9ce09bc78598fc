package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"menu-service/internal/storage"
)

// ListMenus returns all menus
// @Summary List menus
// @Tags menus
// @Produce json
// @Success 200 {array} storage.Menu
// @Router /menus [get]
func (h *Handlers) ListMenus(w http.ResponseWriter, r *http.Request) {
	menus, err := h.menus.ListMenus(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, menus)
}

// GetMenu returns one menu
// @Summary Get menu
// @Tags menus
// @Produce json
// @Param menu_id path string true "Menu ID"
// @Success 200 {object} storage.Menu
// @Failure 404 {object} DetailResponse
// @Router /menus/{menu_id} [get]
func (h *Handlers) GetMenu(w http.ResponseWriter, r *http.Request) {
	menu, err := h.menus.GetMenu(r.Context(), mux.Vars(r)["menu_id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, menu)
}

// CreateMenu creates a menu
// @Summary Create menu
// @Tags menus
// @Accept json
// @Produce json
// @Param menu body storage.MenuInput true "Menu"
// @Success 201 {object} storage.Menu
// @Failure 422 {object} DetailResponse
// @Router /menus [post]
func (h *Handlers) CreateMenu(w http.ResponseWriter, r *http.Request) {
	var in storage.MenuInput
	if err := h.decode(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}

	menu, err := h.menus.CreateMenu(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, menu)
}

// UpdateMenu patches a menu
// @Summary Update menu
// @Tags menus
// @Accept json
// @Produce json
// @Param menu_id path string true "Menu ID"
// @Param menu body storage.MenuPatch true "Fields to change"
// @Success 200 {object} storage.Menu
// @Failure 404 {object} DetailResponse
// @Router /menus/{menu_id} [patch]
func (h *Handlers) UpdateMenu(w http.ResponseWriter, r *http.Request) {
	var patch storage.MenuPatch
	if err := h.decode(w, r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}

	menu, err := h.menus.UpdateMenu(r.Context(), mux.Vars(r)["menu_id"], patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, menu)
}

// DeleteMenu deletes a menu with everything under it
// @Summary Delete menu
// @Tags menus
// @Produce json
// @Param menu_id path string true "Menu ID"
// @Success 200 {object} DeleteResponse
// @Failure 404 {object} DetailResponse
// @Router /menus/{menu_id} [delete]
func (h *Handlers) DeleteMenu(w http.ResponseWriter, r *http.Request) {
	if err := h.menus.DeleteMenu(r.Context(), mux.Vars(r)["menu_id"]); err != nil {
		h.writeError(w, r, err)
		return
	}
	deleted(w, "menu")
}
