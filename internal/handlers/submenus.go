package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"menu-service/internal/storage"
)

// ListSubmenus returns the submenus of a menu
// @Summary List submenus
// @Tags submenus
// @Produce json
// @Param menu_id path string true "Menu ID"
// @Success 200 {array} storage.Submenu
// @Router /menus/{menu_id}/submenus [get]
func (h *Handlers) ListSubmenus(w http.ResponseWriter, r *http.Request) {
	submenus, err := h.menus.ListSubmenus(r.Context(), mux.Vars(r)["menu_id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, submenus)
}

// GetSubmenu returns one submenu
// @Summary Get submenu
// @Tags submenus
// @Produce json
// @Param menu_id path string true "Menu ID"
// @Param submenu_id path string true "Submenu ID"
// @Success 200 {object} storage.Submenu
// @Failure 404 {object} DetailResponse
// @Router /menus/{menu_id}/submenus/{submenu_id} [get]
func (h *Handlers) GetSubmenu(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sub, err := h.menus.GetSubmenu(r.Context(), vars["menu_id"], vars["submenu_id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// CreateSubmenu creates a submenu
// @Summary Create submenu
// @Tags submenus
// @Accept json
// @Produce json
// @Param menu_id path string true "Menu ID"
// @Param submenu body storage.MenuInput true "Submenu"
// @Success 201 {object} storage.Submenu
// @Failure 404 {object} DetailResponse
// @Router /menus/{menu_id}/submenus [post]
func (h *Handlers) CreateSubmenu(w http.ResponseWriter, r *http.Request) {
	var in storage.MenuInput
	if err := h.decode(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}

	sub, err := h.menus.CreateSubmenu(r.Context(), mux.Vars(r)["menu_id"], in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

// UpdateSubmenu patches a submenu
// @Summary Update submenu
// @Tags submenus
// @Accept json
// @Produce json
// @Param menu_id path string true "Menu ID"
// @Param submenu_id path string true "Submenu ID"
// @Param submenu body storage.MenuPatch true "Fields to change"
// @Success 200 {object} storage.Submenu
// @Failure 404 {object} DetailResponse
// @Router /menus/{menu_id}/submenus/{submenu_id} [patch]
func (h *Handlers) UpdateSubmenu(w http.ResponseWriter, r *http.Request) {
	var patch storage.MenuPatch
	if err := h.decode(w, r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}

	vars := mux.Vars(r)
	sub, err := h.menus.UpdateSubmenu(r.Context(), vars["menu_id"], vars["submenu_id"], patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// DeleteSubmenu deletes a submenu with its dishes
// @Summary Delete submenu
// @Tags submenus
// @Produce json
// @Param menu_id path string true "Menu ID"
// @Param submenu_id path string true "Submenu ID"
// @Success 200 {object} DeleteResponse
// @Failure 404 {object} DetailResponse
// @Router /menus/{menu_id}/submenus/{submenu_id} [delete]
func (h *Handlers) DeleteSubmenu(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.menus.DeleteSubmenu(r.Context(), vars["menu_id"], vars["submenu_id"]); err != nil {
		h.writeError(w, r, err)
		return
	}
	deleted(w, "submenu")
}
