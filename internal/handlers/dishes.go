package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"menu-service/internal/storage"
)

// ListDishes returns the dishes of a submenu
// @Summary List dishes
// @Tags dishes
// @Produce json
// @Param menu_id path string true "Menu ID"
// @Param submenu_id path string true "Submenu ID"
// @Success 200 {array} storage.Dish
// @Router /menus/{menu_id}/submenus/{submenu_id}/dishes [get]
func (h *Handlers) ListDishes(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	dishes, err := h.menus.ListDishes(r.Context(), vars["menu_id"], vars["submenu_id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dishes)
}

// GetDish returns one dish
// @Summary Get dish
// @Tags dishes
// @Produce json
// @Param menu_id path string true "Menu ID"
// @Param submenu_id path string true "Submenu ID"
// @Param dish_id path string true "Dish ID"
// @Success 200 {object} storage.Dish
// @Failure 404 {object} DetailResponse
// @Router /menus/{menu_id}/submenus/{submenu_id}/dishes/{dish_id} [get]
func (h *Handlers) GetDish(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	dish, err := h.menus.GetDish(r.Context(), vars["menu_id"], vars["submenu_id"], vars["dish_id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dish)
}

// CreateDish creates a dish
// @Summary Create dish
// @Tags dishes
// @Accept json
// @Produce json
// @Param menu_id path string true "Menu ID"
// @Param submenu_id path string true "Submenu ID"
// @Param dish body storage.DishInput true "Dish"
// @Success 201 {object} storage.Dish
// @Failure 404 {object} DetailResponse
// @Failure 422 {object} DetailResponse
// @Router /menus/{menu_id}/submenus/{submenu_id}/dishes [post]
func (h *Handlers) CreateDish(w http.ResponseWriter, r *http.Request) {
	var in storage.DishInput
	if err := h.decode(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}

	vars := mux.Vars(r)
	dish, err := h.menus.CreateDish(r.Context(), vars["menu_id"], vars["submenu_id"], in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dish)
}

// UpdateDish patches a dish
// @Summary Update dish
// @Tags dishes
// @Accept json
// @Produce json
// @Param menu_id path string true "Menu ID"
// @Param submenu_id path string true "Submenu ID"
// @Param dish_id path string true "Dish ID"
// @Param dish body storage.DishPatch true "Fields to change"
// @Success 200 {object} storage.Dish
// @Failure 404 {object} DetailResponse
// @Router /menus/{menu_id}/submenus/{submenu_id}/dishes/{dish_id} [patch]
func (h *Handlers) UpdateDish(w http.ResponseWriter, r *http.Request) {
	var patch storage.DishPatch
	if err := h.decode(w, r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}

	vars := mux.Vars(r)
	dish, err := h.menus.UpdateDish(r.Context(), vars["menu_id"], vars["submenu_id"], vars["dish_id"], patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dish)
}

// DeleteDish deletes a dish
// @Summary Delete dish
// @Tags dishes
// @Produce json
// @Param menu_id path string true "Menu ID"
// @Param submenu_id path string true "Submenu ID"
// @Param dish_id path string true "Dish ID"
// @Success 200 {object} DeleteResponse
// @Failure 404 {object} DetailResponse
// @Router /menus/{menu_id}/submenus/{submenu_id}/dishes/{dish_id} [delete]
func (h *Handlers) DeleteDish(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.menus.DeleteDish(r.Context(), vars["menu_id"], vars["submenu_id"], vars["dish_id"]); err != nil {
		h.writeError(w, r, err)
		return
	}
	deleted(w, "dish")
}
