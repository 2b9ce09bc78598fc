package app

import (
	"net/http"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "menu-service/docs"
	"menu-service/internal/handlers"
	"menu-service/internal/metrics"
	"menu-service/internal/middleware"
)

// SetupRoutes configures all HTTP routes for the application
func SetupRoutes(router *mux.Router, h *handlers.Handlers, collector *metrics.Collector) {
	router.Use(middleware.RequestID, middleware.Logging(collector))

	router.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	router.Handle("/metrics", collector.Handler()).Methods(http.MethodGet)
	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/menus", h.ListMenus).Methods(http.MethodGet)
	api.HandleFunc("/menus", h.CreateMenu).Methods(http.MethodPost)
	api.HandleFunc("/menus/{menu_id}", h.GetMenu).Methods(http.MethodGet)
	api.HandleFunc("/menus/{menu_id}", h.UpdateMenu).Methods(http.MethodPatch)
	api.HandleFunc("/menus/{menu_id}", h.DeleteMenu).Methods(http.MethodDelete)

	api.HandleFunc("/menus/{menu_id}/submenus", h.ListSubmenus).Methods(http.MethodGet)
	api.HandleFunc("/menus/{menu_id}/submenus", h.CreateSubmenu).Methods(http.MethodPost)
	api.HandleFunc("/menus/{menu_id}/submenus/{submenu_id}", h.GetSubmenu).Methods(http.MethodGet)
	api.HandleFunc("/menus/{menu_id}/submenus/{submenu_id}", h.UpdateSubmenu).Methods(http.MethodPatch)
	api.HandleFunc("/menus/{menu_id}/submenus/{submenu_id}", h.DeleteSubmenu).Methods(http.MethodDelete)

	dishes := "/menus/{menu_id}/submenus/{submenu_id}/dishes"
	api.HandleFunc(dishes, h.ListDishes).Methods(http.MethodGet)
	api.HandleFunc(dishes, h.CreateDish).Methods(http.MethodPost)
	api.HandleFunc(dishes+"/{dish_id}", h.GetDish).Methods(http.MethodGet)
	api.HandleFunc(dishes+"/{dish_id}", h.UpdateDish).Methods(http.MethodPatch)
	api.HandleFunc(dishes+"/{dish_id}", h.DeleteDish).Methods(http.MethodDelete)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(h.RequireAdmin)
	admin.HandleFunc("/cache/flush", h.FlushCache).Methods(http.MethodPost)
	admin.HandleFunc("/cache/purge", h.PurgeCache).Methods(http.MethodPost)
}

// Router builds the HTTP handler for app
func (app *App) Router() http.Handler {
	h := handlers.New(app.Menus, app.Cache, app.DB, app.Config.AdminToken)
	router := mux.NewRouter()
	SetupRoutes(router, h, app.Metrics)
	return router
}
