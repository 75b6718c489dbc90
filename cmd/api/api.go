package api

import (
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/mediremind/mediremind-server/service/appointment"
	"github.com/mediremind/mediremind-server/service/dashboard"
	"github.com/mediremind/mediremind-server/service/events"
	"github.com/mediremind/mediremind-server/service/reminder"
	"github.com/mediremind/mediremind-server/service/settings"
	"github.com/mediremind/mediremind-server/service/user"
)

type APIServer struct {
	address string
	db      *gorm.DB
}

func NewApiServer(address string, db *gorm.DB) *APIServer {
	return &APIServer{
		address: address,
		db:      db,
	}
}

func (s *APIServer) Run() error {
	router := mux.NewRouter()
	subrouter := router.PathPrefix("/api/v1").Subrouter()

	hub := events.NewHub()
	go hub.Run()

	userHandler := user.NewHandler(s.db, hub)
	userHandler.RegisterRoutes(subrouter)

	appointmentHandler := appointment.NewAppointmentHandler(s.db)
	appointmentHandler.RegisterRoutes(subrouter)

	reminderHandler := reminder.NewReminderHandler(s.db)
	reminderHandler.RegisterRoutes(subrouter)

	settingsHandler := settings.NewSettingsHandler(s.db)
	settingsHandler.RegisterRoutes(subrouter)

	dashboardHandler := dashboard.NewDashboardHandler(s.db)
	dashboardHandler.RegisterRoutes(subrouter)

	eventsHandler := events.NewEventsHandler(hub)
	eventsHandler.RegisterRoutes(subrouter)

	cors := handlers.CORS(
		handlers.AllowedOrigins(allowedOrigins()),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	log.Println("Server running at", s.address)
	return http.ListenAndServe(s.address, handlers.LoggingHandler(os.Stdout, cors(router)))
}

func allowedOrigins() []string {
	origins := os.Getenv("ALLOWED_ORIGINS")
	if origins == "" {
		return []string{"*"}
	}
	return strings.Split(origins, ",")
}
