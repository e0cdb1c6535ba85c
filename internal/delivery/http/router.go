package http

import (
	"net/http"

	"clinic-sync-backend/internal/delivery/http/handler"
	"clinic-sync-backend/internal/delivery/http/middleware"
	"clinic-sync-backend/internal/delivery/ws"

	"github.com/gorilla/mux"
)

type Router struct {
	router             *mux.Router
	authHandler        *handler.AuthHandler
	patientHandler     *handler.PatientHandler
	appointmentHandler *handler.AppointmentHandler
	financeHandler     *handler.FinanceHandler
	queueHandler       *handler.QueueHandler
	userHandler        *handler.UserHandler
	clinicHandler      *handler.ClinicHandler
	syncHandler        *handler.SyncHandler
	backupHandler      *handler.BackupHandler
	hub                *ws.Hub
	authMiddleware     *middleware.AuthMiddleware
	corsMiddleware     *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	patientHandler *handler.PatientHandler,
	appointmentHandler *handler.AppointmentHandler,
	financeHandler *handler.FinanceHandler,
	queueHandler *handler.QueueHandler,
	userHandler *handler.UserHandler,
	clinicHandler *handler.ClinicHandler,
	syncHandler *handler.SyncHandler,
	backupHandler *handler.BackupHandler,
	hub *ws.Hub,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:             mux.NewRouter(),
		authHandler:        authHandler,
		patientHandler:     patientHandler,
		appointmentHandler: appointmentHandler,
		financeHandler:     financeHandler,
		queueHandler:       queueHandler,
		userHandler:        userHandler,
		clinicHandler:      clinicHandler,
		syncHandler:        syncHandler,
		backupHandler:      backupHandler,
		hub:                hub,
		authMiddleware:     authMiddleware,
		corsMiddleware:     corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Staff routes (any authenticated role)
	staff := api.PathPrefix("").Subrouter()
	staff.Use(r.authMiddleware.Authenticate)
	staff.Use(middleware.RequireStaff)

	// Patients
	staff.HandleFunc("/patients", r.patientHandler.GetAllPatients).Methods(http.MethodGet)
	staff.HandleFunc("/patients", r.patientHandler.SavePatient).Methods(http.MethodPost)
	staff.HandleFunc("/patients/export", r.patientHandler.ExportCSV).Methods(http.MethodGet)
	staff.HandleFunc("/patients/import", r.patientHandler.ImportCSV).Methods(http.MethodPost)
	staff.HandleFunc("/patients/{id}", r.patientHandler.GetPatient).Methods(http.MethodGet)
	staff.HandleFunc("/patients/{id}", r.patientHandler.DeletePatient).Methods(http.MethodDelete)
	staff.HandleFunc("/patients/{id}/visits", r.patientHandler.AddVisit).Methods(http.MethodPost)
	staff.HandleFunc("/patients/{id}/documents", r.patientHandler.GetDocuments).Methods(http.MethodGet)
	staff.HandleFunc("/patients/{id}/documents", r.patientHandler.AddDocument).Methods(http.MethodPost)
	staff.HandleFunc("/patients/{id}/documents/{docId}", r.patientHandler.RemoveDocument).Methods(http.MethodDelete)

	// Appointments
	staff.HandleFunc("/appointments", r.appointmentHandler.GetAllAppointments).Methods(http.MethodGet)
	staff.HandleFunc("/appointments", r.appointmentHandler.SaveAppointment).Methods(http.MethodPost)
	staff.HandleFunc("/appointments/{id}", r.appointmentHandler.DeleteAppointment).Methods(http.MethodDelete)

	// Finance
	staff.HandleFunc("/transactions", r.financeHandler.GetAllTransactions).Methods(http.MethodGet)
	staff.HandleFunc("/transactions", r.financeHandler.AddTransaction).Methods(http.MethodPost)
	staff.HandleFunc("/ledger/{patientId}", r.financeHandler.GetLedgerEntry).Methods(http.MethodGet)
	staff.HandleFunc("/ledger/{patientId}/recalculate", r.financeHandler.RecalculateLedger).Methods(http.MethodPost)

	// Patient queue
	staff.HandleFunc("/queue", r.queueHandler.GetQueue).Methods(http.MethodGet)
	staff.HandleFunc("/queue/check-in", r.queueHandler.CheckIn).Methods(http.MethodPost)
	staff.HandleFunc("/queue/current", r.queueHandler.GetCurrentPatient).Methods(http.MethodGet)
	staff.HandleFunc("/queue/completed", r.queueHandler.GetCompletedToday).Methods(http.MethodGet)
	staff.HandleFunc("/queue/{id}/status", r.queueHandler.UpdateStatus).Methods(http.MethodPut)
	staff.HandleFunc("/queue/{id}", r.queueHandler.Remove).Methods(http.MethodDelete)

	// Clinics (read and switch are open to staff)
	staff.HandleFunc("/clinics", r.clinicHandler.GetAllClinics).Methods(http.MethodGet)
	staff.HandleFunc("/clinics/active", r.clinicHandler.GetActiveClinic).Methods(http.MethodGet)
	staff.HandleFunc("/clinics/active", r.clinicHandler.SetActiveClinic).Methods(http.MethodPut)

	// Sync
	staff.HandleFunc("/sync/status", r.syncHandler.GetStatus).Methods(http.MethodGet)
	staff.HandleFunc("/sync/trigger", r.syncHandler.TriggerSync).Methods(http.MethodPost)

	// Admin routes
	admin := api.PathPrefix("").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)

	// User management (admin)
	admin.HandleFunc("/users", r.userHandler.GetAllUsers).Methods(http.MethodGet)
	admin.HandleFunc("/users", r.userHandler.CreateUser).Methods(http.MethodPost)
	admin.HandleFunc("/users/{id}", r.userHandler.UpdateUser).Methods(http.MethodPut)
	admin.HandleFunc("/users/{id}", r.userHandler.DeleteUser).Methods(http.MethodDelete)
	admin.HandleFunc("/users/{id}/password", r.userHandler.ChangePassword).Methods(http.MethodPut)

	// Clinic management (admin)
	admin.HandleFunc("/clinics", r.clinicHandler.CreateClinic).Methods(http.MethodPost)
	admin.HandleFunc("/clinics/{id}", r.clinicHandler.UpdateClinic).Methods(http.MethodPut)
	admin.HandleFunc("/clinics/{id}", r.clinicHandler.DeleteClinic).Methods(http.MethodDelete)

	// Audit, backup and cloud pull (admin)
	admin.HandleFunc("/audit-log", r.syncHandler.GetAuditLog).Methods(http.MethodGet)
	admin.HandleFunc("/sync/pull", r.syncHandler.PullFromCloud).Methods(http.MethodPost)
	admin.HandleFunc("/backup/export", r.backupHandler.Export).Methods(http.MethodGet)
	admin.HandleFunc("/backup/restore", r.backupHandler.Restore).Methods(http.MethodPost)

	// WebSocket event stream
	api.HandleFunc("/ws", r.hub.HandleWebSocket)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
