package app

import (
	"log/slog"

	"github.com/cmlabs-hris/hris-attendance-go/internal/config"
	appHTTP "github.com/cmlabs-hris/hris-attendance-go/internal/handler/http"
	"github.com/go-chi/chi/v5"
)

// NewRouter builds the HTTP surface over svc.
func NewRouter(cfg *config.Config, svc *Services, logger *slog.Logger) *chi.Mux {
	return appHTTP.NewRouter(
		appHTTP.RouterConfig{
			Logger:         logger,
			AllowedOrigins: cfg.App.CORSAllowedOrigins,
		},
		svc.JWT,
		appHTTP.Handlers{
			Attendance: appHTTP.NewAttendanceHandler(svc.Attendance, svc.Policy.Location),
			Leave:      appHTTP.NewLeaveHandler(svc.Leave, svc.Policy),
			Report:     appHTTP.NewReportHandler(svc.Report, svc.File),
			Dashboard:  appHTTP.NewDashboardHandler(svc.Dashboard),
			User:       appHTTP.NewUserHandler(svc.User, svc.Auth),
		},
	)
}
