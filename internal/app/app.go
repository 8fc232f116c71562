// Package app wires configuration, storage backends and services together.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-attendance-go/internal/config"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/storage"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/workday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/sqlite"
	attendanceService "github.com/cmlabs-hris/hris-attendance-go/internal/service/attendance"
	authService "github.com/cmlabs-hris/hris-attendance-go/internal/service/auth"
	dashboardService "github.com/cmlabs-hris/hris-attendance-go/internal/service/dashboard"
	"github.com/cmlabs-hris/hris-attendance-go/internal/service/file"
	leaveService "github.com/cmlabs-hris/hris-attendance-go/internal/service/leave"
	reportService "github.com/cmlabs-hris/hris-attendance-go/internal/service/report"
	userService "github.com/cmlabs-hris/hris-attendance-go/internal/service/user"
)

// Repositories is one storage backend behind the domain interfaces.
type Repositories struct {
	Tx         database.Transactor
	User       user.UserRepository
	Attendance attendance.AttendanceRepository
	Leave      leave.LeaveRequestRepository
	Report     report.ReportRepository
	Dashboard  dashboard.DashboardRepository
	Close      func()
}

// SQLiteRepositories builds the embedded backend over an open database.
func SQLiteRepositories(db *sql.DB) Repositories {
	return Repositories{
		Tx:         sqlite.NewTransactor(db),
		User:       sqlite.NewUserRepository(db),
		Attendance: sqlite.NewAttendanceRepository(db),
		Leave:      sqlite.NewLeaveRequestRepository(db),
		Report:     sqlite.NewReportRepository(db),
		Dashboard:  sqlite.NewDashboardRepository(db),
		Close:      func() { db.Close() },
	}
}

// PostgreSQLRepositories builds the server backend over a pool.
func PostgreSQLRepositories(db *database.DB) Repositories {
	return Repositories{
		Tx:         postgresql.NewTransactor(db),
		User:       postgresql.NewUserRepository(db),
		Attendance: postgresql.NewAttendanceRepository(db),
		Leave:      postgresql.NewLeaveRequestRepository(db),
		Report:     postgresql.NewReportRepository(db),
		Dashboard:  postgresql.NewDashboardRepository(db),
		Close:      db.Close,
	}
}

// OpenRepositories connects to the configured driver and applies the schema
// when auto-migration is on.
func OpenRepositories(ctx context.Context, cfg *config.Config) (Repositories, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return Repositories{}, fmt.Errorf("connect postgresql: %w", err)
		}
		if cfg.Database.AutoMigrate {
			if err := postgresql.Migrate(ctx, db); err != nil {
				db.Close()
				return Repositories{}, err
			}
		}
		return PostgreSQLRepositories(db), nil

	case config.DriverSQLite:
		db, err := database.NewSQLiteDB(cfg.Database.SQLitePath)
		if err != nil {
			return Repositories{}, fmt.Errorf("open sqlite: %w", err)
		}
		if cfg.Database.AutoMigrate {
			if err := sqlite.Migrate(ctx, db); err != nil {
				db.Close()
				return Repositories{}, err
			}
		}
		return SQLiteRepositories(db), nil

	default:
		return Repositories{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Database.Driver)
	}
}

// Services is the full set of application services.
type Services struct {
	Policy     workday.Policy
	JWT        jwt.Service
	File       file.FileService // nil without REPORT_ARCHIVE_DIR
	Attendance attendance.AttendanceService
	Leave      leave.LeaveService
	Report     report.ReportService
	Dashboard  dashboard.DashboardService
	User       user.UserService
	Auth       auth.AuthService
}

// NewServices wires services over repos.
func NewServices(cfg *config.Config, repos Repositories) (*Services, error) {
	policy, err := cfg.Policy()
	if err != nil {
		return nil, err
	}

	var fileService file.FileService
	if cfg.Archive.Dir != "" {
		local, err := storage.NewLocalStorage(cfg.Archive.Dir, cfg.Archive.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("initialize report archive: %w", err)
		}
		fileService = file.NewFileService(local)
		slog.Info("report archive enabled", "dir", local.Dir())
	}

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	leaveSvc := leaveService.NewLeaveService(repos.Tx, repos.Leave, repos.User, policy)

	return &Services{
		Policy:     policy,
		JWT:        jwtService,
		File:       fileService,
		Attendance: attendanceService.NewAttendanceService(repos.Tx, repos.Attendance, repos.User, policy),
		Leave:      leaveSvc,
		Report:     reportService.NewReportService(repos.Report, policy, fileService),
		Dashboard:  dashboardService.NewDashboardService(repos.Dashboard, repos.Report, leaveSvc, policy),
		User:       userService.NewUserService(repos.Tx, repos.User),
		Auth:       authService.NewAuthService(repos.User, jwtService),
	}, nil
}
