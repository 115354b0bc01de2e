package main

import (
	"fmt"
	"net/http"

	"github.com/PhucFanMu20Nams/attendance-tracking-sub000/internal/config"
	appHTTP "github.com/PhucFanMu20Nams/attendance-tracking-sub000/internal/handler/http"
	"github.com/PhucFanMu20Nams/attendance-tracking-sub000/internal/pkg/database"
	"github.com/PhucFanMu20Nams/attendance-tracking-sub000/internal/pkg/jwt"
	"github.com/PhucFanMu20Nams/attendance-tracking-sub000/internal/repository/postgresql"
	attendanceService "github.com/PhucFanMu20Nams/attendance-tracking-sub000/internal/service/attendance"
	requestService "github.com/PhucFanMu20Nams/attendance-tracking-sub000/internal/service/request"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	userRepo := postgresql.NewUserRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	requestRepo := postgresql.NewRequestRepository(db)
	auditRepo := postgresql.NewAuditRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	attendanceSvc := attendanceService.NewAttendanceService(
		attendanceRepo,
		holidayRepo,
		requestRepo,
		auditRepo,
		cfg.Attendance,
	)
	requestSvc := requestService.NewRequestService(
		db,
		requestRepo,
		attendanceRepo,
		holidayRepo,
		userRepo,
		cfg.Attendance,
	)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	requestHandler := appHTTP.NewRequestHandler(requestSvc)

	router := appHTTP.NewRouter(JWTService, attendanceHandler, requestHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
