package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/educare-ngo/educare-api/api/swagger"
	"github.com/educare-ngo/educare-api/internal/handler"
	"github.com/educare-ngo/educare-api/internal/middleware"
	"github.com/educare-ngo/educare-api/internal/repository"
	"github.com/educare-ngo/educare-api/internal/service"
	"github.com/educare-ngo/educare-api/pkg/config"
	"github.com/educare-ngo/educare-api/pkg/database"
	"github.com/educare-ngo/educare-api/pkg/export"
	"github.com/educare-ngo/educare-api/pkg/logger"
	corsmiddleware "github.com/educare-ngo/educare-api/pkg/middleware/cors"
	reqidmiddleware "github.com/educare-ngo/educare-api/pkg/middleware/requestid"
)

// @title Educare API
// @version 1.0.0
// @description Educational program administration for NGO social projects
// @BasePath /api
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect database", "error", err)
	}
	defer db.Close()

	migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := repository.Migrate(migrateCtx, db); err != nil {
		logr.Sugar().Fatalw("failed to run migrations", "error", err)
	}

	validate := validator.New()

	studentRepo := repository.NewStudentRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	educationRepo := repository.NewEducationRepository(db)
	assignmentRepo := repository.NewTeachingAssignmentRepository(db)
	verificationRepo := repository.NewVerificationRepository(db)
	linkRepo := repository.NewStaffTeacherLinkRepository(db)

	metricsSvc := service.NewMetricsService()
	studentSvc := service.NewStudentService(studentRepo, educationRepo, enrollmentRepo, staffRepo, validate, logr)
	teacherSvc := service.NewTeacherService(teacherRepo, assignmentRepo, courseRepo, validate, logr)
	staffSvc := service.NewStaffService(staffRepo, verificationRepo, linkRepo, teacherRepo, validate, logr)
	courseSvc := service.NewCourseService(courseRepo, enrollmentRepo, studentRepo, staffRepo, validate, logr)
	statsSvc := service.NewStatsService(enrollmentRepo, export.NewCSVExporter(), export.NewPDFExporter(), logr)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Docs.Enabled && !cfg.IsProduction() {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r, cfg.APIPrefix, handler.Handlers{
		Health:   handler.NewHealthHandler(db),
		Students: handler.NewStudentHandler(studentSvc),
		Teachers: handler.NewTeacherHandler(teacherSvc),
		Staff:    handler.NewStaffHandler(staffSvc),
		Courses:  handler.NewCourseHandler(courseSvc),
		Stats:    handler.NewStatsHandler(statsSvc),
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
