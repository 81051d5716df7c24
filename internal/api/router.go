package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/nadiaputeri/campuscore/internal/app"
	iauth "github.com/nadiaputeri/campuscore/internal/auth"
	"github.com/nadiaputeri/campuscore/internal/cache"
	"github.com/nadiaputeri/campuscore/internal/handlers"
	"github.com/nadiaputeri/campuscore/internal/middleware"
	"github.com/nadiaputeri/campuscore/internal/storage"
)

// NewRouter builds the Gin engine, wires middleware and registers all routes.
// The cache store may be nil; every cached read then degrades to the loader.
func NewRouter(db *gorm.DB, store cache.Store, jwt *iauth.JWTService, signer storage.URLSigner, cfg *app.Config) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if jwt == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}
	if signer == nil {
		return nil, fmt.Errorf("url signer must be provided")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}

	facade := cache.NewFacade(store)
	invalidator := cache.NewInvalidator(store)

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	if cfg.Server.RateLimit.Enabled {
		rateStore := middleware.NewCacheRateStore(store)
		if rateStore == nil {
			rateStore = middleware.NewMemoryRateStore()
		}
		r.Use(middleware.RateLimit(rateStore, cfg.Server.RateLimit.MaxRequests, cfg.Server.RateLimit.Window))
	}

	// Public endpoints
	r.GET("/health", handlers.Health(db, store))
	if local, ok := signer.(*storage.LocalSigner); ok {
		fileHandler, err := handlers.NewFileHandler(local, cfg.Storage.Local.Directory)
		if err != nil {
			return nil, fmt.Errorf("build file handler: %w", err)
		}
		r.GET("/files/*key", fileHandler.Serve)
	}
	if cfg.Monitoring.Prometheus.Enabled {
		endpoint := cfg.Monitoring.Prometheus.Endpoint
		if endpoint == "" {
			endpoint = "/metrics"
		}
		r.GET(endpoint, gin.WrapH(promhttp.Handler()))
	}

	r.NoRoute(middleware.NotFoundHandler)

	// Protected API surface
	api := r.Group("/api")
	api.Use(middleware.Auth(jwt))

	manage := middleware.RequireRole("admin", "staff")

	schoolHandler, err := handlers.NewSchoolHandler(db, facade, invalidator)
	if err != nil {
		return nil, err
	}
	schools := api.Group("/schools")
	{
		schools.GET("", schoolHandler.List)
		schools.GET("/:id", schoolHandler.Get)
		schools.POST("", manage, schoolHandler.Create)
		schools.PATCH("/:id", manage, schoolHandler.Update)
		schools.DELETE("/:id", middleware.RequireRole("admin"), schoolHandler.Delete)
	}

	yearHandler, err := handlers.NewAcademicYearHandler(db, facade, invalidator)
	if err != nil {
		return nil, err
	}
	schools.GET("/:id/years", yearHandler.List)
	schools.GET("/:id/years/active", yearHandler.Active)
	schools.POST("/:id/years", manage, yearHandler.Create)

	subjectHandler, err := handlers.NewSubjectHandler(db, facade, invalidator)
	if err != nil {
		return nil, err
	}
	schools.GET("/:id/subjects", subjectHandler.List)
	schools.GET("/:id/subjects/:subjectID", subjectHandler.Get)
	schools.POST("/:id/subjects", manage, subjectHandler.Create)
	schools.DELETE("/:id/subjects/:subjectID", manage, subjectHandler.Delete)

	teacherHandler, err := handlers.NewTeacherHandler(db, facade, invalidator)
	if err != nil {
		return nil, err
	}
	schools.GET("/:id/teachers", teacherHandler.List)
	schools.GET("/:id/teachers/:teacherID", teacherHandler.Get)
	schools.POST("/:id/teachers", manage, teacherHandler.Create)
	schools.PATCH("/:id/teachers/:teacherID", manage, teacherHandler.Update)

	sectionHandler, err := handlers.NewSectionHandler(db, facade, invalidator)
	if err != nil {
		return nil, err
	}
	schools.GET("/:id/sections", sectionHandler.ListByYear)
	schools.GET("/:id/sections/:sectionID", sectionHandler.Get)
	schools.POST("/:id/sections", manage, sectionHandler.Create)
	schools.DELETE("/:id/sections/:sectionID", manage, sectionHandler.Delete)

	timetableHandler, err := handlers.NewTimetableHandler(db, facade, invalidator)
	if err != nil {
		return nil, err
	}
	sections := api.Group("/sections")
	{
		sections.GET("/:sectionID/timetable", timetableHandler.Get)
		sections.PUT("/:sectionID/timetable", manage, timetableHandler.Replace)
	}

	documentHandler, err := handlers.NewDocumentHandler(db, facade, invalidator, signer)
	if err != nil {
		return nil, err
	}
	schools.GET("/:id/documents", documentHandler.ListByOwner)
	schools.GET("/:id/documents/:documentID", documentHandler.Get)
	schools.POST("/:id/documents", manage, documentHandler.Register)
	schools.POST("/:id/documents/:documentID/verify", manage, documentHandler.MarkVerified)
	schools.DELETE("/:id/documents/:documentID", manage, documentHandler.Delete)

	// Any authenticated role may request access; the gateway applies the
	// role/category matrix itself.
	api.POST("/documents/:documentID/access", documentHandler.IssueAccess)

	return r, nil
}
