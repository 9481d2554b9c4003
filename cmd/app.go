package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/suteetoe/hrms/internal/model"
	"github.com/suteetoe/hrms/internal/service"
	"github.com/suteetoe/hrms/internal/store"
	"github.com/suteetoe/hrms/pkg/config"
	"github.com/suteetoe/hrms/pkg/database"
	"github.com/suteetoe/hrms/pkg/logger"
	"github.com/suteetoe/hrms/pkg/metrics"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const serviceName = "hrms"

// app is everything a command needs once configuration is loaded
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	db       *gorm.DB
	registry *prometheus.Registry
	domain   *metrics.Domain
	store    *store.Store

	audit       *service.AuditService
	departments *service.DepartmentService
	employees   *service.EmployeeService
	attendance  *service.AttendanceService
	imports     *service.ImportService
}

func bootstrap() (*app, error) {
	cfg, err := config.Load(serviceName)
	if err != nil {
		return nil, err
	}

	if err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Env,
		ServiceName: cfg.ServiceName,
	}); err != nil {
		return nil, err
	}
	log := logger.GetLogger()
	log.Info("Configuration loaded", cfg.LogConfig()...)

	db, err := database.InitDB(&cfg.DB, log)
	if err != nil {
		return nil, err
	}
	if err := database.MigrateModels(db, model.Models()...); err != nil {
		_ = database.Close(db)
		return nil, err
	}
	log.Info("Database migrations completed")

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	domain := metrics.NewDomain(registry, cfg.Metrics.Prefix)

	st := store.New(db, domain)
	audit := service.NewAuditService(st)
	departments := service.NewDepartmentService(st, audit, domain)
	employees := service.NewEmployeeService(st, audit, domain)

	return &app{
		cfg:         cfg,
		log:         log,
		db:          db,
		registry:    registry,
		domain:      domain,
		store:       st,
		audit:       audit,
		departments: departments,
		employees:   employees,
		attendance:  service.NewAttendanceService(st, audit, domain),
		imports:     service.NewImportService(st, departments, employees, domain),
	}, nil
}

func (a *app) close() {
	if err := database.Close(a.db); err != nil {
		a.log.Error("Failed to close database", zap.Error(err))
	}
	_ = a.log.Sync()
}
