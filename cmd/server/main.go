package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/chalasimon/Child-Protection-Case-Management-System-sub001/internal/config"
	"github.com/chalasimon/Child-Protection-Case-Management-System-sub001/internal/handler"
	"github.com/chalasimon/Child-Protection-Case-Management-System-sub001/internal/model"
	"github.com/chalasimon/Child-Protection-Case-Management-System-sub001/internal/notify"
	"github.com/chalasimon/Child-Protection-Case-Management-System-sub001/internal/router"
	"github.com/chalasimon/Child-Protection-Case-Management-System-sub001/internal/service"
)

func main() {
	// Load config
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Database
	db, err := openDatabase(cfg)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}

	// Auto migrate
	if err := db.AutoMigrate(
		&model.User{},
		&model.Case{},
		&model.Victim{},
		&model.Perpetrator{},
		&model.CasePerpetrator{},
		&model.CaseNote{},
		&model.CaseHistory{},
	); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}

	// One-time migration: normalize the legacy status spelling
	db.Model(&model.Case{}).Where("status = ?", "investigation").
		Update("status", model.CaseStatusUnderInvestigation)

	// Seed the first admin account on an empty install
	authService := service.NewAuthService(db, cfg.JWT.Secret, cfg.JWT.ExpireHours)
	if cfg.Seed.AdminEmail != "" {
		if err := authService.SeedAdmin(cfg.Seed.AdminEmail, cfg.Seed.AdminPassword); err != nil {
			log.Printf("seed admin: %v", err)
		}
	}

	// Services
	caseService := service.NewCaseService(db)
	caseService.SetNotifier(notify.LogNotifier{})
	victimService := service.NewVictimService(db, cfg.Encrypt.AESKey)
	perpService := service.NewPerpetratorService(db)
	dashboardService := service.NewDashboardService(db)

	// Optional Redis cache for dashboard aggregates
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		dashboardService.SetCache(rdb, time.Duration(cfg.Dashboard.CacheTTLSeconds)*time.Second)
	}

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(authService)
	caseHandler := handler.NewCaseHandler(caseService)
	victimHandler := handler.NewVictimHandler(victimService)
	perpHandler := handler.NewPerpetratorHandler(perpService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, cfg.Dashboard.FailOpen)

	// Router
	gin.SetMode(cfg.Server.Mode)
	r := gin.Default()
	router.Setup(r, router.Deps{
		DB:                 db,
		JWTSecret:          cfg.JWT.Secret,
		AuthHandler:        authHandler,
		UserHandler:        userHandler,
		CaseHandler:        caseHandler,
		VictimHandler:      victimHandler,
		PerpetratorHandler: perpHandler,
		DashboardHandler:   dashboardHandler,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("server listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.Database.Driver {
	case "sqlite":
		return gorm.Open(sqlite.Open(cfg.Database.Path), &gorm.Config{})
	default:
		return gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{})
	}
}
