package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/navarro-barbers/agenda-api/internal/config"
	dbpkg "github.com/navarro-barbers/agenda-api/internal/db"
	"github.com/navarro-barbers/agenda-api/internal/handlers"
	infraRepo "github.com/navarro-barbers/agenda-api/internal/infra/repository"
	"github.com/navarro-barbers/agenda-api/internal/jobs"
	"github.com/navarro-barbers/agenda-api/internal/logging"
	"github.com/navarro-barbers/agenda-api/internal/models"
	"github.com/navarro-barbers/agenda-api/internal/notify"
	"github.com/navarro-barbers/agenda-api/internal/routes"
)

func main() {

	cfg := config.Load()

	log, err := logging.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db := dbpkg.NewDB(cfg)
	seedAdmin(db, cfg, log)

	rdb := newRedis(cfg, log)

	notifyCfg := notify.NewConfig(
		cfg.WhatsAppAPIURL,
		cfg.WhatsAppAPIKey,
		cfg.WhatsAppCountryCode,
	)
	handlers.ReloadNotifyConfig(db, notifyCfg)
	sender := notify.NewWhatsAppSender(notifyCfg, log)

	reminder := jobs.NewReminder(
		infraRepo.NewAppointmentGormRepository(db),
		sender,
		log,
	)
	reminder.Start()
	defer reminder.Stop()

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, routes.Deps{
		DB:        db,
		Redis:     rdb,
		Config:    cfg,
		Logger:    log,
		NotifyCfg: notifyCfg,
		Sender:    sender,
	})

	log.Info("server starting", zap.String("addr", cfg.Addr()))
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}

// newRedis returns nil when no address is configured; the availability
// cache then runs disabled.
func newRedis(cfg *config.Config, log *zap.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		log.Info("redis not configured, availability cache disabled")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("redis unreachable, availability cache disabled", zap.Error(err))
		return nil
	}

	return rdb
}

// seedAdmin makes sure a first admin account exists so the panel is
// reachable on a fresh database.
func seedAdmin(db *gorm.DB, cfg *config.Config, log *zap.Logger) {
	if cfg.SeedAdminPassword == "" {
		return
	}

	var count int64
	db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count)
	if count > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.SeedAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to hash seed admin password", zap.Error(err))
		return
	}

	admin := models.User{
		Username:     cfg.SeedAdminUser,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Error("failed to seed admin user", zap.Error(err))
		return
	}

	log.Info("seeded admin user", zap.String("username", admin.Username))
}
