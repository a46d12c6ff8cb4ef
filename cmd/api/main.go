package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"officehub/configs"
	v1 "officehub/internal/api/v1"
	"officehub/internal/api/v1/handlers"
	"officehub/internal/middleware"
	"officehub/internal/notify"
	"officehub/internal/service"
	"officehub/internal/store"
	"officehub/pkg/database"
	"officehub/pkg/logger"
)

func main() {
	logger.InitLoggers()
	defer logger.SyncLoggers()
	logger.SystemLogger.Info("Starting application", zap.String("time", time.Now().Format(time.RFC3339)))

	cfg := configs.LoadConfig()

	db := database.ConnectDB(cfg)
	defer db.Close()
	logger.SystemLogger.Info("Database connected", zap.String("driver", db.DriverName()))

	if err := store.CreateTablesIfNotExist(db); err != nil {
		logger.ErrorLogger.Error("Schema bootstrap failed", zap.Error(err))
		return
	}

	st := store.New(db)
	if err := st.SeedAdmin(context.Background(), "admin@officehub.local", "admin"); err != nil {
		logger.ErrorLogger.Error("Admin seed failed", zap.Error(err))
		return
	}

	rdb := database.ConnectRedis(cfg)
	if rdb != nil {
		defer rdb.Close()
	}

	hub := notify.NewHub()
	go hub.Run()

	directory := service.NewDirectoryService(st, rdb)
	tasks := service.NewTaskService(st, directory, hub)
	leaves := service.NewLeaveService(st, hub)
	h := handlers.New(st, tasks, leaves, directory, []byte(cfg.JWTSecret), cfg.TokenTTL)

	app := fiber.New()
	app.Use(middleware.ErrorHandler())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
	}))

	v1.RegisterRoutes(app, h)

	// Notification stream
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		client := &notify.Client{Conn: c}
		hub.Register <- client
		defer func() {
			hub.Unregister <- client
		}()
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.SystemLogger.Info("Application ready", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		logger.ErrorLogger.Error("Application failed to start", zap.Error(err))
	}
}
