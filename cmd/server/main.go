package main

import (
	"context"
	"log"
	"seat-reservation/config"
	"seat-reservation/internal/cache"
	"seat-reservation/internal/database"
	"seat-reservation/internal/handler"
	"seat-reservation/internal/middleware"
	"seat-reservation/internal/queue"
	"seat-reservation/internal/repository"
	"seat-reservation/internal/service"
	"seat-reservation/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.LoadConfig()

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer pool.Close()

	ctx := context.Background()
	if err := database.InitSchema(ctx, pool); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to initialize redis: %v", err)
	}
	defer rdb.Close()

	seatRepo := repository.NewSeatRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)

	eventQueue, err := queue.NewRedisStreamEventQueue(rdb, "", nil)
	if err != nil {
		log.Fatalf("Failed to initialize event queue: %v", err)
	}

	auditWorker := worker.NewAuditWorker(auditRepo, eventQueue)
	if err := auditWorker.Start(ctx); err != nil {
		log.Fatalf("Failed to start audit worker: %v", err)
	}

	snapshotCache := cache.NewSeatAvailabilityCache(rdb)
	bookingService := service.NewBookingService(pool, seatRepo, auditRepo, snapshotCache, eventQueue)
	bookingHandler := handler.NewBookingHandler(bookingService)

	router := gin.Default()
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	bookingHandler.RegisterRoutes(router, middleware.JWTAuth(cfg.JWT.Secret))

	router.Run(":" + cfg.Server.Port)
}
