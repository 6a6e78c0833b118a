package main // Entry point package

import (
	"context" // Context for background workers
	"log"     // Logging library

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/sport-venue-booking/internal/booking"    // Booking lifecycle service
	"github.com/iliyamo/sport-venue-booking/internal/config"     // Internal config loader
	"github.com/iliyamo/sport-venue-booking/internal/database"   // MySQL connection pool
	"github.com/iliyamo/sport-venue-booking/internal/handler"    // HTTP handlers
	appmw "github.com/iliyamo/sport-venue-booking/internal/middleware" // Rate limiting and auth middleware
	"github.com/iliyamo/sport-venue-booking/internal/monitoring" // Prometheus gauges sampled from the DB
	"github.com/iliyamo/sport-venue-booking/internal/queue"      // RabbitMQ lifecycle event consumer
	"github.com/iliyamo/sport-venue-booking/internal/repository" // Data access layer
	"github.com/iliyamo/sport-venue-booking/internal/router"     // Route registration
	"github.com/iliyamo/sport-venue-booking/internal/scheduler"  // Durable auto-cancellation worker
	queue_publisher "github.com/iliyamo/sport-venue-booking/internal/service" // Lifecycle event publisher
)

func main() {
	cfg := config.Load() // Load environment config (.env in development)

	// Connect to MySQL and verify the connection before serving traffic.
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client disables venue caching and rate
	// limiting but never blocks startup.
	rdb := config.NewRedisClient()

	// Repositories share the connection pool; the venue repository also
	// takes the Redis client for read-through caching.
	venues := repository.NewVenueRepo(db, rdb)
	slots := repository.NewSlotRepo(db)
	bookings := repository.NewBookingRepo(db)
	matches := repository.NewMatchRepo(db)
	profiles := repository.NewProfileRepo(db)
	jobs := repository.NewJobRepo(db)

	// The lifecycle service fans committed transitions out to RabbitMQ.
	svc := booking.NewService(db, venues, slots, bookings, matches, profiles, jobs, queue_publisher.New(cfg.AMQPURL))

	// The scheduler polls scheduled_jobs and hands due bookings to
	// AutoCancel.  Revalidation inside AutoCancel makes double fires and
	// multi-instance deployments safe.
	for i := 0; i < cfg.SchedulerWorkers; i++ {
		go scheduler.NewWorker(jobs, svc.AutoCancel).Run(context.Background())
	}

	// Consume lifecycle events for the booking audit log.
	go func() {
		if err := queue.StartLifecycleConsumer(cfg.AMQPURL); err != nil {
			log.Printf("queue consumer: %v", err)
		}
	}()

	// Sample slow-moving gauges (pending jobs) in the background.
	monitoring.NewMonitor(db)

	e := echo.New()                                                  // Create Echo instance
	e.Use(appmw.NewTokenBucket(config.LoadRateLimitConfig(), rdb))   // Distributed rate limiting
	router.RegisterRoutes(e)                                         // Health check and metrics
	router.RegisterBooking(e, handler.NewBookingHandler(svc), cfg.JWTSecret) // Booking and match routes

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
