package main // Entry point package

import (
    "context"
    "log"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/show-ticketing/internal/booking"
    "github.com/iliyamo/show-ticketing/internal/config"
    "github.com/iliyamo/show-ticketing/internal/database"
    "github.com/iliyamo/show-ticketing/internal/handler"
    "github.com/iliyamo/show-ticketing/internal/holdstore"
    "github.com/iliyamo/show-ticketing/internal/middleware"
    "github.com/iliyamo/show-ticketing/internal/queue"
    "github.com/iliyamo/show-ticketing/internal/repository"
    "github.com/iliyamo/show-ticketing/internal/router"
    queuepublisher "github.com/iliyamo/show-ticketing/internal/service"
    "github.com/iliyamo/show-ticketing/internal/uow"
)

func main() {
    // .env is optional; real deployments set variables in the environment.
    _ = godotenv.Load()
    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("mysql: %v", err)
    }
    defer db.Close()

    // Redis backs the advisory hold store; running without it would
    // silently disable holds, so a missing server is a startup failure.
    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Fatal("redis: connection failed, seat holds require redis")
    }
    defer rdb.Close()

    // Repositories and the transactional booking core.
    users := repository.NewUserRepo(db)
    tokens := repository.NewTokenRepo(db)
    shows := repository.NewShowRepo(db)
    seats := repository.NewInventoryRepo(db)
    bookings := repository.NewBookingRepo(db)
    payments := repository.NewPaymentRepo(db)
    tickets := repository.NewTicketRepo(db)

    txFactory := uow.NewFactory(db, cfg.LockWaitSecs)
    txManager := booking.NewInventoryTxManager(txFactory, seats, bookings, payments, tickets)

    holds := holdstore.NewCoordinator(
        holdstore.NewStore(rdb),
        time.Duration(cfg.HoldTTLSecs)*time.Second,
    )

    var events booking.ConfirmedPublisher
    if cfg.AMQPURL != "" {
        events = queuepublisher.NewPublisher(cfg.AMQPURL)
        go func() {
            if err := queue.StartBookingConsumer(cfg.AMQPURL); err != nil {
                log.Printf("booking consumer stopped: %v", err)
            }
        }()
    }

    svc := booking.NewService(shows, seats, seats, booking.AcceptAllPayments{}, txManager, holds, events)

    // HTTP wiring.
    e := echo.New()
    e.HideBanner = true
    e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

    router.RegisterRoutes(e)
    router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
    router.RegisterPublic(e, handler.NewShowHandler(shows, svc))
    router.RegisterBooking(e, handler.NewBookingHandler(svc, bookings), cfg.JWTSecret)

    addr := ":" + cfg.Port
    go func() {
        log.Printf("listening on %s (env=%s)", addr, cfg.Env)
        if err := e.Start(addr); err != nil {
            log.Printf("server stopped: %v", err)
        }
    }()

    quit := make(chan os.Signal, 1)
    signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
    <-quit
    log.Println("shutting down")

    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    if err := e.Shutdown(ctx); err != nil {
        log.Fatalf("forced shutdown: %v", err)
    }
}
