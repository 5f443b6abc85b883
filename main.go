package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"bus_ticketing/config"
	"bus_ticketing/database"
	"bus_ticketing/gateway"
	"bus_ticketing/handler"
	"bus_ticketing/helper"
	"bus_ticketing/logger"
	"bus_ticketing/repository"
	"bus_ticketing/router"
	"bus_ticketing/service"
	"bus_ticketing/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jonboulle/clockwork"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Error("load config", "error", err)
		os.Exit(1)
	}
	loc := cfg.App.Location()
	clock := clockwork.NewRealClock()

	db, err := database.ConnectDB(cfg)
	if err != nil {
		logger.Log.Error("connect database", "error", err)
		os.Exit(1)
	}
	rdb := database.NewRedisClient(cfg.Redis)

	tickets := repository.NewTicketRepository(db)
	codes := repository.NewQRTicketRepository(db)
	schedules := repository.NewScheduleRepository(db)
	buses := repository.NewBusRepository(db)

	qrService := service.NewQRService(tickets, codes, clock, cfg.QR.ExpiryWindow(), cfg.QR.ImageSize)
	bookings := service.NewBookingService(tickets, buses, clock)
	rollover := service.NewScheduleRollover(schedules, buses, clock, loc)
	payments := service.NewPaymentService(tickets, gateway.NewPhaPay(cfg.Payment), repository.NewOrderLock(rdb, 0), clock, service.PaymentOptions{
		Tag1:        cfg.Payment.Tag1,
		CallbackURL: strings.TrimRight(cfg.App.FrontendURL, "/") + "/payment-success",
		Timeout:     cfg.Payment.Timeout(),
	})

	h := &handler.Handler{
		QR:        qrService,
		Bookings:  bookings,
		Payments:  payments,
		Rollover:  rollover,
		Integrity: service.NewIntegrityService(schedules, tickets),
		Tickets:   tickets,
		Buses:     buses,
		Schedules: schedules,
		Stations:  repository.NewStationRepository(db),
		Users:     repository.NewUserRepository(db),
		Queue:     repository.NewQueueEvents(rdb),
		Mailer:    utils.NewMailer(cfg.SMTP, loc),
		Location:  loc,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	daily, err := helper.StartScheduleRollover(ctx, rollover, loc, clock)
	if err != nil {
		logger.Log.Error("start schedule rollover", "error", err)
		os.Exit(1)
	}
	sweep, err := helper.StartExpirySweep(ctx, cfg.Scheduler.ExpirySweepSpec, qrService, bookings)
	if err != nil {
		logger.Log.Error("start expiry sweep", "error", err)
		os.Exit(1)
	}

	app := fiber.New(fiber.Config{ErrorHandler: utils.FiberErrorHandler})
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Authorization, Accept",
		AllowCredentials: true,
		ExposeHeaders:    "Set-Cookie",
		MaxAge:           600,
	}))
	router.SetupRoutes(app, h, []byte(cfg.JWT.Secret))

	go func() {
		if err := app.Listen(":" + cfg.App.Port); err != nil {
			logger.Log.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Log.Info("shutting down")

	if err := daily.Shutdown(); err != nil {
		logger.Log.Warn("stop schedule rollover", "error", err)
	}
	<-sweep.Stop().Done()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Log.Warn("shutdown http server", "error", err)
	}
	if rdb != nil {
		rdb.Close()
	}
}
