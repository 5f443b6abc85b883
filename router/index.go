package router

import (
	"io"
	"os"

	"bus_ticketing/handler"
	"bus_ticketing/middleware"
	"bus_ticketing/validate"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// accessLogOutput receives one line per request.
var accessLogOutput io.Writer = os.Stdout

func accessLog() fiber.Handler {
	return logger.New(logger.Config{Output: accessLogOutput})
}

func SetupRoutes(app *fiber.App, h *handler.Handler, jwtSecret []byte) {
	app.Get("/health", handler.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	protected := middleware.Protected(jwtSecret, h.Users)
	admin := middleware.AdminOnly()

	api := app.Group("/api")
	v1 := api.Group("/v1")

	qr := v1.Group("/qr", accessLog())
	qr.Get("/", protected, admin, validate.FilterQRCodes(), h.GetQRCodes)
	qr.Post("/verify", protected, validate.VerifyQR(), h.VerifyQR)
	qr.Post("/generate/:ticketId", protected, validate.GetById("ticketId"), h.GenerateQR)
	qr.Get("/ticket/:ticketId", protected, validate.GetById("ticketId"), h.GetQRByTicket)
	qr.Get("/ticket/:ticketId/pdf", protected, validate.GetById("ticketId"), h.GetQRTicketPDF)
	qr.Put("/:qrId/invalidate", protected, admin, validate.GetById("qrId"), h.InvalidateQR)

	bookings := v1.Group("/bookings", accessLog())
	bookings.Post("/", protected, validate.CreateTicket(), h.CreateBooking)
	bookings.Get("/", protected, admin, validate.FilterTickets(), h.GetBookings)
	bookings.Get("/my-bookings", protected, validate.Paginate(), h.GetMyBookings)
	bookings.Get("/order/:orderNo", protected, h.GetBookingsByOrderNo)
	bookings.Get("/:ticketId", protected, validate.GetById("ticketId"), h.GetBookingById)
	bookings.Put("/:ticketId", protected, validate.GetById("ticketId"), validate.UpdateTicket(), h.UpdateBooking)
	bookings.Put("/:ticketId/cancel", protected, validate.GetById("ticketId"), h.CancelBooking)

	payment := v1.Group("/payment", accessLog())
	payment.Post("/create-payment-link", protected, validate.CreatePaymentLink(), h.CreatePaymentLink)
	payment.Post("/confirm-success", protected, validate.ConfirmPayment(), h.ConfirmPaymentSuccess)
	// The gateway calls this without credentials and its payload is not ours to validate strictly.
	payment.Post("/webhook", h.PaymentWebhook)

	buses := v1.Group("/buses", accessLog())
	buses.Get("/", validate.FilterBuses(), h.GetBuses)
	buses.Get("/:busId", validate.GetById("busId"), h.GetBusById)
	buses.Get("/:busId/seats", validate.GetById("busId"), h.GetBusSeats)
	buses.Post("/", protected, admin, validate.CreateBus(), h.CreateBus)
	buses.Put("/:busId", protected, admin, validate.GetById("busId"), validate.UpdateBus(), h.UpdateBus)
	buses.Delete("/:busId", protected, admin, validate.GetById("busId"), h.DeleteBus)

	schedules := v1.Group("/schedules", accessLog())
	schedules.Get("/", validate.FilterSchedules(), h.GetSchedules)
	schedules.Get("/cities", h.GetScheduleCities)
	schedules.Post("/update-expired", protected, admin, h.UpdateExpiredSchedules)
	schedules.Get("/:scheduleId", validate.GetById("scheduleId"), h.GetScheduleById)
	schedules.Post("/", protected, admin, validate.CreateSchedule(), h.CreateSchedule)
	schedules.Put("/:scheduleId", protected, admin, validate.GetById("scheduleId"), validate.UpdateSchedule(), h.UpdateSchedule)
	schedules.Delete("/:scheduleId", protected, admin, validate.GetById("scheduleId"), h.DeleteSchedule)

	stations := v1.Group("/stations", accessLog())
	stations.Post("/queue", protected, admin, validate.CreateStation(), h.CreateQueueEntry)
	stations.Get("/bus/:busId", validate.GetById("busId"), h.GetQueueByBus)
	stations.Put("/queue/:entryId", protected, admin, validate.GetById("entryId"), validate.UpdateStation(), h.UpdateQueueEntry)
	stations.Delete("/queue/:entryId", protected, admin, validate.GetById("entryId"), h.DeleteQueueEntry)
	stations.Get("/:stationName/queue", h.GetStationQueue)
	stations.Get("/:stationName/live", handler.UpgradeOnly, websocket.New(h.StationQueueLive))

	users := v1.Group("/users", accessLog())
	users.Get("/profile", protected, h.GetProfile)
	users.Put("/profile", protected, validate.UpdateProfile(), h.UpdateProfile)
	users.Get("/", protected, admin, validate.FilterUsers(), h.GetUsers)
	users.Post("/", protected, admin, validate.CreateUser(), h.CreateUser)
	users.Get("/:userId", protected, admin, validate.GetById("userId"), h.GetUserById)

	adminGroup := v1.Group("/admin", accessLog(), protected, admin)
	adminGroup.Get("/integrity/orphans", h.GetOrphans)
}
