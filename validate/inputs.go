package validate

import (
	"bus_ticketing/model"

	"github.com/gofiber/fiber/v2"
)

func CreateTicket() fiber.Handler        { return Body[model.CreateTicketInput]() }
func UpdateTicket() fiber.Handler        { return Body[model.UpdateTicketInput]() }
func VerifyQR() fiber.Handler            { return Body[model.VerifyQRInput]() }
func CreatePaymentLink() fiber.Handler   { return Body[model.CreatePaymentLinkInput]() }
func ConfirmPayment() fiber.Handler      { return Body[model.ConfirmPaymentInput]() }
func CreateBus() fiber.Handler           { return Body[model.CreateBusInput]() }
func UpdateBus() fiber.Handler           { return Body[model.UpdateBusInput]() }
func CreateSchedule() fiber.Handler      { return Body[model.CreateScheduleInput]() }
func UpdateSchedule() fiber.Handler      { return Body[model.UpdateScheduleInput]() }
func CreateStation() fiber.Handler       { return Body[model.CreateStationInput]() }
func UpdateStation() fiber.Handler       { return Body[model.UpdateStationInput]() }
func CreateUser() fiber.Handler          { return Body[model.CreateUserInput]() }
func UpdateProfile() fiber.Handler       { return Body[model.UpdateProfileInput]() }
func FilterTickets() fiber.Handler       { return Query[model.FilterTicketInput]() }
func FilterSchedules() fiber.Handler     { return Query[model.ScheduleFilter]() }
func FilterBuses() fiber.Handler         { return Query[model.BusFilter]() }
func FilterQRCodes() fiber.Handler       { return Query[model.QRFilter]() }
func FilterUsers() fiber.Handler         { return Query[model.UserFilter]() }
func Paginate() fiber.Handler            { return Query[model.Pagination]() }
