package handler

import (
	"context"
	"net/url"
	"time"

	"bus_ticketing/apperror"
	"bus_ticketing/constants"
	"bus_ticketing/helper"
	"bus_ticketing/logger"
	"bus_ticketing/model"
	"bus_ticketing/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
)

// publishQueue fans a queue change out to live subscribers. A publish failure
// never fails the request.
func (h *Handler) publishQueue(ctx context.Context, ev model.QueueEvent) {
	if err := h.Queue.Publish(ctx, ev); err != nil {
		logger.Log.Warn("[QUEUE] publish failed", "station", ev.StationSlug, "action", ev.Action, "error", err)
	}
}

func (h *Handler) CreateQueueEntry(c *fiber.Ctx) error {
	input, ok := c.Locals("input").(model.CreateStationInput)
	if !ok {
		return parseLocalsError(c)
	}
	bus, err := h.Buses.FindByID(c.UserContext(), input.BusId)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	if bus == nil {
		return utils.AppErrorResponse(c, apperror.New(apperror.NotFound, "bus not found"))
	}

	entry := new(model.Station)
	if err := copier.Copy(entry, &input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_CREATE, err)
	}
	entry.StationSlug = helper.StationSlug(input.StationName)
	entry.Status = model.StationWaiting

	if err := h.Stations.Create(c.UserContext(), entry); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_CREATE, err)
	}
	h.publishQueue(c.UserContext(), model.QueueEvent{Action: "created", StationSlug: entry.StationSlug, Entry: entry, EntryId: entry.ID})
	return utils.SuccessResponse(c, fiber.StatusCreated, entry)
}

// stationParam turns the :stationName route segment into a queue key.
func stationParam(raw string) string {
	if name, err := url.PathUnescape(raw); err == nil {
		raw = name
	}
	return helper.StationSlug(raw)
}

func (h *Handler) GetStationQueue(c *fiber.Ctx) error {
	stationSlug := stationParam(c.Params("stationName"))
	entries, err := h.Stations.Queue(c.UserContext(), stationSlug)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	if entries == nil {
		entries = []model.Station{}
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"stationSlug": stationSlug,
		"entries":     entries,
	})
}

func (h *Handler) GetQueueByBus(c *fiber.Ctx) error {
	entries, err := h.Stations.ByBus(c.UserContext(), inputId(c))
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	if entries == nil {
		entries = []model.Station{}
	}
	return utils.SuccessResponse(c, fiber.StatusOK, entries)
}

func (h *Handler) findQueueEntry(c *fiber.Ctx) (*model.Station, error) {
	entry, err := h.Stations.FindByID(c.UserContext(), inputId(c))
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, apperror.New(apperror.NotFound, "queue entry not found")
	}
	return entry, nil
}

func (h *Handler) UpdateQueueEntry(c *fiber.Ctx) error {
	input, ok := c.Locals("input").(model.UpdateStationInput)
	if !ok {
		return parseLocalsError(c)
	}
	entry, err := h.findQueueEntry(c)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	patch := map[string]any{}
	if input.QueuePosition != nil {
		patch["queue_position"] = *input.QueuePosition
	}
	if input.EstimatedArrival != nil {
		patch["estimated_arrival"] = *input.EstimatedArrival
	}
	if input.ActualArrival != nil {
		patch["actual_arrival"] = *input.ActualArrival
	}
	if input.EstimatedDeparture != nil {
		patch["estimated_departure"] = *input.EstimatedDeparture
	}
	if input.ActualDeparture != nil {
		patch["actual_departure"] = *input.ActualDeparture
	}
	if input.Status != nil {
		patch["status"] = *input.Status
		if *input.Status == model.StationDeparted && input.ActualDeparture == nil && entry.ActualDeparture == nil {
			patch["actual_departure"] = time.Now()
		}
	}

	if len(patch) > 0 {
		if _, err := h.Stations.UpdateByID(c.UserContext(), entry.ID, patch); err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_UPDATE, err)
		}
	}
	updated, err := h.findQueueEntry(c)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	h.publishQueue(c.UserContext(), model.QueueEvent{Action: "updated", StationSlug: updated.StationSlug, Entry: updated, EntryId: updated.ID})
	return utils.SuccessResponse(c, fiber.StatusOK, updated)
}

func (h *Handler) DeleteQueueEntry(c *fiber.Ctx) error {
	entry, err := h.findQueueEntry(c)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	if _, err := h.Stations.DeleteByID(c.UserContext(), entry.ID); err != nil {
		return utils.AppErrorResponse(c, err)
	}
	h.publishQueue(c.UserContext(), model.QueueEvent{Action: "deleted", StationSlug: entry.StationSlug, EntryId: entry.ID})
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"id": entry.ID})
}
