package availability

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"slot-aggregator/core/consolidate"
	"slot-aggregator/core/logger"
	"slot-aggregator/core/provider"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for availability.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the availability routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/health", h.HandleHealth)

	group := app.Group("/availability")
	group.Get("/", h.HandleAvailability)
	group.Get("/raw", h.HandleRaw)
	group.Post("/refresh", h.HandleRefresh)
}

// HandleHealth reports liveness and the number of stored providers.
// @Summary Health
// @Description Liveness check. Reports how many providers are currently stored.
// @Tags availability
// @Produce json
// @Success 200 {object} map[string]interface{} "Status"
// @Router /health [get]
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ok",
		"providers": len(h.service.Snapshot(c.Context())),
	})
}

// HandleAvailability returns the consolidated view.
// @Summary Consolidated availability
// @Description Groups providers, merges their slots and orders the groups.
// @Tags availability
// @Produce json
// @Param speciality query string false "Comma separated specialities"
// @Param insurance query string false "Comma separated insurances"
// @Param city query string false "Comma separated cities"
// @Param days query int false "Only slots within the next N days"
// @Param sort query string false "next, distance or name"
// @Param lat query number false "Origin latitude for distance ordering"
// @Param lon query number false "Origin longitude for distance ordering"
// @Param near query string false "Origin address for distance ordering"
// @Success 200 {array} consolidate.Group
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Address not found"
// @Failure 502 {object} map[string]string "Geocoding failed"
// @Router /availability [get]
func (h *Handler) HandleAvailability(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	filter, err := filterFrom(c, h.service.now())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	order, err := consolidate.ParseOrder(c.Query("sort"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	origin, err := originFrom(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	groups, err := h.service.Groups(c.Context(), Query{
		Filter: filter,
		Order:  order,
		Origin: origin,
		Near:   strings.TrimSpace(c.Query("near")),
	})
	switch {
	case errors.Is(err, ErrUnknownPlace):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		l.Error("Failed to build availability view", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(groups)
}

// HandleRaw returns the stored entities.
// @Summary Raw entities
// @Description Returns the stored per-provider records, optionally filtered.
// @Tags availability
// @Produce json
// @Param speciality query string false "Comma separated specialities"
// @Param insurance query string false "Comma separated insurances"
// @Param city query string false "Comma separated cities"
// @Param days query int false "Only slots within the next N days"
// @Success 200 {array} provider.Entity
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /availability/raw [get]
func (h *Handler) HandleRaw(c *fiber.Ctx) error {
	filter, err := filterFrom(c, h.service.now())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(h.service.Raw(c.Context(), filter))
}

// HandleRefresh runs a batch scrape.
// @Summary Refresh
// @Description Scrapes every configured provider and updates the store. This operation may take a long time.
// @Tags availability
// @Produce json
// @Success 200 {object} scrape.Report
// @Failure 409 {object} map[string]string "Refresh already running"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Failure 501 {object} map[string]string "Refresh disabled"
// @Router /availability/refresh [post]
func (h *Handler) HandleRefresh(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering refresh")

	report, err := h.service.Refresh(c.Context())
	switch {
	case errors.Is(err, ErrRefreshDisabled):
		return c.Status(fiber.StatusNotImplemented).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrRefreshRunning):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		l.Error("Refresh failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}

func filterFrom(c *fiber.Ctx, now time.Time) (consolidate.Filter, error) {
	f := consolidate.Filter{
		Specialities: list(c.Query("speciality")),
		Insurances:   list(c.Query("insurance")),
		Cities:       list(c.Query("city")),
	}
	if raw := c.Query("days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days <= 0 {
			return f, errors.New("days must be a positive integer")
		}
		f.From = now
		f.To = now.AddDate(0, 0, days)
	}
	return f, nil
}

func originFrom(c *fiber.Ctx) (*provider.Coordinates, error) {
	lat, lon := c.Query("lat"), c.Query("lon")
	if lat == "" && lon == "" {
		return nil, nil
	}
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil || la < -90 || la > 90 {
		return nil, errors.New("lat must be a number between -90 and 90")
	}
	lo, err := strconv.ParseFloat(lon, 64)
	if err != nil || lo < -180 || lo > 180 {
		return nil, errors.New("lon must be a number between -180 and 180")
	}
	return &provider.Coordinates{Lat: la, Lon: lo}, nil
}

func list(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
