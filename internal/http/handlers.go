package http

import (
	"errors"

	"github.com/ANIKETSHETTY47/dynamic-energy-optimizer/internal/appliance"
	"github.com/ANIKETSHETTY47/dynamic-energy-optimizer/internal/domain"
	"github.com/ANIKETSHETTY47/dynamic-energy-optimizer/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

const (
	defaultArchiveLimit = 50
	maxArchiveLimit     = 500
)

func Register(app *fiber.App, svcs *service.Services) {
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })

	submit := func(c *fiber.Ctx) error {
		var in domain.ApplianceInput
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "body must be a JSON object"})
		}
		res, err := svcs.Appliances.Submit(c.UserContext(), in)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(res)
	}
	schedule := func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"days": appliance.Days, "schedule": svcs.Appliances.Schedule()})
	}
	bills := func(c *fiber.Ctx) error { return c.JSON(svcs.Reports.Bills()) }
	tips := func(c *fiber.Ctx) error { return c.JSON(service.Tips()) }

	app.Post("/add_appliance", submit)
	app.Get("/schedule", schedule)
	app.Get("/bills", bills)
	app.Get("/get_suggestions", tips)

	g := app.Group("/api")
	g.Post("/appliances", submit)
	g.Get("/appliances", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"appliances":   svcs.Appliances.Records(),
			"total_energy": svcs.Appliances.TotalEnergy(),
		})
	})
	g.Get("/appliances/last", func(c *fiber.Ctx) error {
		n := c.QueryInt("n", 5)
		if n < 1 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "n must be positive"})
		}
		return c.JSON(svcs.Appliances.LastN(n))
	})
	g.Get("/schedule", schedule)
	g.Get("/bills", bills)
	g.Get("/visualization", bills)
	g.Get("/tips", tips)
	g.Get("/predict", func(c *fiber.Ctx) error { return c.JSON(service.Predict()) })
	g.Get("/report", func(c *fiber.Ctx) error { return c.JSON(svcs.Reports.Usage()) })
	g.Post("/reports", func(c *fiber.Ctx) error {
		key, url, err := svcs.Reports.Export(c.UserContext())
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"key": key, "url": url})
	})
	g.Get("/archive", func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", defaultArchiveLimit)
		if limit < 1 || limit > maxArchiveLimit {
			limit = defaultArchiveLimit
		}
		items, err := svcs.Appliances.Archived(limit)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(items)
	})
}

func fail(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": verr.Error(), "field": verr.Field})
	case errors.Is(err, service.ErrArchiveDisabled), errors.Is(err, service.ErrCloudDisabled):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
