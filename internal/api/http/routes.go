package httpapi

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/i474232898/traveller-conductor/internal/catalogue"
	"github.com/i474232898/traveller-conductor/internal/weather"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "traveller-conductor"

var validate = validator.New()

// Cache is the read side of the weather cache the API reports on.
type Cache interface {
	weather.Reader
	LocationIDs() []string
}

// RegisterRoutes wires the status handlers into the Fiber app. now is the
// clock used for snapshot ages; nil means time.Now.
func RegisterRoutes(app *fiber.App, store *catalogue.Store, cache Cache, now func() time.Time) {
	if now == nil {
		now = time.Now
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": ServiceName,
		})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	v1 := app.Group("/api/v1")

	v1.Get("/locations", func(c *fiber.Ctx) error {
		locations := store.Locations()
		out := make([]locationSummary, 0, len(locations))
		for _, loc := range locations {
			out = append(out, summarize(loc))
		}
		return c.JSON(out)
	})

	v1.Get("/locations/:id", func(c *fiber.Ctx) error {
		loc, ok := store.Location(c.Params("id"))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "unknown location")
		}
		return c.JSON(locationDetail{ID: loc.ID, Location: loc})
	})

	v1.Get("/weather", func(c *fiber.Ctx) error {
		ids := cache.LocationIDs()
		out := make([]cachedWeather, 0, len(ids))
		for _, id := range ids {
			snapshot, ok := cache.Latest(id)
			if !ok {
				continue
			}
			out = append(out, cachedWeather{Location: id, Snapshot: snapshot, AgeMinutes: snapshot.MinutesSince(now())})
		}
		return c.JSON(out)
	})

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		q := weatherQuery{Location: c.Query("location")}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if _, ok := store.Location(q.Location); !ok {
			return fiber.NewError(fiber.StatusNotFound, "unknown location")
		}
		snapshot, ok := cache.Latest(q.Location)
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "no weather data for requested location")
		}

		return c.JSON(cachedWeather{Location: q.Location, Snapshot: snapshot, AgeMinutes: snapshot.MinutesSince(now())})
	})
}

// weatherQuery holds query parameters for the current weather endpoint.
type weatherQuery struct {
	Location string `validate:"required"`
}

type cachedWeather struct {
	Location   string           `json:"location"`
	Snapshot   weather.Snapshot `json:"snapshot"`
	AgeMinutes int              `json:"age_minutes"`
}

type locationSummary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Emoji   string `json:"emoji"`
}

func summarize(loc catalogue.Location) locationSummary {
	return locationSummary{ID: loc.ID, Name: loc.Name, Country: loc.Country, Emoji: loc.Emoji}
}

// locationDetail exposes the id, which the catalogue record keeps out of JSON.
type locationDetail struct {
	ID string `json:"id"`
	catalogue.Location
}
