package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/i474232898/traveller-conductor/internal/action"
	httpapi "github.com/i474232898/traveller-conductor/internal/api/http"
	"github.com/i474232898/traveller-conductor/internal/bot"
	"github.com/i474232898/traveller-conductor/internal/catalogue"
	"github.com/i474232898/traveller-conductor/internal/config"
	"github.com/i474232898/traveller-conductor/internal/logging"
	"github.com/i474232898/traveller-conductor/internal/scheduler"
	"github.com/i474232898/traveller-conductor/internal/store"
	"github.com/i474232898/traveller-conductor/internal/weather"
	"github.com/i474232898/traveller-conductor/internal/weather/providers"
)

var rootCmd = &cobra.Command{
	Use:   "traveller-conductor",
	Short: "traveller-conductor - Telegram city guide with live weather",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bot, the weather refresh loop and the status API",
	RunE:  runServe,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the catalogue files and generated keyboards",
	RunE:  runValidate,
}

var (
	configPath     string
	cataloguePath  string
	conditionsPath string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Preferences file (YAML)")
	validateCmd.Flags().StringVar(&cataloguePath, "catalogue", "data/cities.json", "Location catalogue file")
	validateCmd.Flags().StringVar(&conditionsPath, "conditions", "data/conditions.json", "Weather condition vocabulary file")
	rootCmd.AddCommand(serveCmd, validateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logging.Init(cfg.LogLevel, cfg.LogFormat)

	cat, err := catalogue.Load(cfg.CataloguePath, cfg.ConditionsPath)
	if err != nil {
		return fmt.Errorf("load catalogue: %w", err)
	}
	log.Info().
		Int("locations", cat.Len()).
		Int("conditions", cat.ConditionCount()).
		Msg("catalogue loaded")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	memStore := store.NewMemoryStore()
	provider := providers.NewWeatherAPIProvider(httpClient, cfg.WeatherAPIKey)
	service := weather.NewService(memStore, provider)

	sched := scheduler.New(cat.Points(), cfg.RefreshDelay, service)
	sched.Cached = memStore.Len
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer sched.Stop()

	var app *fiber.App
	if cfg.Port != "" {
		app = newApp(cat, memStore)
		go func() {
			if err := app.Listen(":" + cfg.Port); err != nil {
				log.Error().Err(err).Msg("fiber server stopped")
			}
		}()
	}

	api, err := bot.Connect(cfg.TelegramBotToken, cfg.TelegramProxy, bot.DefaultFactory)
	if err != nil {
		return err
	}
	b, err := bot.New(api, cat, service)
	if err != nil {
		return err
	}

	if err := b.Run(ctx); err != nil {
		log.Error().Err(err).Msg("bot stopped")
	}

	if app != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("error during shutdown")
		}
	}
	log.Info().Msg("shutdown complete")
	return nil
}

func newApp(cat *catalogue.Store, cache httpapi.Cache) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               httpapi.ServiceName,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	httpapi.RegisterRoutes(app, cat, cache, nil)
	return app
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cat, err := catalogue.Load(cataloguePath, conditionsPath)
	if err != nil {
		return fmt.Errorf("load catalogue: %w", err)
	}

	var oversized int
	for _, board := range bot.StaticKeyboards(cat) {
		for _, data := range bot.OversizedCallbacks(board) {
			fmt.Fprintf(out, "oversized callback (%d bytes): %q\n", len(data), data)
			oversized++
		}
	}

	fmt.Fprintf(out, "Locations: %d\n", cat.Len())
	fmt.Fprintf(out, "Conditions: %d\n", cat.ConditionCount())
	for _, loc := range cat.Locations() {
		fmt.Fprintf(out, "  %s %s (%s): %d photos\n", loc.ID, loc.Name, loc.Country, len(loc.Photos))
	}

	if oversized > 0 {
		return fmt.Errorf("%d callback payloads exceed %d bytes", oversized, action.MaxCallbackData)
	}
	fmt.Fprintln(out, "OK")
	return nil
}
