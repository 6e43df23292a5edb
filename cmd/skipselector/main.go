package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"skip-selector/internal/bot"
	"skip-selector/internal/catalog"
	"skip-selector/internal/config"
	"skip-selector/internal/metrics"
	"skip-selector/internal/selection"
	"skip-selector/internal/session"
	"skip-selector/internal/view"
	"skip-selector/internal/web"
	"skip-selector/pkg/api"
	"skip-selector/pkg/logger"
	"skip-selector/pkg/redis"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// ENTRY POINT

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "skipselector",
		Usage:   "Skip size selection screen for NR32, Lowestoft",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Commands: []*cli.Command{
			webCommand(),
			botCommand(),
			listCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// deps is what every front end is built from.
type deps struct {
	cfg      *config.Config
	logger   *zap.Logger
	redis    *redis.Client
	registry *prometheus.Registry
	metrics  *metrics.Collector
	query    *catalog.Query
	sessions *session.Manager
}

func setup(c *cli.Context) (*deps, error) {
	zapLogger, err := logger.New(c.String("log-level"))
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	redisClient := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.New(registry)

	apiClient := api.NewClient(zapLogger,
		api.WithTimeout(cfg.HTTPRequestTimeout),
		api.WithRetryDelay(cfg.RetryDelay),
	)
	query := catalog.NewQuery(apiClient, zapLogger,
		catalog.WithCache(redisClient, cfg.FetchCacheTTL),
		catalog.WithMetrics(collector),
	)

	return &deps{
		cfg:      cfg,
		logger:   zapLogger,
		redis:    redisClient,
		registry: registry,
		metrics:  collector,
		query:    query,
		sessions: session.NewManager(redisClient, cfg.SessionTTL),
	}, nil
}

func (d *deps) close() {
	d.redis.Close()
	_ = d.logger.Sync()
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func webCommand() *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Serve the selection screen over HTTP",
		Action: func(c *cli.Context) error {
			d, err := setup(c)
			if err != nil {
				return err
			}
			defer d.close()

			ctx, cancel := signalContext(c.Context)
			defer cancel()

			if err := d.redis.Ping(ctx); err != nil {
				return fmt.Errorf("redis: %w", err)
			}

			if d.cfg.AppEnv == "production" {
				gin.SetMode(gin.ReleaseMode)
			}
			handler := web.NewHandler(d.sessions, d.query, d.metrics, d.logger)
			router, err := web.NewRouter(handler, d.registry)
			if err != nil {
				return err
			}

			if err := web.Serve(ctx, d.cfg.HTTPAddr, router, d.logger); err != nil {
				d.logger.Error("Web server stopped with error", zap.Error(err))
				return err
			}
			d.logger.Info("Web server shutdown gracefully")
			return nil
		},
	}
}

func botCommand() *cli.Command {
	return &cli.Command{
		Name:  "bot",
		Usage: "Run the Telegram bot",
		Action: func(c *cli.Context) error {
			d, err := setup(c)
			if err != nil {
				return err
			}
			defer d.close()

			if err := d.cfg.RequireTelegram(); err != nil {
				return err
			}

			ctx, cancel := signalContext(c.Context)
			defer cancel()

			if err := d.redis.Ping(ctx); err != nil {
				return fmt.Errorf("redis: %w", err)
			}

			tgBot, err := bot.New(d.cfg.TelegramToken, d.cfg.TelegramDebug, d.sessions, d.query, d.metrics, d.logger)
			if err != nil {
				return err
			}

			if err := tgBot.Start(ctx); err != nil {
				d.logger.Error("Bot stopped with error", zap.Error(err))
				return err
			}
			d.logger.Info("Bot shutdown gracefully")
			return nil
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "Fetch the skips once and print them",
		Action: func(c *cli.Context) error {
			zapLogger, err := logger.New(c.String("log-level"))
			if err != nil {
				return err
			}
			defer zapLogger.Sync()

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			client := api.NewClient(zapLogger,
				api.WithTimeout(cfg.HTTPRequestTimeout),
				api.WithRetryDelay(cfg.RetryDelay),
			)
			ctx, cancel := signalContext(c.Context)
			defer cancel()

			return listSkips(ctx, catalog.NewQuery(client, zapLogger), c.App.Writer, c.App.ErrWriter)
		},
	}
}

func listSkips(ctx context.Context, query *catalog.Query, out, errOut io.Writer) error {
	res := query.Fetch(ctx)

	screen := view.Build(res, selection.Controller{})
	if screen.Error != nil {
		fmt.Fprintf(errOut, "%s: %s\n", screen.Error.Title, screen.Error.Detail)
		return cli.Exit(res.Err, 1)
	}
	return printCards(out, screen.Cards)
}

func printCards(w io.Writer, cards []view.Card) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSKIP\tHIRE\tROAD\tWASTE\tBASE\tVAT\tTOTAL")
	for _, c := range cards {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			c.ID, c.Title, c.HirePeriod,
			c.Badges[0].Text, c.Badges[1].Text,
			c.BasePrice.Amount, c.VAT.Amount, c.Total.Amount)
	}
	return tw.Flush()
}
