package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/priceslice/priceslice/cmd/priceslice/cli"
	"github.com/priceslice/priceslice/internal/app"
	"github.com/priceslice/priceslice/internal/observability"
	"github.com/priceslice/priceslice/internal/platform/cache"
	"github.com/priceslice/priceslice/internal/quote"
	"github.com/priceslice/priceslice/internal/settings"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stderr))
}

// run dispatches a subcommand and returns the process exit code.
func run(ctx context.Context, args []string, stderr io.Writer) int {
	command := "serve"
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	switch command {
	case "serve":
		if err := serve(ctx); err != nil {
			slog.Default().Error("serve", slog.Any("error", err))
			return 1
		}
		return 0
	case "calc":
		return runCalc(ctx, args)
	default:
		_, _ = fmt.Fprintf(stderr, "unknown command %q (expected serve or calc)\n", command)
		return 1
	}
}

func runCalc(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("calc", flag.ContinueOnError)
	opts := cli.CalcOptions{}
	fs.StringVar(&opts.Model, "model", "coupon", "coupon model: coupon or stacked")
	fs.StringVar(&opts.Price, "price", "0", "unit price")
	fs.StringVar(&opts.Discount, "discount", "0", "discount percent")
	fs.StringVar(&opts.Quantity, "qty", "1", "quantity")
	fs.BoolVar(&opts.IncludeTax, "include-tax", false, "apply sales tax")
	fs.StringVar(&opts.TaxRate, "tax", "0", "tax rate percent")
	fs.StringVar(&opts.Coupon, "coupon", "none", "coupon type: none, $off or %off")
	fs.StringVar(&opts.CouponAmount, "coupon-amount", "0", "flat coupon amount")
	fs.StringVar(&opts.CouponPercent, "coupon-percent", "0", "coupon percent")
	fs.StringVar(&opts.Additional, "additional", "0", "additional percent off (stacked model)")
	fs.BoolVar(&opts.JSONOutput, "json", false, "print JSON instead of text")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	return cli.CalcCommand(ctx, opts)
}

func serve(ctx context.Context) error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := app.NewLogger(cfg)

	var store settings.Store
	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, keeping preferences in memory", slog.Any("error", err))
		store = settings.NewMemoryStore()
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
		store = settings.NewRedisStore(redisClient, "priceslice", cfg.SettingsTTL)
	}

	metrics := observability.NewMetrics()
	settingsService := settings.NewService(store, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		QuoteHandler:    quote.NewHandler(logger, metrics, cfg.Model()),
		SettingsHandler: settings.NewHandler(logger, settingsService),
		Metrics:         metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("model", string(cfg.Model())))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
