package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kjannette/mnm-price/internal/config"
	"github.com/kjannette/mnm-price/internal/display"
	"github.com/kjannette/mnm-price/internal/logging"
	"github.com/kjannette/mnm-price/internal/models"
	"github.com/kjannette/mnm-price/internal/notifications"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

const (
	APIURLFlag          = "api-url"
	RangeFlag           = "range"
	OnceFlag            = "once"
	PriceIntervalFlag   = "price-interval"
	HistoryIntervalFlag = "history-interval"
	HideUnlistedFlag    = "hide-unlisted"
	WebhookURLFlag      = "webhook-url"
	BotNameFlag         = "bot-name"
	LogLevelFlag        = "log-level"
	WidthFlag           = "width"
	HeightFlag          = "height"
)

// clearScreen homes the cursor and clears the terminal between frames.
const clearScreen = "\033[H\033[2J"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	if err := newApp(cfg).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "pricewatch: %v\n", err)
		os.Exit(1)
	}
}

// newApp builds the CLI with flag defaults taken from cfg.
func newApp(cfg *config.Config) *cli.App {
	return &cli.App{
		Name:  "pricewatch",
		Usage: "Watch the $MNM price proxy from a terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    APIURLFlag,
				Usage:   "Base URL of the price proxy",
				Value:   cfg.WatchAPIURL,
				EnvVars: []string{"WATCH_API_URL"},
			},
			&cli.IntFlag{
				Name:    RangeFlag,
				Aliases: []string{"r"},
				Usage:   "History range in days (1, 7 or 30)",
				Value:   cfg.WatchRangeDays,
				EnvVars: []string{"WATCH_RANGE_DAYS"},
			},
			&cli.BoolFlag{
				Name:  OnceFlag,
				Usage: "Fetch once, print and exit",
			},
			&cli.DurationFlag{
				Name:  PriceIntervalFlag,
				Usage: "Current price polling interval",
				Value: display.DefaultPriceInterval,
			},
			&cli.DurationFlag{
				Name:  HistoryIntervalFlag,
				Usage: "History polling interval",
				Value: display.DefaultHistoryInterval,
			},
			&cli.BoolFlag{
				Name:  HideUnlistedFlag,
				Usage: "Only show the chart once the token has a price",
			},
			&cli.StringFlag{
				Name:    WebhookURLFlag,
				Usage:   "Slack or Discord webhook notified when the listing status changes",
				Value:   cfg.WebhookURL,
				EnvVars: []string{"WEBHOOK_URL"},
			},
			&cli.StringFlag{
				Name:    BotNameFlag,
				Value:   cfg.BotName,
				EnvVars: []string{"BOT_NAME"},
			},
			&cli.StringFlag{
				Name:    LogLevelFlag,
				Value:   "warn",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.IntFlag{
				Name:  WidthFlag,
				Value: 60,
			},
			&cli.IntFlag{
				Name:  HeightFlag,
				Value: 12,
			},
		},
		Action: func(cCtx *cli.Context) error {
			return run(cCtx, cfg)
		},
	}
}

func run(cCtx *cli.Context, cfg *config.Config) error {
	if !display.ValidRange(cCtx.Int(RangeFlag)) {
		return fmt.Errorf("--%s must be 1, 7 or 30, got %d", RangeFlag, cCtx.Int(RangeFlag))
	}

	logger, err := logging.New(logging.Options{
		Level:  cCtx.String(LogLevelFlag),
		Format: "console",
		File:   logging.FileOptions{Filename: cfg.LogFile},
	})
	if err != nil {
		return err
	}
	defer logger.Sync()

	renderer := display.Renderer{
		Width:        cCtx.Int(WidthFlag),
		Height:       cCtx.Int(HeightFlag),
		HideUnlisted: cCtx.Bool(HideUnlistedFlag),
	}
	client := display.NewClient(cCtx.String(APIURLFlag), 10*time.Second)

	if cCtx.Bool(OnceFlag) {
		p := display.NewPoller(client, logger, display.WithRange(cCtx.Int(RangeFlag)))
		return renderer.Render(os.Stdout, p.Refresh(cCtx.Context))
	}

	sender := notifications.NewSender(cCtx.String(WebhookURLFlag), cCtx.String(BotNameFlag), logger.Named("webhook"))

	ctx, stop := signal.NotifyContext(cCtx.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := display.NewPoller(client, logger.Named("poller"),
		display.WithRange(cCtx.Int(RangeFlag)),
		display.WithPriceInterval(cCtx.Duration(PriceIntervalFlag)),
		display.WithHistoryInterval(cCtx.Duration(HistoryIntervalFlag)),
		display.OnUpdate(func(v display.View) {
			fmt.Fprint(os.Stdout, clearScreen)
			if err := renderer.Render(os.Stdout, v); err != nil {
				logger.Warn("render failed", zap.Error(err))
			}
			fmt.Fprintln(os.Stdout, "\nrange: 1 / 7 / 30 + enter, q to quit")
		}),
		display.OnListingChange(func(snap models.PriceSnapshot) {
			if sender.Enabled() {
				go sender.Send(context.WithoutCancel(ctx), notifications.ListingMessage(snap))
			}
		}),
	)

	go readCommands(ctx, os.Stdin, p, stop, logger)

	return p.Run(ctx)
}
