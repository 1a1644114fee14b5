package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robalyx/interactivity/internal/bot"
	"github.com/robalyx/interactivity/internal/setup"
	"github.com/urfave/cli/v3"
)

// BotLogDir specifies where bot log files are stored by default.
const BotLogDir = "logs/bot_logs"

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.Command{
		Name:  "bot",
		Usage: "Start the interactivity example bot",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Aliases: []string{"c"},
				Usage:   "Directory holding bot.toml, searched in the default paths when empty",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Log level overriding the config file (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:  "log-dir",
				Value: BotLogDir,
				Usage: "Directory receiving the session logs",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return runBot(ctx, setup.Options{
				ConfigDir: c.String("config-dir"),
				LogDir:    c.String("log-dir"),
				LogLevel:  c.String("log-level"),
			})
		},
	}

	return app.Run(context.Background(), os.Args)
}

// runBot starts the bot and blocks until an interrupt signal arrives.
func runBot(ctx context.Context, opts setup.Options) error {
	app, err := setup.InitializeApp(opts)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.Cleanup()

	discordBot, err := bot.New(app)
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	if err := discordBot.Start(ctx); err != nil {
		discordBot.Close(context.Background())
		return fmt.Errorf("failed to start bot: %w", err)
	}

	log.Println("Bot has been started. Waiting for interrupt signal to gracefully shutdown...")
	<-ctx.Done()

	closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	discordBot.Close(closeCtx)

	return nil
}
