package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"github.com/idilsaglam/notas/internal/cli"
	"github.com/idilsaglam/notas/internal/tui"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.App{
		Version: version,
		Interactive: func(ctx context.Context, rt *cli.Runtime) error {
			rt.Log.Info().Str("base_url", rt.Config.API.BaseURL).Msg("starting interactive session")
			return tui.Run(ctx, rt.Ctl)
		},
	}

	code := app.Execute(ctx, os.Args)
	stop()
	os.Exit(code)
}
