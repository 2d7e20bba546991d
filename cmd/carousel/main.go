// Package main is the entry point for the carousel viewer.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/sqweek/dialog"
	"github.com/urfave/cli"
	"go.uber.org/zap"

	"github.com/Faultbox/carousel-viewer/internal/config"
	"github.com/Faultbox/carousel-viewer/internal/logger"
	"github.com/Faultbox/carousel-viewer/internal/viewer"
)

var version = "dev"

func main() {
	app := cli.NewApp()
	app.Name = "carousel"
	app.Usage = "interactive 3D carousel viewer"
	app.Version = version
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "config, c", Usage: "config file (yaml or toml)"},
		cli.BoolFlag{Name: "debug, d", Usage: "enable debug logging"},
		cli.IntFlag{Name: "width", Usage: "window width"},
		cli.IntFlag{Name: "height", Usage: "window height"},
		cli.BoolFlag{Name: "fullscreen", Usage: "start fullscreen"},
		cli.BoolFlag{Name: "windowed", Usage: "force windowed mode"},
		cli.StringFlag{Name: "model, m", Usage: "glTF model to load"},
		cli.StringFlag{Name: "shaders", Usage: "directory with .vert/.frag overrides"},
		cli.BoolFlag{Name: "watch-shaders", Usage: "rebuild shaders when their files change"},
		cli.BoolFlag{Name: "pick-model", Usage: "choose the model with a file dialog"},
		cli.BoolFlag{Name: "mute", Usage: "start with music muted (M toggles)"},
		cli.BoolFlag{Name: "save-config", Usage: "write the effective config to the user config dir and exit"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "carousel: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	o := config.Overrides{
		ConfigPath:   ctx.String("config"),
		Debug:        ctx.Bool("debug"),
		Width:        ctx.Int("width"),
		Height:       ctx.Int("height"),
		Fullscreen:   ctx.Bool("fullscreen"),
		Windowed:     ctx.Bool("windowed"),
		Model:        ctx.String("model"),
		Shaders:      ctx.String("shaders"),
		WatchShaders: ctx.Bool("watch-shaders"),
		Mute:         ctx.Bool("mute"),
	}

	if ctx.Bool("pick-model") {
		path, err := pickModel()
		if err != nil {
			return err
		}
		o.Model = path
	}

	cfg, err := config.Load(o)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logger.Sync()

	if ctx.Bool("save-config") {
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		logger.Info("config saved", zap.String("path", config.DefaultPath()))
		return nil
	}

	logger.Info("=== Carousel Viewer ===", zap.String("version", version))
	logger.Sugar.Debugf("config: %+v", cfg)

	v, err := viewer.New(cfg)
	if err != nil {
		if viewer.IsModelNotFound(err) {
			logger.Fatal("model file missing", zap.Error(err))
		}
		logger.Error("failed to start viewer", zap.Error(err))
		return err
	}
	defer v.Close()

	if err := v.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		return err
	}

	logger.Info("viewer closed normally")
	return nil
}

func pickModel() (string, error) {
	path, err := dialog.File().
		Filter("glTF models", "gltf", "glb").
		Filter("All Files", "*").
		Title("Open carousel model").
		Load()
	if errors.Is(err, dialog.ErrCancelled) {
		return "", errors.New("no model selected")
	}
	if err != nil {
		return "", fmt.Errorf("file dialog: %w", err)
	}
	return path, nil
}
