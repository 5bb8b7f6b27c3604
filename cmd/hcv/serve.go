package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	hcv "github.com/spirefy/go-hcv"
	"github.com/spirefy/go-hcv/internal/logging"
	"github.com/spirefy/go-hcv/template"
	"github.com/spirefy/go-hcv/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Load the plugins and serve the web site",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address")
	serveCmd.Flags().String("web-root", "", "directory holding the html templates")
	serveCmd.Flags().StringSlice("plugin", nil, "plugin to load, in order (repeatable)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loader := newLoader(cfg.PluginKind, logger)
	if wl, ok := loader.(*hcv.WasmLoader); ok {
		defer func() { _ = wl.Close(context.Background()) }()
	}

	engine := hcv.NewEngine(hcv.Options{
		Loader: loader,
		Prefix: cfg.PluginPrefix,
		Logger: logger,
	})

	// Plugin problems are deployment mistakes: stop here rather than serve with a partial set.
	for _, name := range cfg.Plugins {
		if err := engine.Load(ctx, name); err != nil {
			logger.Fatal("loading plugin failed", zap.String("plugin", name), zap.Error(err))
		}
	}

	expanders := template.NewRegistry(logger)
	template.RegisterBuiltins(expanders, nil)

	srv := web.NewServer(cfg.Addr, cfg.WebRoot, expanders, logger)
	if err := engine.InitializeAllForServing(srv); err != nil {
		logger.Fatal("initializing plugins failed", zap.Error(err))
	}

	logger.Info("serving",
		zap.String("addr", cfg.Addr),
		zap.String("web_root", cfg.WebRoot),
		zap.Int("plugins", len(engine.Plugins())),
		zap.Strings("expanders", expanders.Names()))

	return srv.ListenAndServe(ctx)
}
