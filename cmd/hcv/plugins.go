package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	hcv "github.com/spirefy/go-hcv"
	"github.com/spirefy/go-hcv/internal/config"
	"github.com/spirefy/go-hcv/internal/logging"
)

var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "List the plugins available under the plugin prefix",
	RunE:  runPlugins,
}

func init() {
	pluginsCmd.Flags().Bool("details", false, "load every plugin and print its details as YAML")
}

func runPlugins(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	names, err := hcv.Discover(cfg.PluginPrefix, pluginSuffix(cfg.PluginKind))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if details, _ := cmd.Flags().GetBool("details"); details {
		return printDetails(cmd.Context(), out, cfg, names)
	}

	for _, name := range names {
		fmt.Fprintln(out, name)
	}
	return nil
}

// printDetails loads the named plugins, which runs their contract checks, and writes their descriptors.
func printDetails(ctx context.Context, out io.Writer, cfg config.Config, names []string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	loader := newLoader(cfg.PluginKind, logger)
	if wl, ok := loader.(*hcv.WasmLoader); ok {
		defer func() { _ = wl.Close(context.Background()) }()
	}

	engine := hcv.NewEngine(hcv.Options{
		Loader: loader,
		Prefix: cfg.PluginPrefix,
		Logger: logger,
	})
	for _, name := range names {
		if err := engine.Load(ctx, name); err != nil {
			logger.Error("loading plugin failed", zap.String("plugin", name), zap.Error(err))
			return err
		}
	}

	enc := yaml.NewEncoder(out)
	if err := enc.Encode(engine.Plugins()); err != nil {
		return err
	}
	return enc.Close()
}
