package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	hcv "github.com/spirefy/go-hcv"
	"github.com/spirefy/go-hcv/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:          "hcv",
	Short:        "Small informational web server with loadable extension modules",
	Version:      hcv.BuildID(),
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().String("plugin-prefix", "", "path prefix of plugin files")
	rootCmd.PersistentFlags().String("plugin-kind", "", "plugin kind: wasm or native")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error")

	rootCmd.AddCommand(serveCmd, pluginsCmd)
}

// loadConfig reads the config file and environment, then applies the flags that were set.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	str := func(name string, field *string) {
		if flags.Changed(name) {
			*field, _ = flags.GetString(name)
		}
	}
	str("plugin-prefix", &cfg.PluginPrefix)
	str("plugin-kind", &cfg.PluginKind)
	str("log-level", &cfg.LogLevel)
	str("addr", &cfg.Addr)
	str("web-root", &cfg.WebRoot)

	if flags.Changed("plugin") {
		cfg.Plugins, _ = flags.GetStringSlice("plugin")
	}

	return cfg, cfg.Validate()
}

func newLoader(kind string, logger *zap.Logger) hcv.Loader {
	if kind == config.PluginKindNative {
		return hcv.NativeLoader{}
	}
	return hcv.NewWasmLoader(logger)
}

func pluginSuffix(kind string) string {
	if kind == config.PluginKindNative {
		return hcv.NativeLoader{}.Suffix()
	}
	return (&hcv.WasmLoader{}).Suffix()
}
