package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"boxkit/internal/config"
	"boxkit/internal/observability"
)

// app carries what the subcommands share once the root command has loaded
// the configuration.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "boxkit",
		Short:         "Lay out and render element trees styled with CSS.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initialize()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ./boxkit.yaml)")
	flags.Int("width", 800, "viewport width in pixels")
	flags.Int("height", 600, "viewport height in pixels")
	flags.Bool("debug", false, "draw element outlines")
	flags.String("log-level", "info", "log level")
	_ = a.v.BindPFlag("viewport.width", flags.Lookup("width"))
	_ = a.v.BindPFlag("viewport.height", flags.Lookup("height"))
	_ = a.v.BindPFlag("render.debug", flags.Lookup("debug"))
	_ = a.v.BindPFlag("logger.level", flags.Lookup("log-level"))

	root.AddCommand(a.newRenderCmd(), a.newTreeCmd(), a.newCompareCmd(), newSelectorCmd())
	return root
}

// initialize reads the config file and environment, then sets up logging.
func (a *app) initialize() error {
	config.Defaults(a.v)

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		a.v.AddConfigPath(".")
		a.v.SetConfigName("boxkit")
		a.v.SetConfigType("yaml")
	}
	a.v.SetEnvPrefix("BOXKIT")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg, err := config.New(a.v)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	observability.InitializeLogger(cfg.Logger)
	a.logger = observability.GetLogger()
	a.logger.Debug("Configuration loaded", zap.String("file", a.v.ConfigFileUsed()))
	return nil
}
