// Command boxview opens a document in a desktop window and runs the frame
// loop live, feeding it mouse input. Press d to toggle the debug outlines.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"boxkit/internal/config"
	"boxkit/internal/observability"
	"boxkit/internal/session"
)

func main() {
	err := newRootCmd().Execute()
	observability.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string
	var noScripts bool
	cmd := &cobra.Command{
		Use:           "boxview <input.html>",
		Short:         "View a document live",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cfgFile); err != nil {
				return err
			}
			cfg := config.Get()
			observability.InitializeLogger(cfg.Logger)
			return run(cfg, args[0], noScripts, observability.GetLogger())
		},
	}
	cmd.Flags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./boxkit.yaml)")
	cmd.Flags().BoolVar(&noScripts, "no-scripts", false, "do not run document scripts")
	return cmd
}

func loadConfig(cfgFile string) error {
	v := viper.GetViper()
	config.Defaults(v)
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("boxkit")
		v.SetConfigType("yaml")
	}
	v.SetEnvPrefix("BOXKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return config.Load(v)
}

func run(cfg *config.Config, path string, noScripts bool, logger *zap.Logger) error {
	s, err := session.New(cfg, session.Options{NoScripts: noScripts}, logger)
	if err != nil {
		return err
	}
	doc, err := s.LoadFile(path)
	if err != nil {
		return err
	}
	s.Frames(1)

	title := cfg.Viewer.Title
	if doc.Title != "" {
		title = doc.Title + " - " + title
	}

	a := app.New()
	w := a.NewWindow(title)
	view := newSurface(s.Host.Canvas.Image(), s.Window)
	w.SetContent(view)
	w.SetFixedSize(true)

	debug := cfg.Render.Debug
	w.Canvas().SetOnTypedRune(func(r rune) {
		if r == 'd' {
			debug = !debug
			s.Window.Pipeline().SetDebug(debug)
			logger.Info("Debug overlay toggled", zap.Bool("debug", debug))
		}
	})

	if cfg.Viewer.TickRate > 0 {
		ticker := time.NewTicker(cfg.Viewer.TickRate)
		defer ticker.Stop()
		go func() {
			for range ticker.C {
				fyne.Do(view.frame)
			}
		}()
	}

	logger.Info("Viewer started",
		zap.String("document", path),
		zap.Duration("tick_rate", cfg.Viewer.TickRate),
		zap.String("window", s.Window.ID.String()))
	w.ShowAndRun()
	logger.Info("Viewer closed", zap.Uint64("frames", s.Window.Pipeline().Frames()))
	return nil
}
