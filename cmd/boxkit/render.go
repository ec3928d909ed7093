package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"boxkit/internal/session"
)

type documentFlags struct {
	textures  string
	noScripts bool
	frames    int
}

func (f *documentFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.textures, "textures", "", "directory relative image references resolve against (default is the document's directory)")
	cmd.Flags().BoolVar(&f.noScripts, "no-scripts", false, "do not run document scripts")
	cmd.Flags().IntVar(&f.frames, "frames", 1, "number of frames to run before output")
}

// open loads a document into a fresh session and runs the requested frames.
func (a *app) open(path string, f documentFlags) (*session.Session, error) {
	if f.frames < 1 {
		return nil, fmt.Errorf("--frames must be at least 1, got %d", f.frames)
	}
	s, err := session.New(a.cfg, session.Options{TextureRoot: f.textures, NoScripts: f.noScripts}, a.logger)
	if err != nil {
		return nil, err
	}
	if _, err := s.LoadFile(path); err != nil {
		return nil, err
	}
	s.Frames(f.frames)
	return s, nil
}

func (a *app) newRenderCmd() *cobra.Command {
	var flags documentFlags
	cmd := &cobra.Command{
		Use:   "render <input.html> <output.png>",
		Short: "Render a document to a PNG image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, output := args[0], args[1]
			s, err := a.open(input, flags)
			if err != nil {
				return err
			}
			if err := s.SavePNG(output); err != nil {
				return err
			}
			a.logger.Info("Rendered document",
				zap.String("input", input),
				zap.String("output", output),
				zap.Int("elements", s.Window.Tree().Len()))
			fmt.Fprintf(cmd.OutOrStdout(), "Successfully rendered %s to %s\n", input, output)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func (a *app) newTreeCmd() *cobra.Command {
	var flags documentFlags
	var geometry bool
	cmd := &cobra.Command{
		Use:   "tree <input.html>",
		Short: "Print the element tree of a document after layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(args[0], flags)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), s.Window.Element().PrintTree(geometry))
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVarP(&geometry, "geometry", "g", false, "show each element's outer box")
	return cmd
}
