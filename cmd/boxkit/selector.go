package main

import (
	"fmt"

	"github.com/spf13/cobra"
	tp "github.com/xlab/treeprint"

	"boxkit/pkg/css"
)

func newSelectorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "selector <selector>...",
		Short: "Parse selectors and print their syntax trees and specificity",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, raw := range args {
				sel, err := css.ParseSelector(raw)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), selectorTree(sel))
			}
			return nil
		},
	}
}

// selectorTree renders every selection of sel with its specificity.
func selectorTree(sel *css.Selector) string {
	root := tp.New()
	root.SetValue(sel.Raw)
	for _, s := range sel.Selections {
		spec := s.Specificity()
		branch := root.AddBranch(fmt.Sprintf("%s (%d,%d,%d)", s, spec[0], spec[1], spec[2]))
		addSelection(branch, s)
	}
	return root.String()
}

func addSelection(p tp.Tree, s *css.Selection) {
	switch s.Kind {
	case css.NodeSelection:
		label := fmt.Sprintf("%s %q", s.Type, s.Name)
		if len(s.Pseudos) == 0 {
			p.AddNode(label)
			return
		}
		b := p.AddBranch(label)
		for _, ps := range s.Pseudos {
			b.AddNode(ps.String())
		}
	default:
		b := p.AddBranch(fmt.Sprintf("%s %q", s.Kind, s.Operator))
		addSelection(b, s.Left)
		addSelection(b, s.Right)
	}
}
