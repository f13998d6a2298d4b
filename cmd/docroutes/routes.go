package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/docroutes/pkg/routetable"
)

func routesCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "routes <file>",
		Short: "Print the route tree",
		Long: `Print a route table as a tree in evaluation order, with each entry's
kind, component version and sidebar.

Examples:
  docroutes routes build/routes.js`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := readTable(args[0], format)
			if err != nil {
				return err
			}
			printTree(cmd, table)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Manifest format (default from extension)")

	return cmd
}

func printTree(cmd *cobra.Command, table *routetable.Table) {
	w := cmd.OutOrStdout()

	table.Walk(func(e routetable.Entry, depth int, _ []routetable.Entry) bool {
		line := fmt.Sprintf("%s%-8s %s", strings.Repeat("  ", depth), e.Kind(), e.Path)
		if e.Component.Handle != e.Path {
			line += "  -> " + e.Component.Handle
		}
		if e.Component.Version != "" {
			line += "  @" + e.Component.Version
		}
		if e.Sidebar != "" {
			line += "  [" + e.Sidebar + "]"
		}
		fmt.Fprintln(w, line)
		return true
	})

	fmt.Fprintf(w, "\n%s, fingerprint %s\n", plural(table.Len(), "entry"), table.Fingerprint()[:12])
}
