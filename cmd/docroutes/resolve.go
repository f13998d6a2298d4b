package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/docroutes/pkg/resolver"
	"github.com/vango-dev/docroutes/pkg/routepath"
)

func resolveCmd() *cobra.Command {
	var (
		tablePath     string
		format        string
		trailingSlash bool
		basePath      string
		asJSON        bool
	)

	cmd := &cobra.Command{
		Use:   "resolve <path>...",
		Short: "Print the component chain for request paths",
		Long: `Resolve request paths against a route table and print the chain of
components that renders each one, outermost first.

Paths are cleaned the same way the server cleans them: query strings and
fragments are dropped and duplicate slashes are collapsed.

Examples:
  docroutes resolve --table build/routes.js /bot-box/docs/intro
  docroutes resolve -t routes.yaml --trailing-slash /bot-box /missing
  docroutes resolve -t routes.json --json /bot-box/blog`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if tablePath == "" {
				return usageError("--table is required")
			}
			table, err := readTable(tablePath, format)
			if err != nil {
				return err
			}

			var opts []resolver.Option
			if trailingSlash {
				opts = append(opts, resolver.WithTrailingSlashFallback())
			}
			if basePath != "" {
				opts = append(opts, resolver.WithBasePath(basePath))
			}
			r := resolver.New(table, opts...)

			w := cmd.OutOrStdout()
			var results []resolver.Result
			for _, arg := range args {
				cleaned, err := routepath.Clean(arg)
				if err != nil {
					return usageError("path %q: %v", arg, err)
				}
				res := r.Resolve(cleaned.Path)
				if asJSON {
					results = append(results, res)
					continue
				}
				printResult(cmd, res)
			}

			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(toJSONResults(results))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&tablePath, "table", "t", "", "Route table manifest")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Manifest format (default from extension)")
	cmd.Flags().BoolVar(&trailingSlash, "trailing-slash", false, "Retry with the trailing slash toggled before falling back")
	cmd.Flags().StringVar(&basePath, "base", "", "Site base path; paths outside it are flagged")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print results as JSON")

	return cmd
}

func printResult(cmd *cobra.Command, res resolver.Result) {
	w := cmd.OutOrStdout()

	var flags []string
	if res.Fallback {
		flags = append(flags, "fallback")
	}
	if res.MatchedPath != res.Path {
		flags = append(flags, "matched "+res.MatchedPath)
	}
	if res.OutsideBase {
		flags = append(flags, "outside base")
	}
	if res.Sidebar != "" {
		flags = append(flags, "sidebar "+res.Sidebar)
	}

	header := res.Path
	if len(flags) > 0 {
		header += "  (" + strings.Join(flags, ", ") + ")"
	}
	fmt.Fprintln(w, header)
	for i, ref := range res.Chain {
		fmt.Fprintf(w, "  %d. %s\n", i+1, ref)
	}
}

type jsonResult struct {
	Path        string   `json:"path"`
	MatchedPath string   `json:"matchedPath"`
	Chain       []string `json:"chain"`
	Fallback    bool     `json:"fallback"`
	Sidebar     string   `json:"sidebar,omitempty"`
	OutsideBase bool     `json:"outsideBase,omitempty"`
}

func toJSONResults(results []resolver.Result) []jsonResult {
	out := make([]jsonResult, len(results))
	for i, res := range results {
		chain := make([]string, len(res.Chain))
		for j, ref := range res.Chain {
			chain[j] = ref.String()
		}
		out[i] = jsonResult{
			Path:        res.Path,
			MatchedPath: res.MatchedPath,
			Chain:       chain,
			Fallback:    res.Fallback,
			Sidebar:     res.Sidebar,
			OutsideBase: res.OutsideBase,
		}
	}
	return out
}
