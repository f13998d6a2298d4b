package main

import (
	"bytes"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/docroutes/internal/errors"
	"github.com/vango-dev/docroutes/pkg/routetable"
)

func importCmd() *cobra.Command {
	var (
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "import <routes.js>",
		Short: "Convert a generated routes.js into a manifest",
		Long: `Convert the route module generated by a site build into a JSON, YAML
or TOML manifest. The table is validated before anything is written.

The output format comes from --format, then from the -o extension, and
defaults to JSON. Without -o the manifest is written to stdout.

Examples:
  docroutes import build/routes.js -o routes.json
  docroutes import build/routes.js --format yaml > routes.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := readTable(args[0], string(routetable.FormatJS))
			if err != nil {
				return err
			}

			target := routetable.FormatJSON
			switch {
			case format != "":
				if target, err = routetable.ParseFormat(format); err != nil {
					return err
				}
			case output != "":
				if target, err = routetable.FormatFromPath(output); err != nil {
					return err
				}
			}

			var buf bytes.Buffer
			if err := routetable.Encode(&buf, table, target); err != nil {
				return err
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := os.WriteFile(output, buf.Bytes(), 0644); err != nil {
				return errors.New("E140").WithDetail("writing " + output).Wrap(err)
			}
			success(cmd.ErrOrStderr(), "Wrote %s (%s, %s)", output, target, plural(table.Len(), "entry"))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: json, yaml, toml or js")

	return cmd
}
