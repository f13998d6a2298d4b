package main

import (
	stderrors "errors"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vango-dev/docroutes/internal/errors"
	"github.com/vango-dev/docroutes/pkg/routetable"
)

func validateCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a route table manifest",
		Long: `Validate a route table manifest and list every problem found.

The command exits non-zero when the manifest cannot be parsed or the
table is invalid.

Examples:
  docroutes validate build/routes.js
  docroutes validate routes.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()

			table, err := readTable(args[0], format)
			if err != nil {
				var mve *routetable.MultiValidationError
				if !stderrors.As(err, &mve) {
					return err
				}
				for _, ve := range mve.Errors {
					if ve.Path != "" {
						errorMsg(w, "%s: %s", ve.Path, ve.Error())
					} else {
						errorMsg(w, "%s", ve.Error())
					}
				}
				return errors.New("E100").
					WithDetail(plural(len(mve.Errors), "problem") + " in " + args[0])
			}

			success(w, "%s is valid", args[0])
			info(w, "%s, %d top level", plural(table.Len(), "entry"), len(table.Root()))
			info(w, "fingerprint %s", table.Fingerprint())
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Manifest format (default from extension)")

	return cmd
}

func plural(n int, noun string) string {
	switch {
	case n == 1:
		return "1 " + noun
	case noun == "entry":
		return strconv.Itoa(n) + " entries"
	default:
		return strconv.Itoa(n) + " " + noun + "s"
	}
}
