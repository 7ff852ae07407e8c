// Package institutions provides the institutions command.
package institutions

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"mynab/budget-import/cmd/root"

	"github.com/spf13/cobra"
)

// Cmd represents the institutions command.
var Cmd = &cobra.Command{
	Use:   "institutions",
	Short: "List supported institutions",
	Long:  `List the institution tags accepted by the import command and their file extensions.`,
	Args:  cobra.NoArgs,
	RunE:  run,
}

func run(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "INSTITUTION\tEXTENSIONS")
	for _, reg := range root.AppContainer.GetRegistry().Institutions() {
		fmt.Fprintf(w, "%s\t%s\n", reg.Institution, strings.Join(reg.Extensions, ", "))
	}
	return w.Flush()
}
