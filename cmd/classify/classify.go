// Package classify provides the classify command, which shows the category the
// ruleset assigns to a description.
package classify

import (
	"fmt"
	"strings"

	"mynab/budget-import/cmd/root"

	"github.com/spf13/cobra"
)

// Cmd represents the classify command.
var Cmd = &cobra.Command{
	Use:   "classify <description>...",
	Short: "Show the category of transaction descriptions",
	Long: `Classify runs each description through the category rules and prints the
matching category key and id. Descriptions that match no rule are uncategorized.`,
	Args: cobra.MinimumNArgs(1),
	RunE: run,
}

func run(cmd *cobra.Command, args []string) error {
	classifier := root.AppContainer.GetClassifier()
	out := cmd.OutOrStdout()

	for _, description := range args {
		key := classifier.Classify(description)
		id := "-"
		if n, ok := classifier.Ruleset().CategoryIDFor(key); ok {
			id = fmt.Sprint(n)
		}
		if _, err := fmt.Fprintf(out, "%s\t%s\t%s\n", key, id, strings.TrimSpace(description)); err != nil {
			return err
		}
	}
	return nil
}
