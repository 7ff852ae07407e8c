// Package migrate provides the migrate command, which manages the database schema.
package migrate

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"mynab/budget-import/cmd/root"
	"mynab/budget-import/internal/logging"
	"mynab/budget-import/internal/store"

	"github.com/spf13/cobra"
)

// ErrNoDatabase is returned when database.url is not configured.
var ErrNoDatabase = errors.New("database.url is not configured")

// Cmd represents the migrate command.
var Cmd = &cobra.Command{
	Use:       "migrate [up|status]",
	Short:     "Apply or inspect database migrations",
	Long:      `Migrate applies the pending schema migrations (up, the default) or lists them with their state (status).`,
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "status"},
	RunE:      run,
}

func run(cmd *cobra.Command, args []string) error {
	pool := root.AppContainer.GetPool()
	if pool == nil {
		return ErrNoDatabase
	}
	schema := root.AppContainer.GetConfig().Database.Schema
	ctx := root.Context(cmd)

	action := "up"
	if len(args) == 1 {
		action = args[0]
	}

	switch action {
	case "status":
		statuses, err := store.Status(ctx, pool, schema)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "VERSION\tSTATE\tFILE")
		for _, s := range statuses {
			state := "pending"
			if s.Applied {
				state = "applied"
			}
			fmt.Fprintf(w, "%d\t%s\t%s\n", s.Version, state, s.Path)
		}
		return w.Flush()
	default:
		n, err := store.Migrate(ctx, pool, schema, root.Log)
		if err != nil {
			return err
		}
		root.Log.Info("Database is up to date", logging.F(logging.FieldCount, n))
		return nil
	}
}
