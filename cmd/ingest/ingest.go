// Package ingest provides the import command, which loads statement files.
package ingest

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"mynab/budget-import/cmd/root"
	"mynab/budget-import/internal/fileutils"
	"mynab/budget-import/internal/importer"
	"mynab/budget-import/internal/models"
	"mynab/budget-import/internal/parsererror"

	"github.com/spf13/cobra"
)

// Options are the import command flags.
type Options struct {
	Institution string
	Currency    string
	UserID      int64
}

var opts = Options{}

// Cmd represents the import command.
var Cmd = &cobra.Command{
	Use:   "import [flags] <file|dir>...",
	Short: "Import bank statements",
	Long: `Import parses a bank statement, drops noise transactions, assigns a category to
the rest and stores them as budget entries of the given user.

The file extension must match the institution: .xlsx for santander_rio and bbva,
.csv for icbc and comm_bank, .pdf for mercado_pago. Directories are searched for
files with the institution's extension, which are imported in name order.`,
	Args: cobra.MinimumNArgs(1),
	RunE: run,
}

func init() {
	Cmd.Flags().StringVarP(&opts.Institution, "institution", "b", "", "Institution tag (see the institutions command)")
	Cmd.Flags().StringVarP(&opts.Currency, "currency", "c", "", "ISO-4217 currency of the account (default from import.default_currency)")
	Cmd.Flags().Int64VarP(&opts.UserID, "user", "u", 0, "Id of the user owning the statement")
	_ = Cmd.MarkFlagRequired("institution")
	_ = Cmd.MarkFlagRequired("user")
}

// FileResult is printed, one JSON object per line, for every imported file.
type FileResult struct {
	File string `json:"file"`
	models.ImportResult
}

func run(cmd *cobra.Command, args []string) error {
	accept := func(string) bool { return false }
	if reg, ok := root.AppContainer.GetRegistry().Lookup(opts.Institution); ok {
		accept = reg.Accepts
	}
	files, err := fileutils.CollectStatements(args, accept)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no %s statements found in %v", opts.Institution, args)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	defer func() {
		if reportErr := root.ReportMetrics(root.AppContainer); reportErr != nil {
			root.Log.WithError(reportErr).Warn("Failed to report metrics")
		}
	}()

	for _, path := range files {
		result, err := importFile(cmd, path)
		if err != nil {
			return err
		}
		if err := enc.Encode(FileResult{File: path, ImportResult: result}); err != nil {
			return err
		}
	}
	return nil
}

func importFile(cmd *cobra.Command, path string) (models.ImportResult, error) {
	content, err := fileutils.ReadStatement(path)
	if err != nil {
		return models.ImportResult{}, fmt.Errorf("error reading statement: %w", err)
	}

	result, err := root.AppContainer.GetImporter().ImportStatement(root.Context(cmd), importer.Request{
		UserID:        opts.UserID,
		Institution:   opts.Institution,
		Currency:      opts.Currency,
		FileName:      filepath.Base(path),
		ContentBase64: base64.StdEncoding.EncodeToString(content),
	})
	switch {
	case err == nil:
		return result, nil
	case errors.Is(err, parsererror.ErrImportFailure):
		// the cause is logged by the importer
		return result, fmt.Errorf("%s: %w", path, parsererror.ErrImportFailure)
	case parsererror.IsUserError(err):
		return result, fmt.Errorf("%s: %w", path, err)
	default:
		return result, fmt.Errorf("error processing file %s: %w", path, err)
	}
}
