package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/healthlog-app/healthlog/pkg/importer"
	"github.com/healthlog-app/healthlog/pkg/records"
)

var (
	importFormatFlag string
	importSheetFlag  string
)

var importCmd = &cobra.Command{
	Use:   "import [diary|pain] <file>",
	Short: "Import entries from a CSV, XLSX, or backup file",
	Long: `Import entries into a log. Column headers are matched case- and
punctuation-insensitively, historical column names are accepted as aliases,
and rows whose date+hour already exist are skipped.

A JSON backup restores both logs at once; pass only the file:

  healthlog import backup.json
  healthlog import pain export.csv
  healthlog import diary spreadsheet.xlsx`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer sess.Close()

		// Single argument: a backup file covering every kind.
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open '%s': %w", args[0], err)
			}
			defer f.Close()

			results, err := sess.App.RestoreBackup(cmd.Context(), f)
			if err != nil {
				return err
			}
			for kind, result := range results {
				fmt.Printf("%s: %d added, %d skipped as duplicates\n", kind, result.Added, result.Skipped)
			}
			return nil
		}

		kind, err := records.ParseKind(args[0])
		if err != nil {
			return err
		}
		path := args[1]

		format := importFormatFlag
		if format == "" {
			format = strings.TrimPrefix(filepath.Ext(path), ".")
		}

		var table *importer.RawTable
		switch strings.ToLower(format) {
		case "csv":
			table, err = importer.ReadCSVFile(path)
		case "xlsx":
			table, err = importer.ReadXLSX(path, importSheetFlag, kind)
		default:
			return fmt.Errorf("unsupported import format '%s' (use csv or xlsx)", format)
		}
		if err != nil {
			return err
		}

		result, err := sess.App.ImportTable(cmd.Context(), kind, table, filepath.Base(path))
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d added, %d skipped as duplicates\n", kind, result.Added, result.Skipped)
		return nil
	},
}

func initImportCmd() {
	importCmd.Flags().StringVar(&importFormatFlag, "format", "", "Input format: csv or xlsx (default: inferred from file extension)")
	importCmd.Flags().StringVar(&importSheetFlag, "sheet", "", "Worksheet name for xlsx imports (default: sheet named after the log, else the first sheet)")
}
