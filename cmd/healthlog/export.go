package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/healthlog-app/healthlog/pkg/importer"
	"github.com/healthlog-app/healthlog/pkg/records"
)

var exportOutFlag string

var exportCmd = &cobra.Command{
	Use:   "export [csv|xlsx|backup] [diary|pain]",
	Short: "Export entries to CSV, XLSX, or a JSON backup",
	Long: `Export stored entries. CSV exports one log and requires the kind
argument; XLSX and backup exports cover both logs.

  healthlog export csv pain --out pain.csv
  healthlog export xlsx --out healthlog.xlsx
  healthlog export backup --out backup.json

Without --out, CSV and backup exports write to stdout.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer sess.Close()

		// XLSX writes through excelize itself; only text formats need a writer.
		out := os.Stdout
		if exportOutFlag != "" && args[0] != "xlsx" {
			f, err := os.Create(exportOutFlag)
			if err != nil {
				return fmt.Errorf("failed to create '%s': %w", exportOutFlag, err)
			}
			defer f.Close()
			out = f
		}

		switch args[0] {
		case "csv":
			if len(args) < 2 {
				return fmt.Errorf("csv export requires the log kind: healthlog export csv [diary|pain]")
			}
			kind, err := records.ParseKind(args[1])
			if err != nil {
				return err
			}
			return importer.WriteCSV(out, sess.App.Dataset(kind))

		case "xlsx":
			if exportOutFlag == "" {
				return fmt.Errorf("xlsx export requires --out")
			}
			datasets := make(map[records.Kind]*records.Dataset, len(records.Kinds))
			for _, kind := range records.Kinds {
				datasets[kind] = sess.App.Dataset(kind)
			}
			return importer.WriteXLSX(exportOutFlag, datasets)

		case "backup":
			return sess.App.ExportBackup(out)

		default:
			return fmt.Errorf("unsupported export format '%s' (use csv, xlsx, or backup)", args[0])
		}
	},
}

func initExportCmd() {
	exportCmd.Flags().StringVar(&exportOutFlag, "out", "", "Output file path")
}
