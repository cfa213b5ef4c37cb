package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/healthlog-app/healthlog/pkg/records"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Record a new entry",
	Long:  `Record one diary or pain entry. Date and hour default to now.`,
}

var logDiaryCmd = &cobra.Command{
	Use:   "diary",
	Short: "Record a diary entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLogEntry(cmd, records.KindDiary)
	},
}

var logPainCmd = &cobra.Command{
	Use:   "pain",
	Short: "Record a pain log entry",
	Long: `Record a pain log entry. Tag fields (symptoms, area, activities,
habits, other, medicines) take comma-separated values.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLogEntry(cmd, records.KindPain)
	},
}

// entryFlagNames maps each canonical field to its CLI flag spelling.
func entryFlagName(field string) string {
	switch field {
	case "mood level":
		return "mood"
	case "pain level":
		return "pain"
	case "fatigue level":
		return "fatigue"
	default:
		return field
	}
}

func runLogEntry(cmd *cobra.Command, kind records.Kind) error {
	fields := make(records.Row)
	for _, field := range records.Schema(kind) {
		val, _ := cmd.Flags().GetString(entryFlagName(field))
		if val != "" {
			fields[field] = val
		}
	}

	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.Close()

	row, err := sess.App.LogEntry(cmd.Context(), kind, fields)
	if err != nil {
		return err
	}
	fmt.Printf("Recorded %s entry at %s\n", kind, records.TimestampKey(row, nil))
	return nil
}

func initLogCmd() {
	for _, kind := range records.Kinds {
		cmd := logDiaryCmd
		if kind == records.KindPain {
			cmd = logPainCmd
		}
		for _, field := range records.Schema(kind) {
			cmd.Flags().String(entryFlagName(field), "", fmt.Sprintf("Value for the '%s' field", field))
		}
	}
	logCmd.AddCommand(logDiaryCmd, logPainCmd)
}
