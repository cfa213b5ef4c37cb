package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/healthlog-app/healthlog/pkg/records"
)

var statsDaysFlag int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the stored logs",
	Long:  `Print entry counts, covered date ranges, and averages of the numeric fields.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer sess.Close()

		stats := sess.App.StatsWindow(statsDaysFlag)
		for _, kind := range records.Kinds {
			s := stats[kind]
			fmt.Printf("%s: %d entries", kind, s.Entries)
			if s.From != "" {
				fmt.Printf(" (%s .. %s)", s.From, s.To)
			}
			fmt.Println()

			fields := make([]string, 0, len(s.Averages))
			for field := range s.Averages {
				fields = append(fields, field)
			}
			sort.Strings(fields)
			for _, field := range fields {
				fmt.Printf("  avg %s: %.2f\n", field, s.Averages[field])
			}
		}
		return nil
	},
}

func initStatsCmd() {
	statsCmd.Flags().IntVar(&statsDaysFlag, "days", 0, "Trailing day window to summarize (0 covers everything)")
}
