package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	contextDaysFlag  int
	contextLimitFlag int
)

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Render recent entries as flat text for a conversation",
	Long: `Render recent diary and pain entries as label:value text, one line
per entry, newest first. Paste the output into a chat or pipe it to a
model to ground a conversation in your recent state.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer sess.Close()

		fmt.Print(sess.App.BuildContext(contextDaysFlag, contextLimitFlag))
		return nil
	},
}

func initContextCmd() {
	contextCmd.Flags().IntVar(&contextDaysFlag, "days", 30, "Trailing day window to include (0 includes everything)")
	contextCmd.Flags().IntVar(&contextLimitFlag, "limit", 0, "Maximum rows per log (0 means no cap)")
}
