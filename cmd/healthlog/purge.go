package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var purgeYesFlag bool

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete every stored entry",
	Long: `Delete every entry from both logs. The tag catalogs survive a purge.
This cannot be undone; export a backup first if in doubt.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !purgeYesFlag {
			return errors.New("purge deletes every entry; re-run with --yes to confirm")
		}

		sess, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer sess.Close()

		if err := sess.App.Purge(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("All entries deleted.")
		return nil
	},
}

func initPurgeCmd() {
	purgeCmd.Flags().BoolVar(&purgeYesFlag, "yes", false, "Confirm deletion of every entry")
}
