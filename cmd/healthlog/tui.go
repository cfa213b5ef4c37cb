package main

import (
	"github.com/spf13/cobra"

	"github.com/healthlog-app/healthlog/pkg/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Show terminal UI",
	Long:  `Display an interactive terminal UI for browsing and recording entries.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer sess.Close()

		return tui.ShowTUI(sess.App, sess.Rec.Mode().String())
	},
}
