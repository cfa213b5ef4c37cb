package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/healthlog-app/healthlog/pkg/records"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Manage the tag catalogs of the pain log",
	Long: fmt.Sprintf(`List, add, delete, and rename the values offered for the tag fields
(%s).

Deleting a value leaves historical entries untouched but keeps the value
out of the catalog until it is explicitly re-added, even across imports.`,
		strings.Join(records.TagFields, ", ")),
}

var tagsListCmd = &cobra.Command{
	Use:   "list [field]",
	Short: "List known values for one tag field, or all fields",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer sess.Close()

		fields := records.TagFields
		if len(args) == 1 {
			fields = []string{args[0]}
		}
		for _, field := range fields {
			vals, err := sess.App.TagValues(field)
			if err != nil {
				return err
			}
			fmt.Printf("%s: %s\n", field, strings.Join(vals, ", "))
		}
		return nil
	},
}

var tagsAddCmd = &cobra.Command{
	Use:   "add <field> <value>",
	Short: "Add a value to a tag field",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer sess.Close()

		if err := sess.App.AddTag(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Added '%s' to %s\n", args[1], args[0])
		return nil
	},
}

var tagsDeleteCmd = &cobra.Command{
	Use:   "delete <field> <value>",
	Short: "Remove a value from a tag field",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer sess.Close()

		if err := sess.App.DeleteTag(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Removed '%s' from %s\n", args[1], args[0])
		return nil
	},
}

var tagsRenameCmd = &cobra.Command{
	Use:   "rename <field> <old> <new>",
	Short: "Rename a value in a tag field",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer sess.Close()

		if err := sess.App.RenameTag(cmd.Context(), args[0], args[1], args[2]); err != nil {
			return err
		}
		fmt.Printf("Renamed '%s' to '%s' in %s\n", args[1], args[2], args[0])
		return nil
	},
}

func initTagsCmd() {
	tagsCmd.AddCommand(tagsListCmd, tagsAddCmd, tagsDeleteCmd, tagsRenameCmd)
}
