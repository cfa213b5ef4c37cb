package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/healthlog-app/healthlog/pkg/storage"
	"github.com/healthlog-app/healthlog/pkg/utils"
)

var loginEmailFlag string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Open a session with the remote sync server",
	Long: `Authenticate against the remote sync server and save the session for
later commands. Requires --remote. The password is read from stdin.

Guest (local-only) entries and remote entries are not merged on login;
export a backup from guest mode and import it after logging in to carry
entries over.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if remoteURL == "" {
			return errors.New("--remote is required to log in")
		}
		if loginEmailFlag == "" {
			return errors.New("--email is required")
		}

		fmt.Fprint(os.Stderr, "Password: ")
		reader := bufio.NewReader(os.Stdin)
		password, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = strings.TrimRight(password, "\r\n")

		remote, err := storage.NewRemoteStore(remoteURL, "")
		if err != nil {
			return err
		}
		if err := remote.Login(cmd.Context(), loginEmailFlag, password); err != nil {
			return err
		}
		if err := utils.SaveSessionCookie("", remote.Cookie()); err != nil {
			return err
		}

		fmt.Println("Logged in. Commands run with --remote will sync to the server.")
		fmt.Fprintln(os.Stderr, "Note: entries recorded in guest mode stay local; use 'export backup' and 'import' to carry them over.")
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Close the remote session",
	RunE: func(cmd *cobra.Command, args []string) error {
		cookie, err := utils.LoadSessionCookie("")
		if err != nil {
			return err
		}
		if cookie == "" {
			fmt.Println("No saved session.")
			return nil
		}

		if remoteURL != "" {
			remote, err := storage.NewRemoteStore(remoteURL, cookie)
			if err == nil {
				if err := remote.Logout(cmd.Context()); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: server-side logout failed: %v\n", err)
				}
			}
		}
		if err := utils.SaveSessionCookie("", ""); err != nil {
			return err
		}
		fmt.Println("Logged out. Commands now run in guest mode.")
		return nil
	},
}

func initLoginCmds() {
	loginCmd.Flags().StringVar(&loginEmailFlag, "email", "", "Account email address")
}
