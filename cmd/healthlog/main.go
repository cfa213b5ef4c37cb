package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	healthlog "github.com/healthlog-app/healthlog/pkg"
	pkgdb "github.com/healthlog-app/healthlog/pkg/db"
	"github.com/healthlog-app/healthlog/pkg/utils"
)

var (
	dbPath    string
	walMode   bool
	syncMode  string
	remoteURL string
)

var rootCmd = &cobra.Command{
	Use:     "healthlog",
	Short:   "A personal health diary: mood and pain logs you can query, merge, and share with your AI models.",
	Long:    ``,
	Version: fmt.Sprintf("v%s", healthlog.Version),
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var completionShells = []string{"bash", "zsh", "fish", "powershell"}

var completionCmd = &cobra.Command{
	Use:   fmt.Sprintf("completion %s", strings.Join(completionShells, "|")),
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for healthlog.

The command prints a completion script to stdout. You can source it in your shell
or install it to the appropriate location for your shell to enable completions permanently.

Examples:

  Bash (current shell):
    $ source <(healthlog completion bash)

  Bash (persist):
    $ healthlog completion bash > /etc/bash_completion.d/healthlog

  Zsh:
    $ healthlog completion zsh > "${fpath[1]}/_healthlog"

  Fish:
    $ healthlog completion fish | source
    $ healthlog completion fish > ~/.config/fish/completions/healthlog.fish

  PowerShell:
    PS> healthlog completion powershell | Out-String | Invoke-Expression`,
	DisableFlagsInUseLine: true,
	ValidArgs:             completionShells,
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(cmd.OutOrStdout())
		case "zsh":
			return rootCmd.GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			return rootCmd.GenFishCompletion(cmd.OutOrStdout(), true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(cmd.OutOrStdout())
		default:
			return fmt.Errorf("unsupported shell: %s", args[0])
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of healthlog",
	Long:  `All software has versions. This is healthlog's`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(healthlog.Version)
	},
}

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the healthlog database",
	Long:  `Provides commands for managing the healthlog SQLite database, including schema upgrades.`,
}

var dbUpgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Upgrade the healthlog database schema to the latest version for the filesdb component",
	Long: `Connects to the SQLite database at the specified path (provided with the --db flag) and applies any necessary
schema migrations to bring the filesdb component up to the current application schema version.
If the database does not exist or is uninitialized for this component, it will be created
and initialized with the latest schema for the filesdb component.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if dbPath == "" {
			return errors.New("database path is required")
		}

		resolvedPath, err := utils.ResolveAndEnsureDBPath(dbPath)
		if err != nil {
			return err
		}

		fmt.Printf("Attempting to upgrade filesdb component in database at: %s (WAL: %t, Sync: %s)\n", resolvedPath, walMode, syncMode)

		dbConn, err := pkgdb.OpenDBConnection(resolvedPath, walMode, syncMode)
		if err != nil {
			return err
		}
		defer dbConn.Close()

		return pkgdb.UpgradeDB(dbConn, resolvedPath, pkgdb.TargetSchemaVersion)
	},
}

func initCmd() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the local database file (uses system-specific default if not provided)")
	rootCmd.PersistentFlags().BoolVar(&walMode, "wal", false, "Enable SQLite WAL (Write-Ahead Logging) mode (default: false)")
	rootCmd.PersistentFlags().StringVar(&syncMode, "sync", "FULL", "SQLite synchronous pragma (OFF, NORMAL, FULL, EXTRA) (default: FULL)")
	rootCmd.PersistentFlags().StringVar(&remoteURL, "remote", "", "Base URL of the remote sync server (guest mode when unset)")

	dbUpgradeCmd.MarkFlagRequired("db")
	dbCmd.AddCommand(dbUpgradeCmd)

	initImportCmd()
	initExportCmd()
	initLogCmd()
	initTagsCmd()
	initContextCmd()
	initStatsCmd()
	initPurgeCmd()
	initLoginCmds()
	rootCmd.AddCommand(completionCmd, versionCmd, dbCmd, importCmd, exportCmd, logCmd,
		tagsCmd, contextCmd, statsCmd, purgeCmd, loginCmd, logoutCmd, mcpCmd, tuiCmd)
}

func main() {
	initCmd()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
