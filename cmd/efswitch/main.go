package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"efswitch/internal/app"
	"efswitch/internal/config"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file, falling back to defaults when none exists.
func loadConfig() (*config.Config, string, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, "", fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.Load(defaults["config_path"], defaults["base_dir"])
	if err != nil {
		return nil, "", fmt.Errorf("reading config: %w", err)
	}
	return cfg, defaults["config_path"], nil
}

// newApp reads the config and creates an EFApp. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. app.OpCaptureAccount).
func newApp(operation string) (*app.EFApp, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, err
	}

	a, err := app.NewEFApp(cfg, operation, app.PassphraseFromEnv(promptPassphrase("Passphrase: ")))
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

// promptPassphrase reads a passphrase from the terminal without echo.
func promptPassphrase(prompt string) app.PassphraseFunc {
	return func() (string, error) {
		fd := int(os.Stdin.Fd())
		if !term.IsTerminal(fd) {
			return "", fmt.Errorf("stdin is not a terminal; set %s", app.EnvPassphrase)
		}
		fmt.Fprint(os.Stderr, prompt)
		p, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return string(p), nil
	}
}

var rootCmd = &cobra.Command{
	Use:          "efswitch",
	Short:        "Account switcher for Arknights: Endfield",
	SilenceUsage: true,
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])
		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig()
		if err != nil {
			return err
		}

		fmt.Printf("Configuration from %s:\n\n", path)
		return (&config.Manager{}).Write(os.Stdout, cfg)
	},
}

var configEncryptionCmd = &cobra.Command{
	Use:   "encryption",
	Short: "Manage backup encryption",
}

var configEncryptionInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate the encryption key pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		passphrase, err := newPassphrase()
		if err != nil {
			return err
		}

		a, err := newApp(app.OpSetupEncryption)
		if err != nil {
			return err
		}
		defer a.Close()

		pub, err := a.SetupEncryption(passphrase)
		if err != nil {
			return err
		}

		fmt.Println("Encryption keys created.")
		if pub != "" {
			fmt.Printf("Public key: %s\n", pub)
		}
		fmt.Println("Keep the passphrase safe: encrypted backups cannot be restored without it.")
		return nil
	},
}

// newPassphrase takes the passphrase from the environment, or asks twice.
func newPassphrase() (string, error) {
	if p, ok := os.LookupEnv(app.EnvPassphrase); ok {
		return p, nil
	}
	first, err := promptPassphrase("New passphrase: ")()
	if err != nil {
		return "", err
	}
	second, err := promptPassphrase("Repeat passphrase: ")()
	if err != nil {
		return "", err
	}
	if first != second {
		return "", errors.New("passphrases do not match")
	}
	return first, nil
}

// list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		a, err := newApp(app.OpListAccounts)
		if err != nil {
			return err
		}
		defer a.Close()

		accounts, err := a.ListAccounts()
		if err != nil {
			return err
		}
		if asJSON {
			return writeAccountsJSON(os.Stdout, accounts)
		}

		// The live directory may be missing; the list is still useful.
		_, current, _ := a.CurrentAccount()
		writeAccounts(os.Stdout, accounts, current)
		return nil
	},
}

// capture command
var captureCmd = &cobra.Command{
	Use:   "capture LABEL",
	Short: "Save the current game session as a new account",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(app.OpCaptureAccount)
		if err != nil {
			return err
		}
		defer a.Close()

		rec, err := a.Capture(strings.Join(args, " "))
		if err != nil {
			return err
		}

		fmt.Printf("Captured %s as %s\n", accountName(rec.DisplayName), shortID(rec.ID))
		return nil
	},
}

// switch command
var switchCmd = &cobra.Command{
	Use:   "switch SELECTOR",
	Short: "Restore a saved account into the game",
	Long: `Restore a saved account into the game.

SELECTOR is an account ID, a unique ID prefix of at least six characters,
a storage key or a unique display name. The session currently in the game
is replaced and not saved; capture it first if you need it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(app.OpSwitchAccount)
		if err != nil {
			return err
		}
		defer a.Close()

		rec, err := a.Switch(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Switched to %s\n", accountName(rec.DisplayName))
		return nil
	},
}

// noMatch is printed when delete or rename finds no account; both are no-ops then.
const noMatch = "No account matched; nothing to do."

// delete command
var deleteCmd = &cobra.Command{
	Use:   "delete SELECTOR",
	Short: "Delete a saved account and its backup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(app.OpDeleteAccount)
		if err != nil {
			return err
		}
		defer a.Close()

		rec, err := a.Delete(args[0])
		if err != nil {
			return err
		}
		if rec == nil {
			fmt.Println(noMatch)
			return nil
		}

		fmt.Printf("Deleted %s\n", accountName(rec.DisplayName))
		return nil
	},
}

// rename command
var renameCmd = &cobra.Command{
	Use:   "rename SELECTOR LABEL",
	Short: "Rename a saved account",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(app.OpRenameAccount)
		if err != nil {
			return err
		}
		defer a.Close()

		rec, err := a.Rename(args[0], strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		if rec == nil {
			fmt.Println(noMatch)
			return nil
		}

		fmt.Printf("Renamed %s to %s\n", shortID(rec.ID), accountName(rec.DisplayName))
		return nil
	},
}

// launch command
var launchCmd = &cobra.Command{
	Use:   "launch [PATH]",
	Short: "Start the game",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(app.OpLaunchGame)
		if err != nil {
			return err
		}
		defer a.Close()

		var path string
		if len(args) > 0 {
			path = args[0]
		}
		if err := a.Launch(path); err != nil {
			return err
		}

		fmt.Println("Game launch requested.")
		return nil
	},
}

// current command
var currentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show which saved account is in the game",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(app.OpCurrentAccount)
		if err != nil {
			return err
		}
		defer a.Close()

		rec, fp, err := a.CurrentAccount()
		if err != nil {
			return err
		}
		writeCurrent(os.Stdout, rec, fp)
		return nil
	},
}

// check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Compare the account index with the backup folders",
	RunE: func(cmd *cobra.Command, args []string) error {
		verify, _ := cmd.Flags().GetBool("verify")

		a, err := newApp(app.OpCheck)
		if err != nil {
			return err
		}
		defer a.Close()

		report, err := a.Check(verify)
		if err != nil {
			return err
		}
		writeReport(os.Stdout, report)
		if !report.OK() {
			return errors.New("index and backups disagree")
		}
		return nil
	},
}

// prune command
var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove backup folders no account refers to",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(app.OpPruneOrphans)
		if err != nil {
			return err
		}
		defer a.Close()

		removed, err := a.Prune()
		for _, key := range removed {
			fmt.Printf("Removed %s\n", key)
		}
		if err != nil {
			return err
		}
		fmt.Printf("Pruned %d folder(s)\n", len(removed))
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View operation history",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp(app.OpHistory)
		if err != nil {
			return err
		}
		defer a.Close()

		ops, err := a.History(limit)
		if err != nil {
			return err
		}
		writeHistory(os.Stdout, ops)
		return nil
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configEncryptionCmd)
	configEncryptionCmd.AddCommand(configEncryptionInitCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().Bool("json", false, "Print the accounts as JSON")
	rootCmd.AddCommand(captureCmd)
	rootCmd.AddCommand(switchCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(launchCmd)
	rootCmd.AddCommand(currentCmd)
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().Bool("verify", false, "Re-fingerprint every backup as well")
	rootCmd.AddCommand(pruneCmd)
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of operations to show")
}
