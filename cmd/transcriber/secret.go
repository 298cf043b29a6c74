package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/martinbockt/transcriber/internal/audit"
	"github.com/martinbockt/transcriber/internal/config"
	"github.com/martinbockt/transcriber/internal/daemon"
	"github.com/martinbockt/transcriber/internal/securestore"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Manage encrypted secrets",
}

// openFileStore builds the file store backed by the same data dir and key
// strategy the daemon uses.
func openFileStore() (*securestore.FileStore, error) {
	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	keys, err := daemon.KeyProvider(cfg)
	if err != nil {
		return nil, err
	}
	return securestore.New(cfg.DataDir, keys), nil
}

// openStore wraps the file store with audit logging for mutating use.
func openStore() (securestore.Store, func(), error) {
	files, err := openFileStore()
	if err != nil {
		return nil, nil, err
	}

	auditPath, err := auditLogPath()
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(auditPath), 0700); err != nil {
		return nil, nil, err
	}
	auditLog, err := audit.NewLogger(auditPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening audit log: %w", err)
	}

	return securestore.NewAudited(files, auditLog, "cli"), func() { auditLog.Close() }, nil
}

var secretSetCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Store an encrypted secret",
	Long:  "Store a secret. If value is omitted, reads from stdin (useful for piping).",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, done, err := openStore()
		if err != nil {
			return err
		}
		defer done()
		key := args[0]

		var value string
		if len(args) == 2 {
			value = args[1]
		} else {
			if term.IsTerminal(int(os.Stdin.Fd())) {
				fmt.Print("Enter secret value: ")
				b, err := term.ReadPassword(int(os.Stdin.Fd()))
				if err != nil {
					return fmt.Errorf("reading password: %w", err)
				}
				fmt.Println()
				value = string(b)
			} else {
				b, err := os.ReadFile("/dev/stdin")
				if err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
				value = strings.TrimRight(string(b), "\n")
			}
		}

		if err := store.Set(key, value); err != nil {
			return err
		}
		fmt.Printf("Secret %q stored\n", key)
		return nil
	},
}

var secretGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Retrieve and decrypt a secret",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, done, err := openStore()
		if err != nil {
			return err
		}
		defer done()
		val, err := store.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Println(val)
		return nil
	},
}

var secretListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List stored secret names",
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openFileStore()
		if err != nil {
			return err
		}
		names, err := store.List()
		if err != nil {
			return err
		}

		if len(names) == 0 {
			fmt.Println("No secrets stored")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "KEY")
		for _, name := range names {
			fmt.Fprintln(w, name)
		}
		w.Flush()
		return nil
	},
}

var secretDeleteCmd = &cobra.Command{
	Use:     "delete <key>",
	Short:   "Remove a secret",
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, done, err := openStore()
		if err != nil {
			return err
		}
		defer done()
		if err := store.Delete(args[0]); err != nil {
			return err
		}
		fmt.Printf("Secret %q deleted\n", args[0])
		return nil
	},
}

func init() {
	secretCmd.AddCommand(secretSetCmd)
	secretCmd.AddCommand(secretGetCmd)
	secretCmd.AddCommand(secretListCmd)
	secretCmd.AddCommand(secretDeleteCmd)
	rootCmd.AddCommand(secretCmd)
}
