package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pocketbank-dev/pocketbank/internal/app/economy"
	"github.com/pocketbank-dev/pocketbank/internal/daemon"
	"github.com/pocketbank-dev/pocketbank/internal/infra/sqlite"
)

// ─── Account Admin Commands ─────────────────────────────────────────────────
// These operate directly on the local database, so they are meant for
// administration while the server is not running.

func init() {
	rootCmd.AddCommand(accountCmd)
	accountCmd.AddCommand(accountCreateCmd)
	accountCmd.AddCommand(accountListCmd)
	accountCmd.AddCommand(accountAuditCmd)
}

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage student accounts",
}

// openService opens the configured store and wraps it in the economy engine.
// The caller must Close the returned DB.
func openService() (*economy.Service, *sqlite.DB, error) {
	cfg, err := daemon.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(cfg.Storage.Path, 0o700); err != nil {
		return nil, nil, fmt.Errorf("create data dir: %w", err)
	}
	db, err := sqlite.Open(cfg.Storage.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	return economy.New(cfg.Economy, db), db, nil
}

// ─── account create ─────────────────────────────────────────────────────────

var accountCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a student account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, db, err := openService()
		if err != nil {
			return err
		}
		defer db.Close()

		a, err := svc.CreateAccount(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Account %q created: %s\n", a.Name, a.ID)
		return nil
	},
}

// ─── account list ───────────────────────────────────────────────────────────

var accountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts with balances",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, db, err := openService()
		if err != nil {
			return err
		}
		defer db.Close()

		accounts, err := svc.ListAccounts()
		if err != nil {
			return err
		}
		if len(accounts) == 0 {
			fmt.Fprintln(os.Stdout, "No accounts.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tBALANCE\tSTREAK")
		for _, a := range accounts {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", a.ID, a.Name, a.Balance, a.StreakWeeks)
		}
		return w.Flush()
	},
}

// ─── account audit ──────────────────────────────────────────────────────────

var accountAuditCmd = &cobra.Command{
	Use:   "audit ACCOUNT_ID",
	Short: "Verify the account balance against its transaction log",
	Long: `Recompute the sum of the account's ledger entries and compare it
to the stored balance. The two must always match.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, db, err := openService()
		if err != nil {
			return err
		}
		defer db.Close()

		balance, sum, err := svc.Audit(args[0])
		if err != nil {
			return err
		}
		if balance != sum {
			return fmt.Errorf("ledger mismatch: balance=%d, sum of transactions=%d", balance, sum)
		}
		fmt.Fprintf(os.Stdout, "OK: balance %d matches %d ledger entries sum\n", balance, sum)
		return nil
	},
}
