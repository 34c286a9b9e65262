// Package cli implements the pocketbank command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is stamped at build time via -ldflags.
var Version = "0.1.0"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "pocketbank",
	Short: "Pocketbank youth economy ledger",
	Long: `Pocketbank runs a small family token economy: students earn tokens
for weekly tasks and quiz challenges, request spends for adult approval,
save toward goals and trade perfect-week streaks for bonuses.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath(), "Path to config file")
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the pocketbank version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "pocketbank %s\n", Version)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// defaultConfigPath returns ~/.pocketbank/config.toml, or the override from
// the environment.
func defaultConfigPath() string {
	if env := os.Getenv("POCKETBANK_HOME"); env != "" {
		return env + "/config.toml"
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return home + "/.pocketbank/config.toml"
}
