// Package cli implements routectl, the operator CLI for the API: quoting
// routes, building transactions, and inspecting the registry from a
// terminal.
package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "routectl",
	Short: "Inspect and exercise the payment routing API",
	Long: `routectl talks to a running namepay-api instance: fetch route
candidates for an intent, build the signable transaction for a chosen
route, and list the supported tokens and chains.

Examples:
  routectl quote --payer 0xabc... --from-token USDC --to-token USDT --amount 100 --from-chain base
  routectl build --route-id hook-1a2b3c4d --payer 0xabc... --from-token USDC --to-token USDT --amount 100 --from-chain base --to 0xdef...
  routectl tokens
  routectl chains`,
	Version: "0.1.0",
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("api", "http://localhost:8000", "Base URL of the namepay-api instance")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output raw JSON")

	viper.SetEnvPrefix("ROUTECTL")
	viper.AutomaticEnv()
	_ = viper.BindPFlag("api", rootCmd.PersistentFlags().Lookup("api"))
}

func apiBaseURL() string {
	return viper.GetString("api")
}

func printError(err error) {
	color.Red("\nError: %v\n", err)
}

func printHeading(format string, args ...interface{}) {
	color.Cyan(format, args...)
}

func printKV(key, value string) {
	fmt.Printf("  %s %s\n", color.New(color.Faint).Sprintf("%-14s", key+":"), value)
}
