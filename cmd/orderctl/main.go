// Command orderctl inspects menus and stored orders without running the API.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "orderctl",
	Short: "Offline tools for the order assistant",
	Long: `Offline tools for the order assistant.

Examples:
  # Check a menu document and print a summary
  orderctl menu check --file static/menu.json

  # Validate one order item against a menu
  orderctl validate --file static/menu.json --item '{"itemName":"Fries","optionKeys":["size"],"optionValues":[["large"]]}'

  # Print a stored order (uses ORDER_STORE and friends)
  orderctl order show 5b1c0e7e-...`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(orderCmd)
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
