package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sachiniyer/order-assistant/internal/catalog"
	"github.com/sachiniyer/order-assistant/internal/domain"
	"github.com/sachiniyer/order-assistant/internal/validation"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Print the verdict for one order item",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")
		raw, _ := cmd.Flags().GetString("item")

		menu, err := catalog.LoadFile(path)
		if err != nil {
			return err
		}

		var item domain.OrderItem
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			return fmt.Errorf("invalid item: %w", err)
		}

		verdict := validation.Validate(item, menu)

		out, err := json.MarshalIndent(verdict, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	validateCmd.Flags().String("file", catalog.DefaultFile, "menu JSON document")
	validateCmd.Flags().String("item", "", "order item as JSON")
	_ = validateCmd.MarkFlagRequired("item")
}
