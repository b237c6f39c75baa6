package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sachiniyer/order-assistant/internal/env"
	"github.com/sachiniyer/order-assistant/internal/store"
)

var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Stored order commands",
}

var orderShowCmd = &cobra.Command{
	Use:   "show <order-id>",
	Short: "Print a stored order as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		backend, err := store.Open(ctx, storeConfigFromEnv(), zap.NewNop().Sugar())
		if err != nil {
			return err
		}
		defer backend.Close(ctx)

		order, err := backend.Orders.Get(ctx, args[0])
		if err != nil {
			return fmt.Errorf("order %s: %w", args[0], err)
		}

		out, err := json.MarshalIndent(order, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	orderCmd.AddCommand(orderShowCmd)
}

// storeConfigFromEnv reads the same variables as the API server.
func storeConfigFromEnv() store.Config {
	return store.Config{
		Backend:       env.GetString("ORDER_STORE", store.BackendMongo),
		MongoURI:      env.GetString("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: env.GetString("MONGO_DATABASE", "order_assistant"),
		MongoTimeout:  time.Second * 10,
		PostgresDSN:   env.GetString("DATABASE_URL", ""),
	}
}
