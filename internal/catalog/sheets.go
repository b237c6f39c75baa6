package catalog

import (
	"context"
	"fmt"
	"os"

	"github.com/sachiniyer/order-assistant/internal/domain"
	"github.com/sachiniyer/order-assistant/internal/parser"
)

type SheetsConfig struct {
	SpreadsheetID   string
	CredentialsPath string
}

func LoadSheets(ctx context.Context, cfg SheetsConfig) (*domain.Menu, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is required")
	}
	if cfg.CredentialsPath == "" {
		return nil, fmt.Errorf("google credentials are required")
	}

	credsJSON, err := os.ReadFile(cfg.CredentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read google credentials: %w", err)
	}

	p, err := parser.New(parser.Config{CredentialsJSON: credsJSON})
	if err != nil {
		return nil, err
	}

	return p.ParseMenu(ctx, cfg.SpreadsheetID)
}
