// Package catalog loads the menu the assistant sells from. The menu is read
// once at start-up and treated as immutable afterwards.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sachiniyer/order-assistant/internal/domain"
)

const (
	SourceFile   = "file"
	SourceS3     = "s3"
	SourceSheets = "sheets"

	DefaultFile = "static/menu.json"
)

type Config struct {
	Source string
	File   string
	S3     S3Config
	Sheets SheetsConfig
}

// Load reads the menu from the configured source and rejects documents that
// fail the consistency check.
func Load(ctx context.Context, cfg Config) (*domain.Menu, error) {
	var (
		menu *domain.Menu
		err  error
	)

	switch strings.ToLower(strings.TrimSpace(cfg.Source)) {
	case "", SourceFile:
		path := cfg.File
		if path == "" {
			path = DefaultFile
		}
		menu, err = LoadFile(path)
	case SourceS3:
		menu, err = LoadS3(ctx, cfg.S3)
	case SourceSheets:
		menu, err = LoadSheets(ctx, cfg.Sheets)
	default:
		return nil, fmt.Errorf("unknown menu source %q", cfg.Source)
	}
	if err != nil {
		return nil, err
	}

	if err := menu.Check(); err != nil {
		return nil, fmt.Errorf("invalid menu: %w", err)
	}
	return menu, nil
}

func LoadFile(path string) (*domain.Menu, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read menu file: %w", err)
	}
	return Decode(data)
}

func Decode(data []byte) (*domain.Menu, error) {
	var menu domain.Menu
	if err := json.Unmarshal(data, &menu); err != nil {
		return nil, fmt.Errorf("failed to decode menu: %w", err)
	}
	if menu.Items == nil {
		menu.Items = []domain.MenuItem{}
	}
	return &menu, nil
}
