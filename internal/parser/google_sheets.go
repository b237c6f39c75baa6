package parser

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sachiniyer/order-assistant/internal/domain"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Column layout of a menu sheet. The first row is a header.
//
//	A item name | B item type | C description |
//	D option | E required | F minimum | G maximum | H choice | I price
//
// A row with an item name starts a new item, a row with an option name
// starts a new option on the current item, and a row with a choice adds it
// to the current option. The three may share a row. "required" is TRUE,
// FALSE or a dependency written as option=value.
const (
	colItemName = iota
	colItemType
	colDescription
	colOption
	colRequired
	colMinimum
	colMaximum
	colChoice
	colPrice
)

type GoogleSheetsParser struct {
	service *sheets.Service
}

type Config struct {
	CredentialsJSON []byte
}

func New(cfg Config) (*GoogleSheetsParser, error) {
	ctx := context.Background()

	service, err := sheets.NewService(ctx, option.WithCredentialsJSON(cfg.CredentialsJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &GoogleSheetsParser{
		service: service,
	}, nil
}

func (p *GoogleSheetsParser) ParseMenu(ctx context.Context, spreadsheetID string) (*domain.Menu, error) {
	readRange := "A:I"
	resp, err := p.service.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet: %w", err)
	}

	if len(resp.Values) == 0 {
		return nil, fmt.Errorf("no data found in spreadsheet")
	}

	return ParseRows(resp.Values)
}

// ParseRows builds a menu from sheet values, header row included.
func ParseRows(rows [][]interface{}) (*domain.Menu, error) {
	menu := &domain.Menu{Items: []domain.MenuItem{}}

	var currentItem *domain.MenuItem
	var currentOption string

	// skip header
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		line := i + 1
		if len(row) == 0 {
			continue
		}

		if name := cell(row, colItemName); name != "" {
			if currentItem != nil {
				menu.Items = append(menu.Items, *currentItem)
			}
			currentItem = &domain.MenuItem{
				Name:        name,
				Type:        cell(row, colItemType),
				Description: cell(row, colDescription),
				Options:     map[string]domain.OptionConfig{},
			}
			currentOption = ""
		}

		if name := cell(row, colOption); name != "" {
			if currentItem == nil {
				return nil, fmt.Errorf("row %d: option %q before any item", line, name)
			}
			opt, err := parseOption(row)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", line, err)
			}
			currentItem.Options[name] = opt
			currentOption = name
		}

		if choice := cell(row, colChoice); choice != "" {
			if currentItem == nil || currentOption == "" {
				return nil, fmt.Errorf("row %d: choice %q before any option", line, choice)
			}
			price, err := parseFloat(cell(row, colPrice))
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid price: %w", line, err)
			}
			currentItem.Options[currentOption].Choices[choice] = domain.Choice{Price: price}
		}
	}

	// add last item
	if currentItem != nil {
		menu.Items = append(menu.Items, *currentItem)
	}

	return menu, nil
}

func parseOption(row []interface{}) (domain.OptionConfig, error) {
	opt := domain.OptionConfig{Choices: map[string]domain.Choice{}}

	required := cell(row, colRequired)
	switch {
	case required == "":
	case strings.Contains(required, "="):
		parts := strings.SplitN(required, "=", 2)
		opt.Required = domain.DependentOn(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]))
	default:
		always, err := strconv.ParseBool(strings.ToLower(required))
		if err != nil {
			return opt, fmt.Errorf("invalid required value %q", required)
		}
		opt.Required.Always = always
	}

	min, err := parseInt(cell(row, colMinimum))
	if err != nil {
		return opt, fmt.Errorf("invalid minimum: %w", err)
	}
	max, err := parseInt(cell(row, colMaximum))
	if err != nil {
		return opt, fmt.Errorf("invalid maximum: %w", err)
	}
	opt.Minimum = min
	opt.Maximum = max

	return opt, nil
}

func cell(row []interface{}, col int) string {
	if col >= len(row) || row[col] == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%v", row[col]))
}

func parseInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
