// Package menutest holds catalog fixtures shared by tests.
package menutest

import "github.com/sachiniyer/order-assistant/internal/domain"

// Burger is a one-item menu: a burger with a required single-choice size.
func Burger() *domain.Menu {
	return &domain.Menu{Items: []domain.MenuItem{
		{
			Name:        "Burger",
			Type:        "entree",
			Description: "Beef patty on a brioche bun",
			Options: map[string]domain.OptionConfig{
				"size": {
					Required: domain.Required(),
					Minimum:  1,
					Maximum:  1,
					Choices: map[string]domain.Choice{
						"small": {Price: 0},
						"large": {Price: 2.5},
					},
				},
			},
		},
	}}
}

// Cafe extends Burger with a drink whose milk option is only required once a
// latte style has been picked, and a fries side with optional toppings.
func Cafe() *domain.Menu {
	menu := Burger()
	menu.Items = append(menu.Items,
		domain.MenuItem{
			Name: "Coffee",
			Type: "drink",
			Options: map[string]domain.OptionConfig{
				"style": {
					Required: domain.Required(),
					Minimum:  1,
					Maximum:  1,
					Choices: map[string]domain.Choice{
						"black": {},
						"latte": {Price: 1},
					},
				},
				"milk": {
					Required: domain.DependentOn("style", "latte"),
					Minimum:  1,
					Maximum:  1,
					Choices: map[string]domain.Choice{
						"whole": {},
						"oat":   {Price: 0.5},
					},
				},
			},
		},
		domain.MenuItem{
			Name: "Fries",
			Type: "side",
			Options: map[string]domain.OptionConfig{
				"toppings": {
					Required: domain.Optional(),
					Minimum:  0,
					Maximum:  2,
					Choices: map[string]domain.Choice{
						"salt":   {},
						"cheese": {Price: 1},
						"chili":  {Price: 1},
					},
				},
			},
		},
	)
	return menu
}
