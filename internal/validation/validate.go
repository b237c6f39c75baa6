// Package validation classifies order items against the menu.
package validation

import (
	"fmt"
	"slices"

	"github.com/sachiniyer/order-assistant/internal/domain"
)

// Validate returns the verdict for a single order item. The first failing
// check wins. It has no side effects and may be called concurrently.
func Validate(item domain.OrderItem, menu *domain.Menu) domain.Verdict {
	if len(item.OptionKeys) != len(item.OptionValues) {
		return domain.Invalid("option keys and values do not match")
	}

	menuItem, ok := menu.Find(item.ItemName)
	if !ok {
		return domain.Invalid(fmt.Sprintf("item does not exist: %s", item.ItemName))
	}

	for i, key := range item.OptionKeys {
		values := item.OptionValues[i]

		option, ok := menuItem.Options[key]
		if !ok {
			return domain.Invalid(fmt.Sprintf("option does not exist: %s", key))
		}
		for _, value := range values {
			if _, ok := option.Choices[value]; !ok {
				return domain.Invalid(fmt.Sprintf("invalid choice for option %s: %s", key, value))
			}
		}
		if len(values) < option.Minimum {
			return domain.Incomplete("too few options")
		}
		if len(values) > option.Maximum {
			return domain.Invalid("too many options")
		}
	}

	for _, name := range menuItem.OptionNames() {
		if v, fired := checkRequirement(item, name, menuItem.Options[name].Required); fired {
			return v
		}
	}

	return domain.Complete("item is valid")
}

func checkRequirement(item domain.OrderItem, name string, req domain.Requirement) (domain.Verdict, bool) {
	dep := req.Dependent
	if dep == nil {
		if req.Always && !slices.Contains(item.OptionKeys, name) {
			return domain.Incomplete(fmt.Sprintf("required option missing %s", name)), true
		}
		return domain.Verdict{}, false
	}

	// A dependency that cannot be evaluated is incomplete rather than invalid.
	idx := slices.Index(item.OptionKeys, dep.Option)
	if idx < 0 {
		return domain.Incomplete(fmt.Sprintf("dependent option missing %s", dep.Option)), true
	}
	if !slices.Contains(item.OptionValues[idx], dep.Value) {
		return domain.Verdict{}, false
	}
	if !slices.Contains(item.OptionKeys, name) {
		return domain.Incomplete(fmt.Sprintf("required option missing %s", name)), true
	}
	return domain.Verdict{}, false
}
