package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

type Menu struct {
	Items []MenuItem `json:"items"`
}

type MenuItem struct {
	Name        string                  `json:"itemName"`
	Type        string                  `json:"itemType"`
	Description string                  `json:"description"`
	Options     map[string]OptionConfig `json:"options"`
}

type OptionConfig struct {
	Required Requirement       `json:"required"`
	Minimum  int               `json:"minimum"`
	Maximum  int               `json:"maximum"`
	Choices  map[string]Choice `json:"choices"`
}

type Choice struct {
	Price float64 `json:"price"`
}

// Requirement is either an unconditional flag or a dependency on the value
// selected for another option of the same item. It is written in menu
// documents as `true`/`false` or as {"option": "...", "value": "..."}.
type Requirement struct {
	Always    bool
	Dependent *Dependency
}

type Dependency struct {
	Option string `json:"option"`
	Value  string `json:"value"`
}

func Required() Requirement { return Requirement{Always: true} }

func Optional() Requirement { return Requirement{} }

func DependentOn(option, value string) Requirement {
	return Requirement{Dependent: &Dependency{Option: option, Value: value}}
}

func (r Requirement) MarshalJSON() ([]byte, error) {
	if r.Dependent != nil {
		return json.Marshal(r.Dependent)
	}
	return json.Marshal(r.Always)
}

func (r *Requirement) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = Requirement{}
		return nil
	}

	if data[0] == '{' {
		var dep Dependency
		if err := json.Unmarshal(data, &dep); err != nil {
			return fmt.Errorf("invalid dependent requirement: %w", err)
		}
		if dep.Option == "" {
			return errors.New("dependent requirement is missing option")
		}
		*r = Requirement{Dependent: &dep}
		return nil
	}

	var always bool
	if err := json.Unmarshal(data, &always); err != nil {
		return fmt.Errorf("requirement must be a bool or an object: %w", err)
	}
	*r = Requirement{Always: always}
	return nil
}

// Find looks an item up by exact name.
func (m *Menu) Find(name string) (*MenuItem, bool) {
	if m == nil {
		return nil, false
	}
	for i := range m.Items {
		if m.Items[i].Name == name {
			return &m.Items[i], true
		}
	}
	return nil, false
}

// OptionNames returns the item's option names in a stable order.
func (i *MenuItem) OptionNames() []string {
	names := make([]string, 0, len(i.Options))
	for name := range i.Options {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Check reports catalog documents that the validation rules cannot evaluate
// sensibly: duplicate item names, inverted or negative bounds and
// dependencies on options the item does not have.
func (m *Menu) Check() error {
	if m == nil {
		return errors.New("menu is nil")
	}

	seen := make(map[string]struct{}, len(m.Items))
	var errs []error
	for _, item := range m.Items {
		if item.Name == "" {
			errs = append(errs, errors.New("menu item without a name"))
			continue
		}
		if _, dup := seen[item.Name]; dup {
			errs = append(errs, fmt.Errorf("duplicate menu item %q", item.Name))
		}
		seen[item.Name] = struct{}{}

		for _, name := range item.OptionNames() {
			opt := item.Options[name]
			if opt.Minimum < 0 || opt.Maximum < 0 {
				errs = append(errs, fmt.Errorf("%s/%s: negative selection bound", item.Name, name))
			}
			if opt.Minimum > opt.Maximum {
				errs = append(errs, fmt.Errorf("%s/%s: minimum %d exceeds maximum %d", item.Name, name, opt.Minimum, opt.Maximum))
			}
			for choice, c := range opt.Choices {
				if c.Price < 0 {
					errs = append(errs, fmt.Errorf("%s/%s/%s: negative price", item.Name, name, choice))
				}
			}
			if dep := opt.Required.Dependent; dep != nil {
				if _, ok := item.Options[dep.Option]; !ok {
					errs = append(errs, fmt.Errorf("%s/%s: depends on unknown option %q", item.Name, name, dep.Option))
				}
			}
		}
	}

	return errors.Join(errs...)
}
