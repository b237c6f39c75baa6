package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sachiniyer/order-assistant/internal/catalog"
	"github.com/sachiniyer/order-assistant/internal/domain"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Menu document commands",
}

var menuCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Load a menu, run the consistency check and print a summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")

		menu, err := catalog.LoadFile(path)
		if err != nil {
			return err
		}
		if err := menu.Check(); err != nil {
			return fmt.Errorf("menu %s is inconsistent:\n%w", path, err)
		}

		printMenuSummary(cmd.OutOrStdout(), menu)
		return nil
	},
}

func init() {
	menuCheckCmd.Flags().String("file", catalog.DefaultFile, "menu JSON document")
	menuCmd.AddCommand(menuCheckCmd)
}

func printMenuSummary(w io.Writer, menu *domain.Menu) {
	fmt.Fprintf(w, "%d items\n", len(menu.Items))
	for _, item := range menu.Items {
		fmt.Fprintf(w, "%s (%s)\n", item.Name, item.Type)
		for _, name := range item.OptionNames() {
			opt := item.Options[name]
			fmt.Fprintf(w, "  %s: %s, %d-%d of %d choices\n", name, describeRequirement(opt.Required), opt.Minimum, opt.Maximum, len(opt.Choices))
		}
	}
}

func describeRequirement(r domain.Requirement) string {
	switch {
	case r.Dependent != nil:
		return fmt.Sprintf("required when %s=%s", r.Dependent.Option, r.Dependent.Value)
	case r.Always:
		return "required"
	default:
		return "optional"
	}
}
