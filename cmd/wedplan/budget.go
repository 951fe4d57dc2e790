package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xRahul/wedding-planner-app-sub001/internal/cli"
	"github.com/xRahul/wedding-planner-app-sub001/internal/core"
	"github.com/xRahul/wedding-planner-app-sub001/internal/planner"
	"github.com/xRahul/wedding-planner-app-sub001/internal/render"
)

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Manage budget categories",
}

var budgetSetCmd = &cobra.Command{
	Use:   "set <category> <planned> [actual]",
	Short: "Set the planned (and optionally actual) amount of a category",
	Long:  "Set amounts on a budget category, creating it when no category has that name. Amounts accept '.' or ',' as decimal separator.",
	Args:  cobra.RangeArgs(2, 3),
	RunE:  runBudgetSet,
}

func init() {
	budgetCmd.AddCommand(budgetSetCmd)
	rootCmd.AddCommand(budgetCmd)
}

func runBudgetSet(_ *cobra.Command, args []string) error {
	planned, err := core.ParseAmount(args[1])
	if err != nil {
		return fmt.Errorf("planned amount %q: %w", args[1], err)
	}
	actual := -1.0
	if len(args) == 3 {
		if actual, err = core.ParseAmount(args[2]); err != nil {
			return fmt.Errorf("actual amount %q: %w", args[2], err)
		}
	}

	s, err := openSession(context.Background(), planner.WithUserNotifier(cli.Notifier{Out: os.Stderr}))
	if err != nil {
		return err
	}
	defer s.Close()

	ctl := s.planner.Budget()
	cat, ok := ctl.Find(core.Slugify(args[0]))
	if !ok {
		cat = core.BudgetCategory{Subcategories: []string{}}.WithID(args[0])
	}
	cat.Planned = planned
	if actual >= 0 {
		cat.Actual = actual
	}
	ctl.Edit(cat)
	if err := ctl.Save(context.Background(), cat); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "%s: planned %s, actual %s\n",
		cat.Category, render.FormatMoney(cat.Planned), render.FormatMoney(cat.Actual))
	return nil
}
