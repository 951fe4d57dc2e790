package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xRahul/wedding-planner-app-sub001/internal/planner"
	"github.com/xRahul/wedding-planner-app-sub001/internal/render"
)

var summaryViews = map[string]func(*planner.Planner) string{
	"budget":   func(p *planner.Planner) string { return render.Budget(p.BudgetReport()) },
	"gifts":    func(p *planner.Planner) string { return render.Gifts(p.GiftSummary()) },
	"shopping": func(p *planner.Planner) string { return render.Shopping(p.ShoppingSummary()) },
	"guests":   func(p *planner.Planner) string { return render.Guests(p.GuestSummary()) },
	"tasks":    func(p *planner.Planner) string { return render.Tasks(p.TaskSummary()) },
	"vendors":  func(p *planner.Planner) string { return render.Vendors(p.VendorSummary()) },
	"menus":    func(p *planner.Planner) string { return render.Menus(p.MenusSummary()) },
	"timeline": func(p *planner.Planner) string { return render.Schedule(p.Schedule()) },
}

var summaryOrder = []string{"budget", "guests", "vendors", "tasks", "menus", "shopping", "gifts", "timeline"}

var summaryCmd = &cobra.Command{
	Use:       "summary [" + strings.Join(summaryOrder, "|") + "]",
	Short:     "Print planning summaries",
	Long:      "Print one summary, or all of them when no view is named.",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: summaryOrder,
	RunE:      runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, args []string) error {
	s, err := openSession(context.Background())
	if err != nil {
		return err
	}
	defer s.Close()

	views := summaryOrder
	if len(args) == 1 {
		views = args
	}
	for _, v := range views {
		fmt.Println()
		fmt.Println(summaryViews[v](s.planner))
	}
	return nil
}
