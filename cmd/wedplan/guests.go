package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/xRahul/wedding-planner-app-sub001/internal/cli"
	"github.com/xRahul/wedding-planner-app-sub001/internal/planner"
	"github.com/xRahul/wedding-planner-app-sub001/internal/render"
)

var flagDeleteYes bool

var guestsCmd = &cobra.Command{
	Use:   "guests",
	Short: "List and remove guests",
}

var guestsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List guests with their headcount",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		s, err := openSession(context.Background())
		if err != nil {
			return err
		}
		defer s.Close()

		guests := s.planner.Guests().List()
		if len(guests) == 0 {
			fmt.Println("\n  No guests yet.")
			return nil
		}
		rows := make([][]string, 0, len(guests))
		for _, g := range guests {
			rows = append(rows, []string{
				g.ID, g.Name, g.Side, string(g.RSVP), strconv.Itoa(g.Headcount()),
			})
		}
		fmt.Println()
		fmt.Println(render.RenderTable(render.Table{
			Title:   fmt.Sprintf("Guests (%s records)", render.FormatCount(len(guests))),
			Headers: []string{"ID", "Name", "Side", "RSVP", "People"},
			Rows:    rows,
		}))
		return nil
	},
}

var guestsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a guest and their family members",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		s, err := openSession(context.Background(),
			planner.WithConfirmer(cli.Confirmer{AssumeYes: flagDeleteYes}),
			planner.WithUserNotifier(cli.Notifier{Out: os.Stderr}),
		)
		if err != nil {
			return err
		}
		defer s.Close()

		removed, err := s.planner.Guests().Delete(context.Background(), args[0])
		if err != nil {
			return err
		}
		if !removed {
			fmt.Fprintln(os.Stderr, "Kept guest", args[0])
			return nil
		}
		fmt.Fprintln(os.Stderr, "Deleted guest", args[0])
		return nil
	},
}

func init() {
	guestsDeleteCmd.Flags().BoolVarP(&flagDeleteYes, "yes", "y", false, "Do not ask for confirmation")
	guestsCmd.AddCommand(guestsListCmd, guestsDeleteCmd)
	rootCmd.AddCommand(guestsCmd)
}
