package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xRahul/wedding-planner-app-sub001/internal/cli"
	"github.com/xRahul/wedding-planner-app-sub001/internal/core"
	"github.com/xRahul/wedding-planner-app-sub001/internal/planner"
)

var flagYes bool

var exportCmd = &cobra.Command{
	Use:   "export [key]",
	Short: "Write the document, or the value of one key, as JSON to stdout",
	Args:  cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	RunE: func(_ *cobra.Command, args []string) error {
		s, err := openSession(context.Background())
		if err != nil {
			return err
		}
		defer s.Close()

		doc := s.planner.Document()
		var raw []byte
		if len(args) == 1 {
			value, err := doc.Get(core.Key(args[0]))
			if err != nil {
				return err
			}
			raw, err = json.MarshalIndent(value, "", "  ")
			if err != nil {
				return err
			}
		} else if raw, err = core.Encode(doc); err != nil {
			return err
		}
		_, err = os.Stdout.Write(append(raw, '\n'))
		return err
	},
}

func keyNames() []string {
	keys := core.Keys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = string(k)
	}
	return names
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the document with a JSON file",
	Long:  "Replace the whole document. Keys missing from the file are filled with defaults; the required keys must be present.",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		doc, err := core.Decode(raw)
		if err != nil {
			return err
		}

		s, err := openSession(context.Background())
		if err != nil {
			return err
		}
		defer s.Close()

		if _, err := s.planner.Replace(context.Background(), doc); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Imported %s: %d guests, %d vendors, %d tasks\n",
			args[0], len(doc.Guests), len(doc.Vendors), len(doc.Tasks))
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Replace the document with the defaults",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		confirm := cli.Confirmer{AssumeYes: flagYes}
		if !confirm.Confirm("Reset the whole plan to defaults? This cannot be undone.") {
			fmt.Fprintln(os.Stderr, "Reset cancelled")
			return nil
		}
		s, err := openSession(context.Background(), planner.WithUserNotifier(cli.Notifier{Out: os.Stderr}))
		if err != nil {
			return err
		}
		defer s.Close()

		if _, err := s.planner.Reset(context.Background()); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "Document reset to defaults")
		return nil
	},
}

func init() {
	exportCmd.ValidArgs = keyNames()
	resetCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Do not ask for confirmation")
	rootCmd.AddCommand(exportCmd, importCmd, resetCmd)
}
