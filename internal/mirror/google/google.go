// Package google mirrors budget and guest reports into a Google Sheets
// spreadsheet.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"github.com/xRahul/wedding-planner-app-sub001/internal/aggregate"
	"github.com/xRahul/wedding-planner-app-sub001/internal/core"
	"github.com/xRahul/wedding-planner-app-sub001/internal/mirror"
)

// Config names the spreadsheet and its tabs. Sheet names are prefixed with
// the wedding year unless they already start with one.
type Config struct {
	SpreadsheetID   string
	BudgetSheet     string
	GuestsSheet     string
	CredentialsJSON string
	CredentialsFile string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	budgetSheet   string
	guestsSheet   string

	mu           sync.Mutex
	lastRevision uint64
}

var _ mirror.Mirror = (*Client)(nil)

func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	if cfg.BudgetSheet == "" {
		cfg.BudgetSheet = "Budget"
	}
	if cfg.GuestsSheet == "" {
		cfg.GuestsSheet = "Guests"
	}

	svc, err := newSheetsService(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Client{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		budgetSheet:   cfg.BudgetSheet,
		guestsSheet:   cfg.GuestsSheet,
	}, nil
}

// newSheetsService uses service account credentials from cfg, falling back
// to GOOGLE_APPLICATION_CREDENTIALS.
func newSheetsService(ctx context.Context, cfg Config) (*gsheet.Service, error) {
	credentialsFile := strings.TrimSpace(cfg.CredentialsFile)
	if cfg.CredentialsJSON == "" && credentialsFile == "" {
		credentialsFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case cfg.CredentialsJSON != "":
		credentialsJSON = []byte(cfg.CredentialsJSON)
	case credentialsFile != "":
		b, err := os.ReadFile(credentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	slog.InfoContext(ctx, "Creating Google Sheets service with Service Account",
		"credentials_size", len(credentialsJSON),
		"scope", gsheet.SpreadsheetsScope)

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

func (c *Client) Name() string { return "sheets" }

// Push rewrites the budget and guest tabs. Revisions at or below the last
// one pushed by this client are skipped.
func (c *Client) Push(ctx context.Context, snap mirror.Snapshot) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if snap.Revision <= c.lastRevision {
		slog.DebugContext(ctx, "Sheets mirror already has revision", "revision", snap.Revision, "last", c.lastRevision)
		return nil
	}

	year := weddingYear(snap.Document, snap.TakenAt)
	tabs := []struct {
		sheet string
		rows  [][]any
	}{
		{yearPrefixedName(c.budgetSheet, year), budgetRows(snap.Budget, snap.Revision)},
		{yearPrefixedName(c.guestsSheet, year), guestRows(snap.Document)},
	}

	ranges := make([]string, 0, len(tabs))
	data := make([]*gsheet.ValueRange, 0, len(tabs))
	for _, tab := range tabs {
		ranges = append(ranges, fmt.Sprintf("%s!A:Z", tab.sheet))
		data = append(data, &gsheet.ValueRange{
			Range:  fmt.Sprintf("%s!A1", tab.sheet),
			Values: tab.rows,
		})
	}

	_, err := c.svc.Spreadsheets.Values.BatchClear(c.spreadsheetID, &gsheet.BatchClearValuesRequest{Ranges: ranges}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear sheets %v: %w", ranges, err)
	}

	_, err = c.svc.Spreadsheets.Values.BatchUpdate(c.spreadsheetID, &gsheet.BatchUpdateValuesRequest{
		ValueInputOption: "USER_ENTERED",
		Data:             data,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update sheets for revision %d: %w", snap.Revision, err)
	}

	c.lastRevision = snap.Revision
	return nil
}

var budgetHeader = []any{"Category", "Planned", "Manual actual", "Linked expected", "Linked actual", "Effective actual", "Remaining", "% of total"}

// budgetRows lays out the budget report: header, one row per category,
// a totals row and the per-side rows.
func budgetRows(r aggregate.BudgetReport, rev uint64) [][]any {
	rows := make([][]any, 0, len(r.Categories)+6)
	rows = append(rows, budgetHeader)
	for _, c := range r.Categories {
		rows = append(rows, []any{c.Category, c.Planned, c.Actual, c.LinkedExpected, c.LinkedActual, c.EffectiveActual, c.Remaining, c.Percent})
	}
	rows = append(rows,
		[]any{"Total", r.TotalPlanned, r.TotalManualActual, r.TotalLinkedExpected, r.TotalLinkedActual, r.TotalActual, r.Remaining, r.Percent},
		[]any{},
		[]any{"Side", "Budget", "Expected", "Actual", "Remaining", "% used"},
		[]any{"Bride", r.Bride.Budget, r.Bride.Expected, r.Bride.Actual, r.Bride.Remaining, r.Bride.Percent},
		[]any{"Groom", r.Groom.Budget, r.Groom.Expected, r.Groom.Actual, r.Groom.Remaining, r.Groom.Percent},
		[]any{"Revision", strconv.FormatUint(rev, 10)},
	)
	return rows
}

var guestHeader = []any{"Name", "Side", "RSVP", "Dietary", "Family of", "Accommodation", "Pickup"}

// guestRows lists every attendee, family members expanded under their head.
func guestRows(doc core.Document) [][]any {
	rows := [][]any{guestHeader}
	for _, g := range doc.Guests {
		for i, a := range aggregate.Expand(g) {
			head := ""
			if i > 0 {
				head = g.Name
			}
			rows = append(rows, []any{a.Name, a.Side, string(a.RSVP), a.Dietary, head, yesNo(a.Accommodation), yesNo(a.PickupRequired)})
		}
	}
	return rows
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// weddingYear is the year of the wedding date, or of now when unset.
func weddingYear(doc core.Document, now time.Time) int {
	if doc.WeddingInfo != nil {
		if t, err := time.Parse(time.DateOnly, doc.WeddingInfo.Date); err == nil {
			return t.Year()
		}
	}
	return now.Year()
}

// yearPrefixedName returns "<year> <base>" unless base already starts with a 4-digit year.
func yearPrefixedName(base string, year int) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return base
	}
	if len(base) >= 5 {
		if y, err := strconv.Atoi(base[0:4]); err == nil && base[4] == ' ' && y > 1900 && y < 3000 {
			return base
		}
	}
	return fmt.Sprintf("%d %s", year, base)
}
