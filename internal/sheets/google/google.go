// Package google backs the subscription list up to a Google Sheets
// spreadsheet using service account credentials.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"subtracker/internal/core"
	ports "subtracker/internal/sheets"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ ports.BackupWriter = (*Client)(nil)

var backupHeader = []any{
	"Name", "Provider", "Category", "Cost", "Currency", "Billing Cycle",
	"Start Date", "Expiry Date", "Days Left", "Status",
}

// NewClient creates a backup client for one spreadsheet tab. Credentials
// come from GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or
// GOOGLE_APPLICATION_CREDENTIALS.
func NewClient(ctx context.Context, spreadsheetID, sheetName string) (*Client, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// WriteBackup clears the tab and rewrites it from the snapshot.
func (c *Client) WriteBackup(ctx context.Context, snap core.Snapshot) (int, error) {
	if c.svc == nil {
		return 0, errors.New("sheets service not initialized")
	}

	clearRange := fmt.Sprintf("%s!A:Z", c.sheetName)
	_, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("clear sheet %s: %w", c.sheetName, err)
	}

	values := [][]any{backupHeader}
	for _, sub := range snap.Subscriptions {
		values = append(values, backupRow(sub, snap))
	}

	writeRange := fmt.Sprintf("%s!A1", c.sheetName)
	vr := &gsheet.ValueRange{Values: values}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, writeRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("write backup to sheet %s: %w", c.sheetName, err)
	}

	slog.InfoContext(ctx, "Backup written to Google Sheets",
		"spreadsheet_id", c.spreadsheetID,
		"sheet", c.sheetName,
		"rows", len(snap.Subscriptions))
	return len(snap.Subscriptions), nil
}

func backupRow(sub core.Subscription, snap core.Snapshot) []any {
	categoryName := ""
	for _, cat := range snap.Categories {
		if cat.ID == sub.CategoryID {
			categoryName = cat.Name
			break
		}
	}
	startDate := ""
	if !sub.StartDate.IsZero() {
		startDate = sub.StartDate.Format("2006-01-02")
	}
	return []any{
		sub.Name,
		sub.Provider,
		categoryName,
		sub.Cost.String(),
		string(sub.Currency),
		string(sub.BillingCycle),
		startDate,
		sub.ExpiryDate.Format("2006-01-02"),
		core.DaysLeft(sub.ExpiryDate, snap.Now),
		string(core.StatusOf(sub.ExpiryDate, snap.Now)),
	}
}
