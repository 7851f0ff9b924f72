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

	"chama/internal/report"
)

const defaultSheetName = "Contributions"

// Config selects the target spreadsheet and the service account used to
// reach it. Credentials are taken from CredentialsJSON, then CredentialsFile.
type Config struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
}

// valuesAPI is the subset of the Sheets values resource the exporter uses.
type valuesAPI interface {
	Clear(ctx context.Context, spreadsheetID, rng string) error
	Update(ctx context.Context, spreadsheetID, rng string, values [][]any) error
}

// Client writes contribution reports to one sheet of a spreadsheet,
// replacing the previous report.
type Client struct {
	values        valuesAPI
	spreadsheetID string
	sheetName     string
}

// New creates a client backed by the Google Sheets API.
func New(ctx context.Context, cfg Config) (*Client, error) {
	spreadsheetID := strings.TrimSpace(cfg.SpreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	svc, err := newSheetsService(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return newClient(sheetsValues{svc: svc}, spreadsheetID, cfg.SheetName), nil
}

func newClient(values valuesAPI, spreadsheetID, sheetName string) *Client {
	sheetName = strings.TrimSpace(sheetName)
	if sheetName == "" {
		sheetName = defaultSheetName
	}
	return &Client{values: values, spreadsheetID: spreadsheetID, sheetName: sheetName}
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
func newSheetsService(ctx context.Context, cfg Config) (*gsheet.Service, error) {
	credentialsJSON, err := loadCredentials(cfg)
	if err != nil {
		return nil, err
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

func loadCredentials(cfg Config) ([]byte, error) {
	inline := strings.TrimSpace(cfg.CredentialsJSON)
	file := strings.TrimSpace(cfg.CredentialsFile)
	switch {
	case inline != "":
		return []byte(inline), nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return data, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
	}
}

// Export clears the report sheet and writes r starting at A1.
func (c *Client) Export(ctx context.Context, r report.Report) (string, error) {
	if c.values == nil {
		return "", errors.New("sheets service not initialized")
	}

	values := toValues(r)
	clearRange := fmt.Sprintf("%s!A:F", quoteSheet(c.sheetName))
	if err := c.values.Clear(ctx, c.spreadsheetID, clearRange); err != nil {
		return "", fmt.Errorf("clear %s: %w", clearRange, err)
	}

	ref := fmt.Sprintf("%s!A1:F%d", quoteSheet(c.sheetName), len(values))
	if err := c.values.Update(ctx, c.spreadsheetID, ref, values); err != nil {
		return "", fmt.Errorf("update %s: %w", ref, err)
	}

	slog.InfoContext(ctx, "Report exported to Google Sheets",
		"sheet", c.sheetName,
		"rows", len(r.Members),
		"ref", ref)
	return ref, nil
}

func toValues(r report.Report) [][]any {
	rows := make([][]any, 0, len(r.Members)+10)
	rows = append(rows, toAny(report.Header()))
	for _, row := range r.Rows() {
		rows = append(rows, toAny(row))
	}
	rows = append(rows, []any{})
	for _, row := range r.Totals() {
		rows = append(rows, toAny(row))
	}
	return rows
}

func toAny(in []string) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

// quoteSheet wraps names containing spaces or quotes in A1 notation quotes.
func quoteSheet(name string) string {
	if !strings.ContainsAny(name, " '!") {
		return name
	}
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

type sheetsValues struct {
	svc *gsheet.Service
}

func (v sheetsValues) Clear(ctx context.Context, spreadsheetID, rng string) error {
	_, err := v.svc.Spreadsheets.Values.Clear(spreadsheetID, rng, &gsheet.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

func (v sheetsValues) Update(ctx context.Context, spreadsheetID, rng string, values [][]any) error {
	_, err := v.svc.Spreadsheets.Values.Update(spreadsheetID, rng, &gsheet.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	return err
}
