// Package google implements the spreadsheet mirror on Google Sheets using a
// service account.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"finbook/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// NewFromEnv builds a client with service account credentials resolved from
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context, spreadsheetID, sheetName string) (*Client, error) {
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	if sheetName == "" {
		return nil, errors.New("missing sheet name")
	}

	credentialsJSON, err := resolveCredentials()
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

func resolveCredentials() ([]byte, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case serviceAccountJSON != "":
		return []byte(serviceAccountJSON), nil
	case serviceAccountFile != "":
		credentialsJSON, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return credentialsJSON, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

// Append adds the record as a new row. Columns: ID, UserID, Date, Type,
// Category, Amount, Description.
func (c *Client) Append(ctx context.Context, rec sheets.Record) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	amount := float64(rec.AmountCents) / 100.0
	vr := &gsheet.ValueRange{Values: [][]any{{
		rec.ID, rec.UserID, rec.Date, rec.Type, rec.Category, amount, rec.Description,
	}}}

	rng := fmt.Sprintf("%s!A:G", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet %s: %w", c.sheetName, err)
	}

	ref := ""
	if resp.Updates != nil {
		ref = resp.Updates.UpdatedRange
	}
	slog.InfoContext(ctx, "Appended transaction row to sheet",
		"id", rec.ID,
		"sheets_ref", ref)
	return ref, nil
}

// Remove deletes the row whose first column equals the transaction ID.
// Missing rows are not an error; the mirror may simply never have seen it.
func (c *Client) Remove(ctx context.Context, id int64) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A:A", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read sheet %s: %w", c.sheetName, err)
	}

	rowIndex := -1
	want := strconv.FormatInt(id, 10)
	for i, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		if fmt.Sprintf("%v", row[0]) == want {
			rowIndex = i
			break
		}
	}
	if rowIndex < 0 {
		slog.WarnContext(ctx, "Transaction row not found in sheet, nothing to remove", "id", id)
		return nil
	}

	sheetID, err := c.sheetID(ctx)
	if err != nil {
		return err
	}

	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			DeleteDimension: &gsheet.DeleteDimensionRequest{
				Range: &gsheet.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(rowIndex),
					EndIndex:   int64(rowIndex + 1),
				},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete row from sheet %s: %w", c.sheetName, err)
	}

	slog.InfoContext(ctx, "Removed transaction row from sheet", "id", id, "row", rowIndex+1)
	return nil
}

func (c *Client) sheetID(ctx context.Context) (int64, error) {
	meta, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("get spreadsheet metadata: %w", err)
	}
	for _, s := range meta.Sheets {
		if s.Properties != nil && s.Properties.Title == c.sheetName {
			return s.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("sheet %q not found in spreadsheet", c.sheetName)
}
