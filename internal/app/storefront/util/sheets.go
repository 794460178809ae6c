package util

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsClient читает таблицу-источник каталога через Google Sheets API
// Читается всегда первый лист целиком, диапазон A:Z
type SheetsClient struct {
	service       *sheets.Service
	spreadsheetID string
}

// NewSheetsClient создает клиент с readonly-доступом по service account JSON
// Содержимое credentials передается env переменной целиком
func NewSheetsClient(ctx context.Context, spreadsheetID, credentialsJSON string) (*SheetsClient, error) {
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SHEETS_SPREADSHEET_ID")
	}
	if credentialsJSON == "" {
		return nil, errors.New("missing GOOGLE_CREDENTIALS_JSON")
	}

	service, err := sheets.NewService(ctx,
		option.WithCredentialsJSON([]byte(credentialsJSON)),
		option.WithScopes(sheets.SpreadsheetsReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &SheetsClient{
		service:       service,
		spreadsheetID: spreadsheetID,
	}, nil
}

// ReadGrid читает все строки первого листа как грид строк
// Первая строка грида - заголовки колонок
func (c *SheetsClient) ReadGrid(ctx context.Context) ([][]string, error) {
	meta, err := c.service.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet metadata: %w", err)
	}

	if len(meta.Sheets) == 0 || meta.Sheets[0].Properties == nil {
		return nil, errors.New("spreadsheet has no sheets")
	}
	sheetName := meta.Sheets[0].Properties.Title

	resp, err := c.service.Spreadsheets.Values.
		Get(c.spreadsheetID, fmt.Sprintf("%s!A:Z", sheetName)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet values: %w", err)
	}

	grid := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		cells := make([]string, 0, len(row))
		for _, cell := range row {
			cells = append(cells, fmt.Sprintf("%v", cell))
		}
		grid = append(grid, cells)
	}

	return grid, nil
}
