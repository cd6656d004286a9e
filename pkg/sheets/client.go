// Package sheets writes tabular values into a Google Sheets spreadsheet.
package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

type Config struct {
	CredentialsPath string
	CredentialsJSON []byte
	Endpoint        string // optional API endpoint override
}

type Client struct {
	service *sheets.Service
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	var opts []option.ClientOption

	switch {
	case cfg.CredentialsPath != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	case len(cfg.CredentialsJSON) > 0:
		opts = append(opts, option.WithCredentialsJSON(cfg.CredentialsJSON))
	default:
		return nil, fmt.Errorf("sheets: credentials path or JSON is required")
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets: failed to create service: %w", err)
	}

	return &Client{service: service}, nil
}

// NewClientWithService wraps an existing service, e.g. one pointed at a test server
func NewClientWithService(service *sheets.Service) *Client {
	return &Client{service: service}
}

// ReplaceTab clears every cell of tab and writes values starting at A1
func (c *Client) ReplaceTab(ctx context.Context, spreadsheetID, tab string, values [][]any) error {
	if c.service == nil {
		return fmt.Errorf("sheets: service is nil")
	}

	_, err := c.service.Spreadsheets.Values.
		Clear(spreadsheetID, tab, &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets: clear %s: %w", tab, err)
	}

	if len(values) == 0 {
		return nil
	}

	_, err = c.service.Spreadsheets.Values.
		Update(spreadsheetID, tab+"!A1", &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets: update %s: %w", tab, err)
	}
	return nil
}

// AppendRows adds values after the last non-empty row of tab
func (c *Client) AppendRows(ctx context.Context, spreadsheetID, tab string, values [][]any) error {
	if c.service == nil {
		return fmt.Errorf("sheets: service is nil")
	}

	_, err := c.service.Spreadsheets.Values.
		Append(spreadsheetID, tab+"!A1", &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets: append %s: %w", tab, err)
	}
	return nil
}
