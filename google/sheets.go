package google

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const sheetsBaseURL = "https://sheets.googleapis.com"

// SheetsClient wraps the two spreadsheet operations the app needs:
// reading a named range with cell metadata and appending a row.
type SheetsClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewSheetsClient creates a client over an authenticated HTTP client.
func NewSheetsClient(hc *http.Client, apiKey string) *SheetsClient {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &SheetsClient{httpClient: hc, baseURL: sheetsBaseURL, apiKey: apiKey}
}

// SetBaseURL redirects API calls, used by tests.
func (c *SheetsClient) SetBaseURL(u string) {
	c.baseURL = u
}

// Spreadsheet is the subset of the spreadsheets.get response the app
// reads when includeGridData is set.
type Spreadsheet struct {
	Sheets []Sheet `json:"sheets"`
}

type Sheet struct {
	Data []GridData `json:"data"`
}

type GridData struct {
	RowData []RowData `json:"rowData"`
}

type RowData struct {
	Values []CellData `json:"values"`
}

type CellData struct {
	FormattedValue string `json:"formattedValue"`
	Hyperlink      string `json:"hyperlink"`
}

// Grid fetches the given ranges with per-cell metadata.
func (c *SheetsClient) Grid(ctx context.Context, spreadsheetID string, ranges []string) (*Spreadsheet, error) {
	u, err := url.Parse(c.baseURL + "/v4/spreadsheets/" + url.PathEscape(spreadsheetID))
	if err != nil {
		return nil, err
	}
	q := u.Query()
	for _, r := range ranges {
		q.Add("ranges", r)
	}
	q.Set("includeGridData", "true")
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sheets get: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, apiError("sheets get", resp)
	}

	var sheet Spreadsheet
	if err := json.NewDecoder(resp.Body).Decode(&sheet); err != nil {
		return nil, fmt.Errorf("sheets get: decode: %w", err)
	}
	return &sheet, nil
}

// Append appends one row of raw values to the named range.
func (c *SheetsClient) Append(ctx context.Context, spreadsheetID, rng string, values []any) error {
	body, err := json.Marshal(map[string]any{"values": [][]any{values}})
	if err != nil {
		return err
	}

	u := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s:append?valueInputOption=RAW",
		c.baseURL, url.PathEscape(spreadsheetID), url.PathEscape(rng))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sheets append: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return apiError("sheets append", resp)
	}
	return nil
}

// apiError surfaces the response body of a failed Google API call.
func apiError(op string, resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	return fmt.Errorf("%s: status %d: %s", op, resp.StatusCode, bytes.TrimSpace(b))
}
