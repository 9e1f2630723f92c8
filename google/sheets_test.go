package google

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSheetsGridRequestAndDecode(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"sheets":[{"data":[{"rowData":[
			{"values":[{"formattedValue":"KASSI NIMI"}]},
			{"values":[{"formattedValue":"Miisu","hyperlink":"https://drive.google.com/file/d/abc/view"}]}
		]}]}]}`)
	}))
	defer srv.Close()

	c := NewSheetsClient(srv.Client(), "test-key")
	c.SetBaseURL(srv.URL)

	sheet, err := c.Grid(context.Background(), "sheet-1", []string{"HOIUKODUDES"})
	require.NoError(t, err)

	assert.Equal(t, "/v4/spreadsheets/sheet-1", gotPath)
	assert.Equal(t, []string{"HOIUKODUDES"}, gotQuery["ranges"])
	assert.Equal(t, []string{"true"}, gotQuery["includeGridData"])
	assert.Equal(t, []string{"test-key"}, gotQuery["key"])

	require.Len(t, sheet.Sheets, 1)
	rows := sheet.Sheets[0].Data[0].RowData
	require.Len(t, rows, 2)
	assert.Equal(t, "Miisu", rows[1].Values[0].FormattedValue)
	assert.Equal(t, "https://drive.google.com/file/d/abc/view", rows[1].Values[0].Hyperlink)
}

func TestSheetsGridOmitsEmptyAPIKey(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		io.WriteString(w, `{"sheets":[]}`)
	}))
	defer srv.Close()

	c := NewSheetsClient(srv.Client(), "")
	c.SetBaseURL(srv.URL)

	_, err := c.Grid(context.Background(), "sheet-1", []string{"HOIUKODUDES"})
	require.NoError(t, err)
	_, hasKey := gotQuery["key"]
	assert.False(t, hasKey)
}

func TestSheetsAppendSendsRawRow(t *testing.T) {
	var gotPath, gotQuery, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	c := NewSheetsClient(srv.Client(), "")
	c.SetBaseURL(srv.URL)

	err := c.Append(context.Background(), "sheet-1", "HOIUKODUDES", []any{uint(7), "Miisu", "2024-12-01"})
	require.NoError(t, err)

	assert.Equal(t, "/v4/spreadsheets/sheet-1/values/HOIUKODUDES:append", gotPath)
	assert.Contains(t, gotQuery, "valueInputOption=RAW")

	var payload struct {
		Values [][]any `json:"values"`
	}
	require.NoError(t, json.Unmarshal([]byte(gotBody), &payload))
	require.Len(t, payload.Values, 1)
	assert.Equal(t, []any{float64(7), "Miisu", "2024-12-01"}, payload.Values[0])
}

func TestSheetsErrorsCarryStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, `{"error":{"message":"quota exceeded"}}`)
	}))
	defer srv.Close()

	c := NewSheetsClient(srv.Client(), "")
	c.SetBaseURL(srv.URL)

	_, err := c.Grid(context.Background(), "sheet-1", []string{"HOIUKODUDES"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
	assert.Contains(t, err.Error(), "quota exceeded")

	err = c.Append(context.Background(), "sheet-1", "HOIUKODUDES", []any{"x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sheets append")
}
