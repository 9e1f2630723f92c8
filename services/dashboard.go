package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"github.com/PMark-est/catshelp/google"
)

// Sheet column headers the dashboard reads.
const (
	colFosterHome = "_HOIUKODU/ KLIINIKU NIMI"
	colCatName    = "KASSI NIMI"
	colPhoto      = "PILT"
)

// file id segment of a Drive share URL (.../d/<id>/view)
var driveLinkPattern = regexp.MustCompile(`/d/([^/]+)/`)

// ErrNoFosterHomeMatch is returned when no row matches the configured
// foster home.
var ErrNoFosterHomeMatch = errors.New("no row matches the foster home")

// GridReader fetches a spreadsheet range with per-cell metadata.
type GridReader interface {
	Grid(ctx context.Context, spreadsheetID string, ranges []string) (*google.Spreadsheet, error)
}

// MediaFetcher streams a stored file's content by id.
type MediaFetcher interface {
	Download(ctx context.Context, fileID string) (io.ReadCloser, error)
}

// DashboardCat is the dashboard payload for one foster animal.
type DashboardCat struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// DashboardService reads the foster home sheet and stages the matched
// cat's photo under the public directory.
type DashboardService struct {
	sheets        GridReader
	drive         MediaFetcher
	spreadsheetID string
	sheetRange    string
	fosterHome    string
	publicDir     string
}

func NewDashboardService(sheets GridReader, drive MediaFetcher, spreadsheetID, sheetRange, fosterHome, publicDir string) *DashboardService {
	return &DashboardService{
		sheets:        sheets,
		drive:         drive,
		spreadsheetID: spreadsheetID,
		sheetRange:    sheetRange,
		fosterHome:    fosterHome,
		publicDir:     publicDir,
	}
}

// FosterHomeCat scans every data row, keeps the last one whose foster
// home column matches the configured name, downloads the photo linked
// in its PILT cell and writes it to <publicDir>/<name>.png.
func (s *DashboardService) FosterHomeCat(ctx context.Context) (*DashboardCat, error) {
	sheet, err := s.sheets.Grid(ctx, s.spreadsheetID, []string{s.sheetRange})
	if err != nil {
		return nil, err
	}
	if len(sheet.Sheets) == 0 || len(sheet.Sheets[0].Data) == 0 {
		return nil, fmt.Errorf("range %s: no grid data", s.sheetRange)
	}

	grids := sheet.Sheets[0].Data
	if len(grids[0].RowData) == 0 {
		return nil, fmt.Errorf("range %s: missing header row", s.sheetRange)
	}

	columns := map[string]int{}
	for idx, cell := range grids[0].RowData[0].Values {
		if cell.FormattedValue == "" {
			continue
		}
		columns[cell.FormattedValue] = idx
	}

	fosterIdx, ok := columns[colFosterHome]
	if !ok {
		return nil, fmt.Errorf("range %s: missing column %q", s.sheetRange, colFosterHome)
	}

	// Every row is visited; the last match wins.
	var match *google.RowData
	for _, grid := range grids {
		for i := range grid.RowData {
			row := &grid.RowData[i]
			if fosterIdx >= len(row.Values) {
				continue
			}
			if row.Values[fosterIdx].FormattedValue != s.fosterHome {
				continue
			}
			match = row
		}
	}
	if match == nil {
		return nil, ErrNoFosterHomeMatch
	}

	name := cellValue(match, columns, colCatName)
	if name == "" {
		return nil, fmt.Errorf("matched row has no %q cell", colCatName)
	}

	link := cellHyperlink(match, columns, colPhoto)
	m := driveLinkPattern.FindStringSubmatch(link)
	if m == nil {
		return nil, fmt.Errorf("cell %q holds no drive link: %q", colPhoto, link)
	}

	if err := s.saveImage(ctx, m[1], name+".png"); err != nil {
		return nil, err
	}

	return &DashboardCat{Name: name, Image: name + ".png"}, nil
}

func (s *DashboardService) saveImage(ctx context.Context, fileID, filename string) error {
	stream, err := s.drive.Download(ctx, fileID)
	if err != nil {
		return err
	}
	defer stream.Close()

	if err := os.MkdirAll(s.publicDir, 0o755); err != nil {
		return err
	}
	dst, err := os.Create(filepath.Join(s.publicDir, filename))
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, stream); err != nil {
		return fmt.Errorf("save image %s: %w", filename, err)
	}
	return nil
}

func cellValue(row *google.RowData, columns map[string]int, col string) string {
	idx, ok := columns[col]
	if !ok || idx >= len(row.Values) {
		return ""
	}
	return row.Values[idx].FormattedValue
}

func cellHyperlink(row *google.RowData, columns map[string]int, col string) string {
	idx, ok := columns[col]
	if !ok || idx >= len(row.Values) {
		return ""
	}
	return row.Values[idx].Hyperlink
}
