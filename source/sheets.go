package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/uhppoted/uhppoted-app-sheets-pdf/log"
	"github.com/uhppoted/uhppoted-app-sheets-pdf/types"
)

// Sheets fetches a Google Sheets spreadsheet with one metadata call and one
// batched values call covering every tab.
type Sheets struct {
	options []option.ClientOption
}

func NewSheets(options ...option.ClientOption) *Sheets {
	return &Sheets{
		options: options,
	}
}

func (s *Sheets) FetchAll(ctx context.Context, sourceID string, credential types.Credential) (*types.SourceDocument, error) {
	id := strings.TrimSpace(sourceID)
	if id == "" {
		return nil, fmt.Errorf("%w: missing spreadsheet ID", types.ErrNotFound)
	}

	google, err := s.service(ctx, credential)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to create new Sheets client (%v)", types.ErrUpstream, err)
	}

	spreadsheet, err := google.Spreadsheets.Get(id).
		Fields("spreadsheetId", "properties.title", "sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return nil, classify(err, id)
	}

	titles := []string{}
	ranges := []string{}
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil {
			titles = append(titles, sheet.Properties.Title)
			ranges = append(ranges, quote(sheet.Properties.Title))
		}
	}

	doc := types.SourceDocument{
		ID:   id,
		Tabs: []types.Tab{},
	}

	if spreadsheet.Properties != nil {
		doc.Name = spreadsheet.Properties.Title
	}

	if len(ranges) == 0 {
		return &doc, nil
	}

	log.Debugf("source", "spreadsheet %v: fetching %v tabs", id, len(ranges))

	response, err := google.Spreadsheets.Values.BatchGet(id).
		Ranges(ranges...).
		MajorDimension("ROWS").
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, classify(err, id)
	}

	if len(response.ValueRanges) != len(ranges) {
		return nil, fmt.Errorf("%w: requested %v ranges, received %v", types.ErrUpstream, len(ranges), len(response.ValueRanges))
	}

	for i, vr := range response.ValueRanges {
		doc.Tabs = append(doc.Tabs, makeTab(titles[i], vr))
	}

	return &doc, nil
}

func (s *Sheets) service(ctx context.Context, credential types.Credential) (*sheets.Service, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: string(credential),
		TokenType:   "Bearer",
	})

	options := append([]option.ClientOption{option.WithTokenSource(ts)}, s.options...)

	return sheets.NewService(ctx, options...)
}

func makeTab(title string, data *sheets.ValueRange) types.Tab {
	tab := types.Tab{
		Name: title,
		Rows: [][]types.Cell{},
	}

	if data == nil {
		return tab
	}

	for _, values := range data.Values {
		row := make([]types.Cell, len(values))
		for i, v := range values {
			row[i] = types.MakeCell(v)
		}

		tab.Rows = append(tab.Rows, row)
	}

	return tab
}

// quote returns the A1 notation for an entire sheet, e.g. 'Class Data'.
func quote(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

func classify(err error, id string) error {
	var e *googleapi.Error
	if errors.As(err, &e) {
		switch e.Code {
		case http.StatusNotFound:
			return fmt.Errorf("%w: spreadsheet %v", types.ErrNotFound, id)

		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: no read access to spreadsheet %v (%v)", types.ErrAccessDenied, id, e.Message)
		}
	}

	return fmt.Errorf("%w: unable to retrieve data from spreadsheet %v (%w)", types.ErrUpstream, id, err)
}
