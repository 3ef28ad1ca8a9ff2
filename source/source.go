// Package source retrieves the cell values of every tab of a spreadsheet.
package source

import (
	"context"

	"github.com/uhppoted/uhppoted-app-sheets-pdf/types"
)

// Fetcher retrieves a complete document with the caller's credential. The
// credential is passed through to the data service, fetchers hold no
// credentials of their own.
type Fetcher interface {
	FetchAll(ctx context.Context, sourceID string, credential types.Credential) (*types.SourceDocument, error)
}
