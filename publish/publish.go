// Package publish stores a rendered PDF next to its source document and
// returns a locator for it.
package publish

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/uhppoted/uhppoted-app-sheets-pdf/types"
)

const MimeType = "application/pdf"

// Publisher persists exactly one PDF. Either a complete artifact exists when
// Publish returns nil or nothing was created.
type Publisher interface {
	Publish(ctx context.Context, pdf []byte, doc *types.SourceDocument, credential types.Credential, generated time.Time) (*types.Artifact, error)
}

var unsafe = regexp.MustCompile(`[\x00-\x1f/\\:*?"<>|]+`)
var spaces = regexp.MustCompile(`\s+`)

// ArtifactName returns '<name> - <yyyy-mm-dd HHMM>.pdf' (UTC). Characters that are
// unsafe in file names are replaced with a space.
func ArtifactName(name string, generated time.Time) string {
	s := unsafe.ReplaceAllString(name, " ")
	s = strings.TrimSpace(spaces.ReplaceAllString(s, " "))
	s = strings.Trim(s, ".")

	if s == "" {
		s = "Report"
	}

	return s + " - " + generated.UTC().Format("2006-01-02 1504") + ".pdf"
}
