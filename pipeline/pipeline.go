// Package pipeline runs a single export request: validate the caller, fetch
// the spreadsheet, render the PDF and publish it.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uhppoted/uhppoted-app-sheets-pdf/layout"
	"github.com/uhppoted/uhppoted-app-sheets-pdf/log"
	"github.com/uhppoted/uhppoted-app-sheets-pdf/metrics"
	"github.com/uhppoted/uhppoted-app-sheets-pdf/publish"
	"github.com/uhppoted/uhppoted-app-sheets-pdf/render"
	"github.com/uhppoted/uhppoted-app-sheets-pdf/source"
	"github.com/uhppoted/uhppoted-app-sheets-pdf/types"
)

type Validator interface {
	Validate(ctx context.Context, credential types.Credential) (types.Identity, error)
}

type Request struct {
	SourceID   string
	SourceName string
	Credential types.Credential
}

type Pipeline struct {
	validator Validator
	fetcher   source.Fetcher
	publisher publish.Publisher
	geometry  layout.Geometry
	font      string
	now       func() time.Time
}

func New(validator Validator, fetcher source.Fetcher, publisher publish.Publisher, geometry layout.Geometry, font string) *Pipeline {
	return &Pipeline{
		validator: validator,
		fetcher:   fetcher,
		publisher: publisher,
		geometry:  geometry,
		font:      font,
		now:       time.Now,
	}
}

// Run executes the steps strictly in order. A failed step ends the request and
// nothing after it runs, so an unauthorised caller never reaches the data
// service and a failed render never reaches storage.
func (p *Pipeline) Run(ctx context.Context, rq Request) (artifact *types.Artifact, err error) {
	defer func() {
		metrics.CaptureResult(Result(artifact, err))
	}()

	generated := p.now()

	// ... validate
	var identity types.Identity
	err = step(ctx, "validate", func() (e error) {
		identity, e = p.validator.Validate(ctx, rq.Credential)
		return
	})
	if err != nil {
		return nil, err
	}

	log.Infof("pipeline", "%v: export requested for %v", identity.Email, rq.SourceID)

	// ... fetch
	var doc *types.SourceDocument
	err = step(ctx, "fetch", func() (e error) {
		doc, e = p.fetcher.FetchAll(ctx, rq.SourceID, rq.Credential)
		return
	})
	if err != nil {
		return nil, err
	}

	if doc == nil || len(doc.Tabs) == 0 {
		return nil, fmt.Errorf("%w: %v has no tabs", types.ErrBadRequest, rq.SourceID)
	}

	if name := strings.TrimSpace(rq.SourceName); name != "" {
		doc.Name = name
	}

	// ... render
	var rendered *render.Document
	err = step(ctx, "render", func() (e error) {
		rendered, e = render.Render(*doc, p.geometry, render.Options{
			Font:      p.font,
			Generated: generated,
			Creator:   identity.Email,
		})
		return
	})
	if err != nil {
		return nil, err
	}

	metrics.AddPages(len(rendered.Pages))
	log.Infof("pipeline", "%v: rendered %v tabs on %v pages", rq.SourceID, len(doc.Tabs), len(rendered.Pages))

	// ... publish
	err = step(ctx, "publish", func() (e error) {
		artifact, e = p.publisher.Publish(ctx, rendered.PDF, doc, rq.Credential, generated)
		return
	})
	if err != nil {
		return nil, err
	}

	return artifact, nil
}

func step(ctx context.Context, name string, f func() error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%v cancelled (%w)", name, err)
	}

	start := time.Now()
	err := f()
	metrics.CaptureStep(name, time.Since(start))

	if err != nil {
		log.Debugf("pipeline", "%v failed (%v)", name, err)
	}

	return err
}

// Result is the metrics label for a completed request.
func Result(artifact *types.Artifact, err error) string {
	switch {
	case err == nil && artifact != nil && artifact.Fallback:
		return "fallback"
	case err == nil:
		return "success"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	case errors.Is(err, types.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, types.ErrForbidden):
		return "forbidden"
	case errors.Is(err, types.ErrNotFound):
		return "not-found"
	case errors.Is(err, types.ErrAccessDenied):
		return "access-denied"
	case errors.Is(err, types.ErrBadRequest):
		return "bad-request"
	case errors.Is(err, types.ErrUpstream):
		return "upstream"
	case errors.Is(err, types.ErrStorage):
		return "storage"
	default:
		return "error"
	}
}
