package httpd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/uhppoted/uhppoted-app-sheets-pdf/auth"
	"github.com/uhppoted/uhppoted-app-sheets-pdf/log"
	"github.com/uhppoted/uhppoted-app-sheets-pdf/pipeline"
	"github.com/uhppoted/uhppoted-app-sheets-pdf/types"
)

const maxRequestSize = 64 * 1024

// Runner executes one export request.
type Runner interface {
	Run(ctx context.Context, rq pipeline.Request) (*types.Artifact, error)
}

// request also accepts the spreadsheetId/spreadsheetName field names used by
// older Apps Script clients.
type request struct {
	SourceID        string `json:"sourceId"`
	SourceName      string `json:"sourceName"`
	SpreadsheetID   string `json:"spreadsheetId"`
	SpreadsheetName string `json:"spreadsheetName"`
}

type response struct {
	Status  string `json:"status"`
	URL     string `json:"url,omitempty"`
	FileID  string `json:"file_id,omitempty"`
	Details string `json:"details,omitempty"`
}

func failure(details string) response {
	return response{
		Status:  "error",
		Details: details,
	}
}

func reply(w http.ResponseWriter, status int, body response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warnf("httpd", "error encoding response (%v)", err)
	}
}

type exporter struct {
	runner  Runner
	timeout time.Duration
}

func (x *exporter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	credential, err := auth.ParseBearer(r.Header.Get("Authorization"))
	if err != nil {
		reply(w, http.StatusUnauthorized, failure(err.Error()))
		return
	}

	rq, err := decode(w, r)
	if err != nil {
		reply(w, http.StatusBadRequest, failure(err.Error()))
		return
	}

	rq.Credential = credential

	ctx := r.Context()
	if x.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, x.timeout)
		defer cancel()
	}

	artifact, err := x.runner.Run(ctx, *rq)
	if err != nil {
		code := status(err)
		if code >= http.StatusInternalServerError {
			log.Errorf("httpd", "%v: export of %v failed (%v)", traceID(r.Context()), rq.SourceID, err)
		} else {
			log.Warnf("httpd", "%v: export of %v refused (%v)", traceID(r.Context()), rq.SourceID, err)
		}

		reply(w, code, failure(err.Error()))
		return
	}

	reply(w, http.StatusOK, response{
		Status: "success",
		URL:    artifact.URL,
		FileID: artifact.ID,
	})
}

func decode(w http.ResponseWriter, r *http.Request) (*pipeline.Request, error) {
	var body request

	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestSize)).Decode(&body); errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: missing request body", types.ErrBadRequest)
	} else if err != nil {
		return nil, fmt.Errorf("%w: invalid request body (%v)", types.ErrBadRequest, err)
	}

	id := strings.TrimSpace(body.SourceID)
	if id == "" {
		id = strings.TrimSpace(body.SpreadsheetID)
	}

	name := strings.TrimSpace(body.SourceName)
	if name == "" {
		name = strings.TrimSpace(body.SpreadsheetName)
	}

	if id == "" {
		return nil, fmt.Errorf("%w: missing sourceId", types.ErrBadRequest)
	}

	return &pipeline.Request{
		SourceID:   id,
		SourceName: name,
	}, nil
}
