package publish

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/uhppoted/uhppoted-app-sheets-pdf/log"
	"github.com/uhppoted/uhppoted-app-sheets-pdf/types"
)

// Drive stores the PDF in the Google Drive folder that holds the source
// spreadsheet, with the caller's credential.
type Drive struct {
	defaultFolder string
	options       []option.ClientOption
}

func NewDrive(defaultFolder string, options ...option.ClientOption) *Drive {
	return &Drive{
		defaultFolder: strings.TrimSpace(defaultFolder),
		options:       options,
	}
}

func (d *Drive) Publish(ctx context.Context, pdf []byte, doc *types.SourceDocument, credential types.Credential, generated time.Time) (*types.Artifact, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: missing source document", types.ErrStorage)
	}

	google, err := d.service(ctx, credential)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to create new Drive client (%v)", types.ErrStorage, err)
	}

	folder, fallback := d.resolve(ctx, google, doc.ID)

	file := drive.File{
		Name:     ArtifactName(doc.Name, generated),
		MimeType: MimeType,
	}

	if folder != "" {
		file.Parents = []string{folder}
	}

	created, err := google.Files.Create(&file).
		Media(bytes.NewReader(pdf), googleapi.ContentType(MimeType)).
		Fields("id", "name", "webViewLink", "parents").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("%w: unable to create '%v' (%w)", types.ErrStorage, file.Name, err)
	}

	artifact := types.Artifact{
		ID:       created.Id,
		Name:     created.Name,
		URL:      created.WebViewLink,
		Folder:   folder,
		Fallback: fallback,
	}

	if len(created.Parents) > 0 {
		artifact.Folder = created.Parents[0]
	}

	if artifact.URL == "" {
		artifact.URL = fmt.Sprintf("https://drive.google.com/file/d/%v/view", created.Id)
	}

	log.Infof("publish", "created %v (%v) in folder '%v'", artifact.Name, artifact.ID, artifact.Folder)

	return &artifact, nil
}

// resolve returns the first parent folder of the source file. If the parent
// cannot be determined it falls back to the default folder (or the Drive root
// when there is none) and reports the fallback.
func (d *Drive) resolve(ctx context.Context, google *drive.Service, fileID string) (string, bool) {
	if strings.TrimSpace(fileID) != "" {
		f, err := google.Files.Get(fileID).
			Fields("parents").
			SupportsAllDrives(true).
			Context(ctx).
			Do()

		if err != nil {
			log.Warnf("publish", "unable to resolve parent folder of %v (%v)", fileID, err)
		} else if len(f.Parents) == 0 {
			log.Warnf("publish", "%v has no parent folder", fileID)
		} else {
			return f.Parents[0], false
		}
	}

	if d.defaultFolder != "" {
		log.Warnf("publish", "using default folder %v", d.defaultFolder)
	} else {
		log.Warnf("publish", "using Drive root folder")
	}

	return d.defaultFolder, true
}

func (d *Drive) service(ctx context.Context, credential types.Credential) (*drive.Service, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: string(credential),
		TokenType:   "Bearer",
	})

	options := append([]option.ClientOption{option.WithTokenSource(ts)}, d.options...)

	return drive.NewService(ctx, options...)
}
