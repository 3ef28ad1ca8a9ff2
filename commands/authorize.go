package commands

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/sheets/v4"

	"github.com/uhppoted/uhppoted-app-sheets-pdf/log"
	"github.com/uhppoted/uhppoted-app-sheets-pdf/types"
)

var scopes = []string{
	sheets.SpreadsheetsReadonlyScope,
	drive.DriveMetadataReadonlyScope,
	drive.DriveFileScope,
	oauth2api.UserinfoEmailScope,
}

// authorize returns an access token for the installed application described
// by the credentials file. The token is cached in the tokens file and is
// refreshed (and the cache updated) when it has expired.
func authorize(ctx context.Context, credentials, tokens string, in io.Reader) (types.Credential, error) {
	b, err := os.ReadFile(credentials)
	if err != nil {
		return "", err
	}

	config, err := google.ConfigFromJSON(b, scopes...)
	if err != nil {
		return "", err
	}

	token, err := tokenFromFile(tokens)
	if err != nil {
		if token, err = tokenFromWeb(ctx, config, in); err != nil {
			return "", err
		}
	}

	refreshed, err := config.TokenSource(ctx, token).Token()
	if err != nil {
		return "", fmt.Errorf("unable to refresh access token (%v)", err)
	}

	if refreshed.AccessToken != token.AccessToken || refreshed.RefreshToken != token.RefreshToken {
		if err := saveToken(tokens, refreshed); err != nil {
			log.Warnf("export", "unable to cache OAuth2 token (%v)", err)
		}
	}

	return types.Credential(refreshed.AccessToken), nil
}

// tokenFromWeb prompts for the authorization code of the consent page and
// exchanges it for a token.
func tokenFromWeb(ctx context.Context, config *oauth2.Config, in io.Reader) (*oauth2.Token, error) {
	url := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)

	fmt.Printf("Go to the following link in your browser then type the authorization code: \n%v\n", url)

	code, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("unable to read authorization code (%v)", err)
	}

	token, err := config.Exchange(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve token from web (%v)", err)
	}

	return token, nil
}

// tokenFromFile retrieves a token from a local file.
func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}

	defer f.Close()

	token := oauth2.Token{}
	if err := json.NewDecoder(f).Decode(&token); err != nil {
		return nil, err
	}

	return &token, nil
}

// saveToken writes the token to a temporary file in the same folder and then
// renames it, so a partially written token file is never read back.
func saveToken(path string, token *oauth2.Token) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".token-*")
	if err != nil {
		return err
	}

	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if err := json.NewEncoder(tmp).Encode(token); err != nil {
		return err
	} else if err := tmp.Close(); err != nil {
		return err
	}

	log.Infof("export", "saving OAuth2 token to %v", path)

	return os.Rename(tmp.Name(), path)
}
