// Package auth validates the delegated OAuth2 access token supplied by the
// caller and restricts access to identities in an allowed e-mail domain.
package auth

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/uhppoted/uhppoted-app-sheets-pdf/log"
	"github.com/uhppoted/uhppoted-app-sheets-pdf/types"
)

type Validator struct {
	allowedDomain string
	options       []option.ClientOption
}

// NewValidator returns a validator that accepts any valid identity if
// allowedDomain is blank. The client options are appended to the per request
// token source, e.g. to override the userinfo endpoint.
func NewValidator(allowedDomain string, options ...option.ClientOption) *Validator {
	return &Validator{
		allowedDomain: strings.TrimSpace(allowedDomain),
		options:       options,
	}
}

// ParseBearer extracts the access token from an Authorization header. A bare
// token without the 'Bearer' scheme is accepted.
func ParseBearer(header string) (types.Credential, error) {
	fields := strings.Fields(header)

	switch {
	case len(fields) == 0:
		return "", fmt.Errorf("%w: missing Authorization header", types.ErrUnauthorized)

	case len(fields) == 1 && !strings.EqualFold(fields[0], "bearer"):
		return types.Credential(fields[0]), nil

	case len(fields) == 2 && strings.EqualFold(fields[0], "bearer"):
		return types.Credential(fields[1]), nil

	default:
		return "", fmt.Errorf("%w: malformed Authorization header", types.ErrUnauthorized)
	}
}

// Validate resolves the identity of the credential with the Google userinfo
// endpoint and checks it against the allowed domain.
func (v *Validator) Validate(ctx context.Context, credential types.Credential) (types.Identity, error) {
	token := strings.TrimSpace(string(credential))
	if token == "" {
		return types.Identity{}, fmt.Errorf("%w: missing credential", types.ErrUnauthorized)
	}

	if strings.ContainsAny(token, " \t\r\n") {
		return types.Identity{}, fmt.Errorf("%w: malformed credential", types.ErrUnauthorized)
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	})

	options := append([]option.ClientOption{option.WithTokenSource(ts)}, v.options...)

	service, err := oauth2api.NewService(ctx, options...)
	if err != nil {
		return types.Identity{}, fmt.Errorf("%w: unable to create identity client (%v)", types.ErrUnauthorized, err)
	}

	info, err := service.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		log.Warnf("auth", "invalid token (%v)", err)
		return types.Identity{}, fmt.Errorf("%w: invalid token", types.ErrUnauthorized)
	}

	identity := types.NewIdentity(info.Email, info.Hd)

	if v.allowedDomain != "" {
		if identity.Email == "" || !strings.EqualFold(identity.Domain, v.allowedDomain) {
			log.Warnf("auth", "unauthorized domain access attempt: %v", identity.Email)
			return types.Identity{}, fmt.Errorf("%w: unauthorized domain: %v", types.ErrForbidden, identity.Email)
		}

		if info.VerifiedEmail != nil && !*info.VerifiedEmail {
			log.Warnf("auth", "unverified e-mail address: %v", identity.Email)
			return types.Identity{}, fmt.Errorf("%w: unverified e-mail address: %v", types.ErrForbidden, identity.Email)
		}
	}

	return identity, nil
}
