package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"google.golang.org/api/option"

	"github.com/uhppoted/uhppoted-app-sheets-pdf/types"
)

func userinfo(t *testing.T) *httptest.Server {
	identities := map[string]string{
		"Bearer ya29.example":    `{"id":"1","email":"someone@example.com","verified_email":true,"hd":"example.com"}`,
		"Bearer ya29.uppercase":  `{"id":"2","email":"someone@EXAMPLE.com","verified_email":true}`,
		"Bearer ya29.elsewhere":  `{"id":"3","email":"intruder@example.org","verified_email":true}`,
		"Bearer ya29.unverified": `{"id":"4","email":"someone@example.com","verified_email":false}`,
		"Bearer ya29.anonymous":  `{"id":"5"}`,
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/oauth2/v2/userinfo" {
			http.NotFound(w, r)
			return
		}

		if identity, ok := identities[r.Header.Get("Authorization")]; ok {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, identity)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"code":401,"message":"Invalid Credentials","status":"UNAUTHENTICATED"}}`)
	}))

	t.Cleanup(srv.Close)

	return srv
}

func TestParseBearer(t *testing.T) {
	tests := []struct {
		header   string
		expected types.Credential
		ok       bool
	}{
		{"Bearer ya29.example", "ya29.example", true},
		{"bearer ya29.example", "ya29.example", true},
		{"  Bearer   ya29.example ", "ya29.example", true},
		{"ya29.example", "ya29.example", true},
		{"", "", false},
		{"Bearer", "", false},
		{"Bearer ya29 example", "", false},
		{"Basic dXNlcjpwYXNz", "", false},
	}

	for _, test := range tests {
		credential, err := ParseBearer(test.header)
		if test.ok && err != nil {
			t.Errorf("%q: unexpected error (%v)", test.header, err)
		} else if !test.ok && !errors.Is(err, types.ErrUnauthorized) {
			t.Errorf("%q: expected ErrUnauthorized, got %v", test.header, err)
		} else if credential != test.expected {
			t.Errorf("%q: expected credential %q, got %q", test.header, test.expected, credential)
		}
	}
}

func TestValidate(t *testing.T) {
	srv := userinfo(t)
	endpoint := option.WithEndpoint(srv.URL + "/")

	tests := []struct {
		domain     string
		credential types.Credential
		expected   error
		email      string
	}{
		{"", "ya29.example", nil, "someone@example.com"},
		{"", "ya29.elsewhere", nil, "intruder@example.org"},
		{"", "ya29.anonymous", nil, ""},
		{"example.com", "ya29.example", nil, "someone@example.com"},
		{"Example.COM", "ya29.uppercase", nil, "someone@EXAMPLE.com"},
		{"example.com", "ya29.elsewhere", types.ErrForbidden, ""},
		{"example.com", "ya29.unverified", types.ErrForbidden, ""},
		{"example.com", "ya29.anonymous", types.ErrForbidden, ""},
		{"example.com", "ya29.expired", types.ErrUnauthorized, ""},
		{"example.com", "", types.ErrUnauthorized, ""},
		{"", "ya29 split", types.ErrUnauthorized, ""},
	}

	for _, test := range tests {
		v := NewValidator(test.domain, endpoint)

		identity, err := v.Validate(context.Background(), test.credential)
		if test.expected == nil {
			if err != nil {
				t.Errorf("%v/%v: unexpected error (%v)", test.domain, test.credential, err)
			} else if identity.Email != test.email {
				t.Errorf("%v/%v: expected identity %v, got %v", test.domain, test.credential, test.email, identity.Email)
			}
		} else if !errors.Is(err, test.expected) {
			t.Errorf("%v/%v: expected %v, got %v", test.domain, test.credential, test.expected, err)
		}
	}
}

func TestValidateWithUnreachableProvider(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	v := NewValidator("", option.WithEndpoint(srv.URL+"/"))

	if _, err := v.Validate(context.Background(), "ya29.example"); !errors.Is(err, types.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}
