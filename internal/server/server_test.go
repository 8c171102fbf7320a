package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/awsorg/internal/orgs"
)

type fakeOrgService struct {
	createOU            func(ctx context.Context, name string) (*orgs.OU, error)
	createMemberAccount func(ctx context.Context, in orgs.CreateAccountInput) (*orgs.CreateAccountResult, error)
}

func (f *fakeOrgService) CreateOU(ctx context.Context, name string) (*orgs.OU, error) {
	return f.createOU(ctx, name)
}

func (f *fakeOrgService) CreateMemberAccount(ctx context.Context, in orgs.CreateAccountInput) (*orgs.CreateAccountResult, error) {
	return f.createMemberAccount(ctx, in)
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	srv := New(&fakeOrgService{})

	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, map[string]any{"status": "ok"}, decodeBody(t, w))
}

func TestCreateOU(t *testing.T) {
	svc := &fakeOrgService{
		createOU: func(_ context.Context, name string) (*orgs.OU, error) {
			return &orgs.OU{Name: name, ID: "ou-abcd-bbbbbbbb"}, nil
		},
	}
	srv := New(svc)

	w := postJSON(t, srv.Handler(), "/create-ou", map[string]string{"ou_name": "Sandbox"})

	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, map[string]any{
		"OUName": "Sandbox",
		"OUID":   "ou-abcd-bbbbbbbb",
	}, decodeBody(t, w))
}

func TestCreateOU_MissingName(t *testing.T) {
	srv := New(&fakeOrgService{})

	w := postJSON(t, srv.Handler(), "/create-ou", map[string]string{})

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "ou_name is required", decodeBody(t, w)["error"])
}

func TestCreateOU_ServiceError(t *testing.T) {
	svc := &fakeOrgService{
		createOU: func(_ context.Context, _ string) (*orgs.OU, error) {
			return nil, errors.New("throttled")
		},
	}
	srv := New(svc)

	w := postJSON(t, srv.Handler(), "/create-ou", map[string]string{"ou_name": "Sandbox"})

	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Contains(t, decodeBody(t, w)["error"], "throttled")
}

func TestCreateAccount(t *testing.T) {
	var got orgs.CreateAccountInput
	svc := &fakeOrgService{
		createMemberAccount: func(_ context.Context, in orgs.CreateAccountInput) (*orgs.CreateAccountResult, error) {
			got = in
			return &orgs.CreateAccountResult{
				AccountID:    "222222222222",
				AccountName:  in.Name,
				AccountEmail: in.Email,
				OUID:         "ou-abcd-bbbbbbbb",
			}, nil
		},
	}
	srv := New(svc)

	w := postJSON(t, srv.Handler(), "/create-account", map[string]string{
		"account_name":  "dev1",
		"account_email": "dev1@example.com",
		"ou":            "Sandbox",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, map[string]any{
		"AccountId":    "222222222222",
		"AccountName":  "dev1",
		"AccountEmail": "dev1@example.com",
		"OUID":         "ou-abcd-bbbbbbbb",
	}, decodeBody(t, w))

	// role_name is optional and flows through empty, the service applies
	// its default.
	require.Equal(t, "", got.RoleName)
}

func TestCreateAccount_MissingFields(t *testing.T) {
	srv := New(&fakeOrgService{})

	tests := []map[string]string{
		{},
		{"account_name": "dev1"},
		{"account_name": "dev1", "account_email": "dev1@example.com"},
	}

	for i, body := range tests {
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			w := postJSON(t, srv.Handler(), "/create-account", body)
			require.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestCreateAccount_ServiceError(t *testing.T) {
	svc := &fakeOrgService{
		createMemberAccount: func(_ context.Context, _ orgs.CreateAccountInput) (*orgs.CreateAccountResult, error) {
			return nil, fmt.Errorf("%w: EMAIL_ALREADY_EXISTS", orgs.ErrAccountCreationFailed)
		},
	}
	srv := New(svc)

	w := postJSON(t, srv.Handler(), "/create-account", map[string]string{
		"account_name":  "dev1",
		"account_email": "dev1@example.com",
		"ou":            "Sandbox",
	})

	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Contains(t, decodeBody(t, w)["error"], "EMAIL_ALREADY_EXISTS")
}

// The OU ID returned by create-ou is the OU ID a subsequent create-account
// into the same OU reports back.
func TestCreateOUThenCreateAccountSharesOUID(t *testing.T) {
	ous := map[string]string{}
	svc := &fakeOrgService{
		createOU: func(_ context.Context, name string) (*orgs.OU, error) {
			id, ok := ous[name]
			if !ok {
				id = fmt.Sprintf("ou-abcd-%08d", len(ous)+1)
				ous[name] = id
			}
			return &orgs.OU{Name: name, ID: id}, nil
		},
		createMemberAccount: func(_ context.Context, in orgs.CreateAccountInput) (*orgs.CreateAccountResult, error) {
			id, ok := ous[in.OU]
			if !ok {
				return nil, orgs.ErrOUNotFound
			}
			return &orgs.CreateAccountResult{
				AccountID:    "222222222222",
				AccountName:  in.Name,
				AccountEmail: in.Email,
				OUID:         id,
			}, nil
		},
	}
	srv := New(svc)
	handler := srv.Handler()

	created := postJSON(t, handler, "/create-ou", map[string]string{"ou_name": "Sandbox"})
	require.Equal(t, http.StatusCreated, created.Code)
	ouID := decodeBody(t, created)["OUID"]

	account := postJSON(t, handler, "/create-account", map[string]string{
		"account_name":  "dev1",
		"account_email": "dev1@x.com",
		"ou":            "Sandbox",
	})
	require.Equal(t, http.StatusCreated, account.Code)
	require.Equal(t, ouID, decodeBody(t, account)["OUID"])
}
