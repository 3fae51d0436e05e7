package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

const validCreds = `{"type":"service_account","project_id":"p","private_key":"k","client_email":"svc@p.iam"}`

func TestParseCredentials(t *testing.T) {
	creds, err := ParseCredentials(validCreds)
	if err != nil {
		t.Fatalf("ParseCredentials: %v", err)
	}
	if creds.ClientEmail != "svc@p.iam" {
		t.Fatalf("client email = %q", creds.ClientEmail)
	}

	for name, blob := range map[string]string{
		"not json":      "{",
		"missing email": `{"private_key":"k"}`,
		"missing key":   `{"client_email":"a@b"}`,
	} {
		if _, err := ParseCredentials(blob); !errors.Is(err, ErrMalformedCredentials) {
			t.Errorf("%s: err = %v, want ErrMalformedCredentials", name, err)
		}
	}
}

func TestClientAppendsToWorksheetPath(t *testing.T) {
	var gotPath, gotAccount string
	var gotBody map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAccount = r.Header.Get("X-Service-Account")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(200)
	}))
	defer ts.Close()

	client, err := NewClient(Config{Endpoint: ts.URL, CredsJSON: validCreds})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if err := client.AppendRow(context.Background(), []any{"a", 1}); err != nil {
		t.Fatalf("AppendRow: %v", err)
	}
	if gotPath != "/spreadsheets/AI_Ready_Responses/worksheets/responses/rows" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotAccount != "svc@p.iam" {
		t.Fatalf("service account header = %q", gotAccount)
	}
	if _, ok := gotBody["values"]; !ok {
		t.Fatalf("body missing values: %v", gotBody)
	}
}

func TestClientAppendRowReportsStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer ts.Close()

	client, err := NewClient(Config{Endpoint: ts.URL, CredsJSON: validCreds})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if err := client.AppendRow(context.Background(), []any{"a"}); err == nil {
		t.Fatal("expected error on 429")
	}
}

func TestLazyStoreCachesConstructionError(t *testing.T) {
	store := NewLazyStore(Config{Endpoint: "http://example.invalid", CredsJSON: "{"})

	first := store.AppendRow(context.Background(), []any{"a"})
	if !errors.Is(first, ErrMalformedCredentials) {
		t.Fatalf("first err = %v, want ErrMalformedCredentials", first)
	}
	second := store.AppendRow(context.Background(), []any{"a"})
	if !errors.Is(second, ErrMalformedCredentials) {
		t.Fatalf("second err = %v, want the cached construction error", second)
	}
}
