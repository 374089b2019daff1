package apexdocs

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andbeder/PurpleFox/internal/chart"
)

func TestDescribe_UsesH1(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`<html><head><title>Colors – ApexCharts.js</title></head><body><h1 class="x"> colors </h1></body></html>`))
	}))
	defer server.Close()

	c := New(WithBaseURL(server.URL+"/docs/options"), WithHTTPClient(server.Client()))
	desc, err := c.Describe(context.Background(), "colors")
	if err != nil {
		t.Fatalf("Describe error: %v", err)
	}
	if desc != "colors" {
		t.Errorf("Describe = %q, want %q", desc, "colors")
	}
	if gotPath != "/docs/options/colors/" {
		t.Errorf("requested path = %q", gotPath)
	}
}

func TestDescribe_FallsBackToTitle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Chart – ApexCharts.js</title></head><body><p>x</p></body></html>`))
	}))
	defer server.Close()

	c := New(WithBaseURL(server.URL), WithHTTPClient(server.Client()))
	desc, err := c.Describe(context.Background(), "chart")
	if err != nil {
		t.Fatal(err)
	}
	if desc != "Chart – ApexCharts.js" {
		t.Errorf("Describe = %q", desc)
	}
}

func TestDescribe_NoHeading(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`plain`))
	}))
	defer server.Close()

	c := New(WithBaseURL(server.URL), WithHTTPClient(server.Client()))
	desc, err := c.Describe(context.Background(), "x")
	if err != nil {
		t.Fatal(err)
	}
	if desc != Placeholder {
		t.Errorf("Describe = %q, want placeholder", desc)
	}
}

func TestDescribe_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := New(WithBaseURL(server.URL), WithHTTPClient(server.Client()))
	_, err := c.Describe(context.Background(), "missing")
	if !errors.Is(err, chart.ErrExternalCall) {
		t.Fatalf("expected ErrExternalCall, got %v", err)
	}
}
