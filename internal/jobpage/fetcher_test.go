package jobpage

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	apperrors "github.com/mrbane10/AI-CV-MatchMaker/internal/errors"
)

const jobHTML = `<html><head><title>Careers</title></head>
<body><h1>Senior Go Engineer</h1><p>Build payment services with Go and PostgreSQL.</p></body></html>`

func TestFetchReturnsPageText(t *testing.T) {
	var hits atomic.Int32
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(jobHTML))
	}))
	defer srv.Close()

	text, err := New(nil, 0, "test-agent").Fetch(context.Background(), srv.URL+"/jobs/1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(text, "Senior Go Engineer") || !strings.Contains(text, "PostgreSQL") {
		t.Fatalf("expected page text, got %q", text)
	}

	if strings.Contains(text, "<h1>") {
		t.Fatalf("expected markup to be stripped, got %q", text)
	}

	if hits.Load() != 1 {
		t.Fatalf("expected exactly one request, got %d", hits.Load())
	}

	if gotUA != "test-agent" {
		t.Fatalf("unexpected user agent: %q", gotUA)
	}
}

func TestFetchDecodesGzip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		_, _ = zw.Write([]byte(jobHTML))
		_ = zw.Close()

		w.Header().Set("Content-Type", "text/html")
		w.Header().Set("Content-Encoding", "gzip")
		_, _ = w.Write(buf.Bytes())
	}))
	defer srv.Close()

	text, err := New(nil, 0, "").Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(text, "Senior Go Engineer") {
		t.Fatalf("expected decoded page text, got %q", text)
	}
}

func TestFetchFailures(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/missing":
			http.NotFound(w, r)
		case "/pdf":
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write([]byte("%PDF-1.4"))
		case "/blank":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html><body>   </body></html>"))
		}
	}))
	defer srv.Close()

	cases := []struct {
		name string
		link string
	}{
		{name: "empty link", link: "  "},
		{name: "unsupported scheme", link: "ftp://example.com/job"},
		{name: "no host", link: "https:///job"},
		{name: "not found", link: srv.URL + "/missing"},
		{name: "non html", link: srv.URL + "/pdf"},
		{name: "blank page", link: srv.URL + "/blank"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := New(nil, 0, "").Fetch(context.Background(), tc.link)
			if !apperrors.Is(err, apperrors.ErrTypeFetch) {
				t.Fatalf("expected fetch error, got %v", err)
			}
		})
	}
}

func TestIsTextual(t *testing.T) {
	accepted := []string{"", "text/html", "application/xhtml+xml", "TEXT/PLAIN; charset=utf-8"}
	for _, ct := range accepted {
		if !isTextual(ct) {
			t.Fatalf("expected %q to be accepted", ct)
		}
	}

	rejected := []string{"application/pdf", "image/png", "application/json"}
	for _, ct := range rejected {
		if isTextual(ct) {
			t.Fatalf("expected %q to be rejected", ct)
		}
	}
}
