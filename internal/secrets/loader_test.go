package secrets

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	keyFile := filepath.Join(dir, "api-key")
	if err := os.WriteFile(keyFile, []byte("gsk_file\n"), 0o600); err != nil {
		t.Fatalf("write key file: %v", err)
	}
	emptyFile := filepath.Join(dir, "empty")
	if err := os.WriteFile(emptyFile, []byte("  \n"), 0o600); err != nil {
		t.Fatalf("write empty file: %v", err)
	}

	tests := []struct {
		name    string
		src     Source
		want    string
		wantErr string
	}{
		{name: "inline value", src: Source{Name: "llm api key", Value: "  gsk_inline "}, want: "gsk_inline"},
		{name: "file wins over value", src: Source{Value: "gsk_inline", File: keyFile}, want: "gsk_file"},
		{name: "missing file", src: Source{Name: "llm api key", File: filepath.Join(dir, "nope")}, wantErr: "reading llm api key"},
		{name: "empty file", src: Source{File: emptyFile}, wantErr: "is empty"},
		{name: "not configured", src: Source{Name: "llm api key"}, wantErr: "llm api key is not configured"},
		{name: "default name", src: Source{}, wantErr: "secret is not configured"},
		{name: "hint appended", src: Source{Name: "llm api key", Hint: "set API_KEY"}, wantErr: "llm api key is not configured (set API_KEY)"},
		{name: "hint on file errors", src: Source{File: emptyFile, Hint: "set API_KEY_FILE"}, wantErr: "is empty (set API_KEY_FILE)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.src)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestLoadNotConfiguredIsDetectable(t *testing.T) {
	_, err := Load(Source{Name: "llm api key", Value: "  ", Hint: "set API_KEY"})
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}

	_, err = Load(Source{File: filepath.Join(t.TempDir(), "missing")})
	if errors.Is(err, ErrNotConfigured) {
		t.Fatalf("missing file must not be reported as unconfigured: %v", err)
	}
}
