package digest

import (
	"errors"
	"testing"
)

func TestNormalizeLocatorRewritesHTTP(t *testing.T) {
	t.Parallel()

	got, err := NormalizeLocator("http://example.com/docs?q=1")
	if err != nil {
		t.Fatalf("NormalizeLocator() error = %v", err)
	}
	if got != "https://example.com/docs?q=1" {
		t.Fatalf("expected https rewrite, got %s", got)
	}
}

func TestNormalizeLocatorKeepsHTTPS(t *testing.T) {
	t.Parallel()

	got, err := NormalizeLocator("https://example.com/a/b")
	if err != nil {
		t.Fatalf("NormalizeLocator() error = %v", err)
	}
	if got != "https://example.com/a/b" {
		t.Fatalf("unexpected rewrite: %s", got)
	}
}

func TestNormalizeLocatorStripsLeadingAt(t *testing.T) {
	t.Parallel()

	got, err := NormalizeLocator("@https://example.com/page")
	if err != nil {
		t.Fatalf("NormalizeLocator() error = %v", err)
	}
	if got != "https://example.com/page" {
		t.Fatalf("expected @ stripped, got %s", got)
	}
}

func TestNormalizeLocatorRejectsBadInput(t *testing.T) {
	t.Parallel()

	cases := []string{
		"ftp://example.com/file",
		"not a url at all",
		"://missing-scheme",
		"https://",
	}
	for _, raw := range cases {
		if _, err := NormalizeLocator(raw); !errors.Is(err, ErrInvalidLocator) {
			t.Errorf("NormalizeLocator(%q) error = %v, want ErrInvalidLocator", raw, err)
		}
	}
}
