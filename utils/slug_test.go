package utils

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"The Quiet Orchard", "the-quiet-orchard"},
		{"  Hello,   World!  ", "hello-world"},
		{"C'est la Vie — Encore", "c-est-la-vie-encore"},
		{"100 Years of Solitude", "100-years-of-solitude"},
		{"---", "untitled"},
		{"", "untitled"},
		{"日本語のタイトル", "untitled"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.title); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestSlugifyCapsLength(t *testing.T) {
	slug := Slugify(strings.Repeat("verylongword ", 20))
	if len(slug) > 80 {
		t.Errorf("slug length = %d, want <= 80", len(slug))
	}
	if strings.HasSuffix(slug, "-") {
		t.Errorf("truncated slug ends with a dash: %q", slug)
	}
}

func TestUniqueSlug(t *testing.T) {
	taken := map[string]bool{
		"winter-notes":   true,
		"winter-notes-2": true,
	}
	got := UniqueSlug("Winter Notes", func(slug string) bool { return taken[slug] })
	if got != "winter-notes-3" {
		t.Errorf("UniqueSlug = %q, want winter-notes-3", got)
	}

	got = UniqueSlug("Fresh Title", func(slug string) bool { return false })
	if got != "fresh-title" {
		t.Errorf("UniqueSlug = %q, want fresh-title", got)
	}
}
