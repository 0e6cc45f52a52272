// utils/slug.go - SEO slug generation
package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	slugInvalid  = regexp.MustCompile(`[^a-z0-9]+`)
	slugTrimDash = regexp.MustCompile(`^-+|-+$`)
)

const slugMaxLen = 80

// Slugify turns a title into a URL-safe slug: lowercase, hyphen-separated,
// ASCII alphanumerics only, capped in length.
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugInvalid.ReplaceAllString(slug, "-")
	slug = slugTrimDash.ReplaceAllString(slug, "")
	if len(slug) > slugMaxLen {
		slug = slug[:slugMaxLen]
		slug = slugTrimDash.ReplaceAllString(slug, "")
	}
	if slug == "" {
		slug = "untitled"
	}
	return slug
}

// UniqueSlug appends a numeric suffix until taken reports the slug as free.
func UniqueSlug(title string, taken func(slug string) bool) string {
	base := Slugify(title)
	slug := base
	for i := 2; taken(slug); i++ {
		slug = fmt.Sprintf("%s-%d", base, i)
	}
	return slug
}
