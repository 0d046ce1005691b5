// Package mention extracts @username references from comment bodies.
package mention

import (
	"regexp"
	"strings"
)

// pattern matches @username where the @ is not glued to a preceding word
// character (so email addresses are not mentions). Usernames are 2-32
// characters: letters, digits, underscore, hyphen, starting alphanumeric.
var pattern = regexp.MustCompile(`(^|[^\w@])@([A-Za-z0-9][A-Za-z0-9_-]{1,31})`)

// Parse returns the usernames mentioned in body, in order of first
// occurrence. Duplicates are collapsed case-insensitively; the first
// occurrence's casing wins.
func Parse(body string) []string {
	if !strings.Contains(body, "@") {
		return nil
	}

	var mentions []string
	seen := make(map[string]struct{})

	for _, m := range pattern.FindAllStringSubmatch(body, -1) {
		username := m[2]
		key := strings.ToLower(username)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		mentions = append(mentions, username)
	}

	return mentions
}

// Highlight rewrites body with every mention passed through wrap, leaving
// the rest of the text untouched. Used by console renderers to style
// mentions.
func Highlight(body string, wrap func(mention string) string) string {
	return pattern.ReplaceAllStringFunc(body, func(match string) string {
		sub := pattern.FindStringSubmatch(match)
		return sub[1] + wrap("@"+sub[2])
	})
}
