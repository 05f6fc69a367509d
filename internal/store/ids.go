package store

import (
	"crypto/rand"
	"encoding/base32"
	"strings"
)

// newRandomID returns prefix-<suffix> where suffix is base32 (lowercase, no padding).
// Notes get 6 chars (30 bits) since users type them; everything else gets 8.
func newRandomID(prefix string) (string, error) {
	n := idSuffixLen(prefix)
	b := make([]byte, (n*5+7)/8)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	suffix := strings.ToLower(enc.EncodeToString(b))
	if len(suffix) > n {
		suffix = suffix[:n]
	}
	return prefix + "-" + suffix, nil
}

func idSuffixLen(prefix string) int {
	if prefix == "note" {
		return 6
	}
	return 8
}

// IsNoteID reports whether s looks like a note id (note-<suffix>).
func IsNoteID(s string) bool {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "note-") {
		return false
	}
	// Keep it permissive; IDs are generated but users may paste variants.
	return len(s) > len("note-")
}
