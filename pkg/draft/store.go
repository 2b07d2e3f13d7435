// Package draft persists in-progress form values so a session can restore
// them on the next bind. Persistence is best effort: drafts are a convenience
// cache, never the system of record, and password-kind fields are excluded
// before values reach a store.
package draft

import (
	"fmt"
	"strings"
)

// Store saves and restores flat string-keyed value maps per form.
type Store interface {
	// Save replaces the draft for formID.
	Save(formID string, values map[string]string) error
	// Load returns the stored draft, or an empty map when none exists.
	Load(formID string) (map[string]string, error)
	// Clear removes the draft for formID. Clearing a missing draft is not an
	// error.
	Clear(formID string) error
}

const keyPrefix = "formflow.draft."

// Key derives the storage key for a form identifier. Keys share a common
// prefix so stores can be swept without touching unrelated entries.
func Key(formID string) string {
	return keyPrefix + sanitizeID(formID)
}

func sanitizeID(id string) string {
	var b strings.Builder
	b.Grow(len(id))
	for _, r := range strings.TrimSpace(id) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

func validFormID(formID string) error {
	if strings.TrimSpace(formID) == "" {
		return fmt.Errorf("draft: form id is required")
	}
	return nil
}
