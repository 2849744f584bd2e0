package elections

import "strings"

// MaxSlugLen bounds derived slugs; longer names are rejected rather
// than truncated, so a name always maps to exactly one slug.
const MaxSlugLen = 64

// Slugify derives the URL identifier for an election name: lowercase,
// with every run of non-alphanumeric characters collapsed to a single
// hyphen and leading/trailing hyphens stripped.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
