package playerid

import "strings"

// FromName computes a deterministic player ID slug from name and position.
// Formula: lowercase(name + "-" + position), runs of non-alphanumerics
// collapsed to a single "-", leading/trailing dashes trimmed.
// Re-deriving from the same inputs always yields the same ID.
func FromName(name, position string) string {
	return Slug(name + "-" + position)
}

// Slug normalizes an arbitrary string into ID form.
func Slug(raw string) string {
	lower := strings.ToLower(raw)

	var sb strings.Builder
	sb.Grow(len(lower))
	pendingDash := false
	for _, r := range lower {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !alnum {
			pendingDash = sb.Len() > 0
			continue
		}
		if pendingDash {
			sb.WriteByte('-')
			pendingDash = false
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
