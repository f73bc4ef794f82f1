package resolve

// DefaultSuppressions voids matches whose surrounding text signals a sense the
// glossary does not carry. Keyed by canonical word; each pattern is tested
// against the window around a match. Kept as data so new pairs can be added
// and unit-tested without touching resolver logic.
var DefaultSuppressions = map[string][]string{
	// The only "degree" sign means the academic diploma. Temperature and
	// angle readings nearby mean a different sense entirely.
	"degree": {
		`(?i)\d+\s*degrees?`,
		`(?i)degrees?\s+(celsius|fahrenheit)`,
		`(?i)degrees?\s+angle`,
	},
}
