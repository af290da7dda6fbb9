package kantra

// Document is the parsed form of one Kantra output snapshot: an ordered
// sequence of ruleset groups. Order follows the YAML document so downstream
// consumers see issues in the order the analyzer reported them.
type Document []RuleSet

// RuleSet is one group of related rules in a snapshot.
type RuleSet struct {
	// Name identifies the ruleset. "Unknown" when the document omits it.
	Name string

	// Violations holds the triggered rules in document order.
	Violations []Violation
}

// Violation is one triggered rule with all of its occurrences.
type Violation struct {
	// RuleID is the stable rule identifier, unique within a snapshot.
	RuleID string

	// Description of the rule. "No description" when absent.
	Description string

	// Category is the analyzer's classification tag (e.g. "mandatory",
	// "optional"). "unknown" when absent.
	Category string

	// Effort is the analyzer's cost indicator. Kantra emits small integers
	// but the field is tolerated as any scalar; kept in its string form.
	// "unknown" when absent.
	Effort string

	// Incidents lists the individual occurrences in document order.
	Incidents []Incident
}

// Incident is a single occurrence of a violation at one location.
type Incident struct {
	// URI is the raw location reference, typically file-scheme.
	URI string

	// Message is the human-readable occurrence message.
	Message string

	// LineNumber within the affected file, 0 when not reported.
	LineNumber int

	// CodeSnip is the analyzer-provided code excerpt, possibly empty.
	CodeSnip string
}

// FilePath returns the affected file path for file-scheme URIs and
// ok=false for anything else (other schemes, empty paths).
func (in Incident) FilePath() (string, bool) {
	const scheme = "file://"
	if len(in.URI) <= len(scheme) || in.URI[:len(scheme)] != scheme {
		return "", false
	}
	return in.URI[len(scheme):], true
}
