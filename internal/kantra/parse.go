package kantra

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// parseDocument walks a top-level sequence node and validates each record
// type (ruleset, violation, incident) in one place. Malformed entries are
// skipped individually with a warning; they never abort the rest of the
// document.
func parseDocument(seq *yaml.Node, path string) (Document, []Warning) {
	var doc Document
	var warnings []Warning

	for i, rsNode := range seq.Content {
		if rsNode.Kind != yaml.MappingNode {
			warnings = append(warnings, Warning{
				Path:    path,
				Context: fmt.Sprintf("ruleset[%d]", i),
				Message: fmt.Sprintf("expected a mapping, got %s", nodeKind(rsNode)),
			})
			continue
		}
		rs, ws := parseRuleSet(rsNode, path)
		warnings = append(warnings, ws...)
		if rs == nil {
			// A mapping without violations (e.g. a summary-only group) is
			// valid Kantra output, just nothing for us.
			continue
		}
		doc = append(doc, *rs)
	}

	return doc, warnings
}

// parseRuleSet returns nil for a ruleset that carries no violations.
func parseRuleSet(node *yaml.Node, path string) (*RuleSet, []Warning) {
	rs := &RuleSet{Name: "Unknown"}
	var violations *yaml.Node

	for k, v := range mappingPairs(node) {
		switch k {
		case "name":
			if s, ok := scalarString(v); ok {
				rs.Name = s
			}
		case "violations":
			violations = v
		}
	}

	if violations == nil {
		return nil, nil
	}
	if violations.Kind != yaml.MappingNode {
		return nil, []Warning{{
			Path:    path,
			Context: fmt.Sprintf("ruleset %q", rs.Name),
			Message: fmt.Sprintf("violations is %s, expected a mapping", nodeKind(violations)),
		}}
	}

	var warnings []Warning
	for ruleID, vNode := range mappingPairs(violations) {
		v, ws := parseViolation(ruleID, vNode, path)
		warnings = append(warnings, ws...)
		if v != nil {
			rs.Violations = append(rs.Violations, *v)
		}
	}

	return rs, warnings
}

func parseViolation(ruleID string, node *yaml.Node, path string) (*Violation, []Warning) {
	if node.Kind != yaml.MappingNode {
		return nil, []Warning{{
			Path:    path,
			Context: fmt.Sprintf("violation %q", ruleID),
			Message: fmt.Sprintf("expected a mapping, got %s", nodeKind(node)),
		}}
	}

	v := &Violation{
		RuleID:      ruleID,
		Description: "No description",
		Category:    "unknown",
		Effort:      "unknown",
	}
	var warnings []Warning

	for k, val := range mappingPairs(node) {
		switch k {
		case "description":
			if s, ok := scalarString(val); ok {
				v.Description = s
			}
		case "category":
			if s, ok := scalarString(val); ok {
				v.Category = s
			}
		case "effort":
			if s, ok := scalarString(val); ok {
				v.Effort = s
			}
		case "incidents":
			if val.Kind != yaml.SequenceNode {
				warnings = append(warnings, Warning{
					Path:    path,
					Context: fmt.Sprintf("violation %q", ruleID),
					Message: fmt.Sprintf("incidents is %s, expected a sequence", nodeKind(val)),
				})
				continue
			}
			for j, inNode := range val.Content {
				in, ok := parseIncident(inNode)
				if !ok {
					warnings = append(warnings, Warning{
						Path:    path,
						Context: fmt.Sprintf("violation %q incident[%d]", ruleID, j),
						Message: fmt.Sprintf("expected a mapping, got %s", nodeKind(inNode)),
					})
					continue
				}
				v.Incidents = append(v.Incidents, in)
			}
		}
	}

	return v, warnings
}

func parseIncident(node *yaml.Node) (Incident, bool) {
	if node.Kind != yaml.MappingNode {
		return Incident{}, false
	}

	var in Incident
	for k, v := range mappingPairs(node) {
		switch k {
		case "uri":
			if s, ok := scalarString(v); ok {
				in.URI = s
			}
		case "message":
			if s, ok := scalarString(v); ok {
				in.Message = s
			}
		case "lineNumber":
			if s, ok := scalarString(v); ok {
				if n, err := strconv.Atoi(s); err == nil {
					in.LineNumber = n
				}
			}
		case "codeSnip":
			if s, ok := scalarString(v); ok {
				in.CodeSnip = s
			}
		}
	}
	return in, true
}

// mappingPairs iterates a mapping node's key/value pairs in document order.
// Non-scalar keys are skipped.
func mappingPairs(node *yaml.Node) func(yield func(string, *yaml.Node) bool) {
	return func(yield func(string, *yaml.Node) bool) {
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, val := node.Content[i], node.Content[i+1]
			if key.Kind != yaml.ScalarNode {
				continue
			}
			if !yield(key.Value, val) {
				return
			}
		}
	}
}

func scalarString(node *yaml.Node) (string, bool) {
	if node.Kind != yaml.ScalarNode || node.Tag == "!!null" {
		return "", false
	}
	return node.Value, true
}

func nodeKind(node *yaml.Node) string {
	switch node.Kind {
	case yaml.DocumentNode:
		return "a document"
	case yaml.SequenceNode:
		return "a sequence"
	case yaml.MappingNode:
		return "a mapping"
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return "null"
		}
		return "a scalar"
	case yaml.AliasNode:
		return "an alias"
	default:
		return "an unknown node"
	}
}
