package kantra

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSnapshot(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "output.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func loadKind(t *testing.T, err error) LoadKind {
	t.Helper()
	var le *LoadError
	require.ErrorAs(t, err, &le)
	return le.Kind
}

func TestLoad_MissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Equal(t, LoadNotFound, loadKind(t, err))
}

func TestLoad_InvalidUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.yaml")
	require.NoError(t, os.WriteFile(path, []byte{'-', ' ', 0xff, 0xfe, 0xfd}, 0644))

	_, _, err := Load(path)
	assert.Equal(t, LoadEncoding, loadKind(t, err))
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeSnapshot(t, "- name: [unclosed\n  violations: {")
	_, _, err := Load(path)
	assert.Equal(t, LoadSyntax, loadKind(t, err))
}

func TestLoad_EmptyDocument(t *testing.T) {
	path := writeSnapshot(t, "")
	_, _, err := Load(path)
	assert.Equal(t, LoadWrongShape, loadKind(t, err))
}

func TestLoad_WrongTopLevelShape(t *testing.T) {
	path := writeSnapshot(t, "name: not-a-sequence\n")
	_, _, err := Load(path)
	assert.Equal(t, LoadWrongShape, loadKind(t, err))
}

func TestLoad_ValidSnapshot(t *testing.T) {
	path := writeSnapshot(t, `
- name: konveyor-analysis
  violations:
    javax-to-jakarta-00001:
      description: Replace javax with jakarta
      category: mandatory
      effort: 3
      incidents:
        - uri: file:///app/src/Main.java
          message: javax import found
          lineNumber: 12
          codeSnip: "import javax.servlet;"
        - uri: file:///app/src/Other.java
          message: javax import found
          lineNumber: 3
    javax-to-jakarta-00002:
      description: Update deployment descriptor
      category: optional
      incidents: []
- name: cloud-readiness
  violations:
    local-storage-00001:
      description: Local filesystem usage
      category: mandatory
      effort: 1
      incidents:
        - uri: file:///app/src/Main.java
          message: file write detected
`)

	doc, warnings, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, doc, 2)

	assert.Equal(t, "konveyor-analysis", doc[0].Name)
	require.Len(t, doc[0].Violations, 2)

	v := doc[0].Violations[0]
	assert.Equal(t, "javax-to-jakarta-00001", v.RuleID)
	assert.Equal(t, "Replace javax with jakarta", v.Description)
	assert.Equal(t, "mandatory", v.Category)
	assert.Equal(t, "3", v.Effort) // integer effort normalized to string
	require.Len(t, v.Incidents, 2)
	assert.Equal(t, "file:///app/src/Main.java", v.Incidents[0].URI)
	assert.Equal(t, 12, v.Incidents[0].LineNumber)
	assert.Equal(t, "import javax.servlet;", v.Incidents[0].CodeSnip)

	// Defaults fill in when fields are absent.
	assert.Equal(t, "unknown", doc[0].Violations[1].Effort)
	assert.Empty(t, doc[0].Violations[1].Incidents)

	assert.Equal(t, "cloud-readiness", doc[1].Name)
}

func TestLoad_RulesetWithoutViolations(t *testing.T) {
	path := writeSnapshot(t, `
- name: summary-only
  description: nothing triggered
- name: real
  violations:
    rule-1:
      description: something
      incidents: []
`)

	doc, warnings, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, doc, 1)
	assert.Equal(t, "real", doc[0].Name)
}

func TestLoad_MalformedEntriesSkippedIndividually(t *testing.T) {
	path := writeSnapshot(t, `
- just-a-scalar
- name: partly-broken
  violations:
    good-rule:
      description: survives
      incidents:
        - uri: file:///app/a.java
          message: ok
        - not-a-mapping
    bad-rule: just-a-string
- name: broken-violations
  violations: [wrong, shape]
`)

	doc, warnings, err := Load(path)
	require.NoError(t, err)
	require.Len(t, doc, 1)

	rs := doc[0]
	assert.Equal(t, "partly-broken", rs.Name)
	require.Len(t, rs.Violations, 1)
	assert.Equal(t, "good-rule", rs.Violations[0].RuleID)
	// The malformed incident is dropped, the valid one survives.
	require.Len(t, rs.Violations[0].Incidents, 1)

	// One warning per skipped entry: scalar ruleset, scalar incident,
	// scalar violation, sequence-shaped violations mapping.
	assert.Len(t, warnings, 4)
	for _, w := range warnings {
		assert.Equal(t, path, w.Path)
		assert.NotEmpty(t, w.Context)
		assert.NotEmpty(t, w.Message)
	}
}

func TestLoad_ErrorString(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Contains(t, le.Error(), "missing.yaml")
	assert.Contains(t, le.Error(), string(LoadNotFound))
}

func TestIncident_FilePath(t *testing.T) {
	tests := []struct {
		uri  string
		want string
		ok   bool
	}{
		{"file:///app/src/Main.java", "/app/src/Main.java", true},
		{"file://relative/path.xml", "relative/path.xml", true},
		{"http://example.com/x", "", false},
		{"file://", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			got, ok := Incident{URI: tt.uri}.FilePath()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
