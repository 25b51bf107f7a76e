// CLI integration tests for relations.
package integration

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestMain builds the relations binary once for the whole package.
func TestMain(m *testing.M) {
	tmpDir, err := os.MkdirTemp("", "relations-test-*")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	relationsBin, err = buildRelations(tmpDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.RemoveAll(tmpDir)
		os.Exit(1)
	}

	code := m.Run()
	os.RemoveAll(tmpDir)
	os.Exit(code)
}

const siteFields = `fields:
  - handle: related_posts
    type: entries
    config:
      max_items: 2
      collections: [blog]
  - handle: author
    type: users
    config:
      max_items: 1
  - handle: tags
    type: terms
    config:
      taxonomies: [tags]
`

// seedSite creates two entries, one term, and one user and returns their IDs
// keyed by title.
func seedSite(t *testing.T, env *TestEnv) map[string]string {
	t.Helper()
	ids := make(map[string]string)
	add := func(args ...string) {
		out := env.MustRun(append([]string{"--json", "records", "add"}, args...)...)
		rec := ParseJSON[Record](t, out.Stdout)
		ids[rec.Title] = rec.RecordID
	}
	add("entries", "--title", "Hello", "--handle", "hello", "--parent", "blog", "--published")
	add("entries", "--title", "About", "--handle", "about", "--parent", "pages")
	add("terms", "--title", "Go", "--slug", "go", "--parent", "tags")
	add("users", "--title", "Ada", "--handle", "ada")
	return ids
}

func TestInit(t *testing.T) {
	env := NewTestEnv(t, "")

	result := env.MustRun("init")
	if !strings.Contains(result.Stdout, "Relations initialized successfully") {
		t.Errorf("unexpected init output: %q", result.Stdout)
	}
	if _, err := os.Stat(filepath.Join(env.DataDir, "records.jsonl")); err != nil {
		t.Errorf("records.jsonl not created: %v", err)
	}

	// Init is idempotent.
	env.MustRun("init")
}

func TestRecordsPersistAsJSONL(t *testing.T) {
	env := NewTestEnv(t, "")
	env.MustRun("init")
	ids := seedSite(t, env)

	records := ReadJSONLFile[Record](t, filepath.Join(env.DataDir, "records.jsonl"))
	if len(records) != 4 {
		t.Fatalf("expected 4 persisted records, got %d", len(records))
	}
	var term Record
	for _, r := range records {
		if r.RecordID == ids["Go"] {
			term = r
		}
	}
	if term.Handle != "tags::go" {
		t.Errorf("term handle = %q, want tags::go", term.Handle)
	}

	list := env.MustRun("records", "list", "entries")
	if !strings.Contains(list.Stdout, "Showing 2 of 2 record(s)") {
		t.Errorf("unexpected list output: %q", list.Stdout)
	}

	env.MustRun("records", "delete", "entries", "about")
	list = env.MustRun("records", "list", "entries", "--search", "about")
	if !strings.Contains(list.Stdout, "No records found.") {
		t.Errorf("expected no records after delete, got %q", list.Stdout)
	}
}

func TestPreloadResolvesSelections(t *testing.T) {
	env := NewTestEnv(t, siteFields)
	env.MustRun("init")
	ids := seedSite(t, env)

	value := `["` + ids["Hello"] + `","` + ids["About"] + `","gone"]`
	result := env.MustRun("preload", "related_posts", "--value", value)
	payload := ParseJSON[Payload](t, result.Stdout)

	if len(payload.Data) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(payload.Data))
	}
	hello := payload.Data[0]
	if hello.Invalid || hello.Title != "Hello" || hello.Published == nil || !*hello.Published {
		t.Errorf("unexpected first row: %+v", hello)
	}
	// About lives outside the blog collection.
	if !payload.Data[1].Invalid || payload.Data[1].Title != ids["About"] {
		t.Errorf("expected out-of-scope row to be invalid: %+v", payload.Data[1])
	}
	if !payload.Data[2].Invalid || payload.Data[2].ID != "gone" {
		t.Errorf("expected missing row to be invalid: %+v", payload.Data[2])
	}
	if !payload.CanCreate || !payload.CanEdit {
		t.Errorf("entries should allow create and edit by default: %+v", payload)
	}
	if payload.GetBaseSelectionsURLParameters["collections"] != "blog" {
		t.Errorf("unexpected base parameters: %v", payload.GetBaseSelectionsURLParameters)
	}
	if payload.FormComponentProps == nil {
		t.Error("formComponentProps must be an object")
	}

	tags := ParseJSON[Payload](t, env.MustRun("preload", "tags", "--value", `["tags::go"]`).Stdout)
	if !tags.Taggable || len(tags.Data) != 1 || tags.Data[0].Invalid {
		t.Errorf("unexpected tags payload: %+v", tags)
	}

	author := ParseJSON[Payload](t, env.MustRun("preload", "author", "--value", `"ada"`).Stdout)
	if author.CanCreate {
		t.Error("users must never allow create")
	}
	if len(author.Data) != 1 || author.Data[0].Title != "Ada" {
		t.Errorf("unexpected author rows: %+v", author.Data)
	}
}

func TestProcessExitCodes(t *testing.T) {
	env := NewTestEnv(t, siteFields)
	env.MustRun("init")

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantOut  string
	}{
		{name: "single select collapses", args: []string{"process", "author", "ada"}, wantCode: 0, wantOut: "ada"},
		{name: "empty becomes null", args: []string{"process", "related_posts", "--raw", "[]"}, wantCode: 0, wantOut: "null"},
		{name: "too many items", args: []string{"process", "related_posts", "a", "b", "c"}, wantCode: 1},
		{name: "scalar is not an array", args: []string{"process", "related_posts", "--raw", `"a"`}, wantCode: 1},
		{name: "unknown field", args: []string{"process", "nope"}, wantCode: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := env.Run(tt.args...)
			if result.ExitCode != tt.wantCode {
				t.Fatalf("exit code = %d, want %d (stderr: %s)", result.ExitCode, tt.wantCode, result.Stderr)
			}
			if tt.wantOut != "" && strings.TrimSpace(result.Stdout) != tt.wantOut {
				t.Errorf("stdout = %q, want %q", result.Stdout, tt.wantOut)
			}
		})
	}
}

func TestInvalidFieldConfigurationIsUserError(t *testing.T) {
	env := NewTestEnv(t, `fields:
  - handle: author
    type: users
    config:
      create: true
`)
	result := env.Run("fields")
	if result.ExitCode != 1 {
		t.Fatalf("exit code = %d, want 1 (stderr: %s)", result.ExitCode, result.Stderr)
	}
	if !strings.Contains(result.Stderr, "conflicting capability policy") {
		t.Errorf("unexpected stderr: %q", result.Stderr)
	}
}
