package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/findkit/internal/search"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, contents := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func runCLI(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(args, &out, &errOut)
	return out.String(), errOut.String(), code
}

func TestRenderReportContract(t *testing.T) {
	report, err := search.SearchInFiles([]search.FileInput{
		{Path: "src/a.go", Contents: "needle here\nand a needle there"},
		{Path: "src/b.go", Contents: "nothing"},
	}, search.NewOptions("needle"))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	renderReport(&buf, "needle", report)

	want := `Search "needle" (2 hits in 1 files)
  src/a.go (2 hits)
    Line 1 (Col 1): needle here
    Line 2 (Col 7): and a needle there
`
	if buf.String() != want {
		t.Errorf("renderReport output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestRenderEmptyReport(t *testing.T) {
	var buf bytes.Buffer
	renderReport(&buf, "x", search.NewReport(nil))
	if buf.String() != "No matches found.\n" {
		t.Errorf("output = %q, want no-matches message", buf.String())
	}
}

func TestRunSearch(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"one.txt": "alpha needle\n",
		"two.txt": "clean\n",
	})

	stdout, stderr, code := runCLI(t, "needle", dir)
	if code != 0 {
		t.Fatalf("run() = %d, stderr = %s", code, stderr)
	}
	if !strings.Contains(stdout, `Search "needle" (1 hits in 1 files)`) {
		t.Errorf("missing summary header:\n%s", stdout)
	}
	if !strings.Contains(stdout, "Line 1 (Col 7): alpha needle") {
		t.Errorf("missing match line:\n%s", stdout)
	}
	if strings.Contains(stdout, "two.txt") {
		t.Errorf("zero-match file rendered:\n%s", stdout)
	}
}

func TestRunNoMatches(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.txt": "nothing\n"})
	stdout, _, code := runCLI(t, "zzz", dir)
	if code != 0 {
		t.Fatalf("run() = %d", code)
	}
	if !strings.Contains(stdout, "No matches found.") {
		t.Errorf("output = %q", stdout)
	}
}

func TestRunReplaceDryRun(t *testing.T) {
	dir := writeTree(t, map[string]string{"todo.txt": "TODO: fix\nTODO: test\n"})
	path := filepath.Join(dir, "todo.txt")

	stdout, _, code := runCLI(t, "--replace", "DONE", "TODO", path)
	if code != 0 {
		t.Fatalf("run() = %d", code)
	}
	if !strings.Contains(stdout, "Dry run only; re-run with --apply to write changes.") {
		t.Errorf("missing dry-run notice:\n%s", stdout)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "TODO: fix\nTODO: test\n" {
		t.Errorf("dry run modified the file: %q", data)
	}
}

func TestRunReplaceApply(t *testing.T) {
	dir := writeTree(t, map[string]string{"todo.txt": "TODO: fix\nTODO: test\n"})
	path := filepath.Join(dir, "todo.txt")

	stdout, _, code := runCLI(t, "--replace", "DONE", "--apply", "TODO", path)
	if code != 0 {
		t.Fatalf("run() = %d", code)
	}
	if !strings.Contains(stdout, "Applied 2 replacements to "+path) {
		t.Errorf("missing applied notice:\n%s", stdout)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "DONE: fix\nDONE: test\n" {
		t.Errorf("contents = %q, want replaced", data)
	}
}

func TestRunRegexCaptures(t *testing.T) {
	dir := writeTree(t, map[string]string{"vars.txt": "let x = 1;\nlet y = 2;\n"})
	path := filepath.Join(dir, "vars.txt")

	_, _, code := runCLI(t, "--regex", "--replace", "const $1: i32 = $2;", "--apply", `let (\w+) = (\d+);`, path)
	if code != 0 {
		t.Fatalf("run() = %d", code)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "const x: i32 = 1;\nconst y: i32 = 2;\n" {
		t.Errorf("contents = %q", data)
	}
}

func TestRunInResults(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"log.txt": "error: disk full\nerror: retry ok\nwarning: slow\n",
	})

	stdout, _, code := runCLI(t, "--in-results", "disk", "error", dir)
	if code != 0 {
		t.Fatalf("run() = %d", code)
	}
	if !strings.Contains(stdout, "(1 hits in 1 files)") {
		t.Errorf("narrowed summary missing:\n%s", stdout)
	}
	if strings.Contains(stdout, "retry") {
		t.Errorf("filtered match still rendered:\n%s", stdout)
	}
}

func TestRunMarkWhere(t *testing.T) {
	dir := writeTree(t, map[string]string{"m.txt": "hit\nhit\nhit\n"})

	stdout, _, code := runCLI(t, "--mark-where", "m.line >= 2", "hit", dir)
	if code != 0 {
		t.Fatalf("run() = %d", code)
	}
	if !strings.Contains(stdout, "Marked 2 matches (0 already marked).") {
		t.Errorf("mark summary missing:\n%s", stdout)
	}
}

func TestRunInvalidPattern(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.txt": "x"})
	_, stderr, code := runCLI(t, "--regex", "(", dir)
	if code == 0 {
		t.Fatal("run() = 0, want failure for invalid pattern")
	}
	if !strings.Contains(stderr, "invalid") {
		t.Errorf("stderr = %q, want pattern error", stderr)
	}
}

func TestRunMissingPathWarns(t *testing.T) {
	stdout, stderr, code := runCLI(t, "x", filepath.Join(t.TempDir(), "ghost"))
	if code != 0 {
		t.Fatalf("run() = %d", code)
	}
	if !strings.Contains(stderr, "does not exist") {
		t.Errorf("stderr = %q", stderr)
	}
	if !strings.Contains(stdout, "No files to search.") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestRunVersion(t *testing.T) {
	stdout, _, code := runCLI(t, "--version")
	if code != 0 {
		t.Fatalf("run() = %d", code)
	}
	if !strings.Contains(stdout, "findkit") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestRunMissingPattern(t *testing.T) {
	_, stderr, code := runCLI(t)
	if code == 0 {
		t.Fatal("run() = 0, want failure without PATTERN")
	}
	if !strings.Contains(stderr, "PATTERN") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestRunWatchRejectsReplace(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.txt": "x"})
	_, stderr, code := runCLI(t, "--watch", "--replace", "y", "x", dir)
	if code == 0 {
		t.Fatal("run() = 0, want failure")
	}
	if !strings.Contains(stderr, "--watch cannot be combined with --replace") {
		t.Errorf("stderr = %q", stderr)
	}
}
