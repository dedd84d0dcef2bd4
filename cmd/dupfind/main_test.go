package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	dupfind "github.com/mattkeenan/dupfind/pkg"
)

// executeCommand runs the root command with an isolated config location
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Cleanup(func() {
		dupfind.SetVerboseOutput(nil)
		dupfind.SetVerboseLevel(0)
		dupfind.SetDebugFlags("")
	})

	var stdout, stderr bytes.Buffer
	cmd := newRootCommand(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func createTestTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"a":       "hello",
		"b":       "hello",
		"c":       "world",
		"sub/d":   "world",
		"sub/e":   "unique",
		"ign/f":   "hello",
		"empty1":  "",
		"x/empty": "",
	}
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	return root
}

func TestFlagDefaults(t *testing.T) {
	cmd := newRootCommand(&bytes.Buffer{}, &bytes.Buffer{})

	directory, err := cmd.Flags().GetString("directory")
	if err != nil {
		t.Fatalf("Failed to get directory flag: %v", err)
	}
	if directory != "." {
		t.Errorf("Expected default directory '.', got '%s'", directory)
	}

	if flag := cmd.Flags().ShorthandLookup("d"); flag == nil || flag.Name != "directory" {
		t.Error("Expected -d to be the short form of --directory")
	}

	format, _ := cmd.Flags().GetString("format")
	if format != dupfind.FormatHuman {
		t.Errorf("Expected default format 'human', got '%s'", format)
	}
}

func TestRun_HumanOutput(t *testing.T) {
	root := createTestTree(t)

	stdout, stderr, err := executeCommand(t, "-d", root, "--color", "never")
	if err != nil {
		t.Fatalf("Command failed: %v (stderr: %s)", err, stderr)
	}

	expected := "Duplicate files:\n\n" +
		"Group ([1/3]):\n" +
		"\t- " + filepath.Join(root, "a") + "\n" +
		"\t- " + filepath.Join(root, "b") + "\n" +
		"\t- " + filepath.Join(root, "ign/f") + "\n\n" +
		"Group ([2/3]):\n" +
		"\t- " + filepath.Join(root, "c") + "\n" +
		"\t- " + filepath.Join(root, "sub/d") + "\n\n" +
		"Group ([3/3]):\n" +
		"\t- " + filepath.Join(root, "empty1") + "\n" +
		"\t- " + filepath.Join(root, "x/empty") + "\n\n"

	if stdout != expected {
		t.Errorf("Unexpected output:\n%s\nexpected:\n%s", stdout, expected)
	}
	if stderr != "" {
		t.Errorf("Expected no stderr output, got %q", stderr)
	}
}

func TestRun_JSONOutput(t *testing.T) {
	root := createTestTree(t)

	stdout, _, err := executeCommand(t, "--directory", root, "--format", "json", "--workers", "2")
	if err != nil {
		t.Fatalf("Command failed: %v", err)
	}

	var groups []dupfind.DuplicateGroup
	if err := json.Unmarshal([]byte(stdout), &groups); err != nil {
		t.Fatalf("Output is not valid JSON: %v\n%s", err, stdout)
	}
	if len(groups) != 3 {
		t.Fatalf("Expected 3 groups, got %d", len(groups))
	}
	if groups[0].Count != 3 || groups[0].Size != 5 {
		t.Errorf("Unexpected first group: %+v", groups[0])
	}
}

func TestRun_IgnoreFileAndOverride(t *testing.T) {
	root := createTestTree(t)
	ignorePath := filepath.Join(t.TempDir(), "ignore")
	if err := os.WriteFile(ignorePath, []byte("# skip\n^ign(/|$)\n"), 0644); err != nil {
		t.Fatalf("Failed to write ignore file: %v", err)
	}

	stdout, _, err := executeCommand(t, "-d", root, "-o", "format:fdupes", "--ignore-file", ignorePath)
	if err != nil {
		t.Fatalf("Command failed: %v", err)
	}

	if strings.Contains(stdout, filepath.Join(root, "ign")) {
		t.Errorf("Ignored directory should not appear in output:\n%s", stdout)
	}
	firstGroup := filepath.Join(root, "a") + "\n" + filepath.Join(root, "b") + "\n\n"
	if !strings.HasPrefix(stdout, firstGroup) {
		t.Errorf("Expected fdupes output starting with %q, got %q", firstGroup, stdout)
	}
}

func TestRun_ConfigFile(t *testing.T) {
	root := createTestTree(t)
	configPath := filepath.Join(t.TempDir(), "config")
	if err := os.WriteFile(configPath, []byte("[output]\nformat = fdupes\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	stdout, _, err := executeCommand(t, "-d", root, "-c", configPath)
	if err != nil {
		t.Fatalf("Command failed: %v", err)
	}
	if strings.HasPrefix(stdout, "Duplicate files:") {
		t.Error("Expected config file to select fdupes format")
	}

	// An explicit flag wins over the config file
	stdout, _, err = executeCommand(t, "-d", root, "-c", configPath, "-f", "human", "--color", "never")
	if err != nil {
		t.Fatalf("Command failed: %v", err)
	}
	if !strings.HasPrefix(stdout, "Duplicate files:\n\n") {
		t.Errorf("Expected human output, got %q", stdout)
	}
}

func TestRun_MissingDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")

	stdout, stderr, err := executeCommand(t, "-d", missing, "--color", "never")
	if err != nil {
		t.Fatalf("Missing directory should not fail the run: %v", err)
	}
	if stdout != "Duplicate files:\n\n" {
		t.Errorf("Expected empty result, got %q", stdout)
	}
	if !strings.Contains(stderr, "[ERROR]") || !strings.Contains(stderr, missing) {
		t.Errorf("Expected error for missing directory on stderr, got %q", stderr)
	}
}

func TestRun_VerboseOutput(t *testing.T) {
	root := createTestTree(t)

	_, stderr, err := executeCommand(t, "-d", root, "-v", "--debug", "group")
	if err != nil {
		t.Fatalf("Command failed: %v", err)
	}
	if !strings.Contains(stderr, "[VERBOSE-1] found 3 duplicate groups") {
		t.Errorf("Expected verbose summary on stderr, got %q", stderr)
	}
	if !strings.Contains(stderr, "[GROUP] ") {
		t.Errorf("Expected group debug output on stderr, got %q", stderr)
	}
}

func TestRun_InvalidArguments(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"invalid format", []string{"--format", "xml"}},
		{"invalid color", []string{"--color", "rainbow"}},
		{"zero workers", []string{"--workers", "0"}},
		{"unknown flag", []string{"--bogus"}},
		{"positional argument", []string{"somewhere"}},
		{"bad override", []string{"-o", "nonsense"}},
		{"unknown override key", []string{"-o", "mode:all"}},
		{"too verbose", []string{"-vvvv"}},
		{"unknown debug flag", []string{"--debug", "snapshot"}},
		{"missing ignore file", []string{"--ignore-file", "/nonexistent/dupfind-ignore"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := executeCommand(t, append([]string{"-d", t.TempDir()}, tt.args...)...)
			if err == nil {
				t.Error("Expected error")
			}
			if stdout != "" {
				t.Errorf("Expected no output before scanning, got %q", stdout)
			}
		})
	}
}

func TestVersion(t *testing.T) {
	stdout, _, err := executeCommand(t, "--version")
	if err != nil {
		t.Fatalf("Command failed: %v", err)
	}
	if stdout != "dupfind "+version+"\n" {
		t.Errorf("Unexpected version output %q", stdout)
	}
}

func TestRun_Progress(t *testing.T) {
	root := createTestTree(t)

	stdout, _, err := executeCommand(t, "-d", root, "--progress", "-f", "fdupes")
	if err != nil {
		t.Fatalf("Command failed: %v", err)
	}
	if !strings.HasPrefix(stdout, filepath.Join(root, "a")+"\n") {
		t.Errorf("Progress output must not reach stdout, got %q", stdout)
	}
}

func TestRun_DefaultDirectoryKeepsDotPrefix(t *testing.T) {
	root := createTestTree(t)
	t.Chdir(root)

	stdout, _, err := executeCommand(t, "-f", "fdupes")
	if err != nil {
		t.Fatalf("Command failed: %v", err)
	}

	sep := string(filepath.Separator)
	firstGroup := "." + sep + "a\n" + "." + sep + "b\n" + "." + sep + "ign" + sep + "f\n\n"
	if !strings.HasPrefix(stdout, firstGroup) {
		t.Errorf("Expected paths under ./, got %q", stdout)
	}
}
