// +build integration

package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// buildTestBinary compiles the CLI for end-to-end command tests.
func buildTestBinary(t *testing.T) string {
	t.Helper()
	buildCmd := exec.Command("go", "build", "-o", "replay_test", ".")
	if err := buildCmd.Run(); err != nil {
		t.Fatalf("Failed to build binary: %v", err)
	}
	t.Cleanup(func() { os.Remove("replay_test") })
	abs, err := filepath.Abs("replay_test")
	if err != nil {
		t.Fatalf("Failed to resolve binary path: %v", err)
	}
	return abs
}

// writeSnapshot seeds a cache directory with a small known history.
func writeSnapshot(t *testing.T, dir, user string) {
	t.Helper()
	content := "artist,album,track,timestamp,duration\n" +
		"Artist A,Album A,Track 1,2024-01-01T10:00:00Z,0\n" +
		"Artist B,Album B,Track 2,2024-01-02T11:00:00Z,0\n" +
		"Artist C,Album C,Track 3,2024-01-03T12:00:00Z,0\n" +
		"Artist D,Album D,Track 4,2024-01-05T13:00:00Z,0\n"
	if err := os.WriteFile(filepath.Join(dir, user+".csv"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write snapshot: %v", err)
	}
}

// TestStatsCommand runs the stats command against a seeded snapshot
func TestStatsCommand(t *testing.T) {
	bin := buildTestBinary(t)
	tmpDir := t.TempDir()
	writeSnapshot(t, tmpDir, "testuser")

	cmd := exec.Command(bin, "stats", "--user", "testuser")
	cmd.Env = append(os.Environ(), "REPLAY_CACHE_DIR="+tmpDir)

	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("stats failed: %v\nOutput: %s", err, output)
	}

	out := string(output)
	if !strings.Contains(out, "Scrobbles:       4") {
		t.Errorf("expected 4 scrobbles in output:\n%s", out)
	}
	if !strings.Contains(out, "Unique artists:  4") {
		t.Errorf("expected 4 unique artists in output:\n%s", out)
	}
	if !strings.Contains(out, "Longest streak:  3 day(s)") {
		t.Errorf("expected 3-day streak in output:\n%s", out)
	}
}

// TestExportImportRoundTrip exports a snapshot and imports it into a fresh one
func TestExportImportRoundTrip(t *testing.T) {
	bin := buildTestBinary(t)
	srcDir := t.TempDir()
	dstDir := t.TempDir()
	writeSnapshot(t, srcDir, "testuser")

	exportPath := filepath.Join(t.TempDir(), "export.csv")

	exportCmd := exec.Command(bin, "export", "--user", "testuser", "--out", exportPath)
	exportCmd.Env = append(os.Environ(), "REPLAY_CACHE_DIR="+srcDir)
	if output, err := exportCmd.CombinedOutput(); err != nil {
		t.Fatalf("export failed: %v\nOutput: %s", err, output)
	}

	importCmd := exec.Command(bin, "import", exportPath, "--user", "testuser")
	importCmd.Env = append(os.Environ(), "REPLAY_CACHE_DIR="+dstDir)
	output, err := importCmd.CombinedOutput()
	if err != nil {
		t.Fatalf("import failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(string(output), "4 new") {
		t.Errorf("expected 4 new scrobbles from import:\n%s", output)
	}
}

// TestFetchWithoutConfig verifies the error message when nothing is configured
func TestFetchWithoutConfig(t *testing.T) {
	bin := buildTestBinary(t)

	cmd := exec.Command(bin, "fetch")
	cmd.Env = append(os.Environ(), "REPLAY_CACHE_DIR="+t.TempDir())
	cmd.Dir = t.TempDir() // avoid picking up a local config.yaml

	output, err := cmd.CombinedOutput()
	if err == nil {
		t.Fatalf("expected fetch to fail without config, output: %s", output)
	}
	if !strings.Contains(string(output), "no username given") {
		t.Errorf("expected username error, got:\n%s", output)
	}
}
