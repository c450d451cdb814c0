package cdpcfg

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindConfig_Explicit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	os.WriteFile(path, []byte("debugging_url: http://localhost:9222\n"), 0600)

	got, err := FindConfig(path)
	if err != nil {
		t.Fatalf("FindConfig(%q) error: %v", path, err)
	}
	if got != path {
		t.Errorf("FindConfig(%q) = %q, want %q", path, got, path)
	}
}

func TestFindConfig_ExplicitMissing(t *testing.T) {
	_, err := FindConfig("/nonexistent/config.yaml")
	if err == nil {
		t.Fatal("FindConfig with missing explicit path should error")
	}
}

func TestFindConfig_SearchPath(t *testing.T) {
	// Override searchPathsFunc to avoid finding real config files on
	// developer/deploy machines (~/.config/cdpmux/config.yaml, etc.).
	dir := t.TempDir()
	orig := searchPathsFunc
	searchPathsFunc = func() []string {
		return []string{filepath.Join(dir, "config.yaml")}
	}
	defer func() { searchPathsFunc = orig }()

	_, err := FindConfig("")
	if err == nil {
		t.Fatal("FindConfig(\"\") with no config files should error")
	}
}

func TestFindConfig_CWD(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte("debugging_url: http://localhost:9222\n"), 0600)

	orig := searchPathsFunc
	searchPathsFunc = func() []string {
		return []string{"config.yaml"}
	}
	defer func() { searchPathsFunc = orig }()

	cwd, _ := os.Getwd()
	os.Chdir(dir)
	defer os.Chdir(cwd)

	got, err := FindConfig("")
	if err != nil {
		t.Fatalf("FindConfig(\"\") error: %v", err)
	}
	if got != "config.yaml" {
		t.Errorf("FindConfig(\"\") = %q, want %q", got, "config.yaml")
	}
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte("debugging_url: ${CDPMUX_TEST_URL}\n"), 0600)
	os.Setenv("CDPMUX_TEST_URL", "http://localhost:9333")
	defer os.Unsetenv("CDPMUX_TEST_URL")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.DebuggingURL != "http://localhost:9333" {
		t.Errorf("DebuggingURL = %q, want %q", cfg.DebuggingURL, "http://localhost:9333")
	}
}

func TestLoad_AppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte("debugging_url: http://localhost:9222\n"), 0600)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.EventBufferSize != 64 {
		t.Errorf("EventBufferSize = %d, want 64", cfg.EventBufferSize)
	}
	if cfg.DialRetries != 10 {
		t.Errorf("DialRetries = %d, want 10", cfg.DialRetries)
	}
}

func TestLoad_RejectsMissingDebuggingURL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte("event_buffer_size: 10\n"), 0600)

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected validation error for missing debugging_url")
	}
}

func TestLoad_RejectsInvalidLogLevel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte("debugging_url: http://localhost:9222\nlog_level: bogus\n"), 0600)

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected validation error for an unrecognized log_level")
	}
}

func TestValidate_EventBufferSizeTooLow(t *testing.T) {
	cfg := Default()
	cfg.EventBufferSize = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for event_buffer_size below 1")
	}
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default() should already be valid, got: %v", err)
	}
}
