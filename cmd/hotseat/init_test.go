package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/tantoon94/hotseat/internal/config"
)

// TestNewInitCmd tests the init command creation.
func TestNewInitCmd(t *testing.T) {
	t.Parallel()

	cmd := NewInitCmd()

	t.Run("has output flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("output")
		if flag == nil {
			t.Fatal("expected output flag")
		}
		if flag.Shorthand != "o" {
			t.Errorf("expected shorthand 'o', got %q", flag.Shorthand)
		}
		if flag.DefValue != config.DefaultConfigFile {
			t.Errorf("expected default %q, got %q", config.DefaultConfigFile, flag.DefValue)
		}
	})

	t.Run("has force flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("force")
		if flag == nil {
			t.Fatal("expected force flag")
		}
		if flag.Shorthand != "f" {
			t.Errorf("expected shorthand 'f', got %q", flag.Shorthand)
		}
	})
}

// TestRunInitCmd tests the init command execution.
func TestRunInitCmd(t *testing.T) {
	t.Parallel()

	t.Run("creates config file in the exhibit directory", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		out, _, err := execute(t, "-C", dir, "init")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		path := filepath.Join(dir, config.DefaultConfigFile)
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("expected config file to be created: %v", err)
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
		}
		if !strings.Contains(out, "Created configuration file") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("refuses to overwrite without force", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte("seats: 9\n"), 0600); err != nil {
			t.Fatal(err)
		}

		if _, _, err := execute(t, "init", "-o", path); err == nil {
			t.Fatal("expected error for existing file")
		}

		if _, _, err := execute(t, "init", "-o", path, "-f"); err != nil {
			t.Fatalf("unexpected error with -f: %v", err)
		}
		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(content), "# hotseat configuration") {
			t.Error("expected file to be overwritten with the template")
		}
	})

	t.Run("creates parent directories", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nested", "dir", "hotseat.yaml")
		if _, _, err := execute(t, "init", "-o", path); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected file to exist: %v", err)
		}
	})
}

// TestConfigTemplate checks that the embedded template documents exactly
// the built-in defaults.
func TestConfigTemplate(t *testing.T) {
	t.Parallel()

	content, err := configTemplate.ReadFile(configTemplatePath)
	if err != nil {
		t.Fatal(err)
	}

	cfg := config.NewConfig()
	if err := yaml.Unmarshal(content, cfg); err != nil {
		t.Fatalf("template is not valid YAML: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("template is not a valid configuration: %v", err)
	}
	if diff := cmp.Diff(config.NewConfig(), cfg); diff != "" {
		t.Errorf("template differs from defaults (-want +got):\n%s", diff)
	}
}
