package shared

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.API.BaseURL != "http://localhost:5000" {
		t.Errorf("expected default base url, got %q", config.API.BaseURL)
	}
	if config.API.Timeout() != 10*time.Second {
		t.Errorf("expected 10s timeout, got %s", config.API.Timeout())
	}
	if config.Database.Path != "cinetx.db" {
		t.Errorf("expected default database path, got %q", config.Database.Path)
	}
	if config.UI.NotificationDuration() != 4*time.Second {
		t.Errorf("expected 4s notification duration, got %s", config.UI.NotificationDuration())
	}
}

func TestAPIConfigTimeout(t *testing.T) {
	if got := (APIConfig{TimeoutSeconds: 30}).Timeout(); got != 30*time.Second {
		t.Errorf("expected 30s, got %s", got)
	}
	if got := (APIConfig{TimeoutSeconds: 0}).Timeout(); got != 10*time.Second {
		t.Errorf("expected 10s fallback, got %s", got)
	}
	if got := (APIConfig{TimeoutSeconds: -1}).Timeout(); got != 10*time.Second {
		t.Errorf("expected 10s fallback for negative value, got %s", got)
	}
}

func TestSessionConfigResolveTokenPath(t *testing.T) {
	t.Run("Explicit Path", func(t *testing.T) {
		config := SessionConfig{TokenPath: "/tmp/cinetx-token"}
		if got := config.ResolveTokenPath(); got != "/tmp/cinetx-token" {
			t.Errorf("expected explicit path, got %q", got)
		}
	})

	t.Run("Default Under Home", func(t *testing.T) {
		got := (SessionConfig{}).ResolveTokenPath()
		if !strings.HasSuffix(got, filepath.Join(".cinetx", "token")) {
			t.Errorf("expected $HOME/.cinetx/token, got %q", got)
		}
	})
}

func TestUIConfigNotificationDuration(t *testing.T) {
	if got := (UIConfig{NotificationSeconds: 8}).NotificationDuration(); got != 8*time.Second {
		t.Errorf("expected 8s, got %s", got)
	}
	if got := (UIConfig{}).NotificationDuration(); got != 4*time.Second {
		t.Errorf("expected 4s fallback, got %s", got)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("Valid File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		content := `
[api]
base_url = "https://cinema.example.com"
timeout_seconds = 15

[ui]
notification_seconds = 6
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if config.API.BaseURL != "https://cinema.example.com" {
			t.Errorf("expected parsed base url, got %q", config.API.BaseURL)
		}
		if config.UI.NotificationDuration() != 6*time.Second {
			t.Errorf("expected 6s notifications, got %s", config.UI.NotificationDuration())
		}
	})

	t.Run("Missing File", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("Malformed TOML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte("[api\nbroken"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfig(path); err == nil {
			t.Error("expected parse error")
		}
	})
}

func TestCreateConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	if err := CreateConfigFile(path); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("expected generated file to parse, got %v", err)
	}
	if config.API.BaseURL == "" {
		t.Error("expected example values in generated config")
	}

	if err := CreateConfigFile(path); err == nil {
		t.Error("expected error when config already exists")
	}
}
