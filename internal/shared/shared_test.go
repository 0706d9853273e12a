package shared

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	t.Run("With Writer", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)

		logger.Info("hello")
		if !strings.Contains(buf.String(), "hello") {
			t.Errorf("expected log output, got %q", buf.String())
		}
	})

	t.Run("Nil Writer Defaults To Stderr", func(t *testing.T) {
		if logger := NewLogger(nil); logger == nil {
			t.Error("expected logger")
		}
	})
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "cinetx.log")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	logger.Info("written to file")

	data, err := VerifyAndReadFile(path)
	if err != nil {
		t.Fatalf("expected log file created, got %v", err)
	}
	if len(data) == 0 {
		t.Error("expected log output written to file")
	}
}

func TestGenerateID(t *testing.T) {
	first := GenerateID()
	second := GenerateID()

	if len(first) != 36 {
		t.Errorf("expected uuid format, got %q", first)
	}
	if first == second {
		t.Error("expected unique ids")
	}
}

func TestMarshalJSON(t *testing.T) {
	payload := map[string]string{"name": "cinetx"}

	t.Run("Compact", func(t *testing.T) {
		data, err := MarshalJSON(payload, false)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if strings.Contains(string(data), "\n") {
			t.Errorf("expected compact output, got %q", string(data))
		}
	})

	t.Run("Pretty", func(t *testing.T) {
		data, err := MarshalJSON(payload, true)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(string(data), "\n  ") {
			t.Errorf("expected indented output, got %q", string(data))
		}
	})
}

func TestValidateJSON(t *testing.T) {
	if err := ValidateJSON([]byte(`{"ok":true}`)); err != nil {
		t.Errorf("expected valid JSON accepted, got %v", err)
	}
	if err := ValidateJSON([]byte(`{broken`)); err == nil {
		t.Error("expected malformed JSON rejected")
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		minutes int
		want    string
	}{
		{0, "0m"},
		{42, "42m"},
		{60, "1h 0m"},
		{102, "1h 42m"},
		{155, "2h 35m"},
		{-5, "0m"},
	}

	for _, tc := range cases {
		if got := FormatDuration(tc.minutes); got != tc.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tc.minutes, got, tc.want)
		}
	}
}

func TestStripFieldPrefix(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"With Prefix", "email: El correo electrónico no es válido.", "El correo electrónico no es válido."},
		{"Without Prefix", "Algo salió mal", "Algo salió mal"},
		{"Only First Prefix Stripped", "campo: mensaje: con dos puntos", "mensaje: con dos puntos"},
		{"Empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StripFieldPrefix(tc.input); got != tc.want {
				t.Errorf("StripFieldPrefix(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
