package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestParseFees(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{"default", "10,5", []string{"10", "5"}, false},
		{"spaces and decimals", " 8.5 , 3 ", []string{"8.5", "3"}, false},
		{"blank entries", "10,,", []string{"10"}, false},
		{"empty", "", nil, false},
		{"not a number", "10,abc", nil, true},
		{"negative", "-2", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFees(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseFees(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFees(%q) error: %v", tt.input, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseFees(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i].String() != tt.want[i] {
					t.Errorf("fee %d = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Setenv(EnvFees, "12,3.5")
	t.Setenv(EnvCatalog, "/tmp/catalogo.yaml")
	t.Setenv(EnvLogLevel, "debug")
	t.Cleanup(func() { Logger().SetLevel(logrus.InfoLevel) })

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(cfg.Fees) != 2 || cfg.Fees[1].String() != "3.5" {
		t.Errorf("Fees = %v", cfg.Fees)
	}
	if cfg.CatalogPath != "/tmp/catalogo.yaml" {
		t.Errorf("CatalogPath = %q", cfg.CatalogPath)
	}
	if Logger().GetLevel() != logrus.DebugLevel {
		t.Errorf("log level = %s, want debug", Logger().GetLevel())
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvFees, "")
	t.Setenv(EnvCatalog, "")
	t.Setenv(EnvLogLevel, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(cfg.Fees) != 2 || cfg.Fees[0].String() != "10" || cfg.Fees[1].String() != "5" {
		t.Errorf("default fees = %v", cfg.Fees)
	}
	if cfg.CatalogPath != "" || cfg.LogLevel != "info" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_BadLevel(t *testing.T) {
	t.Setenv(EnvFees, "")
	t.Setenv(EnvLogLevel, "loud")
	if _, err := Load(); err == nil {
		t.Error("expected error for unknown log level")
	}
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(&buf)

	LogError(logger, "handlers", "HandleQuoteBOM", "load quote", map[string]string{"quote": "q1"}, errors.New("not found"))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v\n%s", err, buf.String())
	}
	if entry["msg"] != "not found" || entry["module"] != "handlers" || entry["funcName"] != "HandleQuoteBOM" {
		t.Errorf("entry = %v", entry)
	}
	if entry["level"] != "error" {
		t.Errorf("level = %v", entry["level"])
	}
	if _, ok := entry["data"]; !ok {
		t.Error("data field missing")
	}
}
