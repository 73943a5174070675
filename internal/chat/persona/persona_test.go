package persona

import (
	"os"
	"path/filepath"
	"testing"

	"portfolio_backend/platform/i18n"
)

func TestDefaultMenuHasFiveServices(t *testing.T) {
	cfg := Default()
	if len(cfg.Services) != 5 {
		t.Fatalf("len(Services) = %d, want 5", len(cfg.Services))
	}
	for _, svc := range cfg.Services {
		if svc.Key == "" || svc.TitleEN == "" || svc.TitleAR == "" {
			t.Fatalf("incomplete menu entry: %+v", svc)
		}
	}
	if cfg.ServiceDetail == "" || cfg.Brainstorm == "" || cfg.Consultation == "" {
		t.Fatal("default personas must not be empty")
	}
}

func TestServiceTitleFallsBackToEnglish(t *testing.T) {
	svc := ServiceCategory{Key: "x", TitleEN: "Automation"}
	if got := svc.Title(i18n.Arabic); got != "Automation" {
		t.Fatalf("Title(ar) = %q, want English fallback", got)
	}
	svc.TitleAR = "أتمتة"
	if got := svc.Title(i18n.Arabic); got != "أتمتة" {
		t.Fatalf("Title(ar) = %q, want Arabic title", got)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Services) != len(Default().Services) {
		t.Fatalf("missing file should yield defaults, got %d services", len(cfg.Services))
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "personas.yaml")
	data := []byte("brainstorm: custom brainstorm persona\n" +
		"services:\n" +
		"  - key: custom\n" +
		"    titleEn: Custom Service\n" +
		"    titleAr: خدمة مخصصة\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Brainstorm != "custom brainstorm persona" {
		t.Fatalf("Brainstorm = %q, want overlay value", cfg.Brainstorm)
	}
	if cfg.ServiceDetail != Default().ServiceDetail {
		t.Fatal("unset keys must keep default values")
	}
	if len(cfg.Services) != 1 || cfg.Services[0].Key != "custom" {
		t.Fatalf("Services = %+v, want the single overlay entry", cfg.Services)
	}
	if _, ok := cfg.FindService("custom"); !ok {
		t.Fatal("FindService should locate overlay entry")
	}
}

func TestLoadEmptyServiceListKeepsDefaultMenu(t *testing.T) {
	path := filepath.Join(t.TempDir(), "personas.yaml")
	if err := os.WriteFile(path, []byte("consultation: only text\n"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Services) != 5 {
		t.Fatalf("empty menu should fall back to defaults, got %d", len(cfg.Services))
	}
}
