package common

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()
	if cfg.OCR.Tesseract != "tesseract" {
		t.Errorf("Tesseract = %q", cfg.OCR.Tesseract)
	}
	if cfg.OCR.Languages != DefaultLanguages {
		t.Errorf("Languages = %q", cfg.OCR.Languages)
	}
	if cfg.Extract.DefaultCountryCode != DefaultCountryCode {
		t.Errorf("DefaultCountryCode = %q", cfg.Extract.DefaultCountryCode)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("PHONESIFT_LANGS", "eng")
	t.Setenv("PHONESIFT_DEFAULT_CC", "+971")
	t.Setenv("PHONESIFT_CONTEXT_LINES", "5")
	t.Setenv("PHONESIFT_OCR_TIMEOUT", "90s")
	t.Setenv("PHONESIFT_PREPROCESS", "false")

	cfg := LoadConfig()
	if cfg.OCR.Languages != "eng" {
		t.Errorf("Languages = %q", cfg.OCR.Languages)
	}
	if cfg.Extract.DefaultCountryCode != "+971" {
		t.Errorf("DefaultCountryCode = %q", cfg.Extract.DefaultCountryCode)
	}
	if cfg.Extract.ContextLines != 5 {
		t.Errorf("ContextLines = %d", cfg.Extract.ContextLines)
	}
	if cfg.OCR.Timeout != 90*time.Second {
		t.Errorf("Timeout = %v", cfg.OCR.Timeout)
	}
	if cfg.OCR.Preprocess {
		t.Error("Preprocess should be disabled")
	}
}

func TestValidateRejectsBadCountryCode(t *testing.T) {
	tests := []string{"", "966", "+", "+96a", "+12345"}
	for _, cc := range tests {
		cfg := DefaultConfig()
		cfg.Extract.DefaultCountryCode = cc
		if err := cfg.Validate(); err == nil {
			t.Errorf("expected validation error for country code %q", cc)
		}
	}
}

func TestValidateRejectsNegativeContextLines(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Extract.ContextLines = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for negative context lines")
	}
}
