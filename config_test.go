package main

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	c, err := loadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Port != "8080" {
		t.Errorf("port %q want 8080", c.Port)
	}
	if c.Extract.MinContent != 10 || c.Extract.CourtMin != 1 || c.Extract.CourtMax != 25 {
		t.Errorf("unexpected extraction defaults: %+v", c.Extract)
	}
}

func TestLoadConfigRequiresToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	if _, err := loadConfig(); err == nil {
		t.Fatal("expected error when TELEGRAM_BOT_TOKEN is missing")
	}
}

func TestLoadConfigExtractionTuning(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("OCR_MIN_CONTENT", "20")
	t.Setenv("OCR_BUDGET", "5s")
	t.Setenv("COURT_MAX", "40")
	t.Setenv("PINNED_COURTS", "14, 7")
	c, err := loadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Extract.MinContent != 20 {
		t.Errorf("min content %d want 20", c.Extract.MinContent)
	}
	if c.Extract.Budget != 5*time.Second {
		t.Errorf("budget %v want 5s", c.Extract.Budget)
	}
	if c.Extract.CourtMax != 40 {
		t.Errorf("court max %d want 40", c.Extract.CourtMax)
	}
	if len(c.Extract.Pinned.Courts) != 2 || c.Extract.Pinned.Courts[0] != "14" {
		t.Errorf("pinned courts %v", c.Extract.Pinned.Courts)
	}
}

func TestLoadConfigBadAdminID(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("ADMIN_ID", "not-a-number")
	if _, err := loadConfig(); err == nil {
		t.Fatal("expected error for malformed ADMIN_ID")
	}
}
