// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.DBPath != "./data/pagecore.db" {
		t.Errorf("DBPath = %q, want default", cfg.DBPath)
	}
	if len(cfg.Languages) != 1 || cfg.Languages[0] != "en" {
		t.Errorf("Languages = %v, want [en]", cfg.Languages)
	}
	if cfg.DefaultLanguage != "en" {
		t.Errorf("DefaultLanguage = %q, want en", cfg.DefaultLanguage)
	}
	if cfg.RevisionDepth != 0 {
		t.Errorf("RevisionDepth = %d, want 0", cfg.RevisionDepth)
	}
	if cfg.UseRedisCache() {
		t.Error("UseRedisCache should be false by default")
	}
}

func TestLoadLanguageList(t *testing.T) {
	t.Setenv("PAGECORE_LANGUAGES", "en,fr,de")
	t.Setenv("PAGECORE_DEFAULT_LANGUAGE", "fr")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := []string{"en", "fr", "de"}
	if len(cfg.Languages) != len(want) {
		t.Fatalf("Languages = %v, want %v", cfg.Languages, want)
	}
	for i, l := range want {
		if cfg.Languages[i] != l {
			t.Errorf("Languages[%d] = %q, want %q", i, cfg.Languages[i], l)
		}
	}
	if cfg.DefaultLanguage != "fr" {
		t.Errorf("DefaultLanguage = %q, want fr", cfg.DefaultLanguage)
	}
}

func TestLoadRejectsUnknownDefaultLanguage(t *testing.T) {
	t.Setenv("PAGECORE_LANGUAGES", "en,fr")
	t.Setenv("PAGECORE_DEFAULT_LANGUAGE", "de")

	if _, err := Load(); err == nil {
		t.Error("expected error for default language outside language list")
	}
}

func TestLoadRejectsNegativeRevisionDepth(t *testing.T) {
	t.Setenv("PAGECORE_REVISION_DEPTH", "-1")

	if _, err := Load(); err == nil {
		t.Error("expected error for negative revision depth")
	}
}
