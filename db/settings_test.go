package db

import (
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T, path string) *DB {
	t.Helper()
	database, err := New(path)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	return database
}

func TestTokenLifecycle(t *testing.T) {
	database := openTestDB(t, filepath.Join(t.TempDir(), "session.db"))
	defer database.Close()

	if _, ok, err := database.Token(); err != nil || ok {
		t.Fatalf("fresh store: token ok=%v err=%v, want absent", ok, err)
	}

	if err := database.SaveToken("my-bearer-token"); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}

	token, ok, err := database.Token()
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if !ok || token != "my-bearer-token" {
		t.Errorf("Token = %q ok=%v, want my-bearer-token", token, ok)
	}

	if err := database.ClearToken(); err != nil {
		t.Fatalf("ClearToken: %v", err)
	}
	if _, ok, _ := database.Token(); ok {
		t.Error("token still present after ClearToken")
	}

	// Clearing twice is fine
	if err := database.ClearToken(); err != nil {
		t.Errorf("second ClearToken: %v", err)
	}
}

func TestTokenPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")

	database := openTestDB(t, path)
	if err := database.SaveToken("persisted"); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}
	database.Close()

	reopened := openTestDB(t, path)
	defer reopened.Close()

	token, ok, err := reopened.Token()
	if err != nil {
		t.Fatalf("Token after reopen: %v", err)
	}
	if !ok || token != "persisted" {
		t.Errorf("Token after reopen = %q ok=%v, want persisted", token, ok)
	}
}

func TestSetSettingOverwrites(t *testing.T) {
	database := openTestDB(t, filepath.Join(t.TempDir(), "session.db"))
	defer database.Close()

	if err := database.SetSetting("theme", "light"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	if err := database.SetSetting("theme", "dark"); err != nil {
		t.Fatalf("SetSetting overwrite: %v", err)
	}

	value, ok, err := database.GetSetting("theme")
	if err != nil {
		t.Fatalf("GetSetting: %v", err)
	}
	if !ok || value != "dark" {
		t.Errorf("GetSetting = %q ok=%v, want dark", value, ok)
	}
}
