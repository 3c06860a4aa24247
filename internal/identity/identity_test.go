package identity

import (
	"os"
	"path/filepath"
	"testing"

	"hytta/pkg/logger"
	"hytta/pkg/model"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   "error",
		Format:  logger.TEXT,
		Service: "test",
	})
}

func TestLoad_GeneratesProfileOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")

	owner, err := Load(path, testLogger())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if owner.ID == "" {
		t.Error("expected a generated id")
	}
	if owner.Color != model.DefaultOwnerColor {
		t.Errorf("expected default color, got %s", owner.Color)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected profile saved to disk: %v", err)
	}
}

func TestLoad_RoundTripIsStable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")

	first, err := Load(path, testLogger())
	if err != nil {
		t.Fatalf("first load failed: %v", err)
	}
	second, err := Load(path, testLogger())
	if err != nil {
		t.Fatalf("second load failed: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("expected stable identity, got %s then %s", first.ID, second.ID)
	}
}

func TestLoad_ReadsExistingProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	content := "id: user-7\ndisplay_name: Kari\ncolor: \"#16a34a\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	owner, err := Load(path, testLogger())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if owner.ID != "user-7" || owner.DisplayName != "Kari" || owner.Color != "#16a34a" {
		t.Errorf("unexpected profile: %+v", owner)
	}
}

func TestLoad_DefaultsMissingColor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	if err := os.WriteFile(path, []byte("id: user-7\n"), 0o644); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	owner, err := Load(path, testLogger())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if owner.Color != model.DefaultOwnerColor {
		t.Errorf("expected default color, got %s", owner.Color)
	}
}

func TestLoad_RejectsMalformedProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	if err := os.WriteFile(path, []byte("{not yaml"), 0o644); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if _, err := Load(path, testLogger()); err == nil {
		t.Error("expected malformed profile to be rejected, not replaced")
	}
}

func TestLoad_RejectsProfileWithoutID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	if err := os.WriteFile(path, []byte("display_name: Kari\n"), 0o644); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if _, err := Load(path, testLogger()); err == nil {
		t.Error("expected profile without id to be rejected")
	}
}
