package platform

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCreateDirectoryIfNotExists(t *testing.T) {
	tempDir := t.TempDir()
	testDir := filepath.Join(tempDir, "nested", "test_dir")

	if _, err := os.Stat(testDir); !os.IsNotExist(err) {
		t.Fatalf("Test directory already exists: %s", testDir)
	}

	if err := CreateDirectoryIfNotExists(testDir); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	if _, err := os.Stat(testDir); os.IsNotExist(err) {
		t.Fatalf("Directory was not created: %s", testDir)
	}

	// Second call should not fail
	if err := CreateDirectoryIfNotExists(testDir); err != nil {
		t.Fatalf("Failed to handle existing directory: %v", err)
	}
}

func TestDefaultDownloadDir(t *testing.T) {
	dir, err := DefaultDownloadDir()
	if err != nil {
		t.Fatalf("Failed to get download directory: %v", err)
	}

	if filepath.Base(dir) != DownloadFolderName {
		t.Errorf("Expected directory to end with %q, got: %s", DownloadFolderName, dir)
	}
	if filepath.Base(filepath.Dir(dir)) != "Downloads" {
		t.Errorf("Expected parent to be Downloads, got: %s", dir)
	}
}

func touch(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	f.Close()
}

func TestResolveDownloadedFile(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "Exact Name.mp4"))
	touch(t, filepath.Join(dir, "Merged Clip.mkv"))
	touch(t, filepath.Join(dir, "Half Done.mp4.part"))

	tests := []struct {
		filename string
		expected string
		wantErr  bool
	}{
		{"Exact Name.mp4", "Exact Name.mp4", false},
		{"/somewhere/else/Exact Name.mp4", "Exact Name.mp4", false},
		{"Merged Clip.mp4", "Merged Clip.mkv", false},
		{"Half Done.mp4", "", true},
		{"Missing.mp4", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got, err := ResolveDownloadedFile(dir, tt.filename)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error, got %s", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != filepath.Join(dir, tt.expected) {
				t.Errorf("Expected %s, got %s", filepath.Join(dir, tt.expected), got)
			}
		})
	}
}

func TestOpenFolder_NonExistent(t *testing.T) {
	err := OpenFolder(filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatal("Expected error for non-existent folder, got nil")
	}
	if !strings.Contains(err.Error(), "folder does not exist") {
		t.Errorf("Unexpected error message: %v", err)
	}
}

func TestRevealFile_NonExistent(t *testing.T) {
	err := RevealFile(filepath.Join(t.TempDir(), "nonexistent.mp4"))
	if err == nil {
		t.Fatal("Expected error for non-existent file, got nil")
	}
	if !strings.Contains(err.Error(), "file does not exist") {
		t.Errorf("Unexpected error message: %v", err)
	}
}
