package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOpen_CreatesDirsAndWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "perch.log")

	logger, closer, err := Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}

	logger.Info("hello")
	closer()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"hello"`) {
		t.Fatalf("log file contents = %q, want JSON entry with msg hello", string(data))
	}
}

func TestOpen_AppendsAcrossSessions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "perch.log")

	for _, msg := range []string{"first", "second"} {
		logger, closer, err := Open(path)
		if err != nil {
			t.Fatalf("Open returned error: %v", err)
		}
		logger.Info(msg)
		closer()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "first") || !strings.Contains(string(data), "second") {
		t.Fatalf("log file contents = %q, want both sessions' entries", string(data))
	}
}
