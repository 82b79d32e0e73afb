package utils_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/mcochner/codegrab/internal/utils"
)

func TestIsTextual(t *testing.T) {
	testCases := []struct {
		name      string
		data      []byte
		truncated bool
		expected  bool
	}{
		{name: "empty", data: nil, truncated: false, expected: true},
		{name: "plain ascii", data: []byte("package main\n"), truncated: false, expected: true},
		{name: "multibyte text", data: []byte("héllo wörld"), truncated: false, expected: true},
		{name: "null byte", data: []byte{'a', 0x00, 'b'}, truncated: false, expected: false},
		{name: "invalid utf8", data: []byte{0xff, 0xfe, 0xfd}, truncated: false, expected: false},
		{name: "cut multibyte rune tolerated when truncated", data: []byte{'a', 0xe2, 0x82}, truncated: true, expected: true},
		{name: "cut multibyte rune rejected when complete", data: []byte{'a', 0xe2, 0x82}, truncated: false, expected: false},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			actual := utils.IsTextual(testCase.data, testCase.truncated)
			if actual != testCase.expected {
				t.Fatalf("expected %t, got %t", testCase.expected, actual)
			}
		})
	}
}

func TestIsBinary(t *testing.T) {
	if utils.IsBinary(nil) {
		t.Fatalf("empty data must not classify as binary")
	}
	if !utils.IsBinary([]byte{0x00, 0x01}) {
		t.Fatalf("null byte must classify as binary")
	}
	if utils.IsBinary([]byte("hello")) {
		t.Fatalf("plain text must not classify as binary")
	}
}

func TestIsFileTextual(t *testing.T) {
	temporaryDirectory := t.TempDir()

	textFilePath := filepath.Join(temporaryDirectory, "notes.txt")
	if writeError := os.WriteFile(textFilePath, []byte("line one\nline two\n"), 0o644); writeError != nil {
		t.Fatalf("writing text file: %v", writeError)
	}
	if !utils.IsFileTextual(textFilePath) {
		t.Fatalf("expected %s to classify as textual", textFilePath)
	}

	// Null byte inside the probed prefix, despite a text extension.
	binaryFilePath := filepath.Join(temporaryDirectory, "sneaky.txt")
	binaryContent := append([]byte("looks like text"), 0x00, 0x01, 0x02)
	if writeError := os.WriteFile(binaryFilePath, binaryContent, 0o644); writeError != nil {
		t.Fatalf("writing binary file: %v", writeError)
	}
	if utils.IsFileTextual(binaryFilePath) {
		t.Fatalf("expected %s to classify as non-textual", binaryFilePath)
	}

	// Null byte beyond the probed prefix is invisible to the bounded probe.
	longTextFilePath := filepath.Join(temporaryDirectory, "long.txt")
	longContent := append(bytes.Repeat([]byte{'a'}, 4096), 0x00)
	if writeError := os.WriteFile(longTextFilePath, longContent, 0o644); writeError != nil {
		t.Fatalf("writing long file: %v", writeError)
	}
	if !utils.IsFileTextual(longTextFilePath) {
		t.Fatalf("expected bounded probe to accept %s", longTextFilePath)
	}

	if utils.IsFileTextual(filepath.Join(temporaryDirectory, "missing.txt")) {
		t.Fatalf("probe failure must classify as non-textual")
	}
}
