package utils

import (
	"io"
	"os"
	"unicode/utf8"
)

// probeLength defines the maximum number of bytes read when classifying file content.
const probeLength = 512

// IsTextual reports whether the provided byte slice appears to contain textual data.
// Data is textual when it holds no null byte and is valid UTF-8. When truncated is
// true the slice is a bounded prefix of a larger stream, and an incomplete trailing
// rune at the cut point is tolerated.
func IsTextual(data []byte, truncated bool) bool {
	for _, byteValue := range data {
		if byteValue == 0 {
			return false
		}
	}
	checked := data
	if truncated {
		checked = trimIncompleteTrailingRune(checked)
	}
	return utf8.Valid(checked)
}

// IsBinary reports whether the provided byte slice appears to contain binary data.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	return !IsTextual(data, false)
}

// IsFileTextual reads up to probeLength bytes from the file at path and reports
// whether the content appears textual. Probe failures classify as non-textual,
// favoring precision of the output over completeness.
func IsFileTextual(path string) bool {
	fileHandle, openError := os.Open(path)
	if openError != nil {
		return false
	}
	defer fileHandle.Close()

	buffer := make([]byte, probeLength)
	bytesRead, readError := io.ReadFull(fileHandle, buffer)
	if readError != nil && readError != io.EOF && readError != io.ErrUnexpectedEOF {
		return false
	}
	return IsTextual(buffer[:bytesRead], bytesRead == probeLength)
}

// trimIncompleteTrailingRune removes a partial multi-byte rune left at the end of a
// prefix cut mid-sequence. At most utf8.UTFMax-1 continuation bytes are dropped.
func trimIncompleteTrailingRune(data []byte) []byte {
	end := len(data)
	for trimmed := 0; trimmed < utf8.UTFMax-1 && end > 0; trimmed++ {
		lastRune, runeSize := utf8.DecodeLastRune(data[:end])
		if lastRune != utf8.RuneError || runeSize != 1 {
			return data[:end]
		}
		end--
	}
	return data[:end]
}
