package utils

import (
	"io"
	"net/http"
	"os"
)

// DetectMimeType returns the MIME type of the file at filePath, determined by
// sniffing a bounded prefix with http.DetectContentType. An empty string is
// returned when the file cannot be read.
func DetectMimeType(filePath string) string {
	fileHandle, openError := os.Open(filePath)
	if openError != nil {
		return ""
	}
	defer fileHandle.Close()

	buffer := make([]byte, probeLength)
	bytesRead, readError := fileHandle.Read(buffer)
	if readError != nil && readError != io.EOF {
		return ""
	}

	return http.DetectContentType(buffer[:bytesRead])
}
