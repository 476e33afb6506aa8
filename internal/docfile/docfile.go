// Package docfile reads and writes a single versioned content document.
package docfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gihan9a/contentlog/pkg/history"
)

// TempFilePrefix is the prefix of the temporary files used for atomic writes.
const TempFilePrefix = ".contentlog-tmp-"

// Decode parses a JSON document. Numbers are kept as json.Number so that
// event fingerprints survive a read/write cycle unchanged.
func Decode(data []byte) (history.Content, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("error parsing document: %w", err)
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("error parsing document: expected a JSON object, got %T", raw)
	}
	return history.Content(obj), nil
}

// Encode renders content as JSON followed by a newline. An indent of zero
// gives compact output.
func Encode(content history.Content, indent int) ([]byte, error) {
	var data []byte
	var err error
	if indent > 0 {
		data, err = json.MarshalIndent(content, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(content)
	}
	if err != nil {
		return nil, fmt.Errorf("error encoding document: %w", err)
	}
	return append(data, '\n'), nil
}

// Read loads the document at path.
func Read(path string) (history.Content, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading document: %w", err)
	}
	return Decode(data)
}

// Write replaces the document at path atomically and returns the bytes
// written.
func Write(path string, content history.Content, indent int) ([]byte, error) {
	data, err := Encode(content, indent)
	if err != nil {
		return nil, err
	}
	if err := writeFileAtomic(path, data, 0644); err != nil {
		return nil, err
	}
	return data, nil
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it over filename.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(filename), TempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpFile.Name(), perm); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := os.Rename(tmpFile.Name(), filename); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", filename, err)
	}
	return nil
}
