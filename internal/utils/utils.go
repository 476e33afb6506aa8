package utils

import (
	"fmt"
	"hash/crc32"
	"path/filepath"
	"strings"
)

// CalculateHash generates a CRC32 checksum of the data
func CalculateHash(data []byte) string {
	return fmt.Sprintf("%08x", crc32.ChecksumIEEE(data))
}

// ResourceID converts a document path below root to a slash-separated key
// without the extension, e.g. "games/chess".
func ResourceID(root, path, ext string) (string, error) {
	relPath, err := filepath.Rel(root, path)
	if err != nil {
		return "", err
	}
	if relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside %s", path, root)
	}

	resourceID := strings.TrimSuffix(relPath, ext)
	return filepath.ToSlash(resourceID), nil
}

// ResourcePath converts a key produced by ResourceID back to a file path.
func ResourcePath(root, resourceID, ext string) string {
	resourceID = strings.TrimPrefix(resourceID, "/")
	return filepath.Join(root, filepath.FromSlash(resourceID)+ext)
}
