package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path/filepath"
)

// GenerateAttachmentName produces a random stored filename for an uploaded
// attachment, keeping the original file's extension.
func GenerateAttachmentName(originalName string) (string, error) {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	return hex.EncodeToString(bytes) + filepath.Ext(originalName), nil
}
