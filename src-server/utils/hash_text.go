package utils

import (
	"crypto/sha256"
	"fmt"
)

// Hash a feed body so unchanged feeds can be detected without diffing.
func HashText(text string) string {
	h := sha256.New()
	h.Write([]byte(text))
	return fmt.Sprintf("%x", h.Sum(nil))
}
