package content

import (
	"fmt"
	"os"
)

// WriteDocument writes a rendered document, replacing any existing file
func WriteDocument(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
