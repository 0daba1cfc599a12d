// Package loader handles input file loading operations.
package loader

import (
	"fmt"
	"os"
)

// maxInputSize limits the input to the 1 MiB address space of the 8086.
const maxInputSize = 1 << 20

// Load reads the complete input file into memory.
func Load(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("input %s is a directory", path)
	}
	if info.Size() > maxInputSize {
		return nil, fmt.Errorf("input %s size %d exceeds maximum of %d bytes", path, info.Size(), maxInputSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}
