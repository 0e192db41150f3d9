package input

import (
	"fmt"
	"io"
	"os"
)

// Read returns the migration output stored at path, or read from stdin when
// path is empty. Input larger than maxBytes fails with ErrInputTooLarge;
// a maxBytes of zero or less disables the cap.
func Read(path string, stdin io.Reader, maxBytes int64) (string, error) {
	if path == "" {
		return readAll(stdin, "standard input", maxBytes)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening migration output %s: %w", path, err)
	}
	defer f.Close()

	return readAll(f, path, maxBytes)
}

func readAll(r io.Reader, name string, maxBytes int64) (string, error) {
	if maxBytes > 0 {
		r = io.LimitReader(r, maxBytes+1)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading migration output from %s: %w", name, err)
	}

	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return "", fmt.Errorf("%s: %w (%d bytes)", name, ErrInputTooLarge, maxBytes)
	}

	return string(data), nil
}
