package docpipe

import (
	"os"
	"strings"
)

// readText reads a plain text file. Bytes that do not form valid UTF-8 are
// dropped rather than failing the load.
func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(data), ""), nil
}
