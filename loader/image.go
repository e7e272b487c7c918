// Package loader parses the strict hex-text memory image format into a
// flat byte buffer ready to install at address 0.
package loader

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMalformedImage is returned when a line is blank or is not exactly 8
// hex digits.
var ErrMalformedImage = errors.New("loader: malformed image line")

const wordHexDigits = 8

// Load reads r line by line; every non-empty line must be exactly 8 hex
// digits (one 32-bit word, upper or lower case, no 0x prefix). Blank
// lines and comments are not tolerated here — that belongs to the
// separate assembler this loader does not implement. The resulting bytes
// are the concatenation of each line's 4 bytes, most-significant first,
// ready to be installed at address 0.
func Load(r io.Reader) ([]byte, error) {
	var out []byte
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			return nil, fmt.Errorf("%w: line %d is blank", ErrMalformedImage, lineNo)
		}
		if len(line) != wordHexDigits {
			return nil, fmt.Errorf("%w: line %d has %d characters, want %d", ErrMalformedImage, lineNo, len(line), wordHexDigits)
		}
		word, err := hex.DecodeString(line)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedImage, lineNo, err)
		}
		out = append(out, word...)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("loader: read image: %w", err)
	}
	return out, nil
}
