package fileval

import (
	"bufio"
	"errors"
	"io"
	"os"
	"unicode/utf8"
)

// LooksUTF8 reports whether the file at path decodes as UTF-8. Decoding stops
// once maxBytes have been consumed (no limit when maxBytes <= 0); the rune
// that crosses the limit is still read whole, so a multi-byte character at
// the cut never counts against the file. A literal U+FFFD in the source is
// valid text.
func LooksUTF8(path string, maxBytes int64) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	r := bufio.NewReaderSize(f, 32*1024)
	var read int64
	for maxBytes <= 0 || read < maxBytes {
		ch, size, err := r.ReadRune()
		if errors.Is(err, io.EOF) {
			return true, nil
		}
		if err != nil {
			return false, err
		}
		if ch == utf8.RuneError && size == 1 {
			return false, nil
		}
		read += int64(size)
	}
	return true, nil
}
