package pattern

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"
)

// ErrFormat is returned for malformed pattern input.
var ErrFormat = errors.New("pattern: malformed input")

// maxExtent bounds every run count and each side of a decoded RLE pattern.
const maxExtent = 1 << 13

// Load reads a pattern file, choosing the parser from its extension.
func Load(path string) (Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return Matrix{}, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".rle":
		return ParseRLE(f)
	case ".cells", ".board", ".txt":
		return ParsePlaintext(f)
	default:
		return Matrix{}, fmt.Errorf("pattern: unsupported extension %q", filepath.Ext(path))
	}
}

// ParsePlaintext reads the row-of-symbols format. Lines starting with '!' are
// comments; 'O' and '■' are live, any other symbol is dead.
func ParsePlaintext(r io.Reader) (Matrix, error) {
	var rows [][]bool
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.HasPrefix(line, "!") {
			continue
		}
		row := make([]bool, 0, len(line))
		for _, ch := range line {
			row = append(row, ch == 'O' || ch == '■')
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return Matrix{}, err
	}
	for len(rows) > 0 && len(rows[len(rows)-1]) == 0 {
		rows = rows[:len(rows)-1]
	}
	return padded(rows), nil
}

// ParseRLE reads the run-length encoded format: '#' comment lines, an
// "x = W, y = H" header, then runs of 'b' (dead) and 'o' (live) separated by
// '$' and terminated by '!'. A count before '$' adds blank rows.
func ParseRLE(r io.Reader) (Matrix, error) {
	sc := bufio.NewScanner(r)
	var body strings.Builder
	width, height := -1, -1
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "" || strings.HasPrefix(line, "#"):
			continue
		case width < 0 && strings.HasPrefix(line, "x"):
			w, h, err := parseHeader(line)
			if err != nil {
				return Matrix{}, err
			}
			width, height = w, h
		default:
			body.WriteString(line)
		}
	}
	if err := sc.Err(); err != nil {
		return Matrix{}, err
	}
	if width < 0 {
		return Matrix{}, fmt.Errorf("%w: missing header", ErrFormat)
	}

	var rows [][]bool
	var row []bool
	count := 0
	terminated := false
	for _, ch := range body.String() {
		if terminated {
			break
		}
		switch {
		case ch >= '0' && ch <= '9':
			count = count*10 + int(ch-'0')
			if count > maxExtent {
				return Matrix{}, fmt.Errorf("%w: run count exceeds %d", ErrFormat, maxExtent)
			}
		case ch == 'b' || ch == 'o':
			n := max(count, 1)
			if len(row)+n > maxExtent {
				return Matrix{}, fmt.Errorf("%w: row wider than %d", ErrFormat, maxExtent)
			}
			for i := 0; i < n; i++ {
				row = append(row, ch == 'o')
			}
			count = 0
		case ch == '$':
			if len(rows)+max(count, 1) > maxExtent {
				return Matrix{}, fmt.Errorf("%w: more than %d rows", ErrFormat, maxExtent)
			}
			rows = append(rows, row)
			row = nil
			for i := 1; i < count; i++ {
				rows = append(rows, nil)
			}
			count = 0
		case ch == '!':
			rows = append(rows, row)
			terminated = true
		case unicode.IsSpace(ch):
		default:
			return Matrix{}, fmt.Errorf("%w: unexpected %q", ErrFormat, ch)
		}
	}
	if !terminated {
		return Matrix{}, fmt.Errorf("%w: missing '!' terminator", ErrFormat)
	}
	for len(rows) < height {
		rows = append(rows, nil)
	}
	if len(rows) > 0 && width > 0 && len(rows[0]) < width {
		rows[0] = append(rows[0], make([]bool, width-len(rows[0]))...)
	}
	return padded(rows), nil
}

func parseHeader(line string) (int, int, error) {
	w, h := -1, -1
	for _, field := range strings.Split(line, ",") {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			return 0, 0, fmt.Errorf("%w: header field %q", ErrFormat, field)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		switch key {
		case "x", "y":
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 || n > maxExtent {
				return 0, 0, fmt.Errorf("%w: header %s=%q", ErrFormat, key, value)
			}
			if key == "x" {
				w = n
			} else {
				h = n
			}
		}
	}
	if w < 0 || h < 0 {
		return 0, 0, fmt.Errorf("%w: header %q lacks x or y", ErrFormat, line)
	}
	return w, h, nil
}
