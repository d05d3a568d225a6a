package pattern

import (
	"strconv"
	"strings"

	"sparse-life/internal/core"
)

const rleLineWidth = 70

// EncodeRLE renders coords as an RLE document using the given rule string in
// the header. Trailing dead cells on each row are omitted.
func EncodeRLE(coords []core.Coord, rule string) string {
	m, _ := FromCoords(coords)
	var sb strings.Builder
	sb.WriteString("x = " + strconv.Itoa(m.Cols) + ", y = " + strconv.Itoa(m.Rows))
	if rule != "" {
		sb.WriteString(", rule = " + rule)
	}
	sb.WriteByte('\n')

	var tokens []string
	blank := 0
	for y, row := range m.Cells {
		end := len(row)
		for end > 0 && !row[end-1] {
			end--
		}
		if end == 0 {
			blank++
			continue
		}
		if y > 0 {
			tokens = append(tokens, run(blank+1, '$'))
		}
		blank = 0
		for x := 0; x < end; {
			v := row[x]
			n := 1
			for x+n < end && row[x+n] == v {
				n++
			}
			sym := byte('b')
			if v {
				sym = 'o'
			}
			tokens = append(tokens, run(n, sym))
			x += n
		}
	}
	tokens = append(tokens, "!")

	width := 0
	for _, tok := range tokens {
		if width+len(tok) > rleLineWidth {
			sb.WriteByte('\n')
			width = 0
		}
		sb.WriteString(tok)
		width += len(tok)
	}
	sb.WriteByte('\n')
	return sb.String()
}

func run(n int, sym byte) string {
	if n == 1 {
		return string(sym)
	}
	return strconv.Itoa(n) + string(sym)
}
