package decoder

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/tsawler/markpdf/model"
)

// matrix is a 2D affine transformation in PDF order [a b c d e f]
type matrix [6]float64

func identity() matrix {
	return matrix{1, 0, 0, 1, 0, 0}
}

func translation(tx, ty float64) matrix {
	return matrix{1, 0, 0, 1, tx, ty}
}

// mul returns m × other (row-vector convention, as PDF composes matrices)
func (m matrix) mul(other matrix) matrix {
	return matrix{
		m[0]*other[0] + m[1]*other[2],
		m[0]*other[1] + m[1]*other[3],
		m[2]*other[0] + m[3]*other[2],
		m[2]*other[1] + m[3]*other[3],
		m[4]*other[0] + m[5]*other[2] + other[4],
		m[4]*other[1] + m[5]*other[3] + other[5],
	}
}

// vScale is the effective vertical scaling applied to text by the matrix
func (m matrix) vScale() float64 {
	s := math.Hypot(m[1], m[3])
	if s == 0 {
		return 1
	}
	return s
}

// spanBox is a decoded span with its page rectangle (top-left origin)
type spanBox struct {
	span model.Span
	rect model.Rect
}

// interpreter walks one page's content stream and collects positioned spans
type interpreter struct {
	fonts      map[string]string // resource name -> base font name
	pageHeight float64

	fontSize float64
	bold     bool
	leading  float64
	tm       matrix // text matrix
	lm       matrix // text line matrix

	spans []spanBox
}

func newInterpreter(fonts map[string]string, pageHeight float64) *interpreter {
	return &interpreter{
		fonts:      fonts,
		pageHeight: pageHeight,
		tm:         identity(),
		lm:         identity(),
	}
}

// operand kinds on the content-stream stack
const (
	opNumber = iota
	opString
	opName
	opArray
)

type operand struct {
	kind int
	num  float64
	str  []byte
	name string
	arr  []operand
}

// run interprets a content stream and returns the spans it shows.
// Unrecognized operators are skipped; their operands are discarded.
func (in *interpreter) run(data []byte) []spanBox {
	var stack []operand
	i := 0
	for i < len(data) {
		c := data[i]
		switch {
		case isWhitespace(c):
			i++
		case c == '%':
			i = skipComment(data, i)
		case c == '(':
			var s []byte
			s, i = scanLiteralString(data, i)
			stack = append(stack, operand{kind: opString, str: s})
		case c == '<':
			if i+1 < len(data) && data[i+1] == '<' {
				i = skipDict(data, i)
			} else {
				var s []byte
				s, i = scanHexString(data, i)
				stack = append(stack, operand{kind: opString, str: s})
			}
		case c == '[':
			var arr []operand
			arr, i = scanArray(data, i)
			stack = append(stack, operand{kind: opArray, arr: arr})
		case c == ']' || c == '{' || c == '}':
			i++
		case c == '/':
			var name string
			name, i = scanName(data, i)
			stack = append(stack, operand{kind: opName, name: name})
		case c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9'):
			var num float64
			num, i = scanNumber(data, i)
			stack = append(stack, operand{kind: opNumber, num: num})
		default:
			var op string
			op, i = scanOperator(data, i)
			if op == "BI" {
				// Inline image: skip the binary payload through EI.
				i = skipInlineImage(data, i)
				stack = stack[:0]
				continue
			}
			in.apply(op, stack)
			stack = stack[:0]
		}
	}
	return in.spans
}

// apply executes one operator against the current text state
func (in *interpreter) apply(op string, stack []operand) {
	switch op {
	case "BT":
		in.tm = identity()
		in.lm = identity()
	case "ET":
		// Text object ends; state persists until the next BT resets it.
	case "Tf":
		if len(stack) >= 2 {
			in.fontSize = stack[len(stack)-1].num
			in.bold = isBoldFontName(in.fonts[stack[len(stack)-2].name])
		}
	case "TL":
		if len(stack) >= 1 {
			in.leading = stack[len(stack)-1].num
		}
	case "Td":
		if len(stack) >= 2 {
			in.nextLine(stack[len(stack)-2].num, stack[len(stack)-1].num)
		}
	case "TD":
		if len(stack) >= 2 {
			in.leading = -stack[len(stack)-1].num
			in.nextLine(stack[len(stack)-2].num, stack[len(stack)-1].num)
		}
	case "Tm":
		if len(stack) >= 6 {
			var m matrix
			for k := 0; k < 6; k++ {
				m[k] = stack[len(stack)-6+k].num
			}
			in.tm = m
			in.lm = m
		}
	case "T*":
		in.nextLine(0, -in.leading)
	case "Tj":
		if len(stack) >= 1 && stack[len(stack)-1].kind == opString {
			in.show(stack[len(stack)-1].str)
		}
	case "'":
		if len(stack) >= 1 && stack[len(stack)-1].kind == opString {
			in.nextLine(0, -in.leading)
			in.show(stack[len(stack)-1].str)
		}
	case "\"":
		if len(stack) >= 1 && stack[len(stack)-1].kind == opString {
			in.nextLine(0, -in.leading)
			in.show(stack[len(stack)-1].str)
		}
	case "TJ":
		if len(stack) >= 1 && stack[len(stack)-1].kind == opArray {
			for _, el := range stack[len(stack)-1].arr {
				switch el.kind {
				case opString:
					in.show(el.str)
				case opNumber:
					// Kerning adjustment, thousandths of text space.
					in.tm = translation(-el.num/1000*in.fontSize, 0).mul(in.tm)
				}
			}
		}
	}
}

// nextLine moves the line matrix by (tx, ty) and resets the text matrix to it
func (in *interpreter) nextLine(tx, ty float64) {
	in.lm = translation(tx, ty).mul(in.lm)
	in.tm = in.lm
}

// show emits one span at the current text position
func (in *interpreter) show(raw []byte) {
	text := decodeText(raw)
	if text == "" {
		return
	}

	size := in.fontSize * in.tm.vScale()
	x := in.tm[4]
	baseline := in.pageHeight - in.tm[5]

	// Approximate advance: average glyph width of half an em.
	advance := float64(utf8.RuneCountInString(text)) * size * 0.5

	var flags uint32
	if in.bold {
		flags |= model.FlagBold
	}

	in.spans = append(in.spans, spanBox{
		span: model.Span{Text: text, Size: size, Flags: flags},
		rect: model.NewRect(x, baseline-size, x+advance, baseline),
	})

	in.tm = translation(advance, 0).mul(in.tm)
}

// isBoldFontName reports whether a base font name indicates a bold face
func isBoldFontName(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "bold") ||
		strings.Contains(lower, "black") ||
		strings.Contains(lower, "heavy") ||
		strings.Contains(lower, "semibold") ||
		strings.Contains(lower, "demibold")
}

var (
	utf16Decoder  = unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
	latin1Decoder = charmap.ISO8859_1.NewDecoder()
)

// decodeText converts raw PDF string bytes to UTF-8. Strings carrying a
// UTF-16BE byte order mark decode as UTF-16; anything else is treated as
// single-byte text, with Latin-1 as an approximation of PDFDocEncoding for
// bytes outside ASCII.
func decodeText(raw []byte) string {
	if len(raw) >= 2 && raw[0] == 0xFE && raw[1] == 0xFF {
		if s, err := utf16Decoder.Bytes(raw); err == nil {
			return string(s)
		}
		return ""
	}
	for _, b := range raw {
		if b >= 0x80 {
			if s, err := latin1Decoder.Bytes(raw); err == nil {
				return string(s)
			}
			break
		}
	}
	return string(raw)
}

// Lexing helpers

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}

func isDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func skipComment(data []byte, i int) int {
	for i < len(data) && data[i] != '\n' && data[i] != '\r' {
		i++
	}
	return i
}

// scanLiteralString decodes a parenthesized string starting at data[i] == '(',
// handling nested parentheses and escape sequences including octal codes.
func scanLiteralString(data []byte, i int) ([]byte, int) {
	var out []byte
	depth := 0
	i++ // consume '('
	depth++
	for i < len(data) {
		c := data[i]
		switch c {
		case '\\':
			if i+1 >= len(data) {
				return out, i + 1
			}
			i++
			switch data[i] {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case '(', ')', '\\':
				out = append(out, data[i])
			case '\n':
				// Line continuation: nothing emitted.
			case '\r':
				if i+1 < len(data) && data[i+1] == '\n' {
					i++
				}
			default:
				if data[i] >= '0' && data[i] <= '7' {
					val := int(data[i] - '0')
					for k := 0; k < 2 && i+1 < len(data) && data[i+1] >= '0' && data[i+1] <= '7'; k++ {
						i++
						val = val*8 + int(data[i]-'0')
					}
					out = append(out, byte(val))
				} else {
					out = append(out, data[i])
				}
			}
			i++
		case '(':
			depth++
			out = append(out, c)
			i++
		case ')':
			depth--
			if depth == 0 {
				return out, i + 1
			}
			out = append(out, c)
			i++
		default:
			out = append(out, c)
			i++
		}
	}
	return out, i
}

// scanHexString decodes a hex string starting at data[i] == '<'.
// An odd final digit is padded with zero, per the PDF grammar.
func scanHexString(data []byte, i int) ([]byte, int) {
	var out []byte
	i++ // consume '<'
	var hi int = -1
	for i < len(data) && data[i] != '>' {
		c := data[i]
		v := hexVal(c)
		if v >= 0 {
			if hi < 0 {
				hi = v
			} else {
				out = append(out, byte(hi*16+v))
				hi = -1
			}
		}
		i++
	}
	if hi >= 0 {
		out = append(out, byte(hi*16))
	}
	if i < len(data) {
		i++ // consume '>'
	}
	return out, i
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}

// scanArray collects string and number elements until the closing bracket.
// Nested structures other than strings and numbers are skipped.
func scanArray(data []byte, i int) ([]operand, int) {
	var arr []operand
	i++ // consume '['
	for i < len(data) && data[i] != ']' {
		c := data[i]
		switch {
		case isWhitespace(c):
			i++
		case c == '(':
			var s []byte
			s, i = scanLiteralString(data, i)
			arr = append(arr, operand{kind: opString, str: s})
		case c == '<':
			var s []byte
			s, i = scanHexString(data, i)
			arr = append(arr, operand{kind: opString, str: s})
		case c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9'):
			var num float64
			num, i = scanNumber(data, i)
			arr = append(arr, operand{kind: opNumber, num: num})
		default:
			i++
		}
	}
	if i < len(data) {
		i++ // consume ']'
	}
	return arr, i
}

// skipDict skips a dictionary << ... >> including nested dictionaries
func skipDict(data []byte, i int) int {
	depth := 0
	for i < len(data) {
		if i+1 < len(data) && data[i] == '<' && data[i+1] == '<' {
			depth++
			i += 2
			continue
		}
		if i+1 < len(data) && data[i] == '>' && data[i+1] == '>' {
			depth--
			i += 2
			if depth == 0 {
				return i
			}
			continue
		}
		i++
	}
	return i
}

func scanName(data []byte, i int) (string, int) {
	i++ // consume '/'
	start := i
	for i < len(data) && !isWhitespace(data[i]) && !isDelimiter(data[i]) {
		i++
	}
	return string(data[start:i]), i
}

func scanNumber(data []byte, i int) (float64, int) {
	start := i
	if data[i] == '+' || data[i] == '-' {
		i++
	}
	for i < len(data) && (data[i] == '.' || (data[i] >= '0' && data[i] <= '9')) {
		i++
	}
	num, err := strconv.ParseFloat(string(data[start:i]), 64)
	if err != nil {
		return 0, i
	}
	return num, i
}

func scanOperator(data []byte, i int) (string, int) {
	start := i
	for i < len(data) && !isWhitespace(data[i]) && !isDelimiter(data[i]) {
		i++
	}
	if i == start {
		// Lone delimiter we do not understand; consume it to make progress.
		return string(data[start : start+1]), start + 1
	}
	return string(data[start:i]), i
}

// skipInlineImage advances past an inline image's binary payload to just
// after the EI operator
func skipInlineImage(data []byte, i int) int {
	for i+1 < len(data) {
		if data[i] == 'E' && data[i+1] == 'I' &&
			(i == 0 || isWhitespace(data[i-1])) &&
			(i+2 >= len(data) || isWhitespace(data[i+2])) {
			return i + 2
		}
		i++
	}
	return len(data)
}
