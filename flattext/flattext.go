// Package flattext implements the delimiter based text protocol read by the
// importer scripts. Three separators nest: '#' between fields, '%' between
// sub-fields and '$' between top-level groups. Data is never escaped, so a
// name containing a separator corrupts the stream.
package flattext

import (
	"strconv"
	"strings"

	"github.com/flywave/go3d/mat4"
)

const (
	FieldSep    = '#'
	SubFieldSep = '%'
	GroupSep    = '$'
)

// Builder appends separator-terminated items and trims the last separator
// when the payload is taken.
type Builder struct {
	sb strings.Builder
}

// Field writes s followed by '#'.
func (b *Builder) Field(s string) *Builder {
	b.sb.WriteString(s)
	b.sb.WriteByte(FieldSep)
	return b
}

// Fields writes each value as a field.
func (b *Builder) Fields(values ...string) *Builder {
	for _, v := range values {
		b.Field(v)
	}
	return b
}

// Float writes f as a field.
func (b *Builder) Float(f float32) *Builder {
	return b.Field(FormatFloat(f))
}

// Int writes i as a field.
func (b *Builder) Int(i int) *Builder {
	return b.Field(strconv.Itoa(i))
}

// Raw writes s without a separator.
func (b *Builder) Raw(s string) *Builder {
	b.sb.WriteString(s)
	return b
}

// EndSubGroup writes '%'.
func (b *Builder) EndSubGroup() *Builder {
	b.sb.WriteByte(SubFieldSep)
	return b
}

// EndGroup writes '$'.
func (b *Builder) EndGroup() *Builder {
	b.sb.WriteByte(GroupSep)
	return b
}

// String returns the payload with its single trailing separator removed.
// An empty builder yields "".
func (b *Builder) String() string {
	return TrimTrailing(b.sb.String())
}

// TrimTrailing drops one trailing separator character.
func TrimTrailing(s string) string {
	if s == "" {
		return s
	}
	switch s[len(s)-1] {
	case FieldSep, SubFieldSep, GroupSep:
		return s[:len(s)-1]
	}
	return s
}

// Join concatenates items with the '#' separator.
func Join(items []string) string {
	return strings.Join(items, string(FieldSep))
}

// FormatFloat renders f in the shortest form that parses back to the same
// float32.
func FormatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

// ParseFloat is the inverse of FormatFloat.
func ParseFloat(s string) (float32, error) {
	f, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, err
	}
	return float32(f), nil
}

// FormatMatrix writes the sixteen components row by row (M11..M14, M21..M24,
// M31..M34, M41..M44) joined by sep. Row i is m[i], so a translation sits in
// m[3][0..2].
func FormatMatrix(m *mat4.T, sep byte) string {
	var sb strings.Builder
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if i > 0 || j > 0 {
				sb.WriteByte(sep)
			}
			sb.WriteString(FormatFloat(m[i][j]))
		}
	}
	return sb.String()
}
