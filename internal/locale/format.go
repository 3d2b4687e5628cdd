package locale

import (
	"strconv"
	"strings"
	"time"
)

// FormatDate renders t (in the bundle's display zone) through a pattern in
// the Java DateTimeFormatter vocabulary the original widget used: repeated
// letters pick field width (yyyy, yy, MM, dd, HH, hh, mm, ss, MMMM for the
// month name, EEEE for the weekday name, a for the day period), single
// quotes delimit literals and '' is a literal quote. Unknown letters pass
// through unchanged.
func (b *Bundle) FormatDate(t time.Time, pattern string) string {
	lt := t.In(b.loc)
	var sb strings.Builder
	for i := 0; i < len(pattern); {
		c := pattern[i]
		if c == '\'' {
			i += b.writeQuoted(&sb, pattern[i:])
			continue
		}
		if !isPatternLetter(c) {
			sb.WriteByte(c)
			i++
			continue
		}
		n := 1
		for i+n < len(pattern) && pattern[i+n] == c {
			n++
		}
		b.writeField(&sb, lt, c, n)
		i += n
	}
	return sb.String()
}

func isPatternLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// writeQuoted consumes a quoted section starting at s[0] == '\'' and returns
// how many bytes it consumed. A doubled quote inside the section is a literal
// quote; an unterminated section runs to the end of the pattern.
func (b *Bundle) writeQuoted(sb *strings.Builder, s string) int {
	if strings.HasPrefix(s, "''") {
		sb.WriteByte('\'')
		return 2
	}
	i := 1
	for i < len(s) {
		if s[i] == '\'' {
			if i+1 < len(s) && s[i+1] == '\'' {
				sb.WriteByte('\'')
				i += 2
				continue
			}
			return i + 1
		}
		sb.WriteByte(s[i])
		i++
	}
	return i
}

func (b *Bundle) writeField(sb *strings.Builder, t time.Time, c byte, n int) {
	switch c {
	case 'y':
		year := t.Year()
		if n == 2 {
			pad(sb, year%100, 2)
		} else {
			pad(sb, year, n)
		}
	case 'M':
		switch {
		case n >= 4:
			sb.WriteString(b.data.months[int(t.Month())-1])
		case n == 3:
			sb.WriteString(clip(b.data.months[int(t.Month())-1], 3))
		default:
			pad(sb, int(t.Month()), n)
		}
	case 'd':
		pad(sb, t.Day(), n)
	case 'H':
		pad(sb, t.Hour(), n)
	case 'h':
		h := t.Hour() % 12
		if h == 0 {
			h = 12
		}
		pad(sb, h, n)
	case 'm':
		pad(sb, t.Minute(), n)
	case 's':
		pad(sb, t.Second(), n)
	case 'E':
		name := b.data.weekdays[int(t.Weekday())]
		if n >= 4 {
			sb.WriteString(name)
		} else {
			sb.WriteString(clip(name, 3))
		}
	case 'a':
		if t.Hour() < 12 {
			sb.WriteString("AM")
		} else {
			sb.WriteString("PM")
		}
	default:
		// Unknown pattern letters pass through so host-authored patterns
		// degrade visibly instead of silently dropping fields.
		for ; n > 0; n-- {
			sb.WriteByte(c)
		}
	}
}

func pad(sb *strings.Builder, v, width int) {
	s := strconv.Itoa(v)
	for len(s) < width {
		s = "0" + s
	}
	sb.WriteString(s)
}

// clip truncates by runes, not bytes; name tables carry non-ASCII.
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
