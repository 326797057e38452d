// Package unicodesets parses and formats the bracketed character-set
// notation exemplarCharacters elements carry, e.g. "[a b {ch} d-f]".
package unicodesets

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Parse decodes a bracketed pattern into its ordered member strings. Members
// are separated by whitespace; a member is a single character, a {grouped}
// multi-character sequence, an inclusive range lo-hi, or a \uXXXX or
// \UXXXXXXXX escape. A backslash before any other character makes it a
// literal, as does a dash at the start or end of the pattern. Duplicate
// members collapse to their first occurrence.
func Parse(pattern string) ([]string, error) {
	trimmed := strings.TrimSpace(pattern)
	if len(trimmed) < 2 || trimmed[0] != '[' || trimmed[len(trimmed)-1] != ']' {
		return nil, fmt.Errorf("character set %q: not a bracketed pattern", pattern)
	}
	runes := []rune(trimmed[1 : len(trimmed)-1])

	var entries []string
	seen := make(map[string]bool)
	add := func(s string) {
		if seen[s] {
			return
		}
		seen[s] = true
		entries = append(entries, s)
	}

	var pending rune
	hasPending := false
	flush := func() {
		if hasPending {
			add(string(pending))
			hasPending = false
		}
	}

	for i := 0; i < len(runes); {
		switch r := runes[i]; {
		case unicode.IsSpace(r):
			flush()
			i++

		case r == '{':
			flush()
			var sb strings.Builder
			i++
			closed := false
			for i < len(runes) {
				c := runes[i]
				if c == '}' {
					closed = true
					i++
					break
				}
				if c == '\\' {
					esc, next, err := decodeEscape(pattern, runes, i)
					if err != nil {
						return nil, err
					}
					sb.WriteRune(esc)
					i = next
					continue
				}
				sb.WriteRune(c)
				i++
			}
			if !closed {
				return nil, fmt.Errorf("character set %q: unterminated group", pattern)
			}
			if sb.Len() > 0 {
				add(sb.String())
			}

		case r == '\\':
			esc, next, err := decodeEscape(pattern, runes, i)
			if err != nil {
				return nil, err
			}
			flush()
			pending = esc
			hasPending = true
			i = next

		case r == '-' && hasPending:
			lo := pending
			hi, next, ok, err := rangeEnd(pattern, runes, i+1)
			if err != nil {
				return nil, err
			}
			if !ok {
				// Trailing or separated dash is a literal member.
				flush()
				pending = '-'
				hasPending = true
				i++
				break
			}
			if hi < lo {
				return nil, fmt.Errorf("character set %q: reversed range %c-%c", pattern, lo, hi)
			}
			for cp := lo; cp <= hi; cp++ {
				add(string(cp))
			}
			hasPending = false
			i = next

		default:
			flush()
			pending = r
			hasPending = true
			i++
		}
	}
	flush()

	return entries, nil
}

// rangeEnd reads the character closing a range. A group opener, whitespace,
// or end of input means the preceding dash was literal.
func rangeEnd(pattern string, runes []rune, i int) (rune, int, bool, error) {
	if i >= len(runes) {
		return 0, i, false, nil
	}
	switch r := runes[i]; {
	case r == '\\':
		esc, next, err := decodeEscape(pattern, runes, i)
		if err != nil {
			return 0, i, false, err
		}
		return esc, next, true, nil
	case unicode.IsSpace(r) || r == '{' || r == '}':
		return 0, i, false, nil
	default:
		return r, i + 1, true, nil
	}
}

// decodeEscape reads the escape starting at runes[i] == '\\'.
func decodeEscape(pattern string, runes []rune, i int) (rune, int, error) {
	if i+1 >= len(runes) {
		return 0, i, fmt.Errorf("character set %q: dangling escape", pattern)
	}
	switch runes[i+1] {
	case 'u':
		return decodeHex(pattern, runes, i+2, 4)
	case 'U':
		return decodeHex(pattern, runes, i+2, 8)
	default:
		return runes[i+1], i + 2, nil
	}
}

func decodeHex(pattern string, runes []rune, i, width int) (rune, int, error) {
	if i+width > len(runes) {
		return 0, i, fmt.Errorf("character set %q: truncated code-point escape", pattern)
	}
	value, err := strconv.ParseUint(string(runes[i:i+width]), 16, 32)
	if err != nil || value > unicode.MaxRune {
		return 0, i, fmt.Errorf("character set %q: invalid code-point escape %q", pattern, string(runes[i:i+width]))
	}
	return rune(value), i + width, nil
}

// Pattern formats member strings back into the bracketed notation. It is the
// canonical inverse of Parse: multi-character members are grouped in braces,
// syntax characters are backslash-escaped, and non-graphic characters are
// written as code-point escapes. Ranges are always expanded.
func Pattern(entries []string) string {
	var sb strings.Builder
	sb.WriteByte('[')
	first := true
	for _, entry := range entries {
		if entry == "" {
			continue
		}
		if !first {
			sb.WriteByte(' ')
		}
		first = false
		writeEntry(&sb, entry)
	}
	sb.WriteByte(']')
	return sb.String()
}

func writeEntry(sb *strings.Builder, entry string) {
	runes := []rune(entry)
	if len(runes) == 1 {
		writeRune(sb, runes[0])
		return
	}
	sb.WriteByte('{')
	for _, r := range runes {
		writeRune(sb, r)
	}
	sb.WriteByte('}')
}

func writeRune(sb *strings.Builder, r rune) {
	switch {
	case strings.ContainsRune(`\[]{}-`, r):
		sb.WriteByte('\\')
		sb.WriteRune(r)
	case unicode.IsSpace(r) || !unicode.IsGraphic(r):
		if r > 0xFFFF {
			fmt.Fprintf(sb, `\U%08X`, r)
		} else {
			fmt.Fprintf(sb, `\u%04X`, r)
		}
	default:
		sb.WriteRune(r)
	}
}
