package llm

import (
	"strings"
	"unicode"
)

// StripArabic removes Arabic-script runs from s. The whitespace touching
// a removed run folds into one separator (a newline when either side had
// one), so a cut never leaves doubled spaces; whitespace elsewhere is
// kept exactly as written. Latin text, digits, and punctuation (including
// identifier punctuation) pass through untouched.
func StripArabic(s string) string {
	if !strings.ContainsFunc(s, isArabic) {
		return s
	}
	rs := []rune(s)
	out := make([]rune, 0, len(rs))
	for i := 0; i < len(rs); {
		if !isArabic(rs[i]) {
			out = append(out, rs[i])
			i++
			continue
		}
		for i < len(rs) && isArabic(rs[i]) {
			i++
		}
		sep := ' '
		folded := false
		for len(out) > 0 && unicode.IsSpace(out[len(out)-1]) {
			if out[len(out)-1] == '\n' {
				sep = '\n'
			}
			out = out[:len(out)-1]
			folded = true
		}
		for i < len(rs) && unicode.IsSpace(rs[i]) {
			if rs[i] == '\n' {
				sep = '\n'
			}
			i++
			folded = true
		}
		if folded && len(out) > 0 && i < len(rs) {
			out = append(out, sep)
		}
	}
	return string(out)
}

// StripArabicFromMap scrubs every string value in a parsed JSON object,
// recursing through nested objects and arrays. Keys are left alone; the
// agent already emits English snake_case keys.
func StripArabicFromMap(m map[string]any) {
	for k, v := range m {
		m[k] = stripArabicValue(v)
	}
}

func stripArabicValue(v any) any {
	switch t := v.(type) {
	case string:
		return StripArabic(t)
	case map[string]any:
		StripArabicFromMap(t)
		return t
	case []any:
		for i, e := range t {
			t[i] = stripArabicValue(e)
		}
		return t
	default:
		return v
	}
}

func isArabic(r rune) bool {
	return unicode.Is(unicode.Arabic, r)
}
