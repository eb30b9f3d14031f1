package rsf

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Param is one key=value token of a header or command string.
type Param struct {
	Key   string
	Value string
}

// Tokenize splits header text into key=value params. Tokens are separated
// by whitespace runs; a value quoted right after '=' may hold whitespace.
// Surrounding quotes are stripped from values and tokens without '=' are
// skipped. Duplicate keys are returned in order, so later ones win when
// applied.
func Tokenize(text string) []Param {
	var params []Param
	for _, tok := range splitFields(text) {
		k, v, ok := strings.Cut(tok, "=")
		if !ok || k == "" {
			continue
		}
		params = append(params, Param{Key: k, Value: unquote(v)})
	}
	return params
}

// splitFields splits on whitespace runs. A value that opens with a quote
// right after '=' runs to the matching quote; an unclosed quote is an
// ordinary character.
func splitFields(text string) []string {
	var fields []string
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if unicode.IsSpace(r) {
			i += size
			continue
		}
		end := fieldEnd(text, i)
		fields = append(fields, text[i:end])
		i = end
	}
	return fields
}

func fieldEnd(text string, start int) int {
	end := nextSpace(text, start)
	eq := strings.IndexByte(text[start:end], '=')
	if eq < 0 {
		return end
	}
	v := start + eq + 1
	if v >= len(text) || (text[v] != '"' && text[v] != '\'') {
		return end
	}
	c := strings.IndexByte(text[v+1:], text[v])
	if c < 0 {
		return end
	}
	return nextSpace(text, v+1+c+1)
}

func nextSpace(text string, i int) int {
	if j := strings.IndexFunc(text[i:], unicode.IsSpace); j >= 0 {
		return i + j
	}
	return len(text)
}

func unquote(v string) string {
	v = strings.Trim(v, `"`)
	return strings.Trim(v, `'`)
}

// quoteValue quotes v for writing when it would not survive tokenizing.
func quoteValue(v string) string {
	if v == "" || strings.ContainsFunc(v, unicode.IsSpace) || strings.ContainsAny(v, `'`) {
		return `"` + strings.ReplaceAll(v, `"`, `'`) + `"`
	}
	return v
}
