package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var multiSpaceRE = regexp.MustCompile(`\s+`)

func normaliseInput(raw string) string {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" {
		return ""
	}
	var b strings.Builder
	lastSpace := false
	for _, r := range raw {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '-' || r == '_' || r == '/' || r == '\'' {
			if !lastSpace {
				b.WriteByte(' ')
			}
			lastSpace = true
		}
	}
	return strings.TrimSpace(multiSpaceRE.ReplaceAllString(b.String(), " "))
}

func tokenise(normalised string) []string {
	if strings.TrimSpace(normalised) == "" {
		return nil
	}
	return strings.Fields(normalised)
}

func parseQuantityToken(token string) *Quantity {
	token = strings.TrimSpace(strings.ToLower(token))
	if token == "" {
		return nil
	}
	token = strings.TrimPrefix(token, "x")
	if n, err := strconv.Atoi(token); err == nil && n >= 0 {
		return &Quantity{Raw: token, N: n}
	}
	switch token {
	case "one", "first":
		return &Quantity{Raw: "1", N: 1}
	case "two", "second":
		return &Quantity{Raw: "2", N: 2}
	case "three", "third":
		return &Quantity{Raw: "3", N: 3}
	}
	return nil
}

func isPronoun(token string) bool {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "it", "that", "them", "this", "those":
		return true
	default:
		return false
	}
}

func isFiller(token string) bool {
	switch token {
	case "a", "an", "the", "some", "in", "lab", "box", "boxes", "of", "please":
		return true
	default:
		return false
	}
}
