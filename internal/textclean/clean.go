// Package textclean strips layout artifacts (running headers, footers, page
// numbers) from extracted page text and rejoins lines broken mid-sentence.
package textclean

import (
	"strconv"
	"strings"
	"unicode"
)

var boilerplate = []string{
	"CONFIDENTIAL",
	"COPYRIGHT",
	"ALL RIGHTS RESERVED",
	"PROPRIETARY",
}

// Page cleans the text of page pageNum (1-based).
func Page(text string, pageNum int) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
		case isPageNumber(trimmed, pageNum):
		case isRunningHeader(trimmed):
		case isNoise(trimmed):
		default:
			kept = append(kept, strings.TrimRightFunc(line, unicode.IsSpace))
		}
	}
	return strings.TrimSpace(strings.Join(JoinBrokenLines(kept), "\n"))
}

func isPageNumber(line string, pageNum int) bool {
	n := strconv.Itoa(pageNum)
	for _, form := range []string{n, n + ".", "- " + n + " -", "[" + n + "]", "page " + n} {
		if strings.EqualFold(line, form) {
			return true
		}
	}
	if rest, ok := cutPrefixFold(line, "page "+n+" of "); ok {
		_, err := strconv.Atoi(strings.TrimSpace(rest))
		return err == nil
	}
	return false
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return s, false
	}
	return s[len(prefix):], true
}

// isRunningHeader matches short all-caps labels and legal footers.
func isRunningHeader(line string) bool {
	if len([]rune(line)) < 3 {
		return true
	}
	upper := strings.ToUpper(line)
	if len(line) < 50 && upper == line && strings.ToLower(line) != line && len(strings.Fields(line)) <= 2 {
		return true
	}
	if len(line) >= 100 {
		return false
	}
	for _, p := range boilerplate {
		if strings.Contains(upper, p) {
			return true
		}
	}
	return false
}

// isNoise matches lines with no letter or digit at all, or a bare number.
func isNoise(line string) bool {
	if _, err := strconv.Atoi(line); err == nil {
		return true
	}
	for _, r := range line {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// JoinBrokenLines merges a line into the next one when the line does not end
// a sentence and the next line starts lower-case. Hyphenated breaks are kept.
func JoinBrokenLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		cur := strings.TrimSpace(lines[i])
		for i+1 < len(lines) && continues(cur, strings.TrimSpace(lines[i+1])) {
			cur += " " + strings.TrimSpace(lines[i+1])
			i++
		}
		if cur == strings.TrimSpace(lines[i]) {
			cur = lines[i]
		}
		out = append(out, cur)
	}
	return out
}

func continues(line, next string) bool {
	if line == "" || next == "" || strings.HasSuffix(line, "-") {
		return false
	}
	switch line[len(line)-1] {
	case '.', '!', '?', ':', ';':
		return false
	}
	first := []rune(next)[0]
	return unicode.IsLower(first)
}
