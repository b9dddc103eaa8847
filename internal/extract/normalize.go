package extract

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reTabs       = regexp.MustCompile(`\t+`)
	reMultiSpace = regexp.MustCompile(` {2,}`)
	reMultiBlank = regexp.MustCompile(`\n{3,}`)
)

// Normalize cleans raw OCR output ahead of pattern matching. Conservative:
// keeps line breaks (context blocks are line-scoped) and passes non-Latin
// scripts through unchanged, so Arabic names survive intact. Arabic-Indic
// digits are folded to ASCII so the phone rules see one digit alphabet.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	s = norm.NFC.String(s)
	s = reCRLF.ReplaceAllString(s, "\n")
	s = strings.Map(mapRune, s)
	s = reTabs.ReplaceAllString(s, " ")
	s = reMultiSpace.ReplaceAllString(s, " ")
	// collapse too many blank lines
	s = reMultiBlank.ReplaceAllString(s, "\n\n")
	// trim trailing spaces on lines
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// mapRune drops control characters (newline excepted) and folds
// Arabic-Indic and Extended Arabic-Indic digits to ASCII.
func mapRune(r rune) rune {
	switch {
	case r == '\n' || r == '\t':
		return r
	case r < 0x20 || r == 0x7f:
		return -1
	case r >= '٠' && r <= '٩': // U+0660..U+0669
		return '0' + (r - '٠')
	case r >= '۰' && r <= '۹': // U+06F0..U+06F9
		return '0' + (r - '۰')
	}
	return r
}
