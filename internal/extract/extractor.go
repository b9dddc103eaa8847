package extract

import (
	"regexp"
	"strings"
)

// Record is one phone-number hit in one image. Name and Timestamp are only
// populated when context extraction is enabled and a context block was found.
type Record struct {
	ImageID   string
	Number    string // canonical form, e.g. "+966504435170"
	Name      string
	Timestamp string
}

// Config controls extraction behavior. Passed in explicitly; the extractor
// holds no global state.
type Config struct {
	DefaultCountryCode string // e.g. "+966"; substituted for a leading local "0"
	ContextLines       int    // max preceding lines considered for context
	WithContext        bool   // populate Name/Timestamp
}

// Extractor turns normalized OCR text into Records. Pure: same text and
// config always produce the same records.
type Extractor struct {
	cfg   Config
	rules *RuleSet
}

// NewExtractor builds an extractor. A nil rules set selects the built-in
// rules for cfg.DefaultCountryCode.
func NewExtractor(cfg Config, rules *RuleSet) *Extractor {
	if cfg.DefaultCountryCode == "" {
		cfg.DefaultCountryCode = "+966"
	}
	// Zero is an explicit "no preceding lines"; only a negative value
	// falls back to the default.
	if cfg.ContextLines < 0 {
		cfg.ContextLines = 3
	}
	if rules == nil {
		rules = DefaultRules(cfg.DefaultCountryCode)
	}
	return &Extractor{cfg: cfg, rules: rules}
}

// WithContext reports whether context extraction is enabled.
func (e *Extractor) WithContext() bool { return e.cfg.WithContext }

// Extract scans normalized text line by line, top to bottom, emitting one
// Record per phone match in left-to-right order within each line. Candidates
// that fail canonicalization (implausible digit counts, unknown prefix) are
// dropped. An empty result is a valid outcome, not an error.
func (e *Extractor) Extract(imageID, text string) []Record {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")

	var recs []Record
	blockStart := 0
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			blockStart = i + 1
			continue
		}
		matches := e.rules.matchLine(line)
		if len(matches) == 0 {
			continue
		}
		for _, m := range matches {
			num, ok := e.canonicalize(m.text)
			if !ok {
				continue
			}
			rec := Record{ImageID: imageID, Number: num}
			if e.cfg.WithContext {
				rec.Name, rec.Timestamp = e.context(lines, blockStart, i)
			}
			recs = append(recs, rec)
		}
		// a line holding a number closes the context block for lines below it
		blockStart = i + 1
	}
	return recs
}

var reSeparators = regexp.MustCompile(`[\s.()\-]`)

// canonicalize strips separators and normalizes the prefix: a bare country
// code gains "+", a leading local "0" is replaced by the default country
// code. Candidates outside 8-15 digits are rejected.
func (e *Extractor) canonicalize(raw string) (string, bool) {
	s := reSeparators.ReplaceAllString(raw, "")
	cc := e.cfg.DefaultCountryCode
	switch {
	case strings.HasPrefix(s, "+"):
	case strings.HasPrefix(s, strings.TrimPrefix(cc, "+")):
		s = "+" + s
	case strings.HasPrefix(s, "0"):
		s = cc + s[1:]
	default:
		return "", false
	}
	digits := s[1:]
	if len(digits) < 8 || len(digits) > 15 {
		return "", false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return s, true
}

// context derives the Name and Timestamp for a match on line i. The context
// block is the lines strictly between the previous boundary (blank line or a
// line with an earlier phone match) and line i, capped at ContextLines. The
// name is the first line of the block that is neither empty nor a timestamp;
// the timestamp is the first timestamp-rule match in the block or on line i
// itself. Absent context leaves both fields empty.
func (e *Extractor) context(lines []string, blockStart, i int) (name, ts string) {
	lo := i - e.cfg.ContextLines
	if lo < blockStart {
		lo = blockStart
	}
	for j := lo; j <= i; j++ {
		if m := e.rules.Timestamp.FindString(lines[j]); m != "" {
			ts = m
			break
		}
	}
	for j := lo; j < i; j++ {
		l := strings.TrimSpace(lines[j])
		if l == "" || e.rules.Timestamp.MatchString(l) || e.rules.matchesAnyPhone(l) {
			continue
		}
		name = l
		break
	}
	return name, ts
}
