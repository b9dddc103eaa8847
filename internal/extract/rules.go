package extract

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Rule is a single named pattern. Rules are named so behavior changes are
// unit-testable per pattern instead of through the whole extraction flow.
type Rule struct {
	Name string
	re   *regexp.Regexp
}

// CompileRule compiles a pattern into a named rule.
func CompileRule(name, pattern string) (Rule, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Rule{}, fmt.Errorf("rule %q: %w", name, err)
	}
	return Rule{Name: name, re: re}, nil
}

// MatchString reports whether the rule matches anywhere in s.
func (r Rule) MatchString(s string) bool { return r.re.MatchString(s) }

// FindString returns the first match of the rule in s, or "".
func (r Rule) FindString(s string) string { return r.re.FindString(s) }

// RuleSet is the full pattern configuration for one extraction run.
type RuleSet struct {
	Phones    []Rule
	Timestamp Rule
}

// DefaultRules builds the built-in rule set for a default country code such
// as "+966". The phone shapes mirror how messaging-app screenshots render
// numbers: spaced international, compact international, bare country code,
// and local with a leading zero.
func DefaultRules(defaultCC string) *RuleSet {
	d := regexp.QuoteMeta(strings.TrimPrefix(defaultCC, "+"))
	phones := []Rule{
		mustRule("intl-spaced", `\+`+d+`[\s.-]?\d{1,2}[\s.-]?\d{3}[\s.-]?\d{4}\b`),
		mustRule("intl-compact", `\+\d{8,}`),
		mustRule("cc-bare", `\b`+d+`[\s.-]?\d{1,2}[\s.-]?\d{3}[\s.-]?\d{4}\b`),
		mustRule("local", `\b0\d{9}\b`),
	}
	return &RuleSet{
		Phones:    phones,
		Timestamp: mustRule("timestamp", defaultTimestampPattern),
	}
}

// Matches "Friday 10:23 PM", "sat, 9:05", "12/03/2024, 18:45" and the like.
const defaultTimestampPattern = `(?i)\b(?:sun|mon|tues?|wed(?:nes)?|thur?s?|fri|sat(?:ur)?)(?:day)?\b[\s,]*(?:at\s+)?\d{1,2}:\d{2}(?:\s?(?:AM|PM))?|\b\d{1,4}[/.-]\d{1,2}[/.-]\d{1,4}[\s,]+\d{1,2}:\d{2}(?:\s?(?:AM|PM))?`

func mustRule(name, pattern string) Rule {
	r, err := CompileRule(name, pattern)
	if err != nil {
		panic(err)
	}
	return r
}

// span is one phone-rule hit within a line.
type span struct {
	start, end int
	text       string
	rule       string
}

// matchLine runs every phone rule over one line and returns the hits in
// left-to-right order with overlaps suppressed (earlier start wins; on a tie
// the longer match wins).
func (rs *RuleSet) matchLine(line string) []span {
	var all []span
	for _, r := range rs.Phones {
		for _, loc := range r.re.FindAllStringIndex(line, -1) {
			all = append(all, span{start: loc[0], end: loc[1], text: line[loc[0]:loc[1]], rule: r.Name})
		}
	}
	if len(all) < 2 {
		return all
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].start != all[j].start {
			return all[i].start < all[j].start
		}
		return all[i].end > all[j].end
	})
	out := all[:1]
	for _, m := range all[1:] {
		if m.start < out[len(out)-1].end {
			continue
		}
		out = append(out, m)
	}
	return out
}

// matchesAnyPhone reports whether any phone rule matches the line.
func (rs *RuleSet) matchesAnyPhone(line string) bool {
	for _, r := range rs.Phones {
		if r.re.MatchString(line) {
			return true
		}
	}
	return false
}
