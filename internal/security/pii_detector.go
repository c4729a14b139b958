package security

import (
	"regexp"
	"strings"
)

// Shapes of identifiers that should never be sent to the model.
var piiPatterns = []struct {
	name    string
	pattern *regexp.Regexp
}{
	{"ssn", regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)},
	{"credit card", regexp.MustCompile(`\b(?:\d[ -]?){13,16}\b`)},
}

// PIIDetector checks chat messages for sensitive keywords and identifier shapes.
// Keywords match whole words, so "ssn" does not fire on "homelessness".
type PIIDetector struct {
	keywords []string
	matchers []*regexp.Regexp
}

func NewPIIDetector(keywords []string) *PIIDetector {
	d := &PIIDetector{}
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		d.keywords = append(d.keywords, k)
		d.matchers = append(d.matchers, regexp.MustCompile(`\b`+regexp.QuoteMeta(k)+`\b`))
	}
	return d
}

// Detect returns true and what matched if PII is found in text
func (d *PIIDetector) Detect(text string) (bool, string) {
	lower := strings.ToLower(text)
	for i, m := range d.matchers {
		if m.MatchString(lower) {
			return true, d.keywords[i]
		}
	}
	for _, p := range piiPatterns {
		if p.pattern.MatchString(text) {
			return true, p.name
		}
	}
	return false, ""
}
