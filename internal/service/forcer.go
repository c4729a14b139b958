package service

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	// whole words only: "now" must not fire on "know"
	recencyPattern  = regexp.MustCompile(`\b(current|recent|latest|now|today)\b`)
	ordinalCongress = regexp.MustCompile(`\b(\d+)(st|nd|rd|th) congress\b`)

	// plurals count, "billion" and "billing" do not
	domainPattern = regexp.MustCompile(`\b(congress(es|ional)?|legislation|bills?|senators?|representatives?)\b`)
	memberPattern = regexp.MustCompile(`\b(senators?|representatives?)\b`)
)

// Decision is the forcer's verdict for one user query
type Decision struct {
	Force     bool
	ToolName  string
	Args      json.RawMessage
	Rationale string
}

type forcedQuery struct {
	Query string `json:"query"`
}

// KeywordForcer overrides a model's direct answer when the user asks about
// current congressional activity, which the model cannot know without a tool.
type KeywordForcer struct {
	defaultCongress int
}

func NewKeywordForcer(defaultCongress int) *KeywordForcer {
	return &KeywordForcer{defaultCongress: defaultCongress}
}

// Decide is pure: the same query always yields the same Decision.
func (f *KeywordForcer) Decide(query string) Decision {
	lower := strings.ToLower(query)

	ordinal := ordinalCongress.FindStringSubmatch(lower)
	recency := recencyPattern.FindString(lower)
	if recency == "" && ordinal != nil {
		recency = ordinal[0]
	}
	if recency == "" {
		return Decision{Rationale: "no recency token"}
	}

	domain := domainPattern.FindString(lower)
	if domain == "" {
		return Decision{Rationale: fmt.Sprintf("recency token %q without a domain token", recency)}
	}

	congress := ordinalSuffix(f.defaultCongress)
	if ordinal != nil {
		congress = ordinal[1] + ordinal[2]
	}

	d := Decision{Force: true}
	var args forcedQuery
	switch {
	case memberPattern.MatchString(lower):
		d.ToolName = "search_members"
		args.Query = fmt.Sprintf("current members %s congress", congress)
	case strings.Contains(lower, "specific"):
		d.ToolName = "search_bills"
		args.Query = fmt.Sprintf("%s congress major legislation", congress)
	default:
		d.ToolName = "search_bills"
		args.Query = fmt.Sprintf("%s congress recent legislation", congress)
	}
	d.Args, _ = json.Marshal(args)
	d.Rationale = fmt.Sprintf("recency token %q with domain token %q", recency, domain)
	return d
}

// ordinalSuffix renders 119 as "119th", 101 as "101st".
func ordinalSuffix(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
