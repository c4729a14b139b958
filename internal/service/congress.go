package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/legisai/legisai/internal/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// CongressAPI is the domain data collaborator: one method per registered tool.
type CongressAPI interface {
	SearchBills(ctx context.Context, q BillSearch) ([]models.Bill, error)
	GetBill(ctx context.Context, ref BillRef) (*models.Bill, error)
	GetBillSummaries(ctx context.Context, ref BillRef) ([]models.BillSummary, error)
	GetBillActions(ctx context.Context, ref BillRef, limit int) ([]models.BillAction, error)
	GetBillCosponsors(ctx context.Context, ref BillRef, limit int) ([]models.Cosponsor, error)
	GetRelatedBills(ctx context.Context, ref BillRef, limit int) ([]models.RelatedBill, error)

	SearchMembers(ctx context.Context, q MemberSearch) ([]models.Member, error)
	GetMember(ctx context.Context, bioguideID string) (*models.Member, error)
	GetSponsoredLegislation(ctx context.Context, bioguideID string, limit int) ([]models.SponsoredBill, error)
	GetMembersByState(ctx context.Context, q StateMembers) ([]models.Member, error)
	GetSenatorsByState(ctx context.Context, q StateMembers) ([]models.Member, error)
	GetRepresentativesByState(ctx context.Context, q StateMembers) ([]models.Member, error)

	SearchCommittees(ctx context.Context, q CommitteeSearch) ([]models.Committee, error)
	GetCommittee(ctx context.Context, chamber, code string) (*models.Committee, error)

	SearchAmendments(ctx context.Context, q AmendmentSearch) ([]models.Amendment, error)
	SearchCongressionalRecord(ctx context.Context, q RecordSearch) ([]models.RecordIssue, error)
	SearchNominations(ctx context.Context, q NominationSearch) ([]models.Nomination, error)
	SearchHearings(ctx context.Context, q HearingSearch) ([]models.Hearing, error)
}

// BillRef addresses a single bill, e.g. 119 / hr / 1
type BillRef struct {
	Congress int
	Type     string
	Number   int
}

func (r BillRef) path() string {
	return fmt.Sprintf("/bill/%d/%s/%d", r.Congress, strings.ToLower(r.Type), r.Number)
}

type BillSearch struct {
	Query    string
	Congress int
	BillType string
	Limit    int
}

type MemberSearch struct {
	Query       string
	Congress    int
	Chamber     string
	CurrentOnly bool
	Limit       int
}

type StateMembers struct {
	State       string
	District    int
	CurrentOnly bool
	Limit       int
}

type CommitteeSearch struct {
	Query    string
	Chamber  string
	Congress int
	Limit    int
}

type AmendmentSearch struct {
	Query         string
	Congress      int
	AmendmentType string
	Limit         int
}

type RecordSearch struct {
	Year  int
	Month int
	Day   int
	Limit int
}

type NominationSearch struct {
	Query    string
	Congress int
	Limit    int
}

type HearingSearch struct {
	Query    string
	Congress int
	Chamber  string
	Limit    int
}

const (
	// listing page size requested when results are filtered client-side
	fetchLimit   = 250
	defaultLimit = 20
)

// APIError is a non-2xx response from Congress.gov
type APIError struct {
	StatusCode int
	Path       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("congress.gov %s: status %d: %s", e.Path, e.StatusCode, e.Message)
}

// fetchTimeout bounds one upstream request shared by concurrent callers.
const fetchTimeout = 30 * time.Second

// CongressService is an HTTP client for the Congress.gov v3 API
type CongressService struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cache      ResponseCache
	ttl        time.Duration
	sf         singleflight.Group // deduplicate concurrent fetches of the same URL
}

var _ CongressAPI = (*CongressService)(nil)

// NewCongressService creates a client. cache may be nil to disable caching.
func NewCongressService(baseURL, apiKey string, cache ResponseCache, ttl time.Duration) *CongressService {
	return &CongressService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: fetchTimeout},
		cache:      cache,
		ttl:        ttl,
	}
}

// TestConnection asks for the current congress
func (s *CongressService) TestConnection(ctx context.Context) error {
	var out struct {
		Congress struct {
			Number int `json:"number"`
		} `json:"congress"`
	}
	return s.getJSON(ctx, "/congress/current", nil, &out)
}

// getJSON fetches path (cached) and decodes the payload into out.
func (s *CongressService) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	if q == nil {
		q = url.Values{}
	}
	key := path + "?" + q.Encode()

	if s.cache != nil {
		if b, ok := s.cache.Get(ctx, key); ok {
			log.Debug().Str("path", path).Msg("congress cache hit")
			return json.Unmarshal(b, out)
		}
	}

	// The shared fetch outlives any single caller; each caller only stops
	// waiting when its own context ends.
	ch := s.sf.DoChan(key, func() (interface{}, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		defer cancel()

		b, err := s.fetch(fctx, path, q)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			s.cache.Set(fctx, key, b, s.ttl)
		}
		return b, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return res.Err
	}
	if err := json.Unmarshal(res.Val.([]byte), out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (s *CongressService) fetch(ctx context.Context, path string, q url.Values) ([]byte, error) {
	params := url.Values{}
	for k, vs := range q {
		params[k] = vs
	}
	params.Set("format", "json")
	if s.apiKey != "" {
		params.Set("api_key", s.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	res, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("congress.gov %s: %w", path, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	log.Debug().
		Str("path", path).
		Int("status", res.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("congress.gov request")

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &APIError{StatusCode: res.StatusCode, Path: path, Message: errorMessage(body)}
	}
	return body, nil
}

func errorMessage(body []byte) string {
	var e struct {
		Error   any    `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &e) == nil {
		if e.Message != "" {
			return e.Message
		}
		if e.Error != nil {
			return fmt.Sprint(e.Error)
		}
	}
	return truncate(string(body), 200)
}

func listParams(limit int) url.Values {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	return q
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > fetchLimit {
		return fetchLimit
	}
	return limit
}

// flexInt accepts both 119 and "119"; Congress.gov is inconsistent across endpoints.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	str := strings.Trim(string(b), `"`)
	if str == "" || str == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(str)
	if err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}

// flexString accepts both "1" and 1.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	str := string(b)
	if str == "null" {
		*f = ""
		return nil
	}
	*f = flexString(strings.Trim(str, `"`))
	return nil
}

var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "about": true,
	"from": true, "that": true, "this": true, "what": true, "which": true,
	"show": true, "find": true, "bill": true, "bills": true, "act": true,
	// generic words carried by forced default queries
	"congress": true, "recent": true, "latest": true, "current": true, "major": true,
	"legislation": true, "members": true, "member": true,
}

var ordinalTerm = regexp.MustCompile(`^\d+(st|nd|rd|th)$`)

// queryTerms splits a free-text query into lowercase match terms.
func queryTerms(query string) []string {
	var terms []string
	for _, w := range strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	}) {
		if len(w) < 3 || stopWords[w] || ordinalTerm.MatchString(w) {
			continue
		}
		terms = append(terms, w)
	}
	return terms
}

// matchesAny reports whether any term occurs in the haystack; no terms matches everything.
func matchesAny(terms []string, haystack ...string) bool {
	if len(terms) == 0 {
		return true
	}
	text := strings.ToLower(strings.Join(haystack, " "))
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
