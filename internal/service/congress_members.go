package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/legisai/legisai/internal/models"
)

const (
	ChamberSenate = "Senate"
	ChamberHouse  = "House of Representatives"
)

type rawTerm struct {
	Chamber   string  `json:"chamber"`
	Congress  flexInt `json:"congress"`
	StartYear flexInt `json:"startYear"`
	EndYear   flexInt `json:"endYear"`
	StateCode string  `json:"stateCode"`
}

func (t rawTerm) model() models.Term {
	return models.Term{
		Chamber:   t.Chamber,
		Congress:  int(t.Congress),
		StartYear: int(t.StartYear),
		EndYear:   int(t.EndYear),
		StateCode: t.StateCode,
	}
}

type rawMemberListItem struct {
	BioguideID string  `json:"bioguideId"`
	Name       string  `json:"name"`
	PartyName  string  `json:"partyName"`
	State      string  `json:"state"`
	District   flexInt `json:"district"`
	Terms      struct {
		Item []rawTerm `json:"item"`
	} `json:"terms"`
	UpdateDate string `json:"updateDate"`
	URL        string `json:"url"`
}

func (r rawMemberListItem) model() models.Member {
	m := models.Member{
		BioguideID: r.BioguideID,
		Name:       r.Name,
		Party:      r.PartyName,
		State:      r.State,
		District:   int(r.District),
		UpdateDate: r.UpdateDate,
		URL:        r.URL,
	}
	for _, t := range r.Terms.Item {
		m.Terms = append(m.Terms, t.model())
	}
	if n := len(m.Terms); n > 0 {
		last := m.Terms[n-1]
		m.Chamber = last.Chamber
		m.CurrentMember = last.EndYear == 0
	}
	return m
}

func (s *CongressService) listMembers(ctx context.Context, path string, currentOnly bool) ([]models.Member, error) {
	params := listParams(fetchLimit)
	if currentOnly {
		params.Set("currentMember", "true")
	}
	var out struct {
		Members []rawMemberListItem `json:"members"`
	}
	if err := s.getJSON(ctx, path, params, &out); err != nil {
		return nil, err
	}
	members := make([]models.Member, 0, len(out.Members))
	for _, m := range out.Members {
		member := m.model()
		if currentOnly {
			member.CurrentMember = true
		}
		members = append(members, member)
	}
	return members, nil
}

func (s *CongressService) SearchMembers(ctx context.Context, q MemberSearch) ([]models.Member, error) {
	path := "/member"
	if q.Congress > 0 {
		path = fmt.Sprintf("/member/congress/%d", q.Congress)
	}
	all, err := s.listMembers(ctx, path, q.CurrentOnly)
	if err != nil {
		return nil, err
	}

	limit := clampLimit(q.Limit)
	terms := queryTerms(q.Query)
	members := make([]models.Member, 0, limit)
	for _, m := range all {
		if q.Chamber != "" && !chamberMatches(m.Chamber, q.Chamber) {
			continue
		}
		if !matchesAny(terms, m.Name, m.State, m.Party) {
			continue
		}
		members = append(members, m)
		if len(members) == limit {
			break
		}
	}
	return members, nil
}

func (s *CongressService) GetMember(ctx context.Context, bioguideID string) (*models.Member, error) {
	var out struct {
		Member struct {
			BioguideID      string    `json:"bioguideId"`
			DirectOrderName string    `json:"directOrderName"`
			BirthYear       string    `json:"birthYear"`
			CurrentMember   bool      `json:"currentMember"`
			State           string    `json:"state"`
			District        flexInt   `json:"district"`
			Website         string    `json:"officialWebsiteUrl"`
			UpdateDate      string    `json:"updateDate"`
			Terms           []rawTerm `json:"terms"`
			PartyHistory    []struct {
				PartyName string `json:"partyName"`
			} `json:"partyHistory"`
		} `json:"member"`
	}
	if err := s.getJSON(ctx, "/member/"+strings.ToUpper(bioguideID), nil, &out); err != nil {
		return nil, err
	}
	raw := out.Member
	m := &models.Member{
		BioguideID:    raw.BioguideID,
		Name:          raw.DirectOrderName,
		State:         raw.State,
		District:      int(raw.District),
		CurrentMember: raw.CurrentMember,
		BirthYear:     raw.BirthYear,
		Website:       raw.Website,
		UpdateDate:    raw.UpdateDate,
	}
	if n := len(raw.PartyHistory); n > 0 {
		m.Party = raw.PartyHistory[n-1].PartyName
	}
	for _, t := range raw.Terms {
		m.Terms = append(m.Terms, t.model())
	}
	if n := len(m.Terms); n > 0 {
		m.Chamber = m.Terms[n-1].Chamber
	}
	return m, nil
}

func (s *CongressService) GetSponsoredLegislation(ctx context.Context, bioguideID string, limit int) ([]models.SponsoredBill, error) {
	var out struct {
		SponsoredLegislation []struct {
			Congress       flexInt             `json:"congress"`
			Type           string              `json:"type"`
			Number         flexString          `json:"number"`
			Title          string              `json:"title"`
			IntroducedDate string              `json:"introducedDate"`
			LatestAction   models.LatestAction `json:"latestAction"`
			PolicyArea     *models.PolicyArea  `json:"policyArea"`
		} `json:"sponsoredLegislation"`
	}
	path := "/member/" + strings.ToUpper(bioguideID) + "/sponsored-legislation"
	if err := s.getJSON(ctx, path, listParams(clampLimit(limit)), &out); err != nil {
		return nil, err
	}
	bills := make([]models.SponsoredBill, 0, len(out.SponsoredLegislation))
	for _, b := range out.SponsoredLegislation {
		bills = append(bills, models.SponsoredBill{
			Congress:       int(b.Congress),
			Type:           b.Type,
			Number:         string(b.Number),
			Title:          b.Title,
			IntroducedDate: b.IntroducedDate,
			LatestAction:   b.LatestAction,
			PolicyArea:     b.PolicyArea,
		})
	}
	return bills, nil
}

func (s *CongressService) membersByState(ctx context.Context, q StateMembers, chamber string) ([]models.Member, error) {
	code, ok := StateCode(q.State)
	if !ok {
		return nil, fmt.Errorf("unknown state %q", q.State)
	}
	path := "/member/" + code
	if q.District > 0 {
		path = fmt.Sprintf("%s/%d", path, q.District)
	}
	all, err := s.listMembers(ctx, path, q.CurrentOnly)
	if err != nil {
		return nil, err
	}

	limit := clampLimit(q.Limit)
	members := make([]models.Member, 0, limit)
	for _, m := range all {
		if chamber != "" && !chamberMatches(m.Chamber, chamber) {
			continue
		}
		members = append(members, m)
		if len(members) == limit {
			break
		}
	}
	return members, nil
}

func (s *CongressService) GetMembersByState(ctx context.Context, q StateMembers) ([]models.Member, error) {
	return s.membersByState(ctx, q, "")
}

func (s *CongressService) GetSenatorsByState(ctx context.Context, q StateMembers) ([]models.Member, error) {
	q.District = 0
	return s.membersByState(ctx, q, ChamberSenate)
}

func (s *CongressService) GetRepresentativesByState(ctx context.Context, q StateMembers) ([]models.Member, error) {
	return s.membersByState(ctx, q, ChamberHouse)
}

// chamberMatches compares loosely: "house", "House", "House of Representatives" are equal.
func chamberMatches(actual, want string) bool {
	a, w := strings.ToLower(actual), strings.ToLower(want)
	if a == "" || w == "" {
		return a == w
	}
	return strings.HasPrefix(a, w) || strings.HasPrefix(w, a)
}
