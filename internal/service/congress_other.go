package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/legisai/legisai/internal/models"
	"github.com/rs/zerolog/log"
)

// maxHearingLookups caps the per-hearing detail requests made by one search.
const maxHearingLookups = 50

type rawSubcommittee struct {
	Name       string `json:"name"`
	SystemCode string `json:"systemCode"`
}

func subcommittees(raw []rawSubcommittee) []models.Subcommittee {
	var out []models.Subcommittee
	for _, s := range raw {
		out = append(out, models.Subcommittee{Name: s.Name, SystemCode: s.SystemCode})
	}
	return out
}

func (s *CongressService) SearchCommittees(ctx context.Context, q CommitteeSearch) ([]models.Committee, error) {
	path := "/committee"
	if q.Congress > 0 {
		path += "/" + strconv.Itoa(q.Congress)
	}
	if q.Chamber != "" {
		path += "/" + strings.ToLower(q.Chamber)
	}

	var out struct {
		Committees []struct {
			Chamber           string            `json:"chamber"`
			Name              string            `json:"name"`
			SystemCode        string            `json:"systemCode"`
			CommitteeTypeCode string            `json:"committeeTypeCode"`
			Subcommittees     []rawSubcommittee `json:"subcommittees"`
			URL               string            `json:"url"`
		} `json:"committees"`
	}
	if err := s.getJSON(ctx, path, listParams(fetchLimit), &out); err != nil {
		return nil, err
	}

	limit := clampLimit(q.Limit)
	terms := queryTerms(q.Query)
	committees := make([]models.Committee, 0, limit)
	for _, c := range out.Committees {
		if !matchesAny(terms, c.Name, c.SystemCode) {
			continue
		}
		committees = append(committees, models.Committee{
			Chamber:       c.Chamber,
			Name:          c.Name,
			SystemCode:    c.SystemCode,
			Type:          c.CommitteeTypeCode,
			Subcommittees: subcommittees(c.Subcommittees),
			URL:           c.URL,
		})
		if len(committees) == limit {
			break
		}
	}
	return committees, nil
}

func (s *CongressService) GetCommittee(ctx context.Context, chamber, code string) (*models.Committee, error) {
	var out struct {
		Committee struct {
			SystemCode string `json:"systemCode"`
			Type       string `json:"type"`
			IsCurrent  bool   `json:"isCurrent"`
			History    []struct {
				OfficialName string `json:"officialName"`
			} `json:"history"`
			Subcommittees []rawSubcommittee `json:"subcommittees"`
			Bills         struct {
				Count int `json:"count"`
			} `json:"bills"`
			URL string `json:"url"`
		} `json:"committee"`
	}
	path := fmt.Sprintf("/committee/%s/%s", strings.ToLower(chamber), strings.ToLower(code))
	if err := s.getJSON(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	raw := out.Committee
	c := &models.Committee{
		Chamber:       chamber,
		SystemCode:    raw.SystemCode,
		Type:          raw.Type,
		IsCurrent:     raw.IsCurrent,
		Subcommittees: subcommittees(raw.Subcommittees),
		BillCount:     raw.Bills.Count,
		URL:           raw.URL,
	}
	// history is oldest first
	if n := len(raw.History); n > 0 {
		c.Name = raw.History[n-1].OfficialName
	}
	return c, nil
}

func (s *CongressService) SearchAmendments(ctx context.Context, q AmendmentSearch) ([]models.Amendment, error) {
	path := "/amendment"
	if q.Congress > 0 {
		path = fmt.Sprintf("/amendment/%d", q.Congress)
		if q.AmendmentType != "" {
			path += "/" + strings.ToLower(q.AmendmentType)
		}
	}

	var out struct {
		Amendments []struct {
			Congress     flexInt             `json:"congress"`
			Type         string              `json:"type"`
			Number       flexString          `json:"number"`
			Description  string              `json:"description"`
			Purpose      string              `json:"purpose"`
			LatestAction models.LatestAction `json:"latestAction"`
			UpdateDate   string              `json:"updateDate"`
		} `json:"amendments"`
	}
	if err := s.getJSON(ctx, path, listParams(fetchLimit), &out); err != nil {
		return nil, err
	}

	limit := clampLimit(q.Limit)
	terms := queryTerms(q.Query)
	amendments := make([]models.Amendment, 0, limit)
	for _, a := range out.Amendments {
		if q.AmendmentType != "" && !strings.EqualFold(a.Type, q.AmendmentType) {
			continue
		}
		if !matchesAny(terms, a.Description, a.Purpose, a.LatestAction.Text) {
			continue
		}
		amendments = append(amendments, models.Amendment{
			Congress:     int(a.Congress),
			Type:         a.Type,
			Number:       string(a.Number),
			Description:  a.Description,
			Purpose:      a.Purpose,
			LatestAction: a.LatestAction,
			UpdateDate:   a.UpdateDate,
		})
		if len(amendments) == limit {
			break
		}
	}
	return amendments, nil
}

// SearchCongressionalRecord lists daily issues, optionally narrowed to a date.
// This endpoint answers with capitalized keys.
func (s *CongressService) SearchCongressionalRecord(ctx context.Context, q RecordSearch) ([]models.RecordIssue, error) {
	params := listParams(clampLimit(q.Limit))
	if q.Year > 0 {
		params.Set("y", strconv.Itoa(q.Year))
	}
	if q.Month > 0 {
		params.Set("m", strconv.Itoa(q.Month))
	}
	if q.Day > 0 {
		params.Set("d", strconv.Itoa(q.Day))
	}

	var out struct {
		Results struct {
			Issues []struct {
				Congress    flexInt    `json:"Congress"`
				Volume      flexInt    `json:"Volume"`
				Issue       flexString `json:"Issue"`
				Session     flexInt    `json:"Session"`
				PublishDate string     `json:"PublishDate"`
				Links       struct {
					FullRecord struct {
						PDF []struct {
							URL string `json:"Url"`
						} `json:"PDF"`
					} `json:"FullRecord"`
				} `json:"Links"`
			} `json:"Issues"`
		} `json:"Results"`
	}
	if err := s.getJSON(ctx, "/congressional-record", params, &out); err != nil {
		return nil, err
	}

	issues := make([]models.RecordIssue, 0, len(out.Results.Issues))
	for _, i := range out.Results.Issues {
		issue := models.RecordIssue{
			Congress:    int(i.Congress),
			Volume:      int(i.Volume),
			Issue:       string(i.Issue),
			Session:     int(i.Session),
			PublishDate: i.PublishDate,
		}
		if pdf := i.Links.FullRecord.PDF; len(pdf) > 0 {
			issue.PDFURL = pdf[0].URL
		}
		issues = append(issues, issue)
	}
	return issues, nil
}

func (s *CongressService) SearchNominations(ctx context.Context, q NominationSearch) ([]models.Nomination, error) {
	path := "/nomination"
	if q.Congress > 0 {
		path = fmt.Sprintf("/nomination/%d", q.Congress)
	}

	var out struct {
		Nominations []struct {
			Citation     string              `json:"citation"`
			Congress     flexInt             `json:"congress"`
			Description  string              `json:"description"`
			Organization string              `json:"organization"`
			ReceivedDate string              `json:"receivedDate"`
			LatestAction models.LatestAction `json:"latestAction"`
		} `json:"nominations"`
	}
	if err := s.getJSON(ctx, path, listParams(fetchLimit), &out); err != nil {
		return nil, err
	}

	limit := clampLimit(q.Limit)
	terms := queryTerms(q.Query)
	nominations := make([]models.Nomination, 0, limit)
	for _, n := range out.Nominations {
		if !matchesAny(terms, n.Description, n.Organization, n.Citation) {
			continue
		}
		nominations = append(nominations, models.Nomination{
			Citation:     n.Citation,
			Congress:     int(n.Congress),
			Description:  n.Description,
			Organization: n.Organization,
			ReceivedDate: n.ReceivedDate,
			LatestAction: n.LatestAction,
		})
		if len(nominations) == limit {
			break
		}
	}
	return nominations, nil
}

// SearchHearings lists hearings and fetches each one's detail for its title
// and date; the listing carries neither.
func (s *CongressService) SearchHearings(ctx context.Context, q HearingSearch) ([]models.Hearing, error) {
	path := "/hearing"
	if q.Congress > 0 {
		path = fmt.Sprintf("/hearing/%d", q.Congress)
		if q.Chamber != "" {
			path += "/" + strings.ToLower(q.Chamber)
		}
	}

	var out struct {
		Hearings []struct {
			Chamber      string  `json:"chamber"`
			Congress     flexInt `json:"congress"`
			JacketNumber flexInt `json:"jacketNumber"`
			UpdateDate   string  `json:"updateDate"`
			URL          string  `json:"url"`
		} `json:"hearings"`
	}
	if err := s.getJSON(ctx, path, listParams(fetchLimit), &out); err != nil {
		return nil, err
	}

	limit := clampLimit(q.Limit)
	terms := queryTerms(q.Query)
	hearings := make([]models.Hearing, 0, limit)
	lookups := 0
	for _, h := range out.Hearings {
		if len(hearings) == limit || lookups == maxHearingLookups {
			break
		}
		if q.Chamber != "" && !chamberMatches(h.Chamber, q.Chamber) {
			continue
		}
		hearing := models.Hearing{
			Chamber:      h.Chamber,
			Congress:     int(h.Congress),
			JacketNumber: int(h.JacketNumber),
			UpdateDate:   h.UpdateDate,
			URL:          h.URL,
		}

		lookups++
		if err := s.hearingDetail(ctx, &hearing); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warn().Err(err).Int("jacket", hearing.JacketNumber).Msg("hearing detail unavailable")
		}
		if !matchesAny(terms, hearing.Title) {
			continue
		}
		hearings = append(hearings, hearing)
	}
	return hearings, nil
}

func (s *CongressService) hearingDetail(ctx context.Context, h *models.Hearing) error {
	var out struct {
		Hearing struct {
			Title string `json:"title"`
			Dates []struct {
				Date string `json:"date"`
			} `json:"dates"`
		} `json:"hearing"`
	}
	path := fmt.Sprintf("/hearing/%d/%s/%d", h.Congress, strings.ToLower(h.Chamber), h.JacketNumber)
	if err := s.getJSON(ctx, path, nil, &out); err != nil {
		return err
	}
	h.Title = out.Hearing.Title
	if len(out.Hearing.Dates) > 0 {
		h.Date = out.Hearing.Dates[0].Date
	}
	return nil
}
