package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/legisai/legisai/internal/models"
)

type rawSponsor struct {
	BioguideID string  `json:"bioguideId"`
	FullName   string  `json:"fullName"`
	Party      string  `json:"party"`
	State      string  `json:"state"`
	District   flexInt `json:"district"`
}

func (r rawSponsor) model() models.Sponsor {
	return models.Sponsor{
		BioguideID: r.BioguideID,
		FullName:   r.FullName,
		Party:      r.Party,
		State:      r.State,
		District:   int(r.District),
	}
}

type rawBill struct {
	Congress       flexInt             `json:"congress"`
	Type           string              `json:"type"`
	Number         flexString          `json:"number"`
	Title          string              `json:"title"`
	OriginChamber  string              `json:"originChamber"`
	IntroducedDate string              `json:"introducedDate"`
	UpdateDate     string              `json:"updateDate"`
	LatestAction   models.LatestAction `json:"latestAction"`
	PolicyArea     *models.PolicyArea  `json:"policyArea"`
	Sponsors       []rawSponsor        `json:"sponsors"`
	URL            string              `json:"url"`
}

func (r rawBill) model() models.Bill {
	b := models.Bill{
		Congress:       int(r.Congress),
		Type:           r.Type,
		Number:         string(r.Number),
		Title:          r.Title,
		OriginChamber:  r.OriginChamber,
		IntroducedDate: r.IntroducedDate,
		UpdateDate:     r.UpdateDate,
		LatestAction:   r.LatestAction,
		PolicyArea:     r.PolicyArea,
		URL:            r.URL,
	}
	for _, s := range r.Sponsors {
		b.Sponsors = append(b.Sponsors, s.model())
	}
	return b
}

// SearchBills lists recently updated bills and keeps the ones whose title
// matches the query terms. The v3 API has no full-text bill search.
func (s *CongressService) SearchBills(ctx context.Context, q BillSearch) ([]models.Bill, error) {
	path := "/bill"
	if q.Congress > 0 {
		path = fmt.Sprintf("/bill/%d", q.Congress)
		if q.BillType != "" {
			path += "/" + strings.ToLower(q.BillType)
		}
	}
	params := listParams(fetchLimit)
	params.Set("sort", "updateDate desc")

	var out struct {
		Bills []rawBill `json:"bills"`
	}
	if err := s.getJSON(ctx, path, params, &out); err != nil {
		return nil, err
	}

	limit := clampLimit(q.Limit)
	terms := queryTerms(q.Query)
	bills := make([]models.Bill, 0, limit)
	for _, b := range out.Bills {
		if q.BillType != "" && !strings.EqualFold(b.Type, q.BillType) {
			continue
		}
		if !matchesAny(terms, b.Title, b.LatestAction.Text) {
			continue
		}
		bills = append(bills, b.model())
		if len(bills) == limit {
			break
		}
	}
	return bills, nil
}

func (s *CongressService) GetBill(ctx context.Context, ref BillRef) (*models.Bill, error) {
	var out struct {
		Bill rawBill `json:"bill"`
	}
	if err := s.getJSON(ctx, ref.path(), nil, &out); err != nil {
		return nil, err
	}
	b := out.Bill.model()
	return &b, nil
}

func (s *CongressService) GetBillSummaries(ctx context.Context, ref BillRef) ([]models.BillSummary, error) {
	var out struct {
		Summaries []models.BillSummary `json:"summaries"`
	}
	if err := s.getJSON(ctx, ref.path()+"/summaries", nil, &out); err != nil {
		return nil, err
	}
	return out.Summaries, nil
}

func (s *CongressService) GetBillActions(ctx context.Context, ref BillRef, limit int) ([]models.BillAction, error) {
	var out struct {
		Actions []models.BillAction `json:"actions"`
	}
	if err := s.getJSON(ctx, ref.path()+"/actions", listParams(clampLimit(limit)), &out); err != nil {
		return nil, err
	}
	return out.Actions, nil
}

func (s *CongressService) GetBillCosponsors(ctx context.Context, ref BillRef, limit int) ([]models.Cosponsor, error) {
	var out struct {
		Cosponsors []struct {
			rawSponsor
			SponsorshipDate     string `json:"sponsorshipDate"`
			IsOriginalCosponsor bool   `json:"isOriginalCosponsor"`
		} `json:"cosponsors"`
	}
	if err := s.getJSON(ctx, ref.path()+"/cosponsors", listParams(clampLimit(limit)), &out); err != nil {
		return nil, err
	}
	cosponsors := make([]models.Cosponsor, 0, len(out.Cosponsors))
	for _, c := range out.Cosponsors {
		cosponsors = append(cosponsors, models.Cosponsor{
			Sponsor:             c.model(),
			SponsorshipDate:     c.SponsorshipDate,
			IsOriginalCosponsor: c.IsOriginalCosponsor,
		})
	}
	return cosponsors, nil
}

func (s *CongressService) GetRelatedBills(ctx context.Context, ref BillRef, limit int) ([]models.RelatedBill, error) {
	var out struct {
		RelatedBills []struct {
			Congress            flexInt                     `json:"congress"`
			Type                string                      `json:"type"`
			Number              flexInt                     `json:"number"`
			Title               string                      `json:"title"`
			LatestAction        models.LatestAction         `json:"latestAction"`
			RelationshipDetails []models.RelationshipDetail `json:"relationshipDetails"`
		} `json:"relatedBills"`
	}
	if err := s.getJSON(ctx, ref.path()+"/relatedbills", listParams(clampLimit(limit)), &out); err != nil {
		return nil, err
	}
	related := make([]models.RelatedBill, 0, len(out.RelatedBills))
	for _, r := range out.RelatedBills {
		related = append(related, models.RelatedBill{
			Congress:            int(r.Congress),
			Type:                r.Type,
			Number:              int(r.Number),
			Title:               r.Title,
			LatestAction:        r.LatestAction,
			RelationshipDetails: r.RelationshipDetails,
		})
	}
	return related, nil
}
