// Package servicetest provides an in-memory CongressAPI for tests.
package servicetest

import (
	"context"
	"sync"

	"github.com/legisai/legisai/internal/models"
	"github.com/legisai/legisai/internal/service"
)

// Call records one method invocation on the fake
type Call struct {
	Method string
	Args   interface{}
}

// FakeCongress answers every method from its optional hook, or with an empty
// result when the hook is nil.
type FakeCongress struct {
	mu    sync.Mutex
	calls []Call

	SearchBillsFn               func(ctx context.Context, q service.BillSearch) ([]models.Bill, error)
	GetBillFn                   func(ctx context.Context, ref service.BillRef) (*models.Bill, error)
	SearchMembersFn             func(ctx context.Context, q service.MemberSearch) ([]models.Member, error)
	GetSenatorsByStateFn        func(ctx context.Context, q service.StateMembers) ([]models.Member, error)
	GetRepresentativesByStateFn func(ctx context.Context, q service.StateMembers) ([]models.Member, error)
}

var _ service.CongressAPI = (*FakeCongress)(nil)

func (f *FakeCongress) record(method string, args interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Method: method, Args: args})
}

// Calls returns a copy of the recorded invocations
func (f *FakeCongress) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

func (f *FakeCongress) SearchBills(ctx context.Context, q service.BillSearch) ([]models.Bill, error) {
	f.record("SearchBills", q)
	if f.SearchBillsFn != nil {
		return f.SearchBillsFn(ctx, q)
	}
	return []models.Bill{}, nil
}

func (f *FakeCongress) GetBill(ctx context.Context, ref service.BillRef) (*models.Bill, error) {
	f.record("GetBill", ref)
	if f.GetBillFn != nil {
		return f.GetBillFn(ctx, ref)
	}
	return &models.Bill{Congress: ref.Congress, Type: ref.Type}, nil
}

func (f *FakeCongress) GetBillSummaries(_ context.Context, ref service.BillRef) ([]models.BillSummary, error) {
	f.record("GetBillSummaries", ref)
	return []models.BillSummary{}, nil
}

func (f *FakeCongress) GetBillActions(_ context.Context, ref service.BillRef, limit int) ([]models.BillAction, error) {
	f.record("GetBillActions", ref)
	return []models.BillAction{}, nil
}

func (f *FakeCongress) GetBillCosponsors(_ context.Context, ref service.BillRef, limit int) ([]models.Cosponsor, error) {
	f.record("GetBillCosponsors", ref)
	return []models.Cosponsor{}, nil
}

func (f *FakeCongress) GetRelatedBills(_ context.Context, ref service.BillRef, limit int) ([]models.RelatedBill, error) {
	f.record("GetRelatedBills", ref)
	return []models.RelatedBill{}, nil
}

func (f *FakeCongress) SearchMembers(ctx context.Context, q service.MemberSearch) ([]models.Member, error) {
	f.record("SearchMembers", q)
	if f.SearchMembersFn != nil {
		return f.SearchMembersFn(ctx, q)
	}
	return []models.Member{}, nil
}

func (f *FakeCongress) GetMember(_ context.Context, bioguideID string) (*models.Member, error) {
	f.record("GetMember", bioguideID)
	return &models.Member{BioguideID: bioguideID}, nil
}

func (f *FakeCongress) GetSponsoredLegislation(_ context.Context, bioguideID string, limit int) ([]models.SponsoredBill, error) {
	f.record("GetSponsoredLegislation", bioguideID)
	return []models.SponsoredBill{}, nil
}

func (f *FakeCongress) GetMembersByState(_ context.Context, q service.StateMembers) ([]models.Member, error) {
	f.record("GetMembersByState", q)
	return []models.Member{}, nil
}

func (f *FakeCongress) GetSenatorsByState(ctx context.Context, q service.StateMembers) ([]models.Member, error) {
	f.record("GetSenatorsByState", q)
	if f.GetSenatorsByStateFn != nil {
		return f.GetSenatorsByStateFn(ctx, q)
	}
	return []models.Member{}, nil
}

func (f *FakeCongress) GetRepresentativesByState(ctx context.Context, q service.StateMembers) ([]models.Member, error) {
	f.record("GetRepresentativesByState", q)
	if f.GetRepresentativesByStateFn != nil {
		return f.GetRepresentativesByStateFn(ctx, q)
	}
	return []models.Member{}, nil
}

func (f *FakeCongress) SearchCommittees(_ context.Context, q service.CommitteeSearch) ([]models.Committee, error) {
	f.record("SearchCommittees", q)
	return []models.Committee{}, nil
}

func (f *FakeCongress) GetCommittee(_ context.Context, chamber, code string) (*models.Committee, error) {
	f.record("GetCommittee", chamber+"/"+code)
	return &models.Committee{Chamber: chamber, SystemCode: code}, nil
}

func (f *FakeCongress) SearchAmendments(_ context.Context, q service.AmendmentSearch) ([]models.Amendment, error) {
	f.record("SearchAmendments", q)
	return []models.Amendment{}, nil
}

func (f *FakeCongress) SearchCongressionalRecord(_ context.Context, q service.RecordSearch) ([]models.RecordIssue, error) {
	f.record("SearchCongressionalRecord", q)
	return []models.RecordIssue{}, nil
}

func (f *FakeCongress) SearchNominations(_ context.Context, q service.NominationSearch) ([]models.Nomination, error) {
	f.record("SearchNominations", q)
	return []models.Nomination{}, nil
}

func (f *FakeCongress) SearchHearings(_ context.Context, q service.HearingSearch) ([]models.Hearing, error) {
	f.record("SearchHearings", q)
	return []models.Hearing{}, nil
}
