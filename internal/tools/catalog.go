package tools

import "github.com/legisai/legisai/internal/service"

// NewRegistry builds the full Congress.gov catalog and freezes it.
func NewRegistry(api service.CongressAPI) (*Registry, error) {
	r := NewEmptyRegistry()
	for _, t := range []*Tool{
		searchBillsTool(api),
		billDetailsTool(api),
		billSummaryTool(api),
		billActionsTool(api),
		billCosponsorsTool(api),
		relatedBillsTool(api),
		searchMembersTool(api),
		memberDetailsTool(api),
		sponsoredLegislationTool(api),
		membersByStateTool(api),
		senatorsByStateTool(api),
		representativesByStateTool(api),
		searchCommitteesTool(api),
		committeeDetailsTool(api),
		searchAmendmentsTool(api),
		congressionalRecordTool(api),
		searchNominationsTool(api),
		searchHearingsTool(api),
	} {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	r.Freeze()
	return r, nil
}
