package tools

import (
	"context"

	"github.com/legisai/legisai/internal/service"
)

func searchCommitteesTool(api service.CongressAPI) *Tool {
	return newTool("search_committees",
		"Search congressional committees by name. Optionally filter by chamber and congress.",
		func(ctx context.Context, a *searchCommitteesArgs) (interface{}, error) {
			return api.SearchCommittees(ctx, service.CommitteeSearch{
				Query:    a.Query,
				Chamber:  a.Chamber,
				Congress: a.Congress,
				Limit:    a.Limit,
			})
		})
}

func committeeDetailsTool(api service.CongressAPI) *Tool {
	return newTool("get_committee_details",
		"Get a committee's current name, type, subcommittees and referred bill count.",
		func(ctx context.Context, a *committeeArgs) (interface{}, error) {
			return api.GetCommittee(ctx, a.Chamber, a.CommitteeCode)
		})
}
