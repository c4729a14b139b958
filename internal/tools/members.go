package tools

import (
	"context"

	"github.com/legisai/legisai/internal/service"
)

func searchMembersTool(api service.CongressAPI) *Tool {
	return newTool("search_members",
		"Search members of Congress by name, state or party. Optionally filter by congress and chamber.",
		func(ctx context.Context, a *searchMembersArgs) (interface{}, error) {
			return api.SearchMembers(ctx, service.MemberSearch{
				Query:       a.Query,
				Congress:    a.Congress,
				Chamber:     a.Chamber,
				CurrentOnly: a.CurrentOnly,
				Limit:       a.Limit,
			})
		})
}

func memberDetailsTool(api service.CongressAPI) *Tool {
	return newTool("get_member_details",
		"Get a member's party, state, district and terms of service by bioguide id.",
		func(ctx context.Context, a *memberArgs) (interface{}, error) {
			return api.GetMember(ctx, a.BioguideID)
		})
}

func sponsoredLegislationTool(api service.CongressAPI) *Tool {
	return newTool("get_member_sponsored_legislation",
		"List legislation sponsored by a member, most recent first.",
		func(ctx context.Context, a *sponsoredArgs) (interface{}, error) {
			return api.GetSponsoredLegislation(ctx, a.BioguideID, a.Limit)
		})
}

func membersByStateTool(api service.CongressAPI) *Tool {
	return newTool("get_members_by_state",
		"List the senators and representatives of a state, or of one district.",
		func(ctx context.Context, a *stateMembersArgs) (interface{}, error) {
			return api.GetMembersByState(ctx, service.StateMembers{
				State:       a.State,
				District:    a.District,
				CurrentOnly: boolOr(a.CurrentOnly, true),
				Limit:       a.Limit,
			})
		})
}

func senatorsByStateTool(api service.CongressAPI) *Tool {
	return newTool("get_senators_by_state",
		"List the senators of a state.",
		func(ctx context.Context, a *senatorsArgs) (interface{}, error) {
			return api.GetSenatorsByState(ctx, service.StateMembers{
				State:       a.State,
				CurrentOnly: boolOr(a.CurrentOnly, true),
			})
		})
}

func representativesByStateTool(api service.CongressAPI) *Tool {
	return newTool("get_representatives_by_state",
		"List the House members of a state, or the representative of one district.",
		func(ctx context.Context, a *representativesArgs) (interface{}, error) {
			return api.GetRepresentativesByState(ctx, service.StateMembers{
				State:       a.State,
				District:    a.District,
				CurrentOnly: boolOr(a.CurrentOnly, true),
			})
		})
}
