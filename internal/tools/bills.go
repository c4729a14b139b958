package tools

import (
	"context"

	"github.com/legisai/legisai/internal/service"
)

func searchBillsTool(api service.CongressAPI) *Tool {
	return newTool("search_bills",
		"Search recently updated bills and resolutions by keyword. Optionally narrow to a congress and bill type.",
		func(ctx context.Context, a *searchBillsArgs) (interface{}, error) {
			return api.SearchBills(ctx, service.BillSearch{
				Query:    a.Query,
				Congress: a.Congress,
				BillType: a.BillType,
				Limit:    a.Limit,
			})
		})
}

func billDetailsTool(api service.CongressAPI) *Tool {
	return newTool("get_bill_details",
		"Get a bill's title, sponsors, policy area, origin chamber and latest action.",
		func(ctx context.Context, a *billArgs) (interface{}, error) {
			return api.GetBill(ctx, a.ref())
		})
}

func billSummaryTool(api service.CongressAPI) *Tool {
	return newTool("get_bill_summary",
		"Get the Congressional Research Service summaries written for a bill.",
		func(ctx context.Context, a *billArgs) (interface{}, error) {
			return api.GetBillSummaries(ctx, a.ref())
		})
}

func billActionsTool(api service.CongressAPI) *Tool {
	return newTool("get_bill_actions",
		"Get the legislative actions taken on a bill, most recent first.",
		func(ctx context.Context, a *billListArgs) (interface{}, error) {
			return api.GetBillActions(ctx, a.ref(), a.Limit)
		})
}

func billCosponsorsTool(api service.CongressAPI) *Tool {
	return newTool("get_bill_cosponsors",
		"List the members cosponsoring a bill.",
		func(ctx context.Context, a *billListArgs) (interface{}, error) {
			return api.GetBillCosponsors(ctx, a.ref(), a.Limit)
		})
}

func relatedBillsTool(api service.CongressAPI) *Tool {
	return newTool("get_related_bills",
		"List bills related to a bill, with how each relationship was identified.",
		func(ctx context.Context, a *billListArgs) (interface{}, error) {
			return api.GetRelatedBills(ctx, a.ref(), a.Limit)
		})
}
