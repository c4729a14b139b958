package tools

import (
	"context"

	"github.com/legisai/legisai/internal/service"
)

func searchAmendmentsTool(api service.CongressAPI) *Tool {
	return newTool("search_amendments",
		"Search amendments by keyword. Optionally filter by congress and amendment type.",
		func(ctx context.Context, a *searchAmendmentsArgs) (interface{}, error) {
			return api.SearchAmendments(ctx, service.AmendmentSearch{
				Query:         a.Query,
				Congress:      a.Congress,
				AmendmentType: a.AmendmentType,
				Limit:         a.Limit,
			})
		})
}

func congressionalRecordTool(api service.CongressAPI) *Tool {
	return newTool("search_congressional_record",
		"List daily issues of the Congressional Record, optionally for a given year, month and day.",
		func(ctx context.Context, a *recordArgs) (interface{}, error) {
			return api.SearchCongressionalRecord(ctx, service.RecordSearch{
				Year:  a.Year,
				Month: a.Month,
				Day:   a.Day,
				Limit: a.Limit,
			})
		})
}

func searchNominationsTool(api service.CongressAPI) *Tool {
	return newTool("search_nominations",
		"Search presidential nominations sent to the Senate by keyword.",
		func(ctx context.Context, a *searchNominationsArgs) (interface{}, error) {
			return api.SearchNominations(ctx, service.NominationSearch{
				Query:    a.Query,
				Congress: a.Congress,
				Limit:    a.Limit,
			})
		})
}

func searchHearingsTool(api service.CongressAPI) *Tool {
	return newTool("search_hearings",
		"Search published committee hearings. The query is optional and matches hearing titles.",
		func(ctx context.Context, a *searchHearingsArgs) (interface{}, error) {
			return api.SearchHearings(ctx, service.HearingSearch{
				Query:    a.Query,
				Congress: a.Congress,
				Chamber:  a.Chamber,
				Limit:    a.Limit,
			})
		})
}
