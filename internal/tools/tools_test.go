package tools_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/legisai/legisai/internal/models"
	"github.com/legisai/legisai/internal/service"
	"github.com/legisai/legisai/internal/service/servicetest"
	"github.com/legisai/legisai/internal/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDispatcher(t *testing.T, api service.CongressAPI, timeout time.Duration) *tools.Dispatcher {
	t.Helper()
	reg, err := tools.NewRegistry(api)
	require.NoError(t, err)
	return tools.NewDispatcher(reg, timeout)
}

func TestRegistry_Catalog(t *testing.T) {
	reg, err := tools.NewRegistry(&servicetest.FakeCongress{})
	require.NoError(t, err)

	specs := reg.List()
	require.Len(t, specs, 18)
	assert.Equal(t, "search_bills", specs[0].Name)

	seen := map[string]bool{}
	for _, s := range specs {
		assert.False(t, seen[s.Name], "duplicate %s", s.Name)
		seen[s.Name] = true
		assert.NotEmpty(t, s.Description, s.Name)
	}

	bill, ok := reg.Lookup("get_bill_details")
	require.True(t, ok)
	spec := bill.Spec()
	assert.Equal(t, []string{"congress", "bill_type", "bill_number"}, spec.ParamNames())
	assert.Equal(t, tools.Param{Type: "integer", Description: "Congress number such as 119", Required: true}, spec.Params["congress"])

	search, _ := reg.Lookup("search_bills")
	assert.True(t, search.Spec().Params["query"].Required)
	assert.False(t, search.Spec().Params["limit"].Required)

	hearings, _ := reg.Lookup("search_hearings")
	assert.False(t, hearings.Spec().Params["query"].Required)

	senators, _ := reg.Lookup("get_senators_by_state")
	assert.Equal(t, "boolean", senators.Spec().Params["current_only"].Type)
}

func TestRegistry_DuplicateAndFrozen(t *testing.T) {
	api := &servicetest.FakeCongress{}
	reg, err := tools.NewRegistry(api)
	require.NoError(t, err)

	tool, _ := reg.Lookup("search_bills")
	err = reg.Register(tool)
	assert.True(t, errors.Is(err, tools.ErrRegistryFrozen))

	empty := tools.NewEmptyRegistry()
	require.NoError(t, empty.Register(tool))
	err = empty.Register(tool)
	assert.True(t, errors.Is(err, tools.ErrDuplicateTool))
	assert.Contains(t, err.Error(), "search_bills")
	assert.Equal(t, 1, empty.Len())
}

func TestSpec_Schema(t *testing.T) {
	reg, err := tools.NewRegistry(&servicetest.FakeCongress{})
	require.NoError(t, err)
	tool, _ := reg.Lookup("get_bill_actions")

	b, err := json.Marshal(tool.Spec().Schema())
	require.NoError(t, err)

	var schema struct {
		Type       string                     `json:"type"`
		Properties map[string]json.RawMessage `json:"properties"`
		Required   []string                   `json:"required"`
		Additional bool                       `json:"additionalProperties"`
	}
	require.NoError(t, json.Unmarshal(b, &schema))
	assert.Equal(t, "object", schema.Type)
	assert.Len(t, schema.Properties, 4)
	assert.Equal(t, []string{"congress", "bill_type", "bill_number"}, schema.Required)
	assert.False(t, schema.Additional)
}

func TestDispatch_SearchBills(t *testing.T) {
	api := &servicetest.FakeCongress{
		SearchBillsFn: func(_ context.Context, q service.BillSearch) ([]models.Bill, error) {
			return []models.Bill{{Congress: 119, Type: "HR", Number: "1", Title: "Infrastructure Act"}}, nil
		},
	}
	d := newDispatcher(t, api, time.Second)

	text, err := d.Dispatch(context.Background(), "search_bills", json.RawMessage(`{"query":"infrastructure"}`))
	require.NoError(t, err)
	assert.Contains(t, text, "Infrastructure Act")

	calls := api.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "SearchBills", calls[0].Method)
	assert.Equal(t, service.BillSearch{Query: "infrastructure"}, calls[0].Args)
}

func TestDispatch_CollaboratorFailureDegrades(t *testing.T) {
	api := &servicetest.FakeCongress{
		SearchBillsFn: func(context.Context, service.BillSearch) ([]models.Bill, error) {
			return nil, errors.New("congress.gov unavailable")
		},
	}
	d := newDispatcher(t, api, time.Second)

	text, err := d.Dispatch(context.Background(), "search_bills", json.RawMessage(`{"query":"infrastructure"}`))
	require.Error(t, err)
	assert.Empty(t, text)

	var collab *tools.CollaboratorError
	require.True(t, errors.As(err, &collab))
	assert.Equal(t, "search_bills", collab.Tool)
	assert.True(t, tools.IsRecoverable(err))
	assert.Contains(t, tools.ErrorText(err), "congress.gov unavailable")
}

func TestDispatch_PanicBecomesCollaboratorError(t *testing.T) {
	api := &servicetest.FakeCongress{
		SearchBillsFn: func(context.Context, service.BillSearch) ([]models.Bill, error) {
			panic("boom")
		},
	}
	d := newDispatcher(t, api, time.Second)

	_, err := d.Dispatch(context.Background(), "search_bills", json.RawMessage(`{"query":"x"}`))
	var collab *tools.CollaboratorError
	require.True(t, errors.As(err, &collab))
	assert.Contains(t, err.Error(), "boom")
}

func TestDispatch_ArgumentErrors(t *testing.T) {
	d := newDispatcher(t, &servicetest.FakeCongress{}, time.Second)

	cases := map[string]struct {
		tool string
		args string
	}{
		"malformed json":   {"search_bills", `{"query":`},
		"missing required": {"search_bills", `{}`},
		"unknown field":    {"search_bills", `{"query":"x","color":"red"}`},
		"wrong type":       {"get_bill_details", `{"congress":"119","bill_type":"hr","bill_number":1}`},
		"bad bill type":    {"get_bill_details", `{"congress":119,"bill_type":"xx","bill_number":1}`},
		"unknown state":    {"get_senators_by_state", `{"state":"Atlantis"}`},
		"bad chamber":      {"search_members", `{"query":"smith","chamber":"lords"}`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := d.Dispatch(context.Background(), tc.tool, json.RawMessage(tc.args))
			var parse *tools.ArgumentParseError
			require.True(t, errors.As(err, &parse), "got %v", err)
			assert.Equal(t, tc.tool, parse.Tool)
		})
	}
}

func TestDispatch_UnknownTool(t *testing.T) {
	d := newDispatcher(t, &servicetest.FakeCongress{}, time.Second)

	_, err := d.Dispatch(context.Background(), "launch_rockets", json.RawMessage(`{}`))
	var unknown *tools.UnknownToolError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "launch_rockets", unknown.Name)
	assert.True(t, tools.IsRecoverable(err))
}

func TestDispatch_NormalizesArguments(t *testing.T) {
	api := &servicetest.FakeCongress{}
	d := newDispatcher(t, api, time.Second)

	_, err := d.Dispatch(context.Background(), "get_senators_by_state", json.RawMessage(`{"state":"Washington"}`))
	require.NoError(t, err)
	_, err = d.Dispatch(context.Background(), "get_bill_details", json.RawMessage(`{"congress":119,"bill_type":"HR","bill_number":3}`))
	require.NoError(t, err)

	calls := api.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, service.StateMembers{State: "WA", CurrentOnly: true}, calls[0].Args)
	assert.Equal(t, service.BillRef{Congress: 119, Type: "hr", Number: 3}, calls[1].Args)
}

func TestDispatch_Timeout(t *testing.T) {
	api := &servicetest.FakeCongress{
		SearchBillsFn: func(ctx context.Context, _ service.BillSearch) ([]models.Bill, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	d := newDispatcher(t, api, 20*time.Millisecond)

	_, err := d.Dispatch(context.Background(), "search_bills", json.RawMessage(`{"query":"x"}`))
	var collab *tools.CollaboratorError
	require.True(t, errors.As(err, &collab))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestDispatch_CancelledDiscardsResult(t *testing.T) {
	release := make(chan struct{})
	api := &servicetest.FakeCongress{
		SearchBillsFn: func(context.Context, service.BillSearch) ([]models.Bill, error) {
			<-release
			return []models.Bill{{Title: "late"}}, nil
		},
	}
	d := newDispatcher(t, api, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	text, err := d.Dispatch(ctx, "search_bills", json.RawMessage(`{"query":"x"}`))
	close(release)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, text)
	assert.False(t, tools.IsRecoverable(err))
}

func TestDispatch_EmptyResultIsArray(t *testing.T) {
	d := newDispatcher(t, &servicetest.FakeCongress{}, time.Second)

	text, err := d.Dispatch(context.Background(), "search_congressional_record", nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", text)
}
