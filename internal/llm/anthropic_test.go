package llm_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/legisai/legisai/internal/llm"
	"github.com/legisai/legisai/internal/service/servicetest"
	"github.com/legisai/legisai/internal/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type messagesStub struct {
	mu       sync.Mutex
	replies  []string
	requests []map[string]interface{}
	status   int
}

func (s *messagesStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	body, _ := io.ReadAll(r.Body)
	var req map[string]interface{}
	_ = json.Unmarshal(body, &req)
	s.requests = append(s.requests, req)

	w.Header().Set("Content-Type", "application/json")
	if s.status != 0 {
		w.WriteHeader(s.status)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"api_error","message":"overloaded"}}`))
		return
	}
	reply := s.replies[0]
	s.replies = s.replies[1:]
	_, _ = w.Write([]byte(reply))
}

func (s *messagesStub) request(i int) map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[i]
}

func message(content string, stop string) string {
	return `{"id":"msg_1","type":"message","role":"assistant","model":"claude-test",` +
		`"content":` + content + `,"stop_reason":"` + stop + `","stop_sequence":null,` +
		`"usage":{"input_tokens":10,"output_tokens":5}}`
}

func newModel(t *testing.T, stub *messagesStub) *llm.AnthropicModel {
	t.Helper()
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)
	return llm.NewAnthropicModel("test-key", "claude-test", srv.URL+"/", 1024, 5*time.Second, option.WithMaxRetries(0))
}

func catalog(t *testing.T) []tools.Spec {
	reg, err := tools.NewRegistry(&servicetest.FakeCongress{})
	require.NoError(t, err)
	return reg.List()
}

// lastUserContent returns the content blocks of the final message in a request
func lastUserContent(t *testing.T, req map[string]interface{}) []interface{} {
	t.Helper()
	msgs := req["messages"].([]interface{})
	last := msgs[len(msgs)-1].(map[string]interface{})
	require.Equal(t, "user", last["role"])
	return last["content"].([]interface{})
}

func TestAnthropicSession_ToolRoundTrip(t *testing.T) {
	stub := &messagesStub{replies: []string{
		message(`[{"type":"text","text":"Let me look."},{"type":"tool_use","id":"toolu_1","name":"search_bills","input":{"query":"infrastructure"}}]`, "tool_use"),
		message(`[{"type":"text","text":"H.R. 1 is the main bill."}]`, "end_turn"),
	}}
	sess := newModel(t, stub).NewSession("You are a congressional research assistant.")

	sess.AppendUserMessage("What infrastructure bills exist?")
	reply, err := sess.GenerateWithTools(context.Background(), catalog(t))
	require.NoError(t, err)
	assert.Equal(t, "Let me look.", reply.Text)
	require.Len(t, reply.ToolCalls, 1)
	assert.Equal(t, "toolu_1", reply.ToolCalls[0].ID)
	assert.Equal(t, "search_bills", reply.ToolCalls[0].Name)
	assert.JSONEq(t, `{"query":"infrastructure"}`, string(reply.ToolCalls[0].Args))

	first := stub.request(0)
	assert.Len(t, first["tools"], 18)
	assert.Equal(t, "claude-test", first["model"])

	sess.AppendToolResult(tools.Result{CallID: "toolu_1", Name: "search_bills", Text: `[{"number":"1"}]`})
	reply, err = sess.GenerateWithTools(context.Background(), catalog(t))
	require.NoError(t, err)
	assert.Equal(t, "H.R. 1 is the main bill.", reply.Text)
	assert.Empty(t, reply.ToolCalls)

	second := stub.request(1)
	assert.Len(t, second["messages"], 3)
	blocks := lastUserContent(t, second)
	require.Len(t, blocks, 1)
	block := blocks[0].(map[string]interface{})
	assert.Equal(t, "tool_result", block["type"])
	assert.Equal(t, "toolu_1", block["tool_use_id"])
}

func TestAnthropicSession_ForcedResultIsText(t *testing.T) {
	stub := &messagesStub{replies: []string{
		message(`[{"type":"text","text":"I believe the 118th congress is current."}]`, "end_turn"),
		message(`[{"type":"text","text":"The 119th congress has passed several bills."}]`, "end_turn"),
	}}
	sess := newModel(t, stub).NewSession("")

	sess.AppendUserMessage("What is the latest legislation?")
	_, err := sess.GenerateWithTools(context.Background(), catalog(t))
	require.NoError(t, err)

	sess.AppendToolResult(tools.Result{CallID: "forced-1", Name: "search_bills", Text: "[]"})
	_, err = sess.GenerateWithTools(context.Background(), catalog(t))
	require.NoError(t, err)

	blocks := lastUserContent(t, stub.request(1))
	require.Len(t, blocks, 1)
	block := blocks[0].(map[string]interface{})
	assert.Equal(t, "text", block["type"])
	assert.Contains(t, block["text"], "forced-1")
}

func TestAnthropicSession_GenerateKeepsHistoryOnError(t *testing.T) {
	stub := &messagesStub{status: http.StatusInternalServerError}
	sess := newModel(t, stub).NewSession("")

	sess.AppendUserMessage("hello")
	_, err := sess.Generate(context.Background())
	require.Error(t, err)

	stub.mu.Lock()
	stub.status = 0
	stub.replies = []string{message(`[{"type":"text","text":"hi"}]`, "end_turn")}
	stub.mu.Unlock()

	text, err := sess.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hi", text)

	retry := stub.request(1)
	assert.Len(t, retry["messages"], 1)
	assert.Nil(t, retry["tools"])
}

func TestAnthropicSession_Reset(t *testing.T) {
	stub := &messagesStub{replies: []string{
		message(`[{"type":"text","text":"one"}]`, "end_turn"),
		message(`[{"type":"text","text":"two"}]`, "end_turn"),
	}}
	sess := newModel(t, stub).NewSession("")

	sess.AppendUserMessage("first")
	_, err := sess.Generate(context.Background())
	require.NoError(t, err)

	sess.Reset()
	sess.AppendUserMessage("second")
	_, err = sess.Generate(context.Background())
	require.NoError(t, err)

	assert.Len(t, stub.request(1)["messages"], 1)
}

func TestAnthropicSession_EmptyReplyNotStoredEmpty(t *testing.T) {
	stub := &messagesStub{replies: []string{
		message(`[]`, "end_turn"),
		message(`[{"type":"text","text":"From general knowledge: ..."}]`, "end_turn"),
	}}
	sess := newModel(t, stub).NewSession("")

	sess.AppendUserMessage("What is the latest legislation?")
	reply, err := sess.GenerateWithTools(context.Background(), catalog(t))
	require.NoError(t, err)
	assert.Empty(t, reply.Text)
	assert.Empty(t, reply.ToolCalls)

	sess.AppendUserMessage("Answer from general knowledge.")
	text, err := sess.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "From general knowledge: ...", text)

	msgs := stub.request(1)["messages"].([]interface{})
	require.Len(t, msgs, 3)
	for i, m := range msgs {
		content, _ := m.(map[string]interface{})["content"].([]interface{})
		assert.NotEmpty(t, content, "message %d has no content blocks", i)
		for _, b := range content {
			block := b.(map[string]interface{})
			if block["type"] == "text" {
				assert.NotEmpty(t, block["text"], "message %d has a blank text block", i)
			}
		}
	}
}
