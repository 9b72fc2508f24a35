package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/m-mizutani/chatlaw/pkg/analysis"
	"github.com/m-mizutani/chatlaw/pkg/classify"
	"github.com/m-mizutani/chatlaw/pkg/extract"
	"github.com/m-mizutani/chatlaw/pkg/model"
	"github.com/m-mizutani/chatlaw/pkg/service/mcp"
	"github.com/m-mizutani/chatlaw/pkg/usecase/consult"
	"github.com/m-mizutani/gt"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func connect(t *testing.T) *mcpsdk.ClientSession {
	t.Helper()
	ctx := context.Background()

	uc := consult.New(classify.NewKeyword(), extract.NewRegex(), analysis.NewTemplate())
	srv, err := mcp.NewServer(uc, "test")
	gt.NoError(t, err)

	clientTransport, serverTransport := mcpsdk.NewInMemoryTransports()
	ss, err := srv.Connect(ctx, serverTransport, nil)
	gt.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	gt.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })

	return cs
}

func call(t *testing.T, cs *mcpsdk.ClientSession, name string, args map[string]any, out any) {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &mcpsdk.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	gt.NoError(t, err)
	gt.False(t, res.IsError)
	gt.A(t, res.Content).Length(1)

	text, ok := res.Content[0].(*mcpsdk.TextContent)
	gt.True(t, ok)
	gt.NoError(t, json.Unmarshal([]byte(text.Text), out))
}

// callFails accepts either a protocol error or a tool error result
func callFails(t *testing.T, cs *mcpsdk.ClientSession, name string, args map[string]any) {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &mcpsdk.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err == nil {
		gt.True(t, res.IsError)
	}
}

func TestListTools(t *testing.T) {
	cs := connect(t)

	res, err := cs.ListTools(context.Background(), nil)
	gt.NoError(t, err)

	names := make(map[string]bool)
	for _, tool := range res.Tools {
		names[tool.Name] = true
	}
	gt.A(t, res.Tools).Length(4)
	gt.True(t, names[mcp.ToolStart])
	gt.True(t, names[mcp.ToolAnswer])
	gt.True(t, names[mcp.ToolReport])
	gt.True(t, names[mcp.ToolQuestions])
}

func TestConsultationOverMCP(t *testing.T) {
	cs := connect(t)

	var started mcp.StartResult
	call(t, cs, mcp.ToolStart, map[string]any{
		"query":     "robbery happened at my shop yesterday",
		"max_turns": 2,
	}, &started)
	gt.NotEqual(t, started.SessionID, model.SessionID(""))
	gt.Equal(t, started.CaseType, model.CaseTypeCriminal)
	gt.Equal(t, started.Subtype, model.SubtypeRobbery)
	gt.Equal(t, started.Question, "When did the robbery occur?")
	gt.Equal(t, started.MaxTurns, 2)

	var first mcp.AnswerResult
	call(t, cs, mcp.ToolAnswer, map[string]any{
		"session_id": string(started.SessionID),
		"answer":     "yesterday evening",
	}, &first)
	gt.False(t, first.Finished)
	gt.Equal(t, first.TurnsDone, 1)
	gt.Equal(t, first.Question, "Where exactly did it happen? (street / shop / home)")

	// report is not available while the interview is running
	callFails(t, cs, mcp.ToolReport, map[string]any{"session_id": string(started.SessionID)})

	var second mcp.AnswerResult
	call(t, cs, mcp.ToolAnswer, map[string]any{
		"session_id": string(started.SessionID),
		"answer":     "Shivaji market, Pune",
	}, &second)
	gt.True(t, second.Finished)
	gt.Equal(t, second.TurnsDone, 2)
	gt.V(t, second.Report).NotNil()
	gt.S(t, second.Report.Text).Contains("LEGAL CONSULTATION REPORT")

	var report model.Report
	call(t, cs, mcp.ToolReport, map[string]any{"session_id": string(started.SessionID)}, &report)
	gt.Equal(t, report.SessionID, started.SessionID)
	gt.Equal(t, report.Turns, 2)
	gt.Equal(t, report.Text, second.Report.Text)

	// finished sessions reject further answers
	callFails(t, cs, mcp.ToolAnswer, map[string]any{
		"session_id": string(started.SessionID),
		"answer":     "one more thing",
	})
}

func TestAnswerUnknownSessionOverMCP(t *testing.T) {
	cs := connect(t)

	callFails(t, cs, mcp.ToolAnswer, map[string]any{
		"session_id": "no-such-session",
		"answer":     "hello",
	})
}

func TestListQuestionsOverMCP(t *testing.T) {
	cs := connect(t)

	var questions []string
	call(t, cs, mcp.ToolQuestions, map[string]any{
		"case_type": "criminal",
		"subtype":   "robbery",
	}, &questions)
	gt.A(t, questions).Length(7)
	gt.Equal(t, questions[0], "When did the robbery occur?")

	callFails(t, cs, mcp.ToolQuestions, map[string]any{"case_type": "maritime"})
}
