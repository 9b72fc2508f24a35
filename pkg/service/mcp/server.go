// Package mcp exposes consultations as Model Context Protocol tools so that
// an MCP capable assistant can drive the interview on behalf of a client.
package mcp

import (
	"context"
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/m-mizutani/chatlaw/pkg/model"
	"github.com/m-mizutani/chatlaw/pkg/question"
	"github.com/m-mizutani/chatlaw/pkg/usecase/consult"
	"github.com/m-mizutani/chatlaw/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	ToolStart     = "start_consultation"
	ToolAnswer    = "answer_question"
	ToolReport    = "get_report"
	ToolQuestions = "list_questions"
)

type startParams struct {
	Query    string `json:"query" jsonschema:"Client's own description of the legal issue"`
	MaxTurns int    `json:"max_turns,omitempty" jsonschema:"Maximum number of questions to ask (default 7)"`
}

type answerParams struct {
	SessionID string `json:"session_id" jsonschema:"Session ID returned by start_consultation"`
	Answer    string `json:"answer" jsonschema:"Client's reply to the pending question"`
}

type reportParams struct {
	SessionID string `json:"session_id" jsonschema:"Session ID of a finished consultation"`
}

type questionsParams struct {
	CaseType string `json:"case_type" jsonschema:"Case type of the matter"`
	Subtype  string `json:"subtype,omitempty" jsonschema:"Criminal offense subtype"`
}

// StartResult is the JSON text returned by start_consultation
type StartResult struct {
	SessionID  model.SessionID `json:"session_id"`
	Question   string          `json:"question"`
	CaseType   model.CaseType  `json:"case_type"`
	Subtype    model.Subtype   `json:"subtype,omitempty"`
	Confidence float64         `json:"confidence"`
	MaxTurns   int             `json:"max_turns"`
}

// AnswerResult is the JSON text returned by answer_question
type AnswerResult struct {
	Finished  bool          `json:"finished"`
	Question  string        `json:"question,omitempty"`
	TurnsDone int           `json:"turns_done"`
	MaxTurns  int           `json:"max_turns"`
	Report    *model.Report `json:"report,omitempty"`
}

type server struct {
	uc *consult.UseCase
}

// NewServer creates an MCP server whose tools run consultations on uc
func NewServer(uc *consult.UseCase, version string) (*mcp.Server, error) {
	s := &server{uc: uc}

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "chatlaw",
		Version: version,
	}, nil)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        ToolStart,
		Description: "Open a legal consultation from the client's description and return the first question",
	}, s.start)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        ToolAnswer,
		Description: "Submit the client's answer to the pending question. Returns the next question, or the final report when the interview is over",
	}, s.answer)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        ToolReport,
		Description: "Get the report of a finished consultation",
	}, s.report)

	schema, err := questionsSchema()
	if err != nil {
		return nil, err
	}
	mcp.AddTool(srv, &mcp.Tool{
		Name:        ToolQuestions,
		Description: "List the questions asked for a case type and subtype, in order",
		InputSchema: schema,
	}, s.questions)

	return srv, nil
}

// Serve runs the MCP server over stdin/stdout until ctx is cancelled or the
// client disconnects
func Serve(ctx context.Context, srv *mcp.Server) error {
	if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return goerr.Wrap(err, "MCP server stopped")
	}
	return nil
}

// questionsSchema restricts case_type and subtype to the known values
func questionsSchema() (*jsonschema.Schema, error) {
	schema, err := jsonschema.For[questionsParams](nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build list_questions schema")
	}

	var caseTypes []any
	for _, ct := range model.AllCaseTypes() {
		caseTypes = append(caseTypes, string(ct))
	}
	schema.Properties["case_type"].Enum = caseTypes
	schema.Properties["subtype"].Enum = []any{
		string(model.SubtypeMurder),
		string(model.SubtypeTheft),
		string(model.SubtypeRobbery),
		string(model.SubtypeAssault),
	}
	return schema, nil
}

func textResult(v any) (*mcp.CallToolResult, any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to marshal tool result")
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(raw)},
		},
	}, nil, nil
}

func (s *server) start(ctx context.Context, req *mcp.CallToolRequest, params *startParams) (*mcp.CallToolResult, any, error) {
	res, err := s.uc.Start(ctx, params.Query, params.MaxTurns)
	if err != nil {
		logging.From(ctx).Warn("start_consultation failed", "error", err)
		return nil, nil, err
	}

	return textResult(&StartResult{
		SessionID:  res.SessionID,
		Question:   res.Question,
		CaseType:   res.CaseType,
		Subtype:    res.Subtype,
		Confidence: res.Confidence,
		MaxTurns:   res.MaxTurns,
	})
}

func (s *server) answer(ctx context.Context, req *mcp.CallToolRequest, params *answerParams) (*mcp.CallToolResult, any, error) {
	res, err := s.uc.Answer(ctx, model.SessionID(params.SessionID), params.Answer)
	if err != nil {
		logging.From(ctx).Warn("answer_question failed", "error", err, "session_id", params.SessionID)
		return nil, nil, err
	}

	return textResult(&AnswerResult{
		Finished:  res.Finished(),
		Question:  res.Question,
		TurnsDone: res.TurnsDone,
		MaxTurns:  res.MaxTurns,
		Report:    res.Report,
	})
}

func (s *server) report(ctx context.Context, req *mcp.CallToolRequest, params *reportParams) (*mcp.CallToolResult, any, error) {
	report, err := s.uc.Report(ctx, model.SessionID(params.SessionID))
	if err != nil {
		return nil, nil, err
	}
	return textResult(report)
}

func (s *server) questions(ctx context.Context, req *mcp.CallToolRequest, params *questionsParams) (*mcp.CallToolResult, any, error) {
	ct := model.CaseType(params.CaseType)
	st := model.Subtype(params.Subtype)
	if !ct.Valid() || !st.Valid() {
		return nil, nil, goerr.New("unknown case type or subtype",
			goerr.T(model.TagInvalidArgument),
			goerr.V("case_type", params.CaseType),
			goerr.V("subtype", params.Subtype))
	}
	return textResult(question.Lookup(ct, st))
}
