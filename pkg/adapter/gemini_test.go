package adapter_test

import (
	"context"
	"os"
	"testing"

	"github.com/m-mizutani/chatlaw/pkg/adapter"
	"github.com/m-mizutani/gt"
	"google.golang.org/genai"
)

func newTestGemini(t *testing.T, opts ...adapter.GeminiOption) *adapter.GeminiClient {
	projectID := os.Getenv("TEST_GEMINI_PROJECT")
	if projectID == "" {
		t.Skip("TEST_GEMINI_PROJECT is not set")
	}

	client, err := adapter.NewGemini(context.Background(), projectID, "us-central1", opts...)
	gt.NoError(t, err)
	return client
}

func TestGenerateContent(t *testing.T) {
	client := newTestGemini(t)
	ctx := context.Background()

	contents := []*genai.Content{
		genai.NewContentFromText("Which Indian Penal Code section defines robbery? Answer with the number only.", genai.RoleUser),
	}

	resp, err := client.GenerateContent(ctx, contents, nil)
	gt.NoError(t, err)

	if resp == nil ||
		len(resp.Candidates) == 0 ||
		resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 ||
		resp.Candidates[0].Content.Parts[0].Text == "" {
		t.Fatal("unexpected response")
	}

	t.Log("response:", resp.Candidates[0].Content.Parts[0].Text)
}

func TestEmbed(t *testing.T) {
	client := newTestGemini(t, adapter.WithEmbeddingDimensions(256))

	values, err := client.Embed(context.Background(), "punishment for robbery", adapter.TaskRetrievalQuery)
	gt.NoError(t, err)
	gt.A(t, values).Length(256)
}
