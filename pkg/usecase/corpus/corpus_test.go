package corpus_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/m-mizutani/chatlaw/pkg/adapter"
	"github.com/m-mizutani/chatlaw/pkg/model"
	"github.com/m-mizutani/chatlaw/pkg/usecase/corpus"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"google.golang.org/genai"
)

// Mock Gemini embedding texts by length
type mockGemini struct {
	mu    sync.Mutex
	texts []string
	tasks []string
	err   error
}

func (m *mockGemini) GenerateContent(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return nil, goerr.New("not used")
}

func (m *mockGemini) Embed(ctx context.Context, text, taskType string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.texts = append(m.texts, text)
	m.tasks = append(m.tasks, taskType)
	return []float32{float32(len(text)), 1}, nil
}

// Mock repository
type mockRepository struct {
	mu         sync.Mutex
	provisions map[model.ProvisionID]*model.Provision
	order      []*model.Provision
}

func newMockRepository() *mockRepository {
	return &mockRepository{provisions: make(map[model.ProvisionID]*model.Provision)}
}

func (m *mockRepository) PutProvision(ctx context.Context, p *model.Provision) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.provisions[p.ID] = p
	m.order = append(m.order, p)
	return nil
}

func (m *mockRepository) GetProvision(ctx context.Context, id model.ProvisionID) (*model.Provision, error) {
	p, ok := m.provisions[id]
	if !ok {
		return nil, goerr.New("provision not found", goerr.T(model.TagNotFound))
	}
	return p, nil
}

func (m *mockRepository) ListProvisions(ctx context.Context, offset, limit int) ([]*model.Provision, error) {
	if offset >= len(m.order) {
		return nil, nil
	}
	end := min(offset+limit, len(m.order))
	return m.order[offset:end], nil
}

func (m *mockRepository) FindProvisions(ctx context.Context, embedding []float32, caseType model.CaseType, limit int) ([]*model.Provision, error) {
	return nil, nil
}

func (m *mockRepository) PutReport(ctx context.Context, report *model.Report) error { return nil }

func (m *mockRepository) GetReport(ctx context.Context, id model.SessionID) (*model.Report, error) {
	return nil, nil
}

func (m *mockRepository) ListReports(ctx context.Context, offset, limit int) ([]*model.Report, error) {
	return nil, nil
}

const corpusYAML = `provisions:
  - id: ipc-392
    case_type: criminal
    section: IPC 392
    title: Punishment for robbery
    text: Whoever commits robbery shall be punished with rigorous imprisonment.
  - case_type: property
    title: Transfer of Property Act
    text: Transfer of property means an act by which a living person conveys property.
  - title: Legal aid
    text: Free legal services are available to eligible persons.
`

func TestIngest(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	gemini := &mockGemini{}
	uc := corpus.New(repo, gemini, corpus.WithConcurrency(2))

	provisions, err := uc.Ingest(ctx, strings.NewReader(corpusYAML))
	gt.NoError(t, err)
	gt.A(t, provisions).Length(3)
	gt.Equal(t, len(repo.provisions), 3)

	stored, err := repo.GetProvision(ctx, "ipc-392")
	gt.NoError(t, err)
	gt.Equal(t, stored.CaseType, model.CaseTypeCriminal)
	gt.A(t, stored.Embedding).Length(2)
	gt.False(t, stored.CreatedAt.IsZero())

	for _, p := range provisions {
		gt.NotEqual(t, p.ID, model.ProvisionID(""))
	}
	for _, task := range gemini.tasks {
		gt.Equal(t, task, adapter.TaskRetrievalDocument)
	}
	found := false
	for _, text := range gemini.texts {
		if text == "IPC 392 Punishment for robbery\nWhoever commits robbery shall be punished with rigorous imprisonment." {
			found = true
		}
	}
	gt.True(t, found)
}

func TestIngestValidation(t *testing.T) {
	ctx := context.Background()

	testCases := map[string]string{
		"broken yaml":   "provisions: [",
		"missing text":  "provisions:\n  - title: only a title\n",
		"bad case type": "provisions:\n  - title: t\n    text: x\n    case_type: maritime\n",
	}

	for name, input := range testCases {
		t.Run(name, func(t *testing.T) {
			repo := newMockRepository()
			gemini := &mockGemini{}
			_, err := corpus.New(repo, gemini).Ingest(ctx, strings.NewReader(input))
			gt.Error(t, err)
			gt.True(t, model.IsInvalidArgument(err))
			gt.Equal(t, len(repo.provisions), 0)
			gt.A(t, gemini.texts).Length(0)
		})
	}
}

func TestIngestEmbeddingFailure(t *testing.T) {
	gemini := &mockGemini{err: goerr.New("quota exceeded")}
	_, err := corpus.New(newMockRepository(), gemini).Ingest(context.Background(), strings.NewReader(corpusYAML))
	gt.Error(t, err)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	uc := corpus.New(repo, &mockGemini{})

	_, err := uc.Ingest(ctx, strings.NewReader(corpusYAML))
	gt.NoError(t, err)

	all, err := uc.List(ctx, corpus.ListOptions{Limit: 10})
	gt.NoError(t, err)
	gt.A(t, all).Length(3)

	criminal, err := uc.List(ctx, corpus.ListOptions{CaseType: model.CaseTypeCriminal, Limit: 10})
	gt.NoError(t, err)
	gt.A(t, criminal).Length(1)
	gt.Equal(t, criminal[0].Title, "Punishment for robbery")
}
