package corpus

import (
	"context"
	"io"
	"time"

	"github.com/m-mizutani/chatlaw/pkg/adapter"
	"github.com/m-mizutani/chatlaw/pkg/model"
	"github.com/m-mizutani/chatlaw/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// File is the YAML layout of a provision corpus file
type File struct {
	Provisions []*model.Provision `yaml:"provisions"`
}

// Ingest reads a corpus file, embeds each provision and stores it. Every
// provision is validated before anything is written.
func (u *UseCase) Ingest(ctx context.Context, r io.Reader) ([]*model.Provision, error) {
	var file File
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, goerr.Wrap(err, "failed to decode corpus file", goerr.T(model.TagInvalidArgument))
	}

	for i, p := range file.Provisions {
		if p == nil {
			return nil, goerr.New("empty provision entry", goerr.T(model.TagInvalidArgument), goerr.V("index", i))
		}
		if err := p.Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid provision", goerr.T(model.TagInvalidArgument), goerr.V("index", i))
		}
	}

	now := time.Now()
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(u.concurrency)

	for _, p := range file.Provisions {
		eg.Go(func() error {
			embedding, err := u.gemini.Embed(egCtx, p.EmbeddingText(), adapter.TaskRetrievalDocument)
			if err != nil {
				return goerr.Wrap(err, "failed to embed provision", goerr.V("title", p.Title))
			}
			p.Embedding = embedding
			if p.ID == "" {
				p.ID = model.NewProvisionID()
			}
			if p.CreatedAt.IsZero() {
				p.CreatedAt = now
			}

			if err := u.repo.PutProvision(egCtx, p); err != nil {
				return goerr.Wrap(err, "failed to store provision", goerr.V("title", p.Title))
			}
			logging.From(ctx).Debug("provision ingested", "id", p.ID, "title", p.Title)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	logging.From(ctx).Info("corpus ingested", "count", len(file.Provisions))
	return file.Provisions, nil
}
