package model

import (
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

type ProvisionID string

// NewProvisionID generates a new unique ProvisionID
func NewProvisionID() ProvisionID {
	return ProvisionID(uuid.New().String())
}

// Provision is a statute section or guideline that backs a report. Provisions
// are retrieved by vector similarity against the case summary.
type Provision struct {
	ID        ProvisionID        `yaml:"id"`
	CaseType  CaseType           `yaml:"case_type"`
	Title     string             `yaml:"title"`
	Section   string             `yaml:"section"`
	Text      string             `yaml:"text"`
	Embedding firestore.Vector32 `yaml:"-"`
	CreatedAt time.Time          `yaml:"-"`
}

// Validate checks if the provision can be indexed
func (p *Provision) Validate() error {
	if p.Title == "" {
		return goerr.New("provision title is empty")
	}
	if p.Text == "" {
		return goerr.New("provision text is empty", goerr.V("title", p.Title))
	}
	if p.CaseType != "" && !p.CaseType.Valid() {
		return goerr.New("invalid provision case type", goerr.V("case_type", p.CaseType))
	}
	return nil
}

// EmbeddingText is the text embedded for similarity search
func (p *Provision) EmbeddingText() string {
	if p.Section == "" {
		return p.Title + "\n" + p.Text
	}
	return p.Section + " " + p.Title + "\n" + p.Text
}
