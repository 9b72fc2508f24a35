package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/chatlaw/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	defaultProvisionCollection = "provisions"
	defaultReportCollection    = "consultations"
)

// Firestore implements Repository on Cloud Firestore
type Firestore struct {
	client              *firestore.Client
	provisionCollection string
	reportCollection    string
	distanceMeasure     firestore.DistanceMeasure
}

var _ Repository = (*Firestore)(nil)

// FirestoreOption configures New
type FirestoreOption func(*Firestore)

// WithCollectionPrefix prefixes both collection names, e.g. to separate
// environments sharing one database.
func WithCollectionPrefix(prefix string) FirestoreOption {
	return func(f *Firestore) {
		f.provisionCollection = prefix + defaultProvisionCollection
		f.reportCollection = prefix + defaultReportCollection
	}
}

// New creates a Firestore repository
func New(ctx context.Context, projectID, databaseID string, opts ...FirestoreOption) (*Firestore, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("project_id", projectID), goerr.V("database_id", databaseID))
	}

	f := &Firestore{
		client:              client,
		provisionCollection: defaultProvisionCollection,
		reportCollection:    defaultReportCollection,
		distanceMeasure:     firestore.DistanceMeasureCosine,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Close releases the underlying client
func (f *Firestore) Close() error {
	return f.client.Close()
}

func (f *Firestore) PutProvision(ctx context.Context, provision *model.Provision) error {
	if err := provision.Validate(); err != nil {
		return goerr.Wrap(err, "invalid provision", goerr.T(model.TagInvalidArgument))
	}
	if provision.ID == "" {
		provision.ID = model.NewProvisionID()
	}
	if provision.CreatedAt.IsZero() {
		provision.CreatedAt = time.Now()
	}

	_, err := f.client.Collection(f.provisionCollection).Doc(string(provision.ID)).Set(ctx, provision)
	if err != nil {
		return goerr.Wrap(err, "failed to put provision", goerr.V("provision_id", provision.ID))
	}
	return nil
}

func (f *Firestore) GetProvision(ctx context.Context, id model.ProvisionID) (*model.Provision, error) {
	doc, err := f.client.Collection(f.provisionCollection).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(err, "provision not found", goerr.T(model.TagNotFound), goerr.V("provision_id", id))
		}
		return nil, goerr.Wrap(err, "failed to get provision", goerr.V("provision_id", id))
	}

	var provision model.Provision
	if err := doc.DataTo(&provision); err != nil {
		return nil, goerr.Wrap(err, "failed to decode provision", goerr.V("provision_id", id))
	}
	return &provision, nil
}

func (f *Firestore) ListProvisions(ctx context.Context, offset, limit int) ([]*model.Provision, error) {
	iter := f.client.Collection(f.provisionCollection).
		OrderBy("Title", firestore.Asc).
		Offset(offset).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	return collectProvisions(iter)
}

func (f *Firestore) FindProvisions(ctx context.Context, embedding []float32, caseType model.CaseType, limit int) ([]*model.Provision, error) {
	if len(embedding) == 0 {
		return nil, goerr.New("embedding is empty", goerr.T(model.TagInvalidArgument))
	}

	query := f.client.Collection(f.provisionCollection).Query
	if caseType != "" {
		query = query.Where("CaseType", "==", string(caseType))
	}

	iter := query.FindNearest("Embedding", firestore.Vector32(embedding), limit, f.distanceMeasure, nil).Documents(ctx)
	defer iter.Stop()

	provisions, err := collectProvisions(iter)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to search provisions", goerr.V("case_type", caseType))
	}
	return provisions, nil
}

func collectProvisions(iter *firestore.DocumentIterator) ([]*model.Provision, error) {
	var provisions []*model.Provision
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate provisions")
		}

		var provision model.Provision
		if err := doc.DataTo(&provision); err != nil {
			return nil, goerr.Wrap(err, "failed to decode provision", goerr.V("doc_id", doc.Ref.ID))
		}
		provisions = append(provisions, &provision)
	}
	return provisions, nil
}

// reportDoc is the stored form of model.Report
type reportDoc struct {
	SessionID  string              `firestore:"session_id"`
	CaseType   string              `firestore:"case_type"`
	Subtype    string              `firestore:"subtype"`
	Text       string              `firestore:"report"`
	Entities   map[string][]string `firestore:"structured"`
	Turns      int                 `firestore:"turns"`
	FinishedAt time.Time           `firestore:"finished_at"`
}

func toReportDoc(r *model.Report) *reportDoc {
	doc := &reportDoc{
		SessionID:  string(r.SessionID),
		CaseType:   string(r.CaseType),
		Subtype:    string(r.Subtype),
		Text:       r.Text,
		Entities:   make(map[string][]string, len(r.Entities)),
		Turns:      r.Turns,
		FinishedAt: r.FinishedAt,
	}
	for k, v := range r.Entities {
		doc.Entities[string(k)] = v
	}
	return doc
}

func (d *reportDoc) toModel() *model.Report {
	r := &model.Report{
		SessionID:  model.SessionID(d.SessionID),
		CaseType:   model.CaseType(d.CaseType),
		Subtype:    model.Subtype(d.Subtype),
		Text:       d.Text,
		Entities:   make(model.Entities, len(d.Entities)),
		Turns:      d.Turns,
		FinishedAt: d.FinishedAt,
	}
	for k, v := range d.Entities {
		r.Entities[model.EntityCategory(k)] = v
	}
	return r
}

func (f *Firestore) PutReport(ctx context.Context, report *model.Report) error {
	if report.SessionID == "" {
		return goerr.New("report has no session id", goerr.T(model.TagInvalidArgument))
	}

	_, err := f.client.Collection(f.reportCollection).Doc(string(report.SessionID)).Set(ctx, toReportDoc(report))
	if err != nil {
		return goerr.Wrap(err, "failed to put report", goerr.V("session_id", report.SessionID))
	}
	return nil
}

func (f *Firestore) GetReport(ctx context.Context, id model.SessionID) (*model.Report, error) {
	doc, err := f.client.Collection(f.reportCollection).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(err, "report not found", goerr.T(model.TagNotFound), goerr.V("session_id", id))
		}
		return nil, goerr.Wrap(err, "failed to get report", goerr.V("session_id", id))
	}

	var d reportDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to decode report", goerr.V("session_id", id))
	}
	return d.toModel(), nil
}

func (f *Firestore) ListReports(ctx context.Context, offset, limit int) ([]*model.Report, error) {
	iter := f.client.Collection(f.reportCollection).
		OrderBy("finished_at", firestore.Desc).
		Offset(offset).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	var reports []*model.Report
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate reports")
		}

		var d reportDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to decode report", goerr.V("doc_id", doc.Ref.ID))
		}
		reports = append(reports, d.toModel())
	}
	return reports, nil
}
