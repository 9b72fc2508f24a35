package analysis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/m-mizutani/chatlaw/pkg/adapter"
	"github.com/m-mizutani/chatlaw/pkg/model"
	"github.com/m-mizutani/chatlaw/pkg/repository"
	"github.com/m-mizutani/chatlaw/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"
)

// Archive stores finished reports in the repository and, when configured,
// as JSON documents in object storage and as analytics rows in BigQuery.
// All destinations are written concurrently.
type Archive struct {
	repo    repository.Repository
	storage adapter.Storage

	bq      adapter.BigQuery
	bqTable string
}

// ArchiveOption configures NewArchive
type ArchiveOption func(*Archive)

// WithAnalytics also streams one ReportRow per report into table
func WithAnalytics(bq adapter.BigQuery, table string) ArchiveOption {
	return func(a *Archive) {
		a.bq = bq
		a.bqTable = table
	}
}

// NewArchive creates an Archive. Either destination may be nil.
func NewArchive(repo repository.Repository, storage adapter.Storage, opts ...ArchiveOption) *Archive {
	a := &Archive{repo: repo, storage: storage}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ReportRow is the analytics record of a finished consultation. Entity
// values are left out; only how many of each were collected is kept.
type ReportRow struct {
	SessionID      string    `bigquery:"session_id"`
	CaseType       string    `bigquery:"case_type"`
	Subtype        string    `bigquery:"subtype"`
	Turns          int       `bigquery:"turns"`
	Dates          int       `bigquery:"dates"`
	Locations      int       `bigquery:"locations"`
	MonetaryValues int       `bigquery:"monetary_values"`
	Items          int       `bigquery:"items"`
	Parties        int       `bigquery:"parties"`
	FinishedAt     time.Time `bigquery:"finished_at"`
}

// NewReportRow converts report into its analytics record
func NewReportRow(report *model.Report) *ReportRow {
	return &ReportRow{
		SessionID:      string(report.SessionID),
		CaseType:       string(report.CaseType),
		Subtype:        string(report.Subtype),
		Turns:          report.Turns,
		Dates:          len(report.Entities[model.EntityDates]),
		Locations:      len(report.Entities[model.EntityLocations]),
		MonetaryValues: len(report.Entities[model.EntityMonetaryValues]),
		Items:          len(report.Entities[model.EntityItems]),
		Parties:        len(report.Entities[model.EntityParties]),
		FinishedAt:     report.FinishedAt,
	}
}

// ReportKey is the object key of a report document
func ReportKey(id model.SessionID) string {
	return "reports/" + string(id) + ".json"
}

// PutReport implements interfaces.ReportArchive
func (a *Archive) PutReport(ctx context.Context, report *model.Report) error {
	var eg errgroup.Group

	if a.repo != nil {
		eg.Go(func() error {
			return a.repo.PutReport(ctx, report)
		})
	}

	if a.storage != nil {
		eg.Go(func() error {
			return a.putDocument(ctx, report)
		})
	}

	if a.bq != nil {
		eg.Go(func() error {
			return a.bq.Insert(ctx, a.bqTable, string(report.SessionID), NewReportRow(report))
		})
	}

	if err := eg.Wait(); err != nil {
		return goerr.Wrap(err, "failed to archive report", goerr.V("session_id", report.SessionID))
	}
	return nil
}

func (a *Archive) putDocument(ctx context.Context, report *model.Report) error {
	key := ReportKey(report.SessionID)
	w, err := a.storage.Put(ctx, key, "application/json")
	if err != nil {
		return goerr.Wrap(err, "failed to open report document", goerr.V("key", key))
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to encode report document", goerr.V("key", key))
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to commit report document", goerr.V("key", key))
	}

	logging.From(ctx).Debug("report document stored", "key", key)
	return nil
}
