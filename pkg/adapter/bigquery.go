package adapter

import (
	"context"

	"cloud.google.com/go/bigquery"
	"github.com/m-mizutani/goerr/v2"
)

// BigQuery is an interface for BigQuery operations
type BigQuery interface {
	// Insert streams one row into table. Rows with the same insertID are
	// deduplicated on a best effort basis.
	Insert(ctx context.Context, table, insertID string, row any) error
}

type bigqueryClient struct {
	client  *bigquery.Client
	dataset string
}

// NewBigQuery creates a new BigQuery client writing into dataset
func NewBigQuery(ctx context.Context, projectID, dataset string) (BigQuery, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create BigQuery client")
	}

	return &bigqueryClient{
		client:  client,
		dataset: dataset,
	}, nil
}

func (bq *bigqueryClient) Insert(ctx context.Context, table, insertID string, row any) error {
	schema, err := bigquery.InferSchema(row)
	if err != nil {
		return goerr.Wrap(err, "failed to infer row schema", goerr.V("table", table))
	}

	saver := &bigquery.StructSaver{
		Schema:   schema,
		InsertID: insertID,
		Struct:   row,
	}

	inserter := bq.client.Dataset(bq.dataset).Table(table).Inserter()
	if err := inserter.Put(ctx, saver); err != nil {
		return goerr.Wrap(err, "failed to insert row",
			goerr.V("dataset", bq.dataset),
			goerr.V("table", table),
			goerr.V("insert_id", insertID))
	}
	return nil
}
