package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/Priyanshi1908/openQA.ai/internal/domain"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/google/uuid"
)

type Sink struct {
	client    *elasticsearch.TypedClient
	indexName string
}

func NewSink(ctx context.Context, config ClientConfig) (*Sink, error) {
	if config.IndexName == "" {
		config.IndexName = DefaultIndexName
	}

	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	sink := &Sink{
		client:    client,
		indexName: config.IndexName,
	}

	if err := sink.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}

	return sink, nil
}

func runQuery(runID uuid.UUID) *types.Query {
	return &types.Query{
		Term: map[string]types.TermQuery{
			"run_id": {Value: runID.String()},
		},
	}
}

// Write indexes rows as {run_id}-{position} documents, dropping whatever
// the run had stored before.
func (s *Sink) Write(ctx context.Context, runID uuid.UUID, rows []domain.ReportRow) error {
	if _, err := s.client.DeleteByQuery(s.indexName).Query(runQuery(runID)).Refresh(true).Do(ctx); err != nil {
		return fmt.Errorf("failed to clear previous documents: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:         s.indexName,
		Client:        s.client,
		NumWorkers:    4,
		FlushBytes:    5e+6, // 5MB
		FlushInterval: 30 * time.Second,
		Refresh:       "wait_for",
	})
	if err != nil {
		return fmt.Errorf("failed to create bulk indexer: %w", err)
	}

	var successful, failed atomic.Int64
	now := time.Now().UTC()

	for i, row := range rows {
		doc := toDocument(runID, i, row, now)
		id := documentID(runID, i)

		docBytes, err := json.Marshal(doc)
		if err != nil {
			slog.Error("failed to marshal document", "error", err, "id", id)
			failed.Add(1)
			continue
		}

		err = bi.Add(
			ctx,
			esutil.BulkIndexerItem{
				Action:     "index",
				DocumentID: id,
				Body:       bytes.NewReader(docBytes),
				OnSuccess: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem) {
					successful.Add(1)
				},
				OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
					failed.Add(1)
					if err != nil {
						slog.Error("bulk index error", "error", err, "id", item.DocumentID)
					} else {
						slog.Error("bulk index error", "status", res.Status, "error", res.Error.Type, "reason", res.Error.Reason, "id", item.DocumentID)
					}
				},
			},
		)
		if err != nil {
			failed.Add(1)
			slog.Error("failed to add document to bulk indexer", "error", err, "id", id)
		}
	}

	if err := bi.Close(ctx); err != nil {
		return fmt.Errorf("failed to close bulk indexer: %w", err)
	}

	slog.Info("report rows indexed",
		"run_id", runID,
		"successful", successful.Load(),
		"failed", failed.Load(),
		"total", len(rows),
		"index", s.indexName)

	if n := failed.Load(); n > 0 {
		return fmt.Errorf("failed to index %d out of %d report rows", n, len(rows))
	}

	return nil
}

// Rows returns the documents of runID in position order.
func (s *Sink) Rows(ctx context.Context, runID uuid.UUID, size int) ([]domain.ReportRow, error) {
	asc := sortorder.Asc
	res, err := s.client.Search().
		Index(s.indexName).
		Query(runQuery(runID)).
		Size(size).
		Sort(&types.SortOptions{
			SortOptions: map[string]types.FieldSort{
				"position": {Order: &asc},
			},
		}).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search: %w", err)
	}

	rows := make([]domain.ReportRow, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var doc reportDocument
		if err := json.Unmarshal(hit.Source_, &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal document: %w", err)
		}
		rows = append(rows, doc.row())
	}
	return rows, nil
}

func (s *Sink) EnsureIndex(ctx context.Context) error {
	exists, err := s.client.Indices.Exists(s.indexName).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check if index exists: %w", err)
	}

	if exists {
		slog.Debug("Index already exists", "index", s.indexName)
		return nil
	}

	mappings := buildMapping()
	createRes, err := s.client.Indices.Create(s.indexName).
		Mappings(&mappings).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	if !createRes.Acknowledged {
		return fmt.Errorf("index creation was not acknowledged")
	}

	slog.Info("Index created successfully", "index", s.indexName)
	return nil
}

func (s *Sink) Close() error {
	return nil
}
