// Package supabase talks to the Supabase REST layer (PostgREST) that fronts
// the pgvector documents table. Rows are keyed by a content hash; similarity
// search goes through the match_documents RPC function.
package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/Boddenberg/pj-assistant-bfa-go/internal/config"
	pkghttp "github.com/Boddenberg/pj-assistant-bfa-go/pkg/http"
)

const (
	documentsPath = "/rest/v1/documents"
	matchRPCPath  = "/rest/v1/rpc/match_documents"

	// PostgREST filter that matches every row; DELETE refuses to run
	// without a filter.
	matchAllFilter = "id=neq.____never_match____"
)

// Row is one record of the documents table.
type Row struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Metadata  string    `json:"metadata"`
	Embedding []float64 `json:"embedding"`
}

// MatchRow is one result of the match_documents RPC.
type MatchRow struct {
	Content    string          `json:"content"`
	Metadata   json.RawMessage `json:"metadata"`
	Similarity float64         `json:"similarity"`
}

type matchRequest struct {
	QueryEmbedding []float64 `json:"query_embedding"`
	MatchThreshold float64   `json:"match_threshold"`
	MatchCount     int       `json:"match_count"`
}

type Client struct {
	config    config.SupabaseConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewClient(cfg config.SupabaseConfig, logger *zap.Logger) *Client {
	connCfg := &pkghttp.ConnectorConfig{
		Logger:  logger,
		BaseURL: strings.TrimRight(cfg.URL, "/"),
	}

	connector := pkghttp.NewConnector(
		connCfg,
		pkghttp.WithRequestTimeout(cfg.RequestTimeout),
		pkghttp.WithConnClientTimeout(cfg.ConnTimeout),
		pkghttp.WithClientKeepAlive(cfg.KeepAlive),
		pkghttp.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkghttp.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		pkghttp.WithRequestLogging(),
		pkghttp.WithAuthToken(cfg.ServiceRoleKey),
		pkghttp.WithAPIKey("apikey", cfg.ServiceRoleKey),
	)

	return &Client{
		config:    cfg,
		connector: connector,
		logger:    logger,
	}
}

// UpsertRows inserts or replaces rows, merging on the content-hash id.
func (c *Client) UpsertRows(ctx context.Context, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}

	err := c.connector.DoRequest(ctx, http.MethodPost, documentsPath, rows, nil,
		pkghttp.WithHeader("Prefer", "resolution=merge-duplicates"),
	)
	if err != nil {
		return fmt.Errorf("upsert documents: %w", err)
	}

	ctxzap.Debug(ctx, "documents upserted", zap.Int("count", len(rows)))
	return nil
}

// MatchDocuments runs the server-side similarity search.
func (c *Client) MatchDocuments(ctx context.Context, queryEmbedding []float64, threshold float64, count int) ([]MatchRow, error) {
	req := &matchRequest{
		QueryEmbedding: queryEmbedding,
		MatchThreshold: threshold,
		MatchCount:     count,
	}

	var rows []MatchRow
	if err := c.connector.DoRequest(ctx, http.MethodPost, matchRPCPath, req, &rows); err != nil {
		return nil, fmt.Errorf("match documents: %w", err)
	}

	return rows, nil
}

// CountRows returns the total number of rows in the documents table.
func (c *Client) CountRows(ctx context.Context) (int, error) {
	var headers http.Header
	err := c.connector.DoRequest(ctx, http.MethodGet, documentsPath+"?select=id", nil, nil,
		pkghttp.WithHeader("Prefer", "count=exact"),
		pkghttp.WithHeader("Range", "0-0"),
		pkghttp.WithResponseHeaders(&headers),
	)
	if err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}

	// PostgREST reports the total after the slash: "0-0/42".
	contentRange := headers.Get("Content-Range")
	idx := strings.LastIndex(contentRange, "/")
	if idx < 0 {
		return 0, fmt.Errorf("malformed content range %q", contentRange)
	}

	total := contentRange[idx+1:]
	if total == "*" {
		return 0, nil
	}

	n, err := strconv.Atoi(total)
	if err != nil {
		return 0, fmt.Errorf("malformed content range %q: %w", contentRange, err)
	}

	return n, nil
}

// DeleteAll removes every row from the documents table.
func (c *Client) DeleteAll(ctx context.Context) error {
	err := c.connector.DoRequest(ctx, http.MethodDelete, documentsPath+"?"+matchAllFilter, nil, nil)
	if err != nil {
		return fmt.Errorf("delete documents: %w", err)
	}

	ctxzap.Info(ctx, "all documents deleted")
	return nil
}

// SelectContent fetches the content column of a single row by id. The second
// return value reports whether the row exists.
func (c *Client) SelectContent(ctx context.Context, id string) (string, bool, error) {
	var rows []struct {
		Content string `json:"content"`
	}

	endpoint := fmt.Sprintf("%s?id=eq.%s&select=content", documentsPath, id)
	if err := c.connector.DoRequest(ctx, http.MethodGet, endpoint, nil, &rows); err != nil {
		return "", false, fmt.Errorf("select document %s: %w", id, err)
	}

	if len(rows) == 0 {
		return "", false, nil
	}

	return rows[0].Content, true, nil
}
