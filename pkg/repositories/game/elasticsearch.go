package game

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/fadedpez/thegame/pkg/entities"
)

// maxSearchSize is Elasticsearch's default max_result_window, the largest
// page a single search may return
const maxSearchSize = 10000

// ElasticsearchConfig holds configuration options for the Elasticsearch repository
type ElasticsearchConfig struct {
	URL         string
	Username    string
	Password    string
	IndexPrefix string
	// Transport overrides the HTTP transport, mainly for tests
	Transport http.RoundTripper
}

// DefaultElasticsearchConfig returns a default configuration for Elasticsearch
func DefaultElasticsearchConfig() *ElasticsearchConfig {
	return &ElasticsearchConfig{
		URL:         "http://localhost:9200",
		IndexPrefix: "thegame",
	}
}

// ElasticsearchRepository indexes results into monthly indices and answers
// queries from them. When a base repository is set, results are saved there
// first.
type ElasticsearchRepository struct {
	baseRepo    Repository
	client      *elasticsearch.Client
	indexPrefix string
	pageSize    int
	now         func() time.Time

	mu           sync.Mutex
	knownIndices map[string]bool
}

// NewElasticsearchRepository creates a new Elasticsearch repository. baseRepo may be nil.
func NewElasticsearchRepository(baseRepo Repository, config *ElasticsearchConfig) (*ElasticsearchRepository, error) {
	if config == nil {
		config = DefaultElasticsearchConfig()
	}

	cfg := elasticsearch.Config{
		Addresses: []string{config.URL},
		Transport: config.Transport,
	}
	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating Elasticsearch client: %w", err)
	}

	prefix := config.IndexPrefix
	if prefix == "" {
		prefix = "thegame"
	}

	return &ElasticsearchRepository{
		baseRepo:     baseRepo,
		client:       client,
		indexPrefix:  prefix,
		pageSize:     maxSearchSize,
		now:          time.Now,
		knownIndices: make(map[string]bool),
	}, nil
}

// IndexFor returns the monthly index a result is written to
func (r *ElasticsearchRepository) IndexFor(result *entities.GameResult) string {
	return fmt.Sprintf("%s_games_%s", r.indexPrefix, result.CompletedAt.UTC().Format("2006-01"))
}

func (r *ElasticsearchRepository) searchPattern() string {
	return r.indexPrefix + "_games_*"
}

// ensureIndex creates index with the results mapping unless it already exists
func (r *ElasticsearchRepository) ensureIndex(ctx context.Context, index string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.knownIndices[index] {
		return nil
	}

	res, err := esapi.IndicesExistsRequest{Index: []string{index}}.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("error checking if index %s exists: %w", index, err)
	}
	res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		req := esapi.IndicesCreateRequest{
			Index: index,
			Body:  bytes.NewReader([]byte(gameIndexMapping)),
		}
		res, err := req.Do(ctx, r.client)
		if err != nil {
			return fmt.Errorf("error creating index %s: %w", index, err)
		}
		defer res.Body.Close()

		if res.IsError() {
			return fmt.Errorf("error creating index %s: %s", index, res.String())
		}
	}

	r.knownIndices[index] = true
	return nil
}

// SaveGameResult saves a game result to the base repository and indexes it in Elasticsearch
func (r *ElasticsearchRepository) SaveGameResult(ctx context.Context, result *entities.GameResult) error {
	if err := validateResult(result); err != nil {
		return err
	}

	if r.baseRepo != nil {
		if err := r.baseRepo.SaveGameResult(ctx, result); err != nil {
			return fmt.Errorf("error saving game result to base repository: %w", err)
		}
	}

	return r.IndexGameResult(ctx, result)
}

// IndexGameResult indexes a game result in Elasticsearch, keyed by game id
func (r *ElasticsearchRepository) IndexGameResult(ctx context.Context, result *entities.GameResult) error {
	index := r.IndexFor(result)
	if err := r.ensureIndex(ctx, index); err != nil {
		return err
	}

	jsonData, err := json.Marshal(toESGameResult(result))
	if err != nil {
		return fmt.Errorf("error marshaling game result: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      index,
		DocumentID: result.GameID,
		Body:       bytes.NewReader(jsonData),
		OpType:     "create",
		Refresh:    "true",
	}
	res, err := req.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("error indexing game result: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusConflict {
		return ErrDuplicateResult
	}
	if res.IsError() {
		return fmt.Errorf("error indexing game result: %s", res.String())
	}

	return nil
}

// GetPlayerResults retrieves game results for a specific player from Elasticsearch
func (r *ElasticsearchRepository) GetPlayerResults(ctx context.Context, playerID string, limit int) ([]*entities.GameResult, error) {
	query := map[string]interface{}{
		"term": map[string]interface{}{"player_id": playerID},
	}
	return r.search(ctx, query, limit)
}

// GetRecentResults retrieves the most recent results of every player
func (r *ElasticsearchRepository) GetRecentResults(ctx context.Context, limit int) ([]*entities.GameResult, error) {
	query := map[string]interface{}{
		"match_all": map[string]interface{}{},
	}
	return r.search(ctx, query, limit)
}

type searchHit struct {
	Source ESGameResult      `json:"_source"`
	Sort   []json.RawMessage `json:"sort"`
}

// search pages through the matching results with search_after until limit
// results are collected, or all of them when limit <= 0
func (r *ElasticsearchRepository) search(ctx context.Context, query map[string]interface{}, limit int) ([]*entities.GameResult, error) {
	results := make([]*entities.GameResult, 0)
	var after []json.RawMessage

	for {
		size := r.pageSize
		if limit > 0 && limit-len(results) < size {
			size = limit - len(results)
		}

		hits, err := r.searchPage(ctx, query, size, after)
		if err != nil {
			return nil, err
		}
		for _, hit := range hits {
			results = append(results, hit.Source.toGameResult())
		}

		if len(hits) < size || (limit > 0 && len(results) >= limit) {
			return results, nil
		}
		after = hits[len(hits)-1].Sort
	}
}

func (r *ElasticsearchRepository) searchPage(ctx context.Context, query map[string]interface{}, size int, after []json.RawMessage) ([]searchHit, error) {
	search := map[string]interface{}{
		"query": query,
		"sort": []interface{}{
			map[string]interface{}{"completed_at": map[string]string{"order": "desc"}},
			map[string]interface{}{"game_id": map[string]string{"order": "asc"}},
		},
	}
	if after != nil {
		search["search_after"] = after
	}

	body, err := json.Marshal(search)
	if err != nil {
		return nil, fmt.Errorf("error building search: %w", err)
	}

	allowNoIndices := true
	req := esapi.SearchRequest{
		Index:          []string{r.searchPattern()},
		Body:           bytes.NewReader(body),
		Size:           &size,
		AllowNoIndices: &allowNoIndices,
	}
	res, err := req.Do(ctx, r.client)
	if err != nil {
		return nil, fmt.Errorf("error searching game results: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("error searching game results: %s", res.String())
	}

	var result struct {
		Hits struct {
			Hits []searchHit `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error parsing game results: %w", err)
	}
	return result.Hits.Hits, nil
}

// GetIndices returns the names of the open result indices, oldest first
func (r *ElasticsearchRepository) GetIndices(ctx context.Context) ([]string, error) {
	allowNoIndices := true
	req := esapi.IndicesGetRequest{
		Index:           []string{r.searchPattern()},
		ExpandWildcards: "open",
		AllowNoIndices:  &allowNoIndices,
	}
	res, err := req.Do(ctx, r.client)
	if err != nil {
		return nil, fmt.Errorf("failed to get indices: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("error getting indices: %s", res.String())
	}

	var indices map[string]json.RawMessage
	if err := json.NewDecoder(res.Body).Decode(&indices); err != nil {
		return nil, fmt.Errorf("error parsing indices response: %w", err)
	}

	names := make([]string, 0, len(indices))
	for name := range indices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// PruneOldIndices deletes the monthly indices older than the last
// retentionMonths months, the current month included, and returns the
// deleted names. Indices whose name carries no month are left alone.
func (r *ElasticsearchRepository) PruneOldIndices(ctx context.Context, retentionMonths int) ([]string, error) {
	if retentionMonths < 1 {
		return nil, fmt.Errorf("retention must be at least one month, got %d", retentionMonths)
	}

	indices, err := r.GetIndices(ctx)
	if err != nil {
		return nil, err
	}

	now := r.now().UTC()
	cutoff := time.Date(now.Year(), now.Month()-time.Month(retentionMonths-1), 1, 0, 0, 0, 0, time.UTC)

	var deleted []string
	var errs []error
	for _, index := range indices {
		month, err := time.Parse("2006-01", strings.TrimPrefix(index, r.indexPrefix+"_games_"))
		if err != nil || !month.Before(cutoff) {
			continue
		}

		if err := r.deleteIndex(ctx, index); err != nil {
			errs = append(errs, err)
			continue
		}
		deleted = append(deleted, index)
	}

	return deleted, errors.Join(errs...)
}

func (r *ElasticsearchRepository) deleteIndex(ctx context.Context, index string) error {
	res, err := esapi.IndicesDeleteRequest{Index: []string{index}}.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("error deleting index %s: %w", index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error deleting index %s: %s", index, res.String())
	}

	r.mu.Lock()
	delete(r.knownIndices, index)
	r.mu.Unlock()
	return nil
}

// Close closes the base repository, if any
func (r *ElasticsearchRepository) Close() error {
	if r.baseRepo != nil {
		return r.baseRepo.Close()
	}
	return nil
}
