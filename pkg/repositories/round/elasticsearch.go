package round

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/fadedpez/sentenza/internal/logging"
	"github.com/fadedpez/sentenza/pkg/entities"
)

// ElasticsearchConfig holds configuration options for the Elasticsearch
// repository
type ElasticsearchConfig struct {
	URL         string
	Username    string
	Password    string
	IndexPrefix string
}

// DefaultElasticsearchConfig returns a default configuration for
// Elasticsearch
func DefaultElasticsearchConfig() *ElasticsearchConfig {
	return &ElasticsearchConfig{
		URL:         "http://localhost:9200",
		IndexPrefix: "sentenza",
	}
}

// ElasticsearchRepository decorates another Repository: every archived
// round is also indexed into Elasticsearch for analytics. Reads are
// served by the wrapped repository; indexing failures are logged and
// never fail the round.
type ElasticsearchRepository struct {
	baseRepo Repository
	client   *elasticsearch.Client
	index    string
	logger   *logging.Logger
}

// NewElasticsearchRepository creates a new Elasticsearch repository
// around the given base repository
func NewElasticsearchRepository(baseRepo Repository, config *ElasticsearchConfig, logger *logging.Logger) (*ElasticsearchRepository, error) {
	cfg := elasticsearch.Config{
		Addresses: []string{config.URL},
	}
	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating Elasticsearch client: %w", err)
	}

	if config.IndexPrefix == "" {
		config.IndexPrefix = "sentenza"
	}
	if logger == nil {
		logger = logging.Default
	}

	repo := &ElasticsearchRepository{
		baseRepo: baseRepo,
		client:   client,
		index:    config.IndexPrefix + "_rounds",
		logger:   logger,
	}

	if err := repo.initIndex(context.Background()); err != nil {
		return nil, fmt.Errorf("error initializing index: %w", err)
	}
	return repo, nil
}

// initIndex creates the rounds index if it doesn't exist
func (r *ElasticsearchRepository) initIndex(ctx context.Context) error {
	res, err := r.client.Indices.Exists([]string{r.index})
	if err != nil {
		return fmt.Errorf("error checking if index exists: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != 404 {
		return nil
	}

	mapping := `{
		"mappings": {
			"properties": {
				"id": { "type": "keyword" },
				"completed_at": { "type": "date" },
				"dealer_cards": { "type": "keyword" },
				"dealer_score": { "type": "integer" },
				"dealer_blackjack": { "type": "boolean" },
				"dealer_busted": { "type": "boolean" },
				"hands": {
					"type": "nested",
					"properties": {
						"id": { "type": "keyword" },
						"participant": { "type": "keyword" },
						"hand_label": { "type": "keyword" },
						"cards": { "type": "keyword" },
						"score": { "type": "integer" },
						"busted": { "type": "boolean" },
						"blackjack": { "type": "boolean" },
						"doubled_down": { "type": "boolean" },
						"bet": { "type": "long" },
						"payout": { "type": "long" },
						"insurance_bet": { "type": "long" },
						"outcome": { "type": "keyword" }
					}
				}
			}
		}
	}`

	req := esapi.IndicesCreateRequest{
		Index: r.index,
		Body:  strings.NewReader(mapping),
	}
	createRes, err := req.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("error creating index: %w", err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		return fmt.Errorf("error creating index: %s", createRes.String())
	}
	return nil
}

// SaveResult archives the round in the base repository, then indexes it
// into Elasticsearch
func (r *ElasticsearchRepository) SaveResult(ctx context.Context, result *entities.RoundResult) error {
	if err := r.baseRepo.SaveResult(ctx, result); err != nil {
		return err
	}

	body, err := json.Marshal(result)
	if err != nil {
		r.logger.Warn("failed to marshal round %s for indexing: %v", result.ID, err)
		return nil
	}

	req := esapi.IndexRequest{
		Index:      r.index,
		DocumentID: result.ID,
		Body:       bytes.NewReader(body),
	}
	res, err := req.Do(ctx, r.client)
	if err != nil {
		r.logger.Warn("failed to index round %s: %v", result.ID, err)
		return nil
	}
	defer res.Body.Close()

	if res.IsError() {
		r.logger.Warn("failed to index round %s: %s", result.ID, res.String())
	}
	return nil
}

// GetResults retrieves a participant's archived rounds from the base
// repository
func (r *ElasticsearchRepository) GetResults(ctx context.Context, participant string, limit int) ([]*entities.RoundResult, error) {
	return r.baseRepo.GetResults(ctx, participant, limit)
}

// GetStatistics aggregates a participant's statistics from the base
// repository
func (r *ElasticsearchRepository) GetStatistics(ctx context.Context, participant string) (*entities.PlayerStatistics, error) {
	return r.baseRepo.GetStatistics(ctx, participant)
}

// ListParticipants lists participants from the base repository
func (r *ElasticsearchRepository) ListParticipants(ctx context.Context) ([]string, error) {
	return r.baseRepo.ListParticipants(ctx)
}

// SearchByParticipant searches the Elasticsearch index for a
// participant's rounds. This is the analytics path; the source of truth
// stays in the base repository.
func (r *ElasticsearchRepository) SearchByParticipant(ctx context.Context, participant string, size int) ([]*entities.RoundResult, error) {
	if size <= 0 {
		size = 20
	}
	query := fmt.Sprintf(`{
		"query": {
			"nested": {
				"path": "hands",
				"query": {
					"term": { "hands.participant": %q }
				}
			}
		},
		"sort": [{ "completed_at": { "order": "desc" } }]
	}`, participant)

	res, err := r.client.Search(
		r.client.Search.WithContext(ctx),
		r.client.Search.WithIndex(r.index),
		r.client.Search.WithBody(strings.NewReader(query)),
		r.client.Search.WithSize(size),
	)
	if err != nil {
		return nil, fmt.Errorf("error searching rounds: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("error searching rounds: %s", res.String())
	}

	var response struct {
		Hits struct {
			Hits []struct {
				Source *entities.RoundResult `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("error decoding search response: %w", err)
	}

	results := make([]*entities.RoundResult, 0, len(response.Hits.Hits))
	for _, hit := range response.Hits.Hits {
		results = append(results, hit.Source)
	}
	return results, nil
}

// PruneResults prunes the base repository, then deletes the same rounds
// from the index
func (r *ElasticsearchRepository) PruneResults(ctx context.Context, cutoff time.Time) (int, error) {
	removed, err := r.baseRepo.PruneResults(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf(`{
		"query": {
			"range": {
				"completed_at": { "lt": %q }
			}
		}
	}`, cutoff.Format(time.RFC3339))

	req := esapi.DeleteByQueryRequest{
		Index: []string{r.index},
		Body:  strings.NewReader(query),
	}
	res, err := req.Do(ctx, r.client)
	if err != nil {
		r.logger.Warn("failed to prune index: %v", err)
		return removed, nil
	}
	defer res.Body.Close()

	if res.IsError() {
		r.logger.Warn("failed to prune index: %s", res.String())
	}
	return removed, nil
}

// Close closes the base repository
func (r *ElasticsearchRepository) Close() error {
	return r.baseRepo.Close()
}
