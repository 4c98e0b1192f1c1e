package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"elitestay/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// Config содержит конфигурацию для подключения к Elasticsearch
type Config struct {
	Enabled    bool
	URL        string
	Index      string
	Username   string
	Password   string
	MaxRetries int
	Timeout    time.Duration
}

// ElasticsearchClient индексирует и ищет типы номеров
type ElasticsearchClient struct {
	client *elasticsearch.Client
	config Config
}

// roomTypeDocument is what we store per room type
type roomTypeDocument struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	PricePerNight string    `json:"price_per_night"`
	Capacity      int       `json:"capacity"`
	ImageURL      string    `json:"image_url"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewElasticsearchClient создает новый клиент Elasticsearch
func NewElasticsearchClient(cfg Config) (*ElasticsearchClient, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:     []string{cfg.URL},
		Username:      cfg.Username,
		Password:      cfg.Password,
		RetryOnStatus: []int{502, 503, 504, 429},
		MaxRetries:    cfg.MaxRetries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	client := &ElasticsearchClient{
		client: es,
		config: cfg,
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	if err := client.ensureIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}

	return client, nil
}

// ensureIndex создает индекс если он не существует
func (c *ElasticsearchClient) ensureIndex(ctx context.Context) error {
	req := esapi.IndicesExistsRequest{
		Index: []string{c.config.Index},
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to check index existence: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == 200 {
		slog.Info("Elasticsearch index already exists", "index", c.config.Index)
		return nil
	}

	mapping := map[string]interface{}{
		"settings": map[string]interface{}{
			"number_of_shards":   1,
			"number_of_replicas": 0,
		},
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"id": map[string]interface{}{"type": "long"},
				"name": map[string]interface{}{
					"type":     "text",
					"analyzer": "english",
					"fields": map[string]interface{}{
						"keyword": map[string]interface{}{
							"type":         "keyword",
							"ignore_above": 256,
						},
					},
				},
				"description":     map[string]interface{}{"type": "text", "analyzer": "english"},
				"price_per_night": map[string]interface{}{"type": "scaled_float", "scaling_factor": 100},
				"capacity":        map[string]interface{}{"type": "integer"},
				"image_url":       map[string]interface{}{"type": "keyword", "index": false},
				"updated_at":      map[string]interface{}{"type": "date"},
			},
		},
	}

	mappingJSON, err := json.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	createReq := esapi.IndicesCreateRequest{
		Index: c.config.Index,
		Body:  bytes.NewReader(mappingJSON),
	}

	createRes, err := createReq.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		return fmt.Errorf("failed to create index: %s", createRes.String())
	}

	slog.Info("Created Elasticsearch index", "index", c.config.Index)
	return nil
}

// SearchRoomTypes выполняет полнотекстовый поиск по типам номеров
func (c *ElasticsearchClient) SearchRoomTypes(ctx context.Context, query string, page, pageSize int) ([]models.RoomType, int, error) {
	if pageSize <= 0 {
		pageSize = 10
	}
	from := 0
	if page > 0 {
		from = (page - 1) * pageSize
	}

	searchRequest := map[string]interface{}{
		"query":            buildSearchQuery(query),
		"sort":             buildSortQuery(query),
		"from":             from,
		"size":             pageSize,
		"track_total_hits": true,
	}

	searchJSON, err := json.Marshal(searchRequest)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal search query: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{c.config.Index},
		Body:  bytes.NewReader(searchJSON),
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to execute search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, 0, fmt.Errorf("search error: %s", res.String())
	}

	var response struct {
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.RoomType `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}

	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return nil, 0, fmt.Errorf("failed to decode search response: %w", err)
	}

	roomTypes := make([]models.RoomType, len(response.Hits.Hits))
	for i, hit := range response.Hits.Hits {
		roomTypes[i] = hit.Source
	}

	return roomTypes, response.Hits.Total.Value, nil
}

func buildSearchQuery(query string) map[string]interface{} {
	query = strings.TrimSpace(query)
	if query == "" {
		return map[string]interface{}{
			"match_all": map[string]interface{}{},
		}
	}

	return map[string]interface{}{
		"multi_match": map[string]interface{}{
			"query":     query,
			"fields":    []string{"name^2", "description"},
			"fuzziness": "AUTO",
		},
	}
}

func buildSortQuery(query string) []map[string]interface{} {
	if strings.TrimSpace(query) != "" {
		return []map[string]interface{}{
			{"_score": map[string]interface{}{"order": "desc"}},
			{"id": map[string]interface{}{"order": "asc"}},
		}
	}

	return []map[string]interface{}{
		{"id": map[string]interface{}{"order": "asc"}},
	}
}

// IndexRoomType индексирует (или переиндексирует) тип номера
func (c *ElasticsearchClient) IndexRoomType(ctx context.Context, rt *models.RoomType) error {
	doc := roomTypeDocument{
		ID:            rt.ID,
		Name:          rt.Name,
		Description:   rt.Description,
		PricePerNight: rt.PricePerNight.StringFixed(2),
		Capacity:      rt.Capacity,
		ImageURL:      rt.ImageURL,
		UpdatedAt:     rt.UpdatedAt,
	}
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = time.Now()
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal room type: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      c.config.Index,
		DocumentID: strconv.FormatInt(rt.ID, 10),
		Body:       bytes.NewReader(body),
		Refresh:    "wait_for",
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to index room type: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("indexing error: %s", res.String())
	}

	return nil
}

// DeleteRoomType удаляет тип номера из индекса
func (c *ElasticsearchClient) DeleteRoomType(ctx context.Context, id int64) error {
	req := esapi.DeleteRequest{
		Index:      c.config.Index,
		DocumentID: strconv.FormatInt(id, 10),
		Refresh:    "wait_for",
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to delete room type: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete error: %s", res.String())
	}

	return nil
}

// HealthCheck проверяет состояние Elasticsearch
func (c *ElasticsearchClient) HealthCheck(ctx context.Context) error {
	req := esapi.ClusterHealthRequest{
		WaitForStatus: "yellow",
		Timeout:       10 * time.Second,
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("health check error: %s", res.String())
	}

	return nil
}
