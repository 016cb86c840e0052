// Package insights fetches the cultural background of a Kente pattern from a
// generative-text service. Responses are shown verbatim and cached: pattern
// lore does not change between deploys, so the TTL is generous.
package insights

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrUnavailable = errors.New("insights service unavailable")

type Insight struct {
	CulturalSignificance string `json:"cultural_significance"`
	Story                string `json:"story"`
}

type Service struct {
	baseURL     string
	apiKey      string
	client      *http.Client
	redisClient *redis.Client
	cacheTTL    time.Duration
}

func NewService(baseURL, apiKey string, timeout time.Duration, redisClient *redis.Client, cacheTTL time.Duration) *Service {
	return &Service{
		baseURL:     baseURL,
		apiKey:      apiKey,
		client:      &http.Client{Timeout: timeout},
		redisClient: redisClient,
		cacheTTL:    cacheTTL,
	}
}

func (s *Service) Get(ctx context.Context, patternName string) (*Insight, error) {
	if s.baseURL == "" {
		return nil, ErrUnavailable
	}

	cacheKey := "insight:" + strings.ToLower(strings.TrimSpace(patternName))
	if s.redisClient != nil {
		if cached, err := s.redisClient.Get(ctx, cacheKey).Result(); err == nil {
			var insight Insight
			if json.Unmarshal([]byte(cached), &insight) == nil {
				return &insight, nil
			}
		}
	}

	payload, _ := json.Marshal(map[string]string{"pattern_name": patternName})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/pattern-insights", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build insights request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch insights: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	insight := &Insight{}
	if err := json.NewDecoder(resp.Body).Decode(insight); err != nil {
		return nil, fmt.Errorf("decode insights response: %w", err)
	}

	if s.redisClient != nil {
		if data, err := json.Marshal(insight); err == nil {
			s.redisClient.Set(ctx, cacheKey, data, s.cacheTTL)
		}
	}
	return insight, nil
}
