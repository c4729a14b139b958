package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/rs/zerolog/log"
)

// ElasticsearchSink indexes events as documents for Kibana-style exploration
type ElasticsearchSink struct {
	client  *elasticsearch.Client
	index   string
	timeout time.Duration
}

// NewElasticsearchSink creates an ES client using go-elasticsearch/v8
func NewElasticsearchSink(addresses []string, user, password, index string) (*ElasticsearchSink, error) {
	cfg := elasticsearch.Config{
		Addresses:  addresses,
		MaxRetries: 2,
	}
	if user != "" {
		cfg.Username = user
		cfg.Password = password
	}
	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch.NewClient: %w", err)
	}
	return &ElasticsearchSink{client: client, index: index, timeout: 5 * time.Second}, nil
}

func (s *ElasticsearchSink) Record(ctx context.Context, ev Event) {
	body, err := json.Marshal(ev)
	if err != nil {
		log.Warn().Err(err).Str("event", string(ev.Kind)).Msg("marshal telemetry event")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.client.Index(
		s.index,
		bytes.NewReader(body),
		s.client.Index.WithContext(ctx),
	)
	if err != nil {
		log.Warn().Err(err).Str("index", s.index).Msg("elasticsearch telemetry index failed")
		return
	}
	defer res.Body.Close()
	if res.IsError() {
		log.Warn().Str("status", res.Status()).Str("index", s.index).Msg("elasticsearch telemetry rejected")
	}
}

// TestConnection reports whether the cluster answers an info request
func (s *ElasticsearchSink) TestConnection(ctx context.Context) error {
	res, err := s.client.Info(s.client.Info.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("elasticsearch info: %s", res.Status())
	}
	return nil
}
