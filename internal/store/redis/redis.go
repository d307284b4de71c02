// Package redis is the external store driver: documents live in Redis
// hashes and retrieval goes through FT.SEARCH KNN with TAG/NUMERIC
// pre-filters. It mirrors the memory driver's contract so the engine does
// not care which backend serves a deployment.
package redis

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/redis/rueidis"

	"github.com/kaiyu-cloud/tripdex/internal/domain/document"
)

// Field names inside a document hash.
const (
	fieldText     = "text"
	fieldTags     = "tags"
	fieldCities   = "cities"
	fieldMonths   = "months"
	fieldDuration = "duration_days"
	fieldVector   = "vector"
	scoreField    = "__vector_score"
)

const tagSeparator = ","

// Config holds connection parameters.
type Config struct {
	Addrs     []string
	Username  string
	Password  string
	DB        int
	KeyPrefix string // defaults to "tripdex:"
	IndexName string // defaults to "tripdex-docs"
}

// Store implements store.Store backed by Redis 8+.
type Store struct {
	client    rueidis.Client
	keyPrefix string
	indexName string
}

// NewStore creates a Redis store via rueidis.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "tripdex:"
	}
	if cfg.IndexName == "" {
		cfg.IndexName = "tripdex-docs"
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		DisableCache: true,
		AlwaysRESP2:  true, // FT.SEARCH result parsing expects RESP2 array format
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &Store{client: client, keyPrefix: cfg.KeyPrefix, indexName: cfg.IndexName}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	cmd := s.client.B().Ping().Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close shuts down the client.
func (s *Store) Close() {
	s.client.Close()
}

// WaitForReady polls Ping until the store responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for store: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// EnsureIndex creates the FT index over document hashes if it does not
// exist yet. dims is the vector dimensionality of the active embedder.
func (s *Store) EnsureIndex(ctx context.Context, dims int) error {
	if dims <= 0 {
		return fmt.Errorf("vector dimensions must be positive")
	}

	args := []string{
		s.indexName, "ON", "HASH", "PREFIX", "1", s.keyPrefix,
		"SCHEMA",
		fieldCities, "TAG", "SEPARATOR", tagSeparator,
		fieldMonths, "TAG", "SEPARATOR", tagSeparator,
		fieldTags, "TAG", "SEPARATOR", tagSeparator,
		fieldDuration, "NUMERIC",
		fieldVector, "VECTOR", "FLAT", "6",
		"TYPE", "FLOAT32",
		"DIM", strconv.Itoa(dims),
		"DISTANCE_METRIC", "COSINE",
	}

	cmd := s.client.B().Arbitrary("FT.CREATE").Args(args...).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "index already exists") {
			return nil
		}
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

// DropIndex removes the FT index (corpus rebuild path). Missing index is
// not an error.
func (s *Store) DropIndex(ctx context.Context) error {
	cmd := s.client.B().Arbitrary("FT.DROPINDEX").Args(s.indexName).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "unknown index name") {
			return nil
		}
		return fmt.Errorf("drop index: %w", err)
	}
	return nil
}

// Upsert writes one document hash.
func (s *Store) Upsert(ctx context.Context, d document.Document) error {
	fields := map[string]string{
		fieldText:     d.Text(),
		fieldTags:     strings.Join(d.Tags(), tagSeparator),
		fieldCities:   strings.Join(d.Cities(), tagSeparator),
		fieldMonths:   strings.Join(d.Months(), tagSeparator),
		fieldDuration: strconv.Itoa(d.DurationDays()),
		fieldVector:   vectorToBytes(d.Vector()),
	}

	cmd := s.client.B().Hset().Key(s.keyPrefix + d.ID()).FieldValue()
	for k, v := range fields {
		cmd = cmd.FieldValue(k, v)
	}
	if err := s.client.Do(ctx, cmd.Build()).Error(); err != nil {
		return fmt.Errorf("upsert document %s: %w", d.ID(), err)
	}
	return nil
}

// vectorToBytes encodes float32 values as little-endian bytes for the
// VECTOR field BLOB.
func vectorToBytes(v []float32) string {
	buf := make([]byte, 4*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(x))
	}
	return rueidis.BinaryString(buf)
}

func isRedisErr(err error, substr string) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), substr)
}
