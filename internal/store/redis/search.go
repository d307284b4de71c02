package redis

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kaiyu-cloud/tripdex/internal/domain/document"
	"github.com/kaiyu-cloud/tripdex/internal/domain/filter"
	"github.com/kaiyu-cloud/tripdex/internal/store"
)

// Search runs a KNN vector search via FT.SEARCH, pre-filtered by the
// structured filter, and returns candidates sorted by similarity.
func (s *Store) Search(
	ctx context.Context, vector []float32, topK int, f filter.Filter,
) ([]store.Candidate, error) {
	if topK <= 0 {
		return nil, nil
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("vector is required")
	}

	knnPart := fmt.Sprintf("[KNN %d @%s $BLOB]", topK, fieldVector)
	queryStr := "*=>" + knnPart
	if pre := buildFilter(f); pre != "" {
		queryStr = fmt.Sprintf("(%s)=>%s", pre, knnPart)
	}

	args := []string{
		s.indexName, queryStr,
		"PARAMS", "2", "BLOB", vectorToBytes(vector),
		"DIALECT", "2",
	}

	cmd := s.client.B().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.client.Do(ctx, cmd).ToArray()
	if err != nil {
		return nil, fmt.Errorf("search knn: %w", err)
	}

	return s.parseSearchResult(raw)
}

// Count returns the number of documents matching the filter via FT.SEARCH
// with LIMIT 0 0.
func (s *Store) Count(ctx context.Context, f filter.Filter) (int, error) {
	queryStr := buildFilter(f)
	if queryStr == "" {
		queryStr = "*"
	}

	cmd := s.client.B().Arbitrary("FT.SEARCH").
		Args(s.indexName, queryStr, "LIMIT", "0", "0", "DIALECT", "2").Build()
	raw, err := s.client.Do(ctx, cmd).ToArray()
	if err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	if len(raw) == 0 {
		return 0, nil
	}
	total, err := raw[0].AsInt64()
	if err != nil {
		return 0, fmt.Errorf("parse count: %w", err)
	}
	return int(total), nil
}

// buildFilter translates the structured filter into an FT.SEARCH pre-filter
// query string. Conjunctive contains: one TAG clause per required value.
func buildFilter(f filter.Filter) string {
	var parts []string
	for _, c := range f.Cities() {
		parts = append(parts, tagClause(fieldCities, c))
	}
	for _, m := range f.Months() {
		parts = append(parts, tagClause(fieldMonths, m))
	}
	if f.HasDayWindow() {
		parts = append(parts, fmt.Sprintf("@%s:[%d %d]", fieldDuration, f.MinDays(), f.MaxDays()))
	}
	return strings.Join(parts, " ")
}

func tagClause(field, value string) string {
	return fmt.Sprintf("@%s:{%s}", field, escapeTag(value))
}

// escapeTag escapes RediSearch TAG syntax characters.
func escapeTag(v string) string {
	var b strings.Builder
	for _, r := range v {
		switch r {
		case ',', '.', '<', '>', '{', '}', '[', ']', '"', '\'', ':', ';',
			'!', '@', '#', '$', '%', '^', '&', '*', '(', ')', '-', '+',
			'=', '~', '|', ' ', '/':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// parseSearchResult decodes the RESP2 FT.SEARCH reply:
// [total, key1, fields1, key2, fields2, ...].
func (s *Store) parseSearchResult(raw []rueidis.RedisMessage) ([]store.Candidate, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return nil, nil
	}

	out := make([]store.Candidate, 0, total)
	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}
		fieldsArr, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}
		fields := parseFieldPairs(fieldsArr)

		similarity := 0.0
		if scoreStr, ok := fields[scoreField]; ok {
			if dist, err := strconv.ParseFloat(scoreStr, 64); err == nil {
				similarity = max(0, 1.0-dist) // cosine distance -> similarity, clamped
			}
		}

		out = append(out, store.Candidate{
			Document:   s.hydrate(strings.TrimPrefix(key, s.keyPrefix), fields),
			Similarity: similarity,
		})
	}
	return out, nil
}

func (s *Store) hydrate(id string, fields map[string]string) document.Document {
	days, _ := strconv.Atoi(fields[fieldDuration])
	return document.Reconstruct(
		id,
		fields[fieldText],
		splitTags(fields[fieldTags]),
		splitTags(fields[fieldCities]),
		splitTags(fields[fieldMonths]),
		days,
		bytesToVector(fields[fieldVector]),
	)
}

func splitTags(v string) []string {
	if v == "" {
		return nil
	}
	return strings.Split(v, tagSeparator)
}

func bytesToVector(v string) []float32 {
	if len(v) < 4 {
		return nil
	}
	out := make([]float32, len(v)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32([]byte(v[i*4 : i*4+4])))
	}
	return out
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}
