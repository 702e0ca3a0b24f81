package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/productsearch/internal/db"
)

// Search runs FT.SEARCH with the query text passed through verbatim.
func (s *Store) Search(ctx context.Context, q *db.Query) (*db.SearchResult, error) {
	args, err := buildSearchArgs(q)
	if err != nil {
		return nil, err
	}

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, classifySearchErr(err)
	}

	return parseSearchResult(raw)
}

func buildSearchArgs(q *db.Query) ([]string, error) {
	if q.IndexName == "" {
		return nil, errors.New("index name is required")
	}
	if q.Limit < 0 || q.Offset < 0 {
		return nil, errors.New("offset and limit must not be negative")
	}

	args := []string{q.IndexName, q.Text}

	if q.ReturnFields != nil {
		args = append(args, "RETURN", strconv.Itoa(len(q.ReturnFields)))
		args = append(args, q.ReturnFields...)
	}

	args = append(args, "LIMIT", strconv.Itoa(q.Offset), strconv.Itoa(q.Limit))
	return args, nil
}

// serverStateErrors are reply prefixes that describe the server, not the query.
var serverStateErrors = map[string]struct{}{
	"LOADING":     {},
	"NOAUTH":      {},
	"WRONGPASS":   {},
	"NOPERM":      {},
	"MASTERDOWN":  {},
	"READONLY":    {},
	"BUSY":        {},
	"CLUSTERDOWN": {},
	"TRYAGAIN":    {},
	"OOM":         {},
	"MOVED":       {},
	"ASK":         {},
}

// classifySearchErr separates engine rejections of the query from connectivity
// and server-state failures.
func classifySearchErr(err error) error {
	if isRedisErr(err, "unknown index name") || isRedisErr(err, "no such index") {
		return &db.Error{Op: db.OpSearch, Err: fmt.Errorf("%w: %w", db.ErrIndexNotFound, err)}
	}
	re, ok := rueidis.IsRedisErr(err)
	if !ok {
		return &db.Error{Op: db.OpSearch, Err: err}
	}
	if isServerStateErr(re.Error()) {
		return &db.Error{Op: db.OpSearch, Err: err}
	}
	return &db.Error{Op: db.OpSearch, Err: &db.QueryError{Reason: re.Error()}}
}

func isServerStateErr(msg string) bool {
	prefix, _, _ := strings.Cut(strings.TrimSpace(msg), " ")
	_, ok := serverStateErrors[strings.ToUpper(prefix)]
	return ok
}

// parseSearchResult decodes the RESP2 reply: [total, key1, fields1, key2, fields2, ...].
func parseSearchResult(raw []rueidis.RedisMessage) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return &db.SearchResult{}, nil
	}

	entries := make([]db.SearchEntry, 0, (len(raw)-1)/2)
	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}

		// A hit with none of the requested RETURN fields comes back with a nil or empty array.
		var fields map[string]string
		if arr, err := raw[i+1].ToArray(); err == nil {
			fields = parseFieldPairs(arr)
		} else {
			fields = map[string]string{}
		}

		entries = append(entries, db.SearchEntry{Key: key, Fields: fields})
	}

	return &db.SearchResult{Total: int(total), Entries: entries}, nil
}

// parseFieldPairs skips pairs whose value is nil, so a RETURN field missing from
// the document produces no entry.
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
