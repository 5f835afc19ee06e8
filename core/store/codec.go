package store

import (
	"bytes"
	"encoding/json"

	"slot-aggregator/core/provider"

	"go.uber.org/zap"
)

// encode writes the snapshot as an indented JSON object keyed by id.
// encoding/json sorts map keys, so equal snapshots encode identically.
func encode(snapshot map[string]provider.Entity) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snapshot); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decode parses a snapshot. A malformed document is an ErrStoreCorrupt error;
// a single undecodable record is skipped with a warning.
func decode(data []byte, logger *zap.Logger) (map[string]provider.Entity, error) {
	out := make(map[string]provider.Entity)
	if len(bytes.TrimSpace(data)) == 0 {
		return out, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return out, provider.ErrStoreCorrupt
	}
	for id, msg := range raw {
		var e provider.Entity
		if err := json.Unmarshal(msg, &e); err != nil {
			logger.Warn("Skipping undecodable record", zap.String("id", id), zap.Error(err))
			continue
		}
		if e.ID == "" {
			e.ID = id
		}
		out[id] = e
	}
	return out, nil
}
