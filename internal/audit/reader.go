package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/axiomframework/axiomguard/internal/model"
)

// ReadSince reads a JSONL decision log and returns entries recorded
// at or after since (zero value = everything), converted to the
// engine's in-memory form. Malformed lines are skipped; the chain
// verifier owns integrity questions.
func ReadSince(path string, since time.Time) ([]model.LogEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open decision log: %w", err)
	}
	defer f.Close()

	var out []model.LogEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry Entry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			continue
		}
		le := entry.LogEntry()
		if !since.IsZero() && le.At.Before(since) {
			continue
		}
		out = append(out, le)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read decision log: %w", err)
	}
	return out, nil
}

// StatsFromFile derives statistics from a persisted decision log.
func StatsFromFile(path string, since time.Time) (model.Statistics, error) {
	entries, err := ReadSince(path, since)
	if err != nil {
		return model.Statistics{}, err
	}
	return model.ComputeStatistics(entries), nil
}
