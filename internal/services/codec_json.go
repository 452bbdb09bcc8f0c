package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/quietpath/mindfultrack/internal/models"
)

var ErrInvalidJSONContent = errors.New("invalid JSON content")

// JSONCodec is the fidelity baseline: every stored field round-trips,
// server-assigned ids and owners included.
type JSONCodec struct{}

func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

type jsonDocument struct {
	MoodEntries []models.MoodEntry `json:"moodEntries"`
	CBTLogs     []models.CBTLog    `json:"cbtLogs"`
}

func (codec *JSONCodec) Format() string          { return FormatJSON }
func (codec *JSONCodec) ContentType() string     { return "application/json" }
func (codec *JSONCodec) FileExtension() string   { return "json" }
func (codec *JSONCodec) PreservesIdentity() bool { return true }

func (codec *JSONCodec) Encode(batch RecordBatch, _ time.Time) (string, error) {
	document := jsonDocument{
		MoodEntries: batch.MoodEntries,
		CBTLogs:     batch.CBTLogs,
	}
	if document.MoodEntries == nil {
		document.MoodEntries = []models.MoodEntry{}
	}
	if document.CBTLogs == nil {
		document.CBTLogs = []models.CBTLog{}
	}

	serialized, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode JSON document: %w", err)
	}
	return string(serialized), nil
}

func (codec *JSONCodec) Decode(content string) (RecordBatch, DecodeStats, error) {
	document := jsonDocument{}
	if err := json.Unmarshal([]byte(content), &document); err != nil {
		return RecordBatch{}, DecodeStats{}, fmt.Errorf("%w: %v", ErrInvalidJSONContent, err)
	}

	batch := RecordBatch{
		MoodEntries: document.MoodEntries,
		CBTLogs:     document.CBTLogs,
	}
	if batch.MoodEntries == nil {
		batch.MoodEntries = []models.MoodEntry{}
	}
	if batch.CBTLogs == nil {
		batch.CBTLogs = []models.CBTLog{}
	}
	return batch, DecodeStats{}, nil
}
