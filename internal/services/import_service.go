package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/quietpath/mindfultrack/internal/models"
)

var ErrEmptyImportBatch = errors.New("no valid records found to import")

// BatchWriter persists a validated batch for one owner atomically.
type BatchWriter interface {
	ApplyBatch(userID string, moodEntries []models.MoodEntry, cbtLogs []models.CBTLog) error
}

// ImportService decodes an uploaded document, validates the batch, and
// applies it through the persistence port. Whatever owner the upload claims
// is ignored: every persisted row belongs to the authenticated user.
type ImportService struct {
	writer BatchWriter
	codecs *CodecSet
	now    func() time.Time
}

// ImportSummary counts the records applied per kind. DroppedRecords covers
// everything the upload carried that was not applied: rows a decoder skipped
// plus records validation rejected.
type ImportSummary struct {
	MoodEntries    int
	CBTLogs        int
	DroppedRecords int
}

func (summary ImportSummary) Message() string {
	message := fmt.Sprintf("Imported %d mood entries and %d CBT logs", summary.MoodEntries, summary.CBTLogs)
	if summary.DroppedRecords > 0 {
		message += fmt.Sprintf(" (%d invalid records skipped)", summary.DroppedRecords)
	}
	return message
}

func NewImportService(writer BatchWriter, codecs *CodecSet) *ImportService {
	return &ImportService{
		writer: writer,
		codecs: codecs,
		now:    time.Now,
	}
}

// Run performs one full import pass: decode, validate, persist. Records
// failing validation are dropped, not fatal; a batch with nothing left after
// validation is rejected so an unparseable upload cannot look like success.
func (service *ImportService) Run(userID string, format string, content string) (ImportSummary, error) {
	codec, err := service.codecs.ForFormat(format)
	if err != nil {
		return ImportSummary{}, err
	}

	decoded, stats, err := codec.Decode(content)
	if err != nil {
		return ImportSummary{}, err
	}

	validated, dropped := service.validateBatch(decoded)
	summary := ImportSummary{
		MoodEntries:    len(validated.MoodEntries),
		CBTLogs:        len(validated.CBTLogs),
		DroppedRecords: dropped + stats.Total(),
	}

	if validated.IsEmpty() {
		return ImportSummary{}, ErrEmptyImportBatch
	}

	if err := service.writer.ApplyBatch(userID, validated.MoodEntries, validated.CBTLogs); err != nil {
		return ImportSummary{}, fmt.Errorf("apply import batch: %w", err)
	}

	return summary, nil
}

func (service *ImportService) validateBatch(decoded RecordBatch) (RecordBatch, int) {
	validated := RecordBatch{
		MoodEntries: []models.MoodEntry{},
		CBTLogs:     []models.CBTLog{},
	}
	dropped := 0
	importedAt := service.now().UnixMilli()

	for _, entry := range decoded.MoodEntries {
		if entry.Timestamp <= 0 {
			entry.Timestamp = importedAt
		}
		normalized, err := NormalizeMoodEntry(entry)
		if err != nil {
			dropped++
			continue
		}
		validated.MoodEntries = append(validated.MoodEntries, normalized)
	}

	for _, logEntry := range decoded.CBTLogs {
		if logEntry.Timestamp <= 0 {
			logEntry.Timestamp = importedAt
		}
		normalized, err := NormalizeCBTLog(logEntry)
		if err != nil {
			dropped++
			continue
		}
		validated.CBTLogs = append(validated.CBTLogs, normalized)
	}

	return validated, dropped
}
