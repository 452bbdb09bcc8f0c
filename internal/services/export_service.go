package services

import (
	"fmt"
	"time"

	"github.com/quietpath/mindfultrack/internal/models"
)

// ExportRecordReader loads a user's records for an optional timestamp range.
// Both bounds are epoch milliseconds; a nil bound leaves that side open.
type ExportRecordReader interface {
	FetchRecordsForOptionalRange(userID string, start *int64, end *int64) ([]models.MoodEntry, []models.CBTLog, error)
}

// ExportService projects stored records into one of the interchange formats.
// Export never mutates state.
type ExportService struct {
	records ExportRecordReader
	codecs  *CodecSet
}

// ExportDocument is a fully rendered download: body plus the attachment
// metadata the HTTP layer forwards as-is.
type ExportDocument struct {
	Body        string
	ContentType string
	Filename    string
}

func NewExportService(records ExportRecordReader, codecs *CodecSet) *ExportService {
	return &ExportService{
		records: records,
		codecs:  codecs,
	}
}

func (service *ExportService) BuildDocument(userID string, format string, start *int64, end *int64, now time.Time) (ExportDocument, error) {
	codec, err := service.codecs.ForFormat(format)
	if err != nil {
		return ExportDocument{}, err
	}

	moodEntries, cbtLogs, err := service.records.FetchRecordsForOptionalRange(userID, start, end)
	if err != nil {
		return ExportDocument{}, fmt.Errorf("fetch records for export: %w", err)
	}

	body, err := codec.Encode(RecordBatch{MoodEntries: moodEntries, CBTLogs: cbtLogs}, now)
	if err != nil {
		return ExportDocument{}, fmt.Errorf("encode export document: %w", err)
	}

	return ExportDocument{
		Body:        body,
		ContentType: codec.ContentType(),
		Filename:    fmt.Sprintf("mindfultrack_export_%d.%s", now.UnixMilli(), codec.FileExtension()),
	}, nil
}
