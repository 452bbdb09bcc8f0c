package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quietpath/mindfultrack/internal/models"
)

// Interchange formats accepted by export and import.
const (
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "md"
)

var ErrUnsupportedFormat = errors.New("unsupported interchange format")

// RecordBatch is the full set of records carried by one interchange document.
type RecordBatch struct {
	MoodEntries []models.MoodEntry
	CBTLogs     []models.CBTLog
}

func (batch RecordBatch) IsEmpty() bool {
	return len(batch.MoodEntries) == 0 && len(batch.CBTLogs) == 0
}

// DecodeStats counts the rows a decoder skipped. Skipping a damaged row is
// never fatal to the surrounding document.
type DecodeStats struct {
	SkippedMoodRows int
	SkippedCBTRows  int
	UnknownRows     int
}

func (stats DecodeStats) Total() int {
	return stats.SkippedMoodRows + stats.SkippedCBTRows + stats.UnknownRows
}

// Codec is a paired encoder/decoder for one textual interchange format.
//
// PreservesIdentity reports whether a document produced by Encode carries
// enough information for Decode to reconstruct record ids and timestamps.
// Markdown does not: decoding it mints fresh ids and stamps the current time.
type Codec interface {
	Format() string
	ContentType() string
	FileExtension() string
	PreservesIdentity() bool
	Encode(batch RecordBatch, exportedAt time.Time) (string, error)
	Decode(content string) (RecordBatch, DecodeStats, error)
}

// CodecSet resolves a codec by format name. All codecs share the same
// location so rendered dates agree across formats.
type CodecSet struct {
	location    *time.Location
	now         func() time.Time
	newRecordID func() string
}

func NewCodecSet(location *time.Location) *CodecSet {
	return &CodecSet{
		location:    location,
		now:         time.Now,
		newRecordID: uuid.NewString,
	}
}

func (set *CodecSet) ForFormat(format string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatJSON:
		return NewJSONCodec(), nil
	case FormatCSV:
		return NewCSVCodec(set.location), nil
	case FormatMarkdown:
		return NewMarkdownCodec(set.location, set.now, set.newRecordID), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
