package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/quietpath/mindfultrack/internal/models"
)

// Fixed column layouts. Decode relies on these positions exactly.
var (
	csvMoodHeader = "Type,ID,Timestamp,Date,Rating,Emotions,Note,Trigger,Behavior"
	csvCBTHeader  = "Type,ID,Timestamp,Date,Situation,AutomaticThoughts,Distortions,RationalResponse,MoodBefore,MoodAfter,BehavioralLink"
)

const (
	csvMoodColumnCount = 9
	csvCBTColumnCount  = 11

	csvTypeMood = "Mood"
	csvTypeCBT  = "CBT"

	csvListSeparator  = "|"
	csvDateTimeLayout = "2006-01-02 15:04"
)

// CSVCodec writes both record kinds into one document: a Mood table and a
// CBT table, each under its own header row, discriminated by the leading
// Type column. Free-text columns are always double-quoted with "" escaping;
// embedded newlines are replaced by a space because the format is
// line-oriented. The pipe joining list values lives inside a quoted column,
// so literal pipes and commas in free text survive a round trip.
type CSVCodec struct {
	location *time.Location
}

func NewCSVCodec(location *time.Location) *CSVCodec {
	return &CSVCodec{location: location}
}

func (codec *CSVCodec) Format() string          { return FormatCSV }
func (codec *CSVCodec) ContentType() string     { return "text/csv" }
func (codec *CSVCodec) FileExtension() string   { return "csv" }
func (codec *CSVCodec) PreservesIdentity() bool { return true }

func (codec *CSVCodec) Encode(batch RecordBatch, _ time.Time) (string, error) {
	var output strings.Builder

	output.WriteString(csvMoodHeader)
	output.WriteString("\n")
	for _, entry := range batch.MoodEntries {
		output.WriteString(codec.encodeMoodRow(entry))
		output.WriteString("\n")
	}

	output.WriteString("\n")
	output.WriteString(csvCBTHeader)
	output.WriteString("\n")
	for _, logEntry := range batch.CBTLogs {
		output.WriteString(codec.encodeCBTRow(logEntry))
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (codec *CSVCodec) Decode(content string) (RecordBatch, DecodeStats, error) {
	batch := RecordBatch{
		MoodEntries: []models.MoodEntry{},
		CBTLogs:     []models.CBTLog{},
	}
	stats := DecodeStats{}

	for _, rawLine := range strings.Split(content, "\n") {
		line := strings.TrimSuffix(rawLine, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		parts := tokenizeCSVLine(line)
		switch parts[0] {
		case csvTypeMood:
			entry, ok := decodeMoodRow(parts)
			if !ok {
				stats.SkippedMoodRows++
				continue
			}
			batch.MoodEntries = append(batch.MoodEntries, entry)
		case csvTypeCBT:
			logEntry, ok := decodeCBTRow(parts)
			if !ok {
				stats.SkippedCBTRows++
				continue
			}
			batch.CBTLogs = append(batch.CBTLogs, logEntry)
		case "Type":
			// Header row of either section.
		default:
			stats.UnknownRows++
		}
	}

	return batch, stats, nil
}

func (codec *CSVCodec) encodeMoodRow(entry models.MoodEntry) string {
	columns := []string{
		csvTypeMood,
		entry.ID,
		strconv.FormatInt(entry.Timestamp, 10),
		csvQuote(codec.formatRowDate(entry.Timestamp)),
		strconv.Itoa(entry.Rating),
		csvQuoteList(entry.Emotions),
		csvQuote(textOrEmpty(entry.Note)),
		csvQuote(textOrEmpty(entry.Trigger)),
		csvQuote(textOrEmpty(entry.Behavior)),
	}
	return strings.Join(columns, ",")
}

func (codec *CSVCodec) encodeCBTRow(logEntry models.CBTLog) string {
	moodAfter := ""
	if logEntry.MoodAfter != nil {
		moodAfter = strconv.Itoa(*logEntry.MoodAfter)
	}

	columns := []string{
		csvTypeCBT,
		logEntry.ID,
		strconv.FormatInt(logEntry.Timestamp, 10),
		csvQuote(codec.formatRowDate(logEntry.Timestamp)),
		csvQuote(logEntry.Situation),
		csvQuote(logEntry.AutomaticThoughts),
		csvQuoteList(logEntry.Distortions),
		csvQuote(logEntry.RationalResponse),
		strconv.Itoa(logEntry.MoodBefore),
		moodAfter,
		csvQuote(textOrEmpty(logEntry.BehavioralLink)),
	}
	return strings.Join(columns, ",")
}

func (codec *CSVCodec) formatRowDate(timestamp int64) string {
	return time.UnixMilli(timestamp).In(codec.location).Format(csvDateTimeLayout)
}

func decodeMoodRow(parts []string) (models.MoodEntry, bool) {
	if len(parts) < csvMoodColumnCount {
		return models.MoodEntry{}, false
	}

	timestamp, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return models.MoodEntry{}, false
	}
	rating, err := strconv.Atoi(parts[4])
	if err != nil {
		return models.MoodEntry{}, false
	}

	return models.MoodEntry{
		ID:        parts[1],
		Timestamp: timestamp,
		Rating:    rating,
		Emotions:  splitCSVList(parts[5]),
		Note:      optionalText(parts[6]),
		Trigger:   optionalText(parts[7]),
		Behavior:  optionalText(parts[8]),
	}, true
}

func decodeCBTRow(parts []string) (models.CBTLog, bool) {
	if len(parts) < csvCBTColumnCount {
		return models.CBTLog{}, false
	}

	timestamp, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return models.CBTLog{}, false
	}
	moodBefore, err := strconv.Atoi(parts[8])
	if err != nil {
		return models.CBTLog{}, false
	}

	var moodAfter *int
	if parts[9] != "" {
		parsed, err := strconv.Atoi(parts[9])
		if err != nil {
			return models.CBTLog{}, false
		}
		moodAfter = &parsed
	}

	return models.CBTLog{
		ID:                parts[1],
		Timestamp:         timestamp,
		Situation:         parts[4],
		AutomaticThoughts: parts[5],
		Distortions:       splitCSVList(parts[6]),
		RationalResponse:  parts[7],
		MoodBefore:        moodBefore,
		MoodAfter:         moodAfter,
		BehavioralLink:    optionalText(parts[10]),
	}, true
}

// tokenizeCSVLine splits one row on unquoted commas. A double quote toggles
// the quoted state; a doubled quote inside a quoted span is a literal quote.
func tokenizeCSVLine(line string) []string {
	parts := make([]string, 0, csvCBTColumnCount)
	var current strings.Builder
	inQuotes := false

	for index := 0; index < len(line); index++ {
		char := line[index]
		switch {
		case char == '"':
			if inQuotes && index+1 < len(line) && line[index+1] == '"' {
				current.WriteByte('"')
				index++
			} else {
				inQuotes = !inQuotes
			}
		case char == ',' && !inQuotes:
			parts = append(parts, current.String())
			current.Reset()
		default:
			current.WriteByte(char)
		}
	}
	parts = append(parts, current.String())

	return parts
}

func csvQuote(value string) string {
	escaped := strings.ReplaceAll(flattenCSVText(value), `"`, `""`)
	return `"` + escaped + `"`
}

func csvQuoteList(values []string) string {
	flattened := make([]string, 0, len(values))
	for _, value := range values {
		flattened = append(flattened, flattenCSVText(value))
	}
	escaped := strings.ReplaceAll(strings.Join(flattened, csvListSeparator), `"`, `""`)
	return `"` + escaped + `"`
}

// flattenCSVText strips embedded line breaks so a field cannot span rows.
func flattenCSVText(value string) string {
	value = strings.ReplaceAll(value, "\r\n", " ")
	value = strings.ReplaceAll(value, "\n", " ")
	return strings.ReplaceAll(value, "\r", " ")
}

func splitCSVList(value string) []string {
	if value == "" {
		return []string{}
	}
	return strings.Split(value, csvListSeparator)
}

func optionalText(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func textOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
