package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/quietpath/mindfultrack/internal/models"
)

const (
	markdownTitle       = "# MindfulTrack Data Export"
	markdownMoodSection = "## Mood Entries"
	markdownCBTSection  = "## CBT Journal Logs"

	markdownHeadingLayout = "January 2, 2006 3:04 PM"
	markdownMoodArrow     = " → "
	markdownAbsentMood    = "N/A"
)

// MarkdownCodec renders a human-readable report and parses it back
// heuristically. The format does not carry record ids, owners, or
// timestamps: decoding mints a fresh id and stamps the current time, so a
// Markdown round trip preserves text fields only.
type MarkdownCodec struct {
	location    *time.Location
	now         func() time.Time
	newRecordID func() string
}

func NewMarkdownCodec(location *time.Location, now func() time.Time, newRecordID func() string) *MarkdownCodec {
	return &MarkdownCodec{
		location:    location,
		now:         now,
		newRecordID: newRecordID,
	}
}

func (codec *MarkdownCodec) Format() string          { return FormatMarkdown }
func (codec *MarkdownCodec) ContentType() string     { return "text/markdown" }
func (codec *MarkdownCodec) FileExtension() string   { return "md" }
func (codec *MarkdownCodec) PreservesIdentity() bool { return false }

func (codec *MarkdownCodec) Encode(batch RecordBatch, exportedAt time.Time) (string, error) {
	var output strings.Builder

	output.WriteString(markdownTitle + "\n\n")
	fmt.Fprintf(&output, "Exported on: %s\n\n", exportedAt.In(codec.location).Format(markdownHeadingLayout))

	output.WriteString(markdownMoodSection + "\n\n")
	if len(batch.MoodEntries) == 0 {
		output.WriteString("No mood entries found.\n\n")
	}
	for _, entry := range batch.MoodEntries {
		codec.encodeMoodBlock(&output, entry)
	}

	output.WriteString(markdownCBTSection + "\n\n")
	if len(batch.CBTLogs) == 0 {
		output.WriteString("No CBT logs found.\n\n")
	}
	for _, logEntry := range batch.CBTLogs {
		codec.encodeCBTBlock(&output, logEntry)
	}

	return output.String(), nil
}

func (codec *MarkdownCodec) Decode(content string) (RecordBatch, DecodeStats, error) {
	batch := RecordBatch{
		MoodEntries: []models.MoodEntry{},
		CBTLogs:     []models.CBTLog{},
	}
	stats := DecodeStats{}

	moodSection, cbtSection := splitMarkdownSections(content)

	for _, block := range splitMarkdownBlocks(moodSection) {
		entry, ok := codec.decodeMoodBlock(block)
		if !ok {
			stats.SkippedMoodRows++
			continue
		}
		batch.MoodEntries = append(batch.MoodEntries, entry)
	}

	for _, block := range splitMarkdownBlocks(cbtSection) {
		logEntry, ok := codec.decodeCBTBlock(block)
		if !ok {
			stats.SkippedCBTRows++
			continue
		}
		batch.CBTLogs = append(batch.CBTLogs, logEntry)
	}

	return batch, stats, nil
}

func (codec *MarkdownCodec) encodeMoodBlock(output *strings.Builder, entry models.MoodEntry) {
	fmt.Fprintf(output, "### %s\n", time.UnixMilli(entry.Timestamp).In(codec.location).Format(markdownHeadingLayout))
	fmt.Fprintf(output, "- **Rating**: %d/10\n", entry.Rating)
	fmt.Fprintf(output, "- **Emotions**: %s\n", strings.Join(entry.Emotions, ", "))
	if entry.Trigger != nil {
		fmt.Fprintf(output, "- **Trigger**: %s\n", *entry.Trigger)
	}
	if entry.Behavior != nil {
		fmt.Fprintf(output, "- **Behavior**: %s\n", *entry.Behavior)
	}
	if entry.Note != nil {
		fmt.Fprintf(output, "- **Note**: %s\n", *entry.Note)
	}
	output.WriteString("\n")
}

func (codec *MarkdownCodec) encodeCBTBlock(output *strings.Builder, logEntry models.CBTLog) {
	fmt.Fprintf(output, "### %s\n", time.UnixMilli(logEntry.Timestamp).In(codec.location).Format(markdownHeadingLayout))
	fmt.Fprintf(output, "- **Situation**: %s\n", logEntry.Situation)
	fmt.Fprintf(output, "- **Automatic Thoughts**: %s\n", logEntry.AutomaticThoughts)
	fmt.Fprintf(output, "- **Distortions**: %s\n", strings.Join(logEntry.Distortions, ", "))
	fmt.Fprintf(output, "- **Rational Response**: %s\n", logEntry.RationalResponse)

	moodAfter := markdownAbsentMood
	if logEntry.MoodAfter != nil {
		moodAfter = strconv.Itoa(*logEntry.MoodAfter)
	}
	fmt.Fprintf(output, "- **Mood**: %d%s%s\n", logEntry.MoodBefore, markdownMoodArrow, moodAfter)

	if logEntry.BehavioralLink != nil {
		fmt.Fprintf(output, "- **Behavioral Link**: %s\n", *logEntry.BehavioralLink)
	}
	output.WriteString("\n")
}

func (codec *MarkdownCodec) decodeMoodBlock(block string) (models.MoodEntry, bool) {
	entry := models.MoodEntry{
		ID:        codec.newRecordID(),
		Timestamp: codec.now().UnixMilli(),
		Emotions:  []string{},
	}
	ratingFound := false

	for _, line := range strings.Split(block, "\n") {
		value, label := markdownBulletValue(line)
		switch label {
		case "Rating":
			rating, ok := parseLeadingInt(value)
			if !ok {
				continue
			}
			entry.Rating = rating
			ratingFound = true
		case "Emotions":
			entry.Emotions = splitMarkdownList(value)
		case "Trigger":
			entry.Trigger = optionalText(value)
		case "Behavior":
			entry.Behavior = optionalText(value)
		case "Note":
			entry.Note = optionalText(value)
		}
	}

	if !ratingFound {
		return models.MoodEntry{}, false
	}
	return entry, true
}

func (codec *MarkdownCodec) decodeCBTBlock(block string) (models.CBTLog, bool) {
	logEntry := models.CBTLog{
		ID:          codec.newRecordID(),
		Timestamp:   codec.now().UnixMilli(),
		Distortions: []string{},
	}
	situationFound := false

	for _, line := range strings.Split(block, "\n") {
		value, label := markdownBulletValue(line)
		switch label {
		case "Situation":
			logEntry.Situation = value
			situationFound = value != ""
		case "Automatic Thoughts":
			logEntry.AutomaticThoughts = value
		case "Distortions":
			logEntry.Distortions = splitMarkdownList(value)
		case "Rational Response":
			logEntry.RationalResponse = value
		case "Mood":
			before, after, ok := parseMarkdownMoodDelta(value)
			if !ok {
				continue
			}
			logEntry.MoodBefore = before
			logEntry.MoodAfter = after
		case "Behavioral Link":
			logEntry.BehavioralLink = optionalText(value)
		}
	}

	if !situationFound {
		return models.CBTLog{}, false
	}
	return logEntry, true
}

// splitMarkdownSections recovers the two record sections. Text before the
// mood header and after neither header is discarded.
func splitMarkdownSections(content string) (string, string) {
	moodSection := ""
	cbtSection := ""

	if _, after, found := strings.Cut(content, markdownMoodSection); found {
		moodSection = after
	}
	if before, after, found := strings.Cut(moodSection, markdownCBTSection); found {
		moodSection = before
		cbtSection = after
	} else if _, after, found := strings.Cut(content, markdownCBTSection); found {
		cbtSection = after
	}

	return moodSection, cbtSection
}

func splitMarkdownBlocks(section string) []string {
	blocks := strings.Split(section, "### ")
	if len(blocks) <= 1 {
		return nil
	}
	return blocks[1:]
}

// markdownBulletValue matches a known bullet label and returns the text
// after the first ": " on the line. Unrecognized lines return an empty label.
func markdownBulletValue(line string) (string, string) {
	for _, label := range []string{
		"Rating", "Emotions", "Trigger", "Behavior", "Note",
		"Situation", "Automatic Thoughts", "Distortions", "Rational Response", "Mood", "Behavioral Link",
	} {
		if strings.HasPrefix(line, "- **"+label+"**") {
			if _, value, found := strings.Cut(line, ": "); found {
				return value, label
			}
			return "", label
		}
	}
	return "", ""
}

func parseMarkdownMoodDelta(value string) (int, *int, bool) {
	beforeText, afterText, found := strings.Cut(value, markdownMoodArrow)
	if !found {
		beforeText = value
	}

	before, ok := parseLeadingInt(beforeText)
	if !ok {
		return 0, nil, false
	}

	afterText = strings.TrimSpace(afterText)
	if !found || afterText == "" || afterText == markdownAbsentMood {
		return before, nil, true
	}
	after, ok := parseLeadingInt(afterText)
	if !ok {
		return before, nil, true
	}
	return before, &after, true
}

// parseLeadingInt reads a base-10 integer prefix, so "7/10" parses as 7.
func parseLeadingInt(value string) (int, bool) {
	trimmed := strings.TrimSpace(value)
	end := 0
	for end < len(trimmed) && trimmed[end] >= '0' && trimmed[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	parsed, err := strconv.Atoi(trimmed[:end])
	if err != nil {
		return 0, false
	}
	return parsed, true
}

func splitMarkdownList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return []string{}
	}
	return strings.Split(value, ", ")
}
