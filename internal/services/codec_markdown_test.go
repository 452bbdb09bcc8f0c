package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/quietpath/mindfultrack/internal/models"
)

const markdownTestImportTime = int64(1700000000000)

func newTestMarkdownCodec() *MarkdownCodec {
	counter := 0
	return NewMarkdownCodec(
		time.UTC,
		func() time.Time { return time.UnixMilli(markdownTestImportTime) },
		func() string {
			counter++
			return fmt.Sprintf("generated-%d", counter)
		},
	)
}

func TestMarkdownEncodeRendersReport(t *testing.T) {
	codec := newTestMarkdownCodec()
	trigger := "deadline"
	moodAfter := 6

	document, err := codec.Encode(RecordBatch{
		MoodEntries: []models.MoodEntry{{
			ID:        "entry-1",
			Timestamp: 1700000000000,
			Rating:    7,
			Emotions:  []string{"Happy", "Calm"},
			Trigger:   &trigger,
		}},
		CBTLogs: []models.CBTLog{{
			ID:                "log-1",
			Timestamp:         1700000000000,
			Situation:         "Team standup",
			AutomaticThoughts: "I sounded unprepared",
			Distortions:       []string{"Mind Reading"},
			RationalResponse:  "Nobody asked follow-up questions",
			MoodBefore:        4,
			MoodAfter:         &moodAfter,
		}},
	}, time.UnixMilli(1700000000000))
	if err != nil {
		t.Fatalf("Encode() unexpected error: %v", err)
	}

	for _, expected := range []string{
		markdownTitle,
		markdownMoodSection,
		markdownCBTSection,
		"- **Rating**: 7/10",
		"- **Emotions**: Happy, Calm",
		"- **Trigger**: deadline",
		"- **Situation**: Team standup",
		"- **Mood**: 4 → 6",
	} {
		if !strings.Contains(document, expected) {
			t.Fatalf("expected document to contain %q, got:\n%s", expected, document)
		}
	}
	if strings.Contains(document, "- **Note**") {
		t.Fatalf("expected absent note bullet to be omitted")
	}
}

func TestMarkdownEncodeRendersPlaceholdersForEmptySections(t *testing.T) {
	codec := newTestMarkdownCodec()

	document, err := codec.Encode(RecordBatch{}, time.UnixMilli(1700000000000))
	if err != nil {
		t.Fatalf("Encode() unexpected error: %v", err)
	}
	if !strings.Contains(document, "No mood entries found.") {
		t.Fatalf("expected mood placeholder, got:\n%s", document)
	}
	if !strings.Contains(document, "No CBT logs found.") {
		t.Fatalf("expected CBT placeholder, got:\n%s", document)
	}
}

func TestMarkdownDecodeMintsFreshIdentity(t *testing.T) {
	codec := newTestMarkdownCodec()
	note := "kept text"

	document, err := codec.Encode(RecordBatch{
		MoodEntries: []models.MoodEntry{{
			ID:        "original-id",
			UserID:    "original-owner",
			Timestamp: 1600000000000,
			Rating:    8,
			Emotions:  []string{"Proud"},
			Note:      &note,
		}},
	}, time.UnixMilli(1600000000000))
	if err != nil {
		t.Fatalf("Encode() unexpected error: %v", err)
	}

	batch, stats, err := codec.Decode(document)
	if err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}
	if stats.Total() != 0 {
		t.Fatalf("expected no skipped blocks, got %+v", stats)
	}
	if len(batch.MoodEntries) != 1 {
		t.Fatalf("expected 1 mood entry, got %d", len(batch.MoodEntries))
	}

	entry := batch.MoodEntries[0]
	if entry.ID == "original-id" || entry.ID == "" {
		t.Fatalf("expected a freshly generated id, got %q", entry.ID)
	}
	if entry.Timestamp != markdownTestImportTime {
		t.Fatalf("expected import-time timestamp, got %d", entry.Timestamp)
	}
	if entry.UserID != "" {
		t.Fatalf("expected decoder to never assign an owner, got %q", entry.UserID)
	}
	if entry.Rating != 8 {
		t.Fatalf("expected rating 8, got %d", entry.Rating)
	}
	if entry.Note == nil || *entry.Note != note {
		t.Fatalf("expected note to survive, got %v", entry.Note)
	}
	if len(entry.Emotions) != 1 || entry.Emotions[0] != "Proud" {
		t.Fatalf("expected emotions to survive, got %v", entry.Emotions)
	}
}

func TestMarkdownDecodeMapsAbsentMoodAfter(t *testing.T) {
	codec := newTestMarkdownCodec()
	block := strings.Join([]string{
		markdownCBTSection,
		"",
		"### November 14, 2023 10:13 PM",
		"- **Situation**: Crowded train",
		"- **Automatic Thoughts**: I need to get out",
		"- **Distortions**: Catastrophizing",
		"- **Rational Response**: Two more stops, I have managed before",
		"- **Mood**: 3 → N/A",
		"",
	}, "\n")

	batch, _, err := codec.Decode(block)
	if err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}
	if len(batch.CBTLogs) != 1 {
		t.Fatalf("expected 1 CBT log, got %d", len(batch.CBTLogs))
	}

	logEntry := batch.CBTLogs[0]
	if logEntry.MoodBefore != 3 {
		t.Fatalf("expected mood before 3, got %d", logEntry.MoodBefore)
	}
	if logEntry.MoodAfter != nil {
		t.Fatalf("expected N/A to map to absent, got %v", *logEntry.MoodAfter)
	}
}

func TestMarkdownDecodeSkipsBlocksMissingRequiredField(t *testing.T) {
	codec := newTestMarkdownCodec()
	document := strings.Join([]string{
		markdownMoodSection,
		"",
		"### November 14, 2023 10:13 PM",
		"- **Emotions**: Happy",
		"",
		"### November 15, 2023 9:00 AM",
		"- **Rating**: 6/10",
		"- **Emotions**: Calm",
		"",
		markdownCBTSection,
		"",
		"### November 16, 2023 8:00 AM",
		"- **Automatic Thoughts**: orphaned thoughts",
		"",
	}, "\n")

	batch, stats, err := codec.Decode(document)
	if err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}
	if len(batch.MoodEntries) != 1 || batch.MoodEntries[0].Rating != 6 {
		t.Fatalf("expected only the block with a rating to survive, got %+v", batch.MoodEntries)
	}
	if len(batch.CBTLogs) != 0 {
		t.Fatalf("expected the CBT block without a situation to be dropped, got %+v", batch.CBTLogs)
	}
	if stats.SkippedMoodRows != 1 || stats.SkippedCBTRows != 1 {
		t.Fatalf("expected one skipped block per section, got %+v", stats)
	}
}

func TestMarkdownCodecDoesNotPreserveIdentity(t *testing.T) {
	if newTestMarkdownCodec().PreservesIdentity() {
		t.Fatalf("markdown must report that it cannot preserve record identity")
	}
	if !NewJSONCodec().PreservesIdentity() {
		t.Fatalf("JSON must report identity preservation")
	}
	if !NewCSVCodec(time.UTC).PreservesIdentity() {
		t.Fatalf("CSV must report identity preservation")
	}
}

func TestParseLeadingIntAcceptsRatingSuffix(t *testing.T) {
	value, ok := parseLeadingInt("7/10")
	if !ok || value != 7 {
		t.Fatalf("expected 7, got %d (ok=%v)", value, ok)
	}
	if _, ok := parseLeadingInt("none"); ok {
		t.Fatalf("expected non-numeric text to fail")
	}
}
