package services

import (
	"strings"
	"testing"
	"time"

	"github.com/quietpath/mindfultrack/internal/models"
)

func TestCSVEncodeMatchesFixedColumnLayout(t *testing.T) {
	codec := NewCSVCodec(time.UTC)
	note := `Said "hi"`

	document, err := codec.Encode(RecordBatch{
		MoodEntries: []models.MoodEntry{{
			ID:        "entry-1",
			UserID:    "1",
			Timestamp: 1700000000000,
			Rating:    7,
			Emotions:  []string{"Happy", "Calm"},
			Note:      &note,
		}},
	}, time.UnixMilli(1700000000000))
	if err != nil {
		t.Fatalf("Encode() unexpected error: %v", err)
	}

	lines := strings.Split(document, "\n")
	if lines[0] != csvMoodHeader {
		t.Fatalf("expected mood header %q, got %q", csvMoodHeader, lines[0])
	}

	expectedRow := `Mood,entry-1,1700000000000,"2023-11-14 22:13",7,"Happy|Calm","Said ""hi""","",""`
	if lines[1] != expectedRow {
		t.Fatalf("expected row %q, got %q", expectedRow, lines[1])
	}

	if !strings.Contains(document, csvCBTHeader) {
		t.Fatalf("expected document to contain the CBT header")
	}
}

func TestCSVRoundTripPreservesQuotedCharacters(t *testing.T) {
	codec := NewCSVCodec(time.UTC)
	note := `comma, quote " and pipe | together`
	trigger := "meeting"

	document, err := codec.Encode(RecordBatch{
		MoodEntries: []models.MoodEntry{{
			ID:        "entry-9",
			Timestamp: 1700000000000,
			Rating:    4,
			Emotions:  []string{"Anxious", "Tired"},
			Note:      &note,
			Trigger:   &trigger,
		}},
	}, time.UnixMilli(1700000000000))
	if err != nil {
		t.Fatalf("Encode() unexpected error: %v", err)
	}

	batch, stats, err := codec.Decode(document)
	if err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}
	if stats.Total() != 0 {
		t.Fatalf("expected no skipped rows, got %+v", stats)
	}
	if len(batch.MoodEntries) != 1 {
		t.Fatalf("expected 1 mood entry, got %d", len(batch.MoodEntries))
	}

	entry := batch.MoodEntries[0]
	if entry.ID != "entry-9" || entry.Timestamp != 1700000000000 || entry.Rating != 4 {
		t.Fatalf("identity fields did not survive the round trip: %+v", entry)
	}
	if len(entry.Emotions) != 2 || entry.Emotions[0] != "Anxious" || entry.Emotions[1] != "Tired" {
		t.Fatalf("expected emotions to survive, got %v", entry.Emotions)
	}
	if entry.Note == nil || *entry.Note != note {
		t.Fatalf("expected note %q to survive, got %v", note, entry.Note)
	}
	if entry.Trigger == nil || *entry.Trigger != trigger {
		t.Fatalf("expected trigger to survive, got %v", entry.Trigger)
	}
	if entry.Behavior != nil {
		t.Fatalf("expected absent behavior to stay absent, got %q", *entry.Behavior)
	}
}

func TestCSVRoundTripKeepsCBTFields(t *testing.T) {
	codec := NewCSVCodec(time.UTC)
	moodAfter := 7
	link := "Call a friend, then walk"

	document, err := codec.Encode(RecordBatch{
		CBTLogs: []models.CBTLog{
			{
				ID:                "log-1",
				Timestamp:         1700000000000,
				Situation:         `Presentation went "badly"`,
				AutomaticThoughts: "Everyone noticed",
				Distortions:       []string{"Mind Reading", "Catastrophizing"},
				RationalResponse:  "Nobody mentioned it afterwards",
				MoodBefore:        3,
				MoodAfter:         &moodAfter,
				BehavioralLink:    &link,
			},
			{
				ID:                "log-2",
				Timestamp:         1700000100000,
				Situation:         "Missed the bus",
				AutomaticThoughts: "The day is ruined",
				Distortions:       []string{},
				RationalResponse:  "Another one comes in ten minutes",
				MoodBefore:        5,
			},
		},
	}, time.UnixMilli(1700000000000))
	if err != nil {
		t.Fatalf("Encode() unexpected error: %v", err)
	}

	batch, _, err := codec.Decode(document)
	if err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}
	if len(batch.CBTLogs) != 2 {
		t.Fatalf("expected 2 CBT logs, got %d", len(batch.CBTLogs))
	}

	first := batch.CBTLogs[0]
	if first.Situation != `Presentation went "badly"` {
		t.Fatalf("expected situation to survive quoting, got %q", first.Situation)
	}
	if len(first.Distortions) != 2 || first.Distortions[1] != "Catastrophizing" {
		t.Fatalf("expected distortions to survive, got %v", first.Distortions)
	}
	if first.MoodAfter == nil || *first.MoodAfter != 7 {
		t.Fatalf("expected mood after 7, got %v", first.MoodAfter)
	}
	if first.BehavioralLink == nil || *first.BehavioralLink != link {
		t.Fatalf("expected behavioral link to survive, got %v", first.BehavioralLink)
	}

	second := batch.CBTLogs[1]
	if second.MoodAfter != nil {
		t.Fatalf("expected absent mood after to stay absent, got %v", *second.MoodAfter)
	}
	if second.BehavioralLink != nil {
		t.Fatalf("expected absent behavioral link to stay absent")
	}
}

func TestCSVDecodeSkipsMalformedRowsWithoutFailing(t *testing.T) {
	codec := NewCSVCodec(time.UTC)
	document := strings.Join([]string{
		csvMoodHeader,
		`Mood,good-1,1700000000000,"2023-11-14 22:13",7,"Happy","","",""`,
		`Mood,short-row,1700000000000`,
		`Mood,bad-rating,1700000000000,"2023-11-14 22:13",seven,"Happy","","",""`,
		`Sleep,unknown-kind,1700000000000,"2023-11-14 22:13",7,"","","",""`,
		``,
		csvCBTHeader,
		`CBT,good-2,1700000000000,"2023-11-14 22:13","Situation","Thoughts","","Response",5,,""`,
		`CBT,bad-before,1700000000000,"2023-11-14 22:13","Situation","Thoughts","","Response",five,,""`,
	}, "\n")

	batch, stats, err := codec.Decode(document)
	if err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}

	if len(batch.MoodEntries) != 1 || batch.MoodEntries[0].ID != "good-1" {
		t.Fatalf("expected only the valid mood row to survive, got %+v", batch.MoodEntries)
	}
	if len(batch.CBTLogs) != 1 || batch.CBTLogs[0].ID != "good-2" {
		t.Fatalf("expected only the valid CBT row to survive, got %+v", batch.CBTLogs)
	}
	if stats.SkippedMoodRows != 2 {
		t.Fatalf("expected 2 skipped mood rows, got %d", stats.SkippedMoodRows)
	}
	if stats.SkippedCBTRows != 1 {
		t.Fatalf("expected 1 skipped CBT row, got %d", stats.SkippedCBTRows)
	}
	if stats.UnknownRows != 1 {
		t.Fatalf("expected 1 unknown row, got %d", stats.UnknownRows)
	}
}

func TestCSVEncodeFlattensEmbeddedNewlines(t *testing.T) {
	codec := NewCSVCodec(time.UTC)
	note := "first line\nsecond line"

	document, err := codec.Encode(RecordBatch{
		MoodEntries: []models.MoodEntry{{
			ID:        "entry-3",
			Timestamp: 1700000000000,
			Rating:    6,
			Emotions:  []string{},
			Note:      &note,
		}},
	}, time.UnixMilli(1700000000000))
	if err != nil {
		t.Fatalf("Encode() unexpected error: %v", err)
	}

	batch, _, err := codec.Decode(document)
	if err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}
	if len(batch.MoodEntries) != 1 {
		t.Fatalf("expected the multi-line note to stay on one row, got %d entries", len(batch.MoodEntries))
	}
	if batch.MoodEntries[0].Note == nil || *batch.MoodEntries[0].Note != "first line second line" {
		t.Fatalf("expected newlines flattened to spaces, got %v", batch.MoodEntries[0].Note)
	}
}

func TestTokenizeCSVLineHandlesQuoting(t *testing.T) {
	parts := tokenizeCSVLine(`a,"b,c","d""e",,"f|g"`)
	expected := []string{"a", "b,c", `d"e`, "", "f|g"}
	if len(parts) != len(expected) {
		t.Fatalf("expected %d parts, got %d: %v", len(expected), len(parts), parts)
	}
	for index, value := range expected {
		if parts[index] != value {
			t.Fatalf("part %d: expected %q, got %q", index, value, parts[index])
		}
	}
}
