package services

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/quietpath/mindfultrack/internal/models"
)

// NormalizeMoodEntry validates one decoded mood entry and returns its
// normalized form: blank optional fields become absent, a missing emotion
// list becomes empty. The rejection reason is returned for a failing record;
// callers drop such records from the batch instead of aborting it.
func NormalizeMoodEntry(entry models.MoodEntry) (models.MoodEntry, error) {
	entry.Note = normalizeOptionalText(entry.Note)
	entry.Trigger = normalizeOptionalText(entry.Trigger)
	entry.Behavior = normalizeOptionalText(entry.Behavior)
	if entry.Emotions == nil {
		entry.Emotions = []string{}
	}

	err := validation.ValidateStruct(&entry,
		validation.Field(&entry.ID, validation.Required),
		validation.Field(&entry.Timestamp, validation.Required, validation.Min(int64(1))),
		validation.Field(&entry.Rating, validation.Required, validation.Min(1), validation.Max(10)),
	)
	if err != nil {
		return models.MoodEntry{}, err
	}
	return entry, nil
}

// NormalizeCBTLog is the CBT counterpart of NormalizeMoodEntry.
func NormalizeCBTLog(logEntry models.CBTLog) (models.CBTLog, error) {
	logEntry.BehavioralLink = normalizeOptionalText(logEntry.BehavioralLink)
	logEntry.ActionPlanStatus = normalizeOptionalText(logEntry.ActionPlanStatus)
	if logEntry.Distortions == nil {
		logEntry.Distortions = []string{}
	}

	err := validation.ValidateStruct(&logEntry,
		validation.Field(&logEntry.ID, validation.Required),
		validation.Field(&logEntry.Timestamp, validation.Required, validation.Min(int64(1))),
		validation.Field(&logEntry.Situation, validation.Required),
		validation.Field(&logEntry.AutomaticThoughts, validation.Required),
		validation.Field(&logEntry.RationalResponse, validation.Required),
		validation.Field(&logEntry.MoodBefore, validation.Required, validation.Min(1), validation.Max(10)),
		validation.Field(&logEntry.MoodAfter, validation.By(optionalMoodInRange)),
		validation.Field(&logEntry.ActionPlanStatus, validation.In(models.ActionPlanPending, models.ActionPlanCompleted)),
	)
	if err != nil {
		return models.CBTLog{}, err
	}
	return logEntry, nil
}

// optionalMoodInRange checks a present mood pointer against [1,10]. The
// threshold rules cannot be used here: they treat a zero value as absent, and
// a zero that reaches the store violates its CHECK constraint and takes the
// whole batch down with it.
func optionalMoodInRange(value interface{}) error {
	mood, ok := value.(*int)
	if !ok || mood == nil {
		return nil
	}
	if *mood < 1 || *mood > 10 {
		return errors.New("must be between 1 and 10")
	}
	return nil
}

func normalizeOptionalText(value *string) *string {
	if value == nil || *value == "" {
		return nil
	}
	return value
}
