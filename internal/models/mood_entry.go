package models

// MoodEntry is a single mood check-in. The ID is caller-assigned and stable
// across export and re-import; UserID is always assigned server-side.
type MoodEntry struct {
	ID        string   `gorm:"primaryKey" json:"id"`
	UserID    string   `gorm:"index;not null" json:"userId"`
	Timestamp int64    `gorm:"not null;index" json:"timestamp"`
	Rating    int      `gorm:"not null" json:"rating"`
	Emotions  []string `gorm:"serializer:json" json:"emotions"`
	Note      *string  `json:"note,omitempty"`
	Trigger   *string  `json:"trigger,omitempty"`
	Behavior  *string  `json:"behavior,omitempty"`
}
