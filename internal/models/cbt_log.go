package models

// Action plan statuses for a CBT log follow-up.
const (
	ActionPlanPending   = "pending"
	ActionPlanCompleted = "completed"
)

// CBTLog is a single thought-record journal entry. Distortions carry whatever
// labels were stored; the controlled vocabulary is not enforced here.
//
// ActionPlanStatus only survives the JSON interchange format. CSV and
// Markdown exports do not carry it.
type CBTLog struct {
	ID                string   `gorm:"primaryKey" json:"id"`
	UserID            string   `gorm:"index;not null" json:"userId"`
	Timestamp         int64    `gorm:"not null;index" json:"timestamp"`
	Situation         string   `gorm:"not null" json:"situation"`
	AutomaticThoughts string   `gorm:"not null" json:"automaticThoughts"`
	Distortions       []string `gorm:"serializer:json" json:"distortions"`
	RationalResponse  string   `gorm:"not null" json:"rationalResponse"`
	MoodBefore        int      `gorm:"not null" json:"moodBefore"`
	MoodAfter         *int     `json:"moodAfter,omitempty"`
	BehavioralLink    *string  `json:"behavioralLink,omitempty"`
	ActionPlanStatus  *string  `json:"actionPlanStatus,omitempty"`
}

func (CBTLog) TableName() string {
	return "cbt_logs"
}
