package db

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/quietpath/mindfultrack/internal/models"
)

// RecordStore is the persistence port for mood entries and CBT logs. It is
// the only component that touches the two record tables.
type RecordStore struct {
	database *gorm.DB
}

func NewRecordStore(database *gorm.DB) *RecordStore {
	return &RecordStore{database: database}
}

// FetchRecordsForOptionalRange loads a user's records ordered newest first.
// Either timestamp bound may be nil, in which case that side is unbounded.
func (store *RecordStore) FetchRecordsForOptionalRange(userID string, start *int64, end *int64) ([]models.MoodEntry, []models.CBTLog, error) {
	moodEntries := make([]models.MoodEntry, 0)
	query := store.recordRangeQuery(store.database.Model(&models.MoodEntry{}), userID, start, end)
	if err := query.Order("timestamp DESC").Find(&moodEntries).Error; err != nil {
		return nil, nil, err
	}

	cbtLogs := make([]models.CBTLog, 0)
	query = store.recordRangeQuery(store.database.Model(&models.CBTLog{}), userID, start, end)
	if err := query.Order("timestamp DESC").Find(&cbtLogs).Error; err != nil {
		return nil, nil, err
	}

	return moodEntries, cbtLogs, nil
}

// ApplyBatch upserts every record by primary key inside one transaction,
// stamping the authenticated owner onto each row. Whatever owner the payload
// claimed is discarded. A failure on any statement rolls the whole batch back.
func (store *RecordStore) ApplyBatch(userID string, moodEntries []models.MoodEntry, cbtLogs []models.CBTLog) error {
	return store.database.Transaction(func(tx *gorm.DB) error {
		if len(moodEntries) > 0 {
			for index := range moodEntries {
				moodEntries[index].UserID = userID
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				UpdateAll: true,
			}).Create(&moodEntries).Error; err != nil {
				return err
			}
		}

		if len(cbtLogs) > 0 {
			for index := range cbtLogs {
				cbtLogs[index].UserID = userID
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				UpdateAll: true,
			}).Create(&cbtLogs).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (store *RecordStore) recordRangeQuery(query *gorm.DB, userID string, start *int64, end *int64) *gorm.DB {
	query = query.Where("user_id = ?", userID)
	if start != nil {
		query = query.Where("timestamp >= ?", *start)
	}
	if end != nil {
		query = query.Where("timestamp <= ?", *end)
	}
	return query
}
