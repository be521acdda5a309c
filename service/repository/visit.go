package repository

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gnuboard/goboard/models"
)

type visitRepository struct {
	db *gorm.DB
}

// NewVisitRepository creates a new instance of VisitRepository.
func NewVisitRepository(db *gorm.DB) VisitRepository {
	return &visitRepository{db: db}
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (r *visitRepository) Record(ctx context.Context, visit *models.Visit) error {
	if time.Time(visit.Date).IsZero() {
		visit.Date = datatypes.Date(truncateDay(visit.Time))
	}
	return r.db.WithContext(ctx).Create(visit).Error
}

func (r *visitRepository) CountForDay(ctx context.Context, day time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Visit{}).
		Where("date = ?", datatypes.Date(truncateDay(day))).
		Count(&count).Error
	return count, err
}

func (r *visitRepository) SummarizeDay(ctx context.Context, day time.Time) error {
	count, err := r.CountForDay(ctx, day)
	if err != nil {
		return err
	}
	sum := models.VisitSum{
		Date:  datatypes.Date(truncateDay(day)),
		Count: int(count),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"count"}),
		}).
		Create(&sum).Error
}
