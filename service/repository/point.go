package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/gnuboard/goboard/models"
)

type pointRepository struct {
	db *gorm.DB
}

// NewPointRepository creates a new instance of PointRepository.
func NewPointRepository(db *gorm.DB) PointRepository {
	return &pointRepository{db: db}
}

func (r *pointRepository) Award(ctx context.Context, memberID string, amount int,
	content, relTable, relID, relAction string) error {

	if amount == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if relTable != "" {
			var count int64
			err := tx.Model(&models.Point{}).
				Where("member_id = ? AND rel_table = ? AND rel_id = ? AND rel_action = ?",
					memberID, relTable, relID, relAction).
				Count(&count).Error
			if err != nil {
				return err
			}
			if count > 0 {
				// Already awarded for this cause.
				return nil
			}
		}

		entry := models.Point{
			MemberID:  memberID,
			Datetime:  time.Now(),
			Content:   content,
			Amount:    amount,
			RelTable:  relTable,
			RelID:     relID,
			RelAction: relAction,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		return tx.Model(&models.Member{}).
			Where("member_id = ?", memberID).
			UpdateColumn("point", gorm.Expr("point + ?", amount)).Error
	})
}

func (r *pointRepository) BalanceOf(ctx context.Context, memberID string) (int, error) {
	var member models.Member
	err := r.db.WithContext(ctx).
		Select("point").First(&member, "member_id = ?", memberID).Error
	if err != nil {
		return 0, err
	}
	return member.Point, nil
}
