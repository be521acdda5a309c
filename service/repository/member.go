package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/gnuboard/goboard/models"
)

type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new instance of MemberRepository.
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) GetByMemberID(ctx context.Context, memberID string) (*models.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).First(&member, "member_id = ?", memberID).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepository) Save(ctx context.Context, member *models.Member) error {
	if member.ID == 0 {
		return r.db.WithContext(ctx).Create(member).Error
	}
	return r.db.WithContext(ctx).Save(member).Error
}

func (r *memberRepository) UpdateLoginStamp(ctx context.Context, member *models.Member, at time.Time, ip string) error {
	member.TodayLogin = at
	member.LoginIP = ip
	return r.db.WithContext(ctx).Model(member).
		Updates(map[string]any{"today_login": at, "login_ip": ip}).Error
}
