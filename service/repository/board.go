package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/gnuboard/goboard/models"
)

type boardRepository struct {
	db *gorm.DB
}

// NewBoardRepository creates a new instance of BoardRepository.
func NewBoardRepository(db *gorm.DB) BoardRepository {
	return &boardRepository{db: db}
}

func (r *boardRepository) GetByTable(ctx context.Context, boardTable string) (*models.Board, error) {
	var board models.Board
	err := r.db.WithContext(ctx).First(&board, "board_table = ?", boardTable).Error
	if err != nil {
		return nil, err
	}
	return &board, nil
}

func (r *boardRepository) List(ctx context.Context) ([]*models.Board, error) {
	var boards []*models.Board
	err := r.db.WithContext(ctx).Order("board_table").Find(&boards).Error
	if err != nil {
		return nil, err
	}
	return boards, nil
}
