package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"unihelp/internal/model"
)

type IssueRepository struct {
	db *gorm.DB
}

func NewIssueRepository(db *gorm.DB) *IssueRepository {
	return &IssueRepository{db: db}
}

func (r *IssueRepository) Create(issue *model.Issue) error {
	if err := r.db.Create(issue).Error; err != nil {
		return fmt.Errorf("create issue failed: %w", err)
	}
	return nil
}

func (r *IssueRepository) GetByID(id uint) (*model.Issue, error) {
	var issue model.Issue
	if err := r.db.First(&issue, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get issue failed: %w", err)
	}
	return &issue, nil
}

func (r *IssueRepository) ListByUserID(userID uint) ([]model.Issue, error) {
	var list []model.Issue
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list issues by user failed: %w", err)
	}
	return list, nil
}

func (r *IssueRepository) ListAll() ([]model.Issue, error) {
	var list []model.Issue
	if err := r.db.Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list issues failed: %w", err)
	}
	return list, nil
}

func (r *IssueRepository) Update(issue *model.Issue) error {
	if err := r.db.Save(issue).Error; err != nil {
		return fmt.Errorf("update issue failed: %w", err)
	}
	return nil
}
