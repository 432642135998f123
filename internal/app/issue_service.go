package app

import (
	"strings"

	"unihelp/internal/model"
)

type IssueStore interface {
	Create(issue *model.Issue) error
	GetByID(id uint) (*model.Issue, error)
	ListByUserID(userID uint) ([]model.Issue, error)
	ListAll() ([]model.Issue, error)
	Update(issue *model.Issue) error
}

type IssueService struct {
	issueRepo IssueStore
}

func NewIssueService(issueRepo IssueStore) *IssueService {
	return &IssueService{issueRepo: issueRepo}
}

type CreateIssueInput struct {
	UserID uint
	Title  string
	Body   string
}

func (s *IssueService) Create(input CreateIssueInput) (*model.Issue, error) {
	title := strings.TrimSpace(input.Title)
	if input.UserID == 0 || title == "" {
		return nil, ErrInvalidInput
	}

	issue := &model.Issue{
		UserID: input.UserID,
		Title:  title,
		Body:   strings.TrimSpace(input.Body),
		Status: model.IssueStatusOpen,
	}
	if err := s.issueRepo.Create(issue); err != nil {
		return nil, err
	}
	return issue, nil
}

func (s *IssueService) ListMine(userID uint) ([]model.Issue, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.issueRepo.ListByUserID(userID)
}

func (s *IssueService) ListAll() ([]model.Issue, error) {
	return s.issueRepo.ListAll()
}

func (s *IssueService) UpdateStatus(issueID uint, status string) (*model.Issue, error) {
	switch status {
	case model.IssueStatusOpen, model.IssueStatusInProgress, model.IssueStatusResolved:
	default:
		return nil, ErrInvalidInput
	}

	issue, err := s.issueRepo.GetByID(issueID)
	if err != nil {
		return nil, err
	}
	if issue == nil {
		return nil, ErrNotFound
	}

	issue.Status = status
	if err := s.issueRepo.Update(issue); err != nil {
		return nil, err
	}
	return issue, nil
}
