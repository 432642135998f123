package app

import (
	"strings"

	"unihelp/internal/model"
	"unihelp/internal/pkg/pdfextract"
	"unihelp/internal/prompt"
)

// KnowledgeService is the manual authoring path for knowledge fragments,
// bypassing the material lifecycle entirely.
type KnowledgeService struct {
	fragmentRepo FragmentStore
}

func NewKnowledgeService(fragmentRepo FragmentStore) *KnowledgeService {
	return &KnowledgeService{fragmentRepo: fragmentRepo}
}

func (s *KnowledgeService) CreateFragment(title, content string) (*model.KnowledgeFragment, error) {
	title = strings.TrimSpace(title)
	content = pdfextract.CapForStorage(pdfextract.NormalizeWhitespace(content))
	if title == "" || content == "" {
		return nil, ErrInvalidInput
	}

	fragment := &model.KnowledgeFragment{Title: title, Content: content}
	if err := s.fragmentRepo.Create(fragment); err != nil {
		return nil, err
	}
	return fragment, nil
}

func (s *KnowledgeService) EditFragment(id uint, title, content string) (*model.KnowledgeFragment, error) {
	title = strings.TrimSpace(title)
	content = pdfextract.CapForStorage(pdfextract.NormalizeWhitespace(content))
	if id == 0 || title == "" || content == "" {
		return nil, ErrInvalidInput
	}

	fragment, err := s.fragmentRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if fragment == nil {
		return nil, ErrNotFound
	}

	fragment.Title = title
	fragment.Content = content
	if err := s.fragmentRepo.Update(fragment); err != nil {
		return nil, err
	}
	return fragment, nil
}

func (s *KnowledgeService) DeleteFragment(id uint) error {
	if id == 0 {
		return ErrInvalidInput
	}
	fragment, err := s.fragmentRepo.GetByID(id)
	if err != nil {
		return err
	}
	if fragment == nil {
		return ErrNotFound
	}
	return s.fragmentRepo.Delete(id)
}

func (s *KnowledgeService) ListFragments() ([]model.KnowledgeFragment, error) {
	return s.fragmentRepo.ListOrdered()
}

// PreviewInstruction returns the system instruction the assistant would be
// seeded with right now.
func (s *KnowledgeService) PreviewInstruction() (string, error) {
	fragments, err := s.fragmentRepo.ListOrdered()
	if err != nil {
		return "", err
	}
	return prompt.BuildSystemInstruction(fragments), nil
}
