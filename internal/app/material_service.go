package app

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"unihelp/internal/model"
	"unihelp/internal/pkg/pdfextract"
	"unihelp/internal/storage"
)

// conversionFooter closes every fragment derived from a faculty submission.
const conversionFooter = "This entry was created from a faculty submission approved by the administration."

const (
	noteFileMissing       = "The attached file could not be found; only the submission summary above is available."
	noteExtractionFailure = "The attached file could not be processed: %v. Only the submission summary above is available."
)

type MaterialStore interface {
	Create(material *model.Material) error
	GetByID(id uint) (*model.Material, error)
	ListByOwner(ownerID uint) ([]model.Material, error)
	ListByStatus(status string) ([]model.Material, error)
	Update(material *model.Material) error
	Delete(id uint) error
}

type FragmentStore interface {
	Create(fragment *model.KnowledgeFragment) error
	GetByID(id uint) (*model.KnowledgeFragment, error)
	ListOrdered() ([]model.KnowledgeFragment, error)
	Update(fragment *model.KnowledgeFragment) error
	Delete(id uint) error
}

type FileStore interface {
	Save(originalName string, data []byte) (string, error)
	Read(ref string) ([]byte, error)
	Delete(ref string) error
}

// MaterialService governs the submission lifecycle: pending materials are
// reviewed into approved or rejected, and approved ones can be converted into
// knowledge fragments.
type MaterialService struct {
	materialRepo MaterialStore
	fragmentRepo FragmentStore
	files        FileStore
}

// nowFunc is swapped in tests.
var nowFunc = time.Now

func NewMaterialService(materialRepo MaterialStore, fragmentRepo FragmentStore, files FileStore) *MaterialService {
	return &MaterialService{
		materialRepo: materialRepo,
		fragmentRepo: fragmentRepo,
		files:        files,
	}
}

type SubmitMaterialInput struct {
	OwnerID     uint
	Title       string
	Description string
	Course      string
	Topic       string
	TextContent string
	FileName    string
	FileData    []byte
}

func (s *MaterialService) Submit(input SubmitMaterialInput) (*model.Material, error) {
	title := strings.TrimSpace(input.Title)
	if input.OwnerID == 0 || title == "" {
		return nil, ErrInvalidInput
	}

	material := &model.Material{
		OwnerID:     input.OwnerID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Course:      strings.TrimSpace(input.Course),
		Topic:       strings.TrimSpace(input.Topic),
		TextContent: pdfextract.CapForStorage(pdfextract.NormalizeWhitespace(input.TextContent)),
		Status:      model.MaterialStatusPending,
	}

	if len(input.FileData) > 0 {
		ref, err := s.files.Save(input.FileName, input.FileData)
		if err != nil {
			return nil, err
		}
		material.FileRef = ref
		material.FileName = strings.TrimSpace(input.FileName)
	}

	if err := s.materialRepo.Create(material); err != nil {
		return nil, err
	}
	return material, nil
}

func (s *MaterialService) ListMine(ownerID uint) ([]model.Material, error) {
	if ownerID == 0 {
		return nil, ErrInvalidInput
	}
	return s.materialRepo.ListByOwner(ownerID)
}

func (s *MaterialService) ListPending() ([]model.Material, error) {
	return s.materialRepo.ListByStatus(model.MaterialStatusPending)
}

// Review decides a pending material. Reviewing a material in any other state
// is ErrInvalidTransition and leaves it untouched.
func (s *MaterialService) Review(materialID uint, decision string, adminID uint) (*model.Material, error) {
	if materialID == 0 || adminID == 0 {
		return nil, ErrInvalidInput
	}

	material, err := s.materialRepo.GetByID(materialID)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, ErrNotFound
	}
	if material.Status != model.MaterialStatusPending {
		return nil, ErrInvalidTransition
	}

	switch decision {
	case "approve":
		material.Status = model.MaterialStatusApproved
		now := nowFunc()
		material.ApprovedAt = &now
	case "reject":
		material.Status = model.MaterialStatusRejected
	default:
		return nil, ErrInvalidInput
	}
	material.ReviewedBy = adminID

	if err := s.materialRepo.Update(material); err != nil {
		return nil, err
	}
	return material, nil
}

type EditMaterialInput struct {
	Title       string
	Description string
	Course      string
	Topic       string
	TextContent string
}

// Edit updates a submission. Only the owning faculty member may edit, and
// only while the material is still pending.
func (s *MaterialService) Edit(materialID, requesterID uint, input EditMaterialInput) (*model.Material, error) {
	material, err := s.requireOwnedPending(materialID, requesterID)
	if err != nil {
		return nil, err
	}

	if title := strings.TrimSpace(input.Title); title != "" {
		material.Title = title
	}
	material.Description = strings.TrimSpace(input.Description)
	material.Course = strings.TrimSpace(input.Course)
	material.Topic = strings.TrimSpace(input.Topic)
	if input.TextContent != "" {
		material.TextContent = pdfextract.CapForStorage(pdfextract.NormalizeWhitespace(input.TextContent))
	}

	if err := s.materialRepo.Update(material); err != nil {
		return nil, err
	}
	return material, nil
}

func (s *MaterialService) Delete(materialID, requesterID uint) error {
	material, err := s.requireOwnedPending(materialID, requesterID)
	if err != nil {
		return err
	}

	if material.FileRef != "" {
		if err := s.files.Delete(material.FileRef); err != nil && !errors.Is(err, storage.ErrFileNotFound) {
			log.Printf("delete stored file %s failed: %v", material.FileRef, err)
		}
	}
	return s.materialRepo.Delete(material.ID)
}

// requireOwnedPending loads a material and checks the edit/delete
// preconditions: the requester owns it and it has not been reviewed yet.
func (s *MaterialService) requireOwnedPending(materialID, requesterID uint) (*model.Material, error) {
	if materialID == 0 || requesterID == 0 {
		return nil, ErrInvalidInput
	}

	material, err := s.materialRepo.GetByID(materialID)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, ErrNotFound
	}
	if material.OwnerID != requesterID || material.Status != model.MaterialStatusPending {
		return nil, ErrForbidden
	}
	return material, nil
}

// Convert turns an approved material into a knowledge fragment. The attached
// file is re-extracted at conversion time, not cached from submission. A
// missing file or a failed extraction degrades to an inline note in the
// fragment body; it never fails the conversion. Converting the same material
// twice produces two fragments; callers gate re-conversion at the UX level.
func (s *MaterialService) Convert(materialID uint) (*model.KnowledgeFragment, error) {
	if materialID == 0 {
		return nil, ErrInvalidInput
	}

	material, err := s.materialRepo.GetByID(materialID)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, ErrNotFound
	}
	if material.Status != model.MaterialStatusApproved {
		return nil, ErrInvalidTransition
	}

	fragment := &model.KnowledgeFragment{
		Title:            material.Title,
		Content:          s.buildFragmentContent(material),
		SourceMaterialID: material.ID,
	}
	if err := s.fragmentRepo.Create(fragment); err != nil {
		return nil, err
	}

	material.FragmentID = fragment.ID
	if err := s.materialRepo.Update(material); err != nil {
		// Bookkeeping only; the fragment already exists.
		log.Printf("record fragment id on material %d failed: %v", material.ID, err)
	}
	return fragment, nil
}

// buildFragmentContent lays out the fragment body: title, description, the
// submission text or the extracted file text, and the fixed footer, separated
// by blank lines. The prompt cap is deliberately not applied here; this is
// the storage-length content.
func (s *MaterialService) buildFragmentContent(material *model.Material) string {
	sections := []string{material.Title}
	if material.Description != "" {
		sections = append(sections, material.Description)
	}

	body := material.TextContent
	if material.FileRef != "" {
		data, err := s.files.Read(material.FileRef)
		switch {
		case err != nil:
			log.Printf("read material file %s failed: %v", material.FileRef, err)
			body = noteFileMissing
		default:
			text, pages, xerr := pdfextract.Extract(data)
			if xerr != nil {
				log.Printf("extract material file %s failed: %v", material.FileRef, xerr)
				body = fmt.Sprintf(noteExtractionFailure, xerr)
			} else {
				log.Printf("extracted %d pages from material %d", pages, material.ID)
				body = text
			}
		}
	}
	if body != "" {
		sections = append(sections, body)
	}

	sections = append(sections, conversionFooter)
	return strings.Join(sections, "\n\n")
}
