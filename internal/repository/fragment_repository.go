package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"unihelp/internal/model"
)

type FragmentRepository struct {
	db *gorm.DB
}

func NewFragmentRepository(db *gorm.DB) *FragmentRepository {
	return &FragmentRepository{db: db}
}

// Create inserts the fragment with a fresh order key. The current maximum is
// read under a row lock inside the insert transaction so concurrent converts
// cannot allocate the same key.
func (r *FragmentRepository) Create(fragment *model.KnowledgeFragment) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var current struct {
			MaxKey int64
		}
		if err := tx.Model(&model.KnowledgeFragment{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("COALESCE(MAX(order_key), 0) AS max_key").
			Scan(&current).Error; err != nil {
			return err
		}
		fragment.OrderKey = current.MaxKey + 1
		return tx.Create(fragment).Error
	})
	if err != nil {
		return fmt.Errorf("create fragment failed: %w", err)
	}
	return nil
}

func (r *FragmentRepository) GetByID(id uint) (*model.KnowledgeFragment, error) {
	var fragment model.KnowledgeFragment
	if err := r.db.First(&fragment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get fragment failed: %w", err)
	}
	return &fragment, nil
}

// ListOrdered returns every fragment ordered by ascending order key, the
// order the prompt assembler consumes them in.
func (r *FragmentRepository) ListOrdered() ([]model.KnowledgeFragment, error) {
	var list []model.KnowledgeFragment
	if err := r.db.Order("order_key ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list fragments failed: %w", err)
	}
	return list, nil
}

func (r *FragmentRepository) Update(fragment *model.KnowledgeFragment) error {
	if err := r.db.Save(fragment).Error; err != nil {
		return fmt.Errorf("update fragment failed: %w", err)
	}
	return nil
}

func (r *FragmentRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.KnowledgeFragment{}, id).Error; err != nil {
		return fmt.Errorf("delete fragment failed: %w", err)
	}
	return nil
}
