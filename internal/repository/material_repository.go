package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"unihelp/internal/model"
)

type MaterialRepository struct {
	db *gorm.DB
}

func NewMaterialRepository(db *gorm.DB) *MaterialRepository {
	return &MaterialRepository{db: db}
}

func (r *MaterialRepository) Create(material *model.Material) error {
	if err := r.db.Create(material).Error; err != nil {
		return fmt.Errorf("create material failed: %w", err)
	}
	return nil
}

func (r *MaterialRepository) GetByID(id uint) (*model.Material, error) {
	var material model.Material
	if err := r.db.First(&material, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material failed: %w", err)
	}
	return &material, nil
}

func (r *MaterialRepository) ListByOwner(ownerID uint) ([]model.Material, error) {
	var list []model.Material
	if err := r.db.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list materials by owner failed: %w", err)
	}
	return list, nil
}

func (r *MaterialRepository) ListByStatus(status string) ([]model.Material, error) {
	var list []model.Material
	if err := r.db.Where("status = ?", status).Order("created_at ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list materials by status failed: %w", err)
	}
	return list, nil
}

func (r *MaterialRepository) Update(material *model.Material) error {
	if err := r.db.Save(material).Error; err != nil {
		return fmt.Errorf("update material failed: %w", err)
	}
	return nil
}

func (r *MaterialRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Material{}, id).Error; err != nil {
		return fmt.Errorf("delete material failed: %w", err)
	}
	return nil
}
