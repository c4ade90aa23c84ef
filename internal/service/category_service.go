package service

import (
	"strings"

	"vocabtest-backend/internal/model"
	"vocabtest-backend/internal/repository"
)

type CategoryInput struct {
	Name        string  `json:"name" binding:"max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

type CategoryService interface {
	List() ([]model.CategoryWithCount, error)
	Get(id uint) (*model.Category, error)
	Create(in CategoryInput) (*model.Category, error)
	Update(id uint, in CategoryInput) (*model.Category, error)
	Delete(id uint) error
}

type categoryService struct {
	categories repository.CategoryRepository
}

func NewCategoryService(categories repository.CategoryRepository) CategoryService {
	return &categoryService{categories: categories}
}

func (s *categoryService) List() ([]model.CategoryWithCount, error) {
	return s.categories.List()
}

func (s *categoryService) Get(id uint) (*model.Category, error) {
	c, err := s.categories.GetByID(id)
	return c, mapRepoErr(err, "Category")
}

func (s *categoryService) Create(in CategoryInput) (*model.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("Category name is required")
	}
	if err := s.ensureUnique(name, 0); err != nil {
		return nil, err
	}

	category := &model.Category{Name: name, Description: in.Description}
	if err := s.categories.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) Update(id uint, in CategoryInput) (*model.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("Category name is required")
	}
	if _, err := s.categories.GetByID(id); err != nil {
		return nil, mapRepoErr(err, "Category")
	}
	if err := s.ensureUnique(name, id); err != nil {
		return nil, err
	}

	if err := s.categories.Update(&model.Category{ID: id, Name: name, Description: in.Description}); err != nil {
		return nil, mapRepoErr(err, "Category")
	}
	return s.Get(id)
}

// Delete removes a category after moving its words to the default one.
// The default category itself cannot be deleted.
func (s *categoryService) Delete(id uint) error {
	if id == model.DefaultCategoryID {
		return invalid("Cannot delete default category")
	}
	return mapRepoErr(s.categories.Delete(id), "Category")
}

func (s *categoryService) ensureUnique(name string, excludeID uint) error {
	taken, err := s.categories.NameTaken(name, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return &ConflictError{Message: "Category name already exists"}
	}
	return nil
}
