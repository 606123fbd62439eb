package services

import (
	"errors"
	"strings"

	"weddingshop/entity"
	"weddingshop/repository"

	"gorm.io/gorm"
)

// CatalogService manages categories and the services (products) listed under them.
type CatalogService struct {
	Categories *repository.CategoryRepository
	Products   *repository.ProductRepository
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{
		Categories: repository.NewCategoryRepository(db),
		Products:   repository.NewProductRepository(db),
	}
}

type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	IsActive    *bool  `json:"isActive"`
}

func (in CategoryInput) apply(c *entity.Category) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return invalid("name", "is required")
	}
	c.Name = name
	c.Description = strings.TrimSpace(in.Description)
	c.Image = strings.TrimSpace(in.Image)
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	return nil
}

func (s *CatalogService) ListCategories(onlyActive bool) ([]entity.Category, error) {
	return s.Categories.FindAll(onlyActive)
}

func (s *CatalogService) GetCategory(id uint) (*entity.Category, error) {
	c, err := s.Categories.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCategoryNotFound
	}
	return c, err
}

func (s *CatalogService) CreateCategory(in CategoryInput) (*entity.Category, error) {
	c := &entity.Category{IsActive: true}
	if err := in.apply(c); err != nil {
		return nil, err
	}
	if err := s.Categories.Create(c); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCategoryTaken
		}
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) UpdateCategory(id uint, in CategoryInput) (*entity.Category, error) {
	c, err := s.GetCategory(id)
	if err != nil {
		return nil, err
	}
	if err := in.apply(c); err != nil {
		return nil, err
	}
	if err := s.Categories.Update(c); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCategoryTaken
		}
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) DeleteCategory(id uint) error {
	n, err := s.Categories.Delete(id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// ===== products =====

type ProductInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Image       string `json:"image"`
	CategoryID  uint   `json:"categoryId"`
	IsActive    *bool  `json:"isActive"`
}

func (s *CatalogService) applyProduct(in ProductInput, p *entity.Product) error {
	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		return invalid("name", "is required")
	case in.Price < 0:
		return invalid("price", "must not be negative")
	case in.CategoryID == 0:
		return invalid("categoryId", "is required")
	}
	if _, err := s.GetCategory(in.CategoryID); err != nil {
		return err
	}
	p.Name = name
	p.Description = strings.TrimSpace(in.Description)
	p.Price = in.Price
	p.Image = strings.TrimSpace(in.Image)
	p.CategoryID = in.CategoryID
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	return nil
}

func (s *CatalogService) ListProducts(f repository.ProductFilter) ([]entity.Product, error) {
	return s.Products.Find(f)
}

func (s *CatalogService) GetProduct(id uint) (*entity.Product, error) {
	p, err := s.Products.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	return p, err
}

func (s *CatalogService) CreateProduct(in ProductInput) (*entity.Product, error) {
	p := &entity.Product{IsActive: true}
	if err := s.applyProduct(in, p); err != nil {
		return nil, err
	}
	if err := s.Products.Create(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *CatalogService) UpdateProduct(id uint, in ProductInput) (*entity.Product, error) {
	p, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}
	if err := s.applyProduct(in, p); err != nil {
		return nil, err
	}
	if err := s.Products.Update(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *CatalogService) DeleteProduct(id uint) error {
	n, err := s.Products.Delete(id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrProductNotFound
	}
	return nil
}
