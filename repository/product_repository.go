package repository

import (
	"strings"

	"weddingshop/entity"

	"gorm.io/gorm"
)

type ProductRepository struct {
	DB *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{DB: db}
}

type ProductFilter struct {
	CategoryID uint
	Search     string
	OnlyActive bool
}

func (r *ProductRepository) Find(f ProductFilter) ([]entity.Product, error) {
	q := r.DB.Order("id DESC")
	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	if f.OnlyActive {
		q = q.Where("is_active = ?", true)
	}
	var products []entity.Product
	err := q.Find(&products).Error
	return products, err
}

func (r *ProductRepository) FindByID(id uint) (*entity.Product, error) {
	var p entity.Product
	if err := r.DB.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// FindActiveByIDs loads the active products among ids, keyed by id.
func (r *ProductRepository) FindActiveByIDs(ids []uint) (map[uint]entity.Product, error) {
	var rows []entity.Product
	if err := r.DB.Where("id IN ? AND is_active = ?", ids, true).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[uint]entity.Product, len(rows))
	for _, p := range rows {
		out[p.ID] = p
	}
	return out, nil
}

func (r *ProductRepository) Create(p *entity.Product) error {
	return r.DB.Create(p).Error
}

func (r *ProductRepository) Update(p *entity.Product) error {
	return r.DB.Save(p).Error
}

func (r *ProductRepository) Delete(id uint) (int64, error) {
	res := r.DB.Delete(&entity.Product{}, id)
	return res.RowsAffected, res.Error
}
