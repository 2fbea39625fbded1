package services

import (
	"github.com/google/uuid"

	"github.com/samukelok/harvviie-backend/internal/domain"
	"github.com/samukelok/harvviie-backend/internal/repos"
	"github.com/samukelok/harvviie-backend/internal/validate"
)

type CatalogService struct {
	Prods *repos.ProductRepo
	Cols  *repos.CollectionRepo
}

func NewCatalogService(prods *repos.ProductRepo, cols *repos.CollectionRepo) *CatalogService {
	return &CatalogService{Prods: prods, Cols: cols}
}

// ProductQuery is the public listing input; page/pageSize get clamped.
type ProductQuery struct {
	Q             string
	CollectionID  string
	ActiveOnly    bool
	PriceMinCents int
	PriceMaxCents int
	Page          int
	PageSize      int
}

func (s *CatalogService) ListProducts(q ProductQuery) ([]domain.Product, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 15
	}
	return s.Prods.List(repos.ProductFilter{
		Q:             q.Q,
		CollectionID:  q.CollectionID,
		ActiveOnly:    q.ActiveOnly,
		PriceMinCents: q.PriceMinCents,
		PriceMaxCents: q.PriceMaxCents,
		Limit:         q.PageSize,
		Offset:        (q.Page - 1) * q.PageSize,
	})
}

// GetProduct accepts an id or a slug.
func (s *CatalogService) GetProduct(idOrSlug string) (domain.Product, error) {
	p, err := s.Prods.Get(idOrSlug)
	if err == nil {
		return p, nil
	}
	return s.Prods.GetBySlug(idOrSlug)
}

func (s *CatalogService) CreateProduct(p domain.Product) (domain.Product, error) {
	p.ID = uuid.NewString()
	if p.Slug == "" {
		p.Slug = validate.Slug(p.Name)
	}
	if err := s.Prods.Create(p); err != nil {
		return domain.Product{}, err
	}
	return s.Prods.Get(p.ID)
}

func (s *CatalogService) UpdateProduct(p domain.Product) (domain.Product, error) {
	if p.Slug == "" {
		p.Slug = validate.Slug(p.Name)
	}
	if err := s.Prods.Update(p); err != nil {
		return domain.Product{}, err
	}
	return s.Prods.Get(p.ID)
}

// ProductStock reads the live counter. Advisory only: stock is reserved
// at order placement, not at read time.
func (s *CatalogService) ProductStock(id string) (int, error) { return s.Prods.Stock(id) }

func (s *CatalogService) DeleteProduct(id string) error  { return s.Prods.SetDeleted(id, true) }
func (s *CatalogService) RestoreProduct(id string) error { return s.Prods.SetDeleted(id, false) }

// CollectionView is a collection with its products materialized.
type CollectionView struct {
	domain.Collection
	Products []domain.Product `json:"products"`
}

func (s *CatalogService) ListCollections() ([]domain.Collection, error) {
	return s.Cols.List()
}

func (s *CatalogService) GetCollection(idOrSlug string) (CollectionView, error) {
	c, err := s.Cols.Get(idOrSlug)
	if err != nil {
		return CollectionView{}, err
	}
	prods, err := s.Cols.Products(c.ID)
	if err != nil {
		return CollectionView{}, err
	}
	if prods == nil {
		prods = []domain.Product{}
	}
	return CollectionView{Collection: c, Products: prods}, nil
}

func (s *CatalogService) CreateCollection(c domain.Collection) (domain.Collection, error) {
	c.ID = uuid.NewString()
	if c.Slug == "" {
		c.Slug = validate.Slug(c.Name)
	}
	if err := s.Cols.Create(c); err != nil {
		return domain.Collection{}, err
	}
	return s.Cols.Get(c.ID)
}

func (s *CatalogService) UpdateCollection(c domain.Collection) (domain.Collection, error) {
	if c.Slug == "" {
		c.Slug = validate.Slug(c.Name)
	}
	if err := s.Cols.Update(c); err != nil {
		return domain.Collection{}, err
	}
	return s.Cols.Get(c.ID)
}

func (s *CatalogService) DeleteCollection(id string) error { return s.Cols.SetDeleted(id, true) }

func (s *CatalogService) AssignProducts(collectionID string, productIDs []string) (CollectionView, error) {
	if _, err := s.Cols.Get(collectionID); err != nil {
		return CollectionView{}, err
	}
	for _, pid := range productIDs {
		if _, err := s.Prods.Get(pid); err != nil {
			return CollectionView{}, err
		}
	}
	if err := s.Cols.AssignProducts(collectionID, productIDs); err != nil {
		return CollectionView{}, err
	}
	return s.GetCollection(collectionID)
}

func (s *CatalogService) RemoveProduct(collectionID, productID string) error {
	return s.Cols.RemoveProduct(collectionID, productID)
}
