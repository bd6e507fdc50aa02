package usecase

import (
	"context"
	"errors"
	"strings"

	"pizzeria/internal/domain/model"
	repo "pizzeria/internal/repository"
)

// ProductUsecase is the read-only menu: products, categories and toppings.
type ProductUsecase struct {
	productRepo repo.ProductRepository
	menuRepo    repo.MenuRepository
}

func NewProductUsecase(productRepo repo.ProductRepository, menuRepo repo.MenuRepository) *ProductUsecase {
	return &ProductUsecase{productRepo: productRepo, menuRepo: menuRepo}
}

type ProductFilterInput struct {
	CategoryID *int64
	Type       string
}

func (u *ProductUsecase) List(ctx context.Context, in ProductFilterInput) ([]model.Product, error) {
	items, err := u.productRepo.ListActive(ctx, repo.ProductFilter{
		CategoryID: in.CategoryID,
		Type:       strings.ToLower(strings.TrimSpace(in.Type)),
	})
	if err != nil {
		return nil, internal("list products", err)
	}
	return items, nil
}

func (u *ProductUsecase) Get(ctx context.Context, id int64) (model.Product, error) {
	p, err := u.productRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewError(KindNotFound, "product not found")
	}
	if err != nil {
		return model.Product{}, internal("load product", err)
	}
	if !p.IsActive {
		return model.Product{}, NewError(KindNotFound, "product not found")
	}
	return p, nil
}

func (u *ProductUsecase) Categories(ctx context.Context) ([]model.Category, error) {
	items, err := u.menuRepo.ListCategories(ctx)
	if err != nil {
		return nil, internal("list categories", err)
	}
	return items, nil
}

func (u *ProductUsecase) Toppings(ctx context.Context, typ string) ([]model.Topping, error) {
	items, err := u.menuRepo.ListToppings(ctx, strings.ToLower(strings.TrimSpace(typ)))
	if err != nil {
		return nil, internal("list toppings", err)
	}
	return items, nil
}

// Specialty lists the pizzas of the Specialty category with their default
// toppings. A menu without that category has no specialties.
func (u *ProductUsecase) Specialty(ctx context.Context) ([]model.Product, error) {
	cat, err := u.menuRepo.FindCategoryByName(ctx, model.CategorySpecialty)
	if errors.Is(err, repo.ErrNotFound) {
		return []model.Product{}, nil
	}
	if err != nil {
		return nil, internal("find specialty category", err)
	}
	return u.List(ctx, ProductFilterInput{CategoryID: &cat.ID, Type: model.ProductTypePizza})
}
