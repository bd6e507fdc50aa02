package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pizzeria/internal/domain/model"
	"pizzeria/internal/domain/storematch"
	"pizzeria/internal/logger"
	repo "pizzeria/internal/repository"
)

// StoreDirectory resolves free-text store names to Store rows. Its methods
// take the caller's TxRepos so they join the surrounding transaction.
type StoreDirectory struct{}

func NewStoreDirectory() *StoreDirectory {
	return &StoreDirectory{}
}

// LinkLocationsToStore points every Location whose name matches store at it.
// Locations that do not match are left alone.
func (d *StoreDirectory) LinkLocationsToStore(ctx context.Context, r repo.TxRepos, store model.Store) (int, error) {
	locs, err := r.Locations().ListAll(ctx)
	if err != nil {
		return 0, err
	}

	linked := 0
	for _, loc := range locs {
		if !storematch.Matches(loc.StoreName, store.Name) {
			continue
		}
		linked++
		if loc.StoreID != nil && *loc.StoreID == store.ID {
			continue
		}
		if err := r.Locations().SetStoreID(ctx, loc.ID, store.ID); err != nil {
			return 0, err
		}
	}
	return linked, nil
}

// ResolveOrCreateStore returns the store candidateName refers to, creating
// it (and linking locations) when neither the store list nor the location
// directory knows it.
func (d *StoreDirectory) ResolveOrCreateStore(ctx context.Context, r repo.TxRepos, candidateName string, fallback model.StoreAddress) (model.Store, error) {
	name := strings.TrimSpace(candidateName)
	if name == "" {
		return model.Store{}, NewError(KindInvalidStoreReference, "store name is required")
	}

	stores, err := r.Stores().ListAll(ctx)
	if err != nil {
		return model.Store{}, err
	}
	if s, ok := storematch.Match(name, stores); ok {
		return s, nil
	}

	loc, err := r.Locations().FindByExactStoreName(ctx, name)
	switch {
	case err == nil:
		if loc.StoreID != nil {
			s, err := r.Stores().FindByID(ctx, *loc.StoreID)
			if err == nil {
				return s, nil
			}
			if !errors.Is(err, repo.ErrNotFound) {
				return model.Store{}, err
			}
		}
		fallback = mergeAddress(fallback, loc.AddressFields())
	case errors.Is(err, repo.ErrNotFound):
	default:
		return model.Store{}, err
	}

	return d.createAndLink(ctx, r, name, fallback)
}

// RelinkAllLocations matches every named Location against all stores and
// sets store_id on a hit. Returns how many locations point at a store.
func (d *StoreDirectory) RelinkAllLocations(ctx context.Context, r repo.TxRepos) (int, error) {
	stores, err := r.Stores().ListAll(ctx)
	if err != nil {
		return 0, err
	}
	locs, err := r.Locations().ListAll(ctx)
	if err != nil {
		return 0, err
	}

	linked := 0
	for _, loc := range locs {
		s, ok := storematch.Match(loc.StoreName, stores)
		if !ok {
			continue
		}
		linked++
		if loc.StoreID != nil && *loc.StoreID == s.ID {
			continue
		}
		if err := r.Locations().SetStoreID(ctx, loc.ID, s.ID); err != nil {
			return 0, err
		}
	}
	return linked, nil
}

// EnsureStoreExists repairs an admin whose store row is gone. The new store
// takes its name and address from the first Location still pointing at the
// dead id, else it becomes "Store <id>" with the admin's phone. Locations left
// on the dead id move to the new store.
func (d *StoreDirectory) EnsureStoreExists(ctx context.Context, r repo.TxRepos, admin *model.Admin) (model.Store, error) {
	if admin.StoreID == nil {
		return model.Store{}, NewError(KindForbidden, "admin is not assigned to a store")
	}

	s, err := r.Stores().FindByID(ctx, *admin.StoreID)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return model.Store{}, err
	}

	deadID := *admin.StoreID
	orphans, err := r.Locations().FindByStoreID(ctx, deadID)
	if err != nil {
		return model.Store{}, err
	}

	name := fmt.Sprintf("Store %d", deadID)
	addr := model.StoreAddress{Phone: admin.Phone}
	if len(orphans) > 0 && strings.TrimSpace(orphans[0].StoreName) != "" {
		name = strings.TrimSpace(orphans[0].StoreName)
		addr = orphans[0].AddressFields()
	}

	s, err = d.createAndLink(ctx, r, name, addr)
	if err != nil {
		return model.Store{}, err
	}
	for _, loc := range orphans {
		if err := r.Locations().SetStoreID(ctx, loc.ID, s.ID); err != nil {
			return model.Store{}, err
		}
	}

	admin.StoreID = &s.ID
	if err := r.Admins().Update(ctx, admin); err != nil {
		return model.Store{}, err
	}
	logger.WithCtx(ctx).Warn("recreated missing store for admin", "admin_id", admin.ID, "store_id", s.ID)
	return s, nil
}

func (d *StoreDirectory) createAndLink(ctx context.Context, r repo.TxRepos, name string, addr model.StoreAddress) (model.Store, error) {
	s := model.Store{
		Name:     name,
		Address:  addr.Address,
		City:     addr.City,
		State:    addr.State,
		Pincode:  addr.Pincode,
		Phone:    addr.Phone,
		IsActive: true,
	}
	if err := r.Stores().Create(ctx, &s); err != nil {
		return model.Store{}, err
	}
	if _, err := d.LinkLocationsToStore(ctx, r, s); err != nil {
		return model.Store{}, err
	}
	return s, nil
}

// mergeAddress keeps a's fields and fills the gaps from b.
func mergeAddress(a, b model.StoreAddress) model.StoreAddress {
	pick := func(x, y *string) *string {
		if x != nil && strings.TrimSpace(*x) != "" {
			return x
		}
		return y
	}
	return model.StoreAddress{
		Address: pick(a.Address, b.Address),
		City:    pick(a.City, b.City),
		State:   pick(a.State, b.State),
		Pincode: pick(a.Pincode, b.Pincode),
		Phone:   pick(a.Phone, b.Phone),
	}
}
