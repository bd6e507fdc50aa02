package usecase

import (
	"context"
	"strings"

	"pizzeria/internal/domain/model"
	repo "pizzeria/internal/repository"
)

// StoreUsecase serves the public store directory and the maintenance
// commands around location linking.
type StoreUsecase struct {
	tx  repo.TransactionManager
	dir *StoreDirectory
}

func NewStoreUsecase(tx repo.TransactionManager, dir *StoreDirectory) *StoreUsecase {
	return &StoreUsecase{tx: tx, dir: dir}
}

type StoreOutput struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Address  *string `json:"address"`
	City     *string `json:"city"`
	State    *string `json:"state"`
	Pincode  *string `json:"pincode"`
	Phone    *string `json:"phone"`
	IsActive bool    `json:"is_active"`
}

type LocationOutput struct {
	ID          int64   `json:"id"`
	StoreID     *int64  `json:"store_id"`
	StoreName   string  `json:"store_name"`
	Address     *string `json:"address"`
	Area        *string `json:"area"`
	City        *string `json:"city"`
	State       *string `json:"state"`
	Pincode     *string `json:"pincode"`
	Phone       *string `json:"phone"`
	OpeningTime *string `json:"opening_time"`
	ClosingTime *string `json:"closing_time"`
	// unlinked locations count as active
	IsActive    bool    `json:"is_active"`
}

func (u *StoreUsecase) ListActiveStores(ctx context.Context) ([]StoreOutput, error) {
	var out []StoreOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		stores, err := r.Stores().ListActive(ctx)
		if err != nil {
			return internal("list stores", err)
		}
		out = make([]StoreOutput, 0, len(stores))
		for _, s := range stores {
			out = append(out, toStoreOutput(s))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (u *StoreUsecase) ListLocations(ctx context.Context) ([]LocationOutput, error) {
	return u.locations(ctx, func(r repo.TxRepos) ([]model.Location, error) {
		return r.Locations().ListAll(ctx)
	})
}

func (u *StoreUsecase) SearchLocations(ctx context.Context, q string) ([]LocationOutput, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, NewError(KindValidation, "q is required")
	}
	return u.locations(ctx, func(r repo.TxRepos) ([]model.Location, error) {
		return r.Locations().Search(ctx, q)
	})
}

// RelinkAllLocations is the CLI entry for StoreDirectory.RelinkAllLocations.
func (u *StoreUsecase) RelinkAllLocations(ctx context.Context) (int, error) {
	var n int
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		n, err = u.dir.RelinkAllLocations(ctx, r)
		return err
	})
	return n, err
}

// ImportLocations upserts directory rows and relinks them in one transaction.
func (u *StoreUsecase) ImportLocations(ctx context.Context, locs []model.Location) (imported int, linked int, err error) {
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		for i := range locs {
			if strings.TrimSpace(locs[i].StoreName) == "" {
				continue
			}
			if err := r.Locations().Upsert(ctx, &locs[i]); err != nil {
				return err
			}
			imported++
		}
		var err error
		linked, err = u.dir.RelinkAllLocations(ctx, r)
		return err
	})
	if err != nil {
		return 0, 0, err
	}
	return imported, linked, nil
}

func (u *StoreUsecase) locations(ctx context.Context, load func(r repo.TxRepos) ([]model.Location, error)) ([]LocationOutput, error) {
	var out []LocationOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		locs, err := load(r)
		if err != nil {
			return internal("list locations", err)
		}
		out = make([]LocationOutput, 0, len(locs))
		for _, l := range locs {
			out = append(out, toLocationOutput(l))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func toStoreOutput(s model.Store) StoreOutput {
	return StoreOutput{
		ID:       s.ID,
		Name:     s.Name,
		Address:  s.Address,
		City:     s.City,
		State:    s.State,
		Pincode:  s.Pincode,
		Phone:    s.Phone,
		IsActive: s.IsActive,
	}
}

func toLocationOutput(l model.Location) LocationOutput {
	active := true
	if l.Store != nil {
		active = l.Store.IsActive
	}
	return LocationOutput{
		ID:          l.ID,
		StoreID:     l.StoreID,
		StoreName:   l.StoreName,
		Address:     l.Address,
		Area:        l.Area,
		City:        l.City,
		State:       l.State,
		Pincode:     l.Pincode,
		Phone:       l.Phone,
		OpeningTime: l.OpeningTime,
		ClosingTime: l.ClosingTime,
		IsActive:    active,
	}
}
