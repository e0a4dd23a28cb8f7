package catalog

import (
	"context"
	"strings"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Offering, error)
	GetByID(ctx context.Context, id string) (*Offering, error)
	List(ctx context.Context, filter Filter) ([]*Offering, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Offering, error)
	Delete(ctx context.Context, id string) error
	// OfferingDuration returns the duration of an active offering. A non-empty
	// shopID also requires the offering to be sold by that shop.
	OfferingDuration(ctx context.Context, id, shopID string) (int, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Offering, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if err := validateDuration(req.DurationMinutes); err != nil {
		return nil, err
	}
	if req.PriceCents < 0 {
		return nil, ErrInvalidPrice
	}

	o := &Offering{
		ShopID:          req.ShopID,
		Name:            name,
		Description:     strings.TrimSpace(req.Description),
		DurationMinutes: req.DurationMinutes,
		PriceCents:      req.PriceCents,
		IsActive:        true,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Offering, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Offering, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Offering, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrEmptyName
		}
		o.Name = name
	}
	if req.Description != nil {
		o.Description = strings.TrimSpace(*req.Description)
	}
	if req.DurationMinutes != nil {
		if err := validateDuration(*req.DurationMinutes); err != nil {
			return nil, err
		}
		o.DurationMinutes = *req.DurationMinutes
	}
	if req.PriceCents != nil {
		if *req.PriceCents < 0 {
			return nil, ErrInvalidPrice
		}
		o.PriceCents = *req.PriceCents
	}
	if req.IsActive != nil {
		o.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) OfferingDuration(ctx context.Context, id, shopID string) (int, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if !o.IsActive {
		return 0, ErrInactive
	}
	if shopID != "" && o.ShopID != shopID {
		return 0, ErrWrongShop
	}
	return o.DurationMinutes, nil
}
