package shop

import (
	"context"
	"errors"
	"strings"

	"github.com/nekogravitycat/barbershop-booking-backend/internal/user"
)

// UserReader is the slice of the user service needed for permission checks.
type UserReader interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

// Service defines business logic for shops.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Shop, error)
	GetByID(ctx context.Context, id string) (*Shop, error)
	List(ctx context.Context, filter Filter) ([]*Shop, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Shop, error)
	Delete(ctx context.Context, id string) error
	// CanManage reports whether userID is the shop owner or a system admin.
	CanManage(ctx context.Context, shopID, userID string) (bool, error)
}

type service struct {
	repo  Repository
	users UserReader
}

func NewService(repo Repository, users UserReader) Service {
	return &service{repo: repo, users: users}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Shop, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if strings.TrimSpace(req.OwnerID) == "" {
		return nil, ErrOwnerRequired
	}
	if err := validateOverrides(req.BufferMinutes, req.SlotStepMinutes); err != nil {
		return nil, err
	}

	// The owner must be an existing account.
	if _, err := s.users.GetByID(ctx, req.OwnerID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrOwnerRequired
		}
		return nil, err
	}

	shop := &Shop{
		Name:            name,
		OwnerID:         req.OwnerID,
		BufferMinutes:   req.BufferMinutes,
		SlotStepMinutes: req.SlotStepMinutes,
		IsActive:        true,
	}
	if err := s.repo.Create(ctx, shop); err != nil {
		return nil, err
	}
	return shop, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Shop, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Shop, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Shop, error) {
	if err := validateOverrides(req.BufferMinutes, req.SlotStepMinutes); err != nil {
		return nil, err
	}

	shop, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		shop.Name = name
	}
	if req.OwnerID != nil {
		if strings.TrimSpace(*req.OwnerID) == "" {
			return nil, ErrOwnerRequired
		}
		shop.OwnerID = *req.OwnerID
	}
	if req.ResetOverrides {
		shop.BufferMinutes = nil
		shop.SlotStepMinutes = nil
	}
	if req.BufferMinutes != nil {
		shop.BufferMinutes = req.BufferMinutes
	}
	if req.SlotStepMinutes != nil {
		shop.SlotStepMinutes = req.SlotStepMinutes
	}
	if req.IsActive != nil {
		shop.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, shop); err != nil {
		return nil, err
	}
	return shop, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Deactivate(ctx, id)
}

func (s *service) CanManage(ctx context.Context, shopID, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if u.IsSystemAdmin {
		return true, nil
	}

	shop, err := s.repo.GetByID(ctx, shopID)
	if err != nil {
		return false, err
	}
	return shop.OwnerID == userID, nil
}
