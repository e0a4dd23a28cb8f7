package barber

import (
	"context"
	"errors"
	"strings"

	"github.com/nekogravitycat/barbershop-booking-backend/internal/availability"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/shop"
)

// ShopAuthorizer answers whether a user manages a shop.
type ShopAuthorizer interface {
	GetByID(ctx context.Context, id string) (*shop.Shop, error)
	CanManage(ctx context.Context, shopID, userID string) (bool, error)
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Barber, error)
	GetByID(ctx context.Context, id string) (*Barber, error)
	List(ctx context.Context, filter Filter) ([]*Barber, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Barber, error)
	Delete(ctx context.Context, id string) error

	// CanManageShop reports whether userID may add or remove barbers of shopID.
	CanManageShop(ctx context.Context, shopID, userID string) (bool, error)
	// CanManage reports whether userID may edit the barber's calendar:
	// the barber's own account, the shop owner or a system admin.
	CanManage(ctx context.Context, barberID, userID string) (bool, error)

	availability.SettingsLookup
}

type service struct {
	repo  Repository
	shops ShopAuthorizer
}

func NewService(repo Repository, shops ShopAuthorizer) Service {
	return &service{repo: repo, shops: shops}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Barber, error) {
	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		return nil, ErrEmptyName
	}

	sh, err := s.shops.GetByID(ctx, req.ShopID)
	if err != nil {
		if errors.Is(err, shop.ErrNotFound) {
			return nil, ErrInvalidShop
		}
		return nil, err
	}
	if !sh.IsActive {
		return nil, ErrInvalidShop
	}

	b := &Barber{
		ShopID:      sh.ID,
		UserID:      normalizeUserID(req.UserID),
		DisplayName: name,
		Bio:         strings.TrimSpace(req.Bio),
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Barber, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Barber, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Barber, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		name := strings.TrimSpace(*req.DisplayName)
		if name == "" {
			return nil, ErrEmptyName
		}
		b.DisplayName = name
	}
	if req.Bio != nil {
		b.Bio = strings.TrimSpace(*req.Bio)
	}
	if req.UserID != nil {
		// An empty string unlinks the account.
		b.UserID = normalizeUserID(req.UserID)
	}
	if req.IsActive != nil {
		b.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) CanManageShop(ctx context.Context, shopID, userID string) (bool, error) {
	return s.shops.CanManage(ctx, shopID, userID)
}

func (s *service) CanManage(ctx context.Context, barberID, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}

	b, err := s.repo.GetByID(ctx, barberID)
	if err != nil {
		return false, err
	}
	if b.UserID != nil && *b.UserID == userID {
		return true, nil
	}
	return s.shops.CanManage(ctx, b.ShopID, userID)
}

func (s *service) SchedulingSettings(ctx context.Context, barberID string) (*availability.Settings, error) {
	return s.repo.SchedulingSettings(ctx, barberID)
}

func normalizeUserID(id *string) *string {
	if id == nil {
		return nil
	}
	v := strings.TrimSpace(*id)
	if v == "" {
		return nil
	}
	return &v
}
