package service

import (
	"context"
	"errors"

	"github.com/jmsleo/kreasiPOS/internal/dto"
	"github.com/jmsleo/kreasiPOS/internal/model"
	"github.com/jmsleo/kreasiPOS/internal/repository"

	"github.com/google/uuid"
)

var ErrStoreEmailTaken = errors.New("email is already used by another store")

// SettingsService manages the tenant's store profile. Printer and scanner
// hardware configuration is out of scope; tenancy itself rides on JWT claims.
type SettingsService interface {
	GetStoreSettings(ctx context.Context, tenantID uuid.UUID) (*dto.StoreSettingsResponse, error)
	UpdateStoreSettings(ctx context.Context, tenantID uuid.UUID, req dto.UpdateStoreSettingsRequest) (*dto.StoreSettingsResponse, error)
}

type settingsService struct {
	tenantRepo repository.TenantRepository
}

func NewSettingsService(tenantRepo repository.TenantRepository) SettingsService {
	return &settingsService{tenantRepo: tenantRepo}
}

func (s *settingsService) GetStoreSettings(ctx context.Context, tenantID uuid.UUID) (*dto.StoreSettingsResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, errors.New("store not found")
	}
	return storeSettingsToResponse(tenant), nil
}

func (s *settingsService) UpdateStoreSettings(ctx context.Context, tenantID uuid.UUID, req dto.UpdateStoreSettingsRequest) (*dto.StoreSettingsResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, errors.New("store not found")
	}

	// Tenant emails are globally unique — they anchor registration.
	if req.Email != tenant.Email {
		if other, err := s.tenantRepo.FindByEmail(ctx, req.Email); err == nil && other.ID != tenant.ID {
			return nil, ErrStoreEmailTaken
		}
	}

	tenant.Name = req.Name
	tenant.Email = req.Email
	tenant.Phone = optional(req.Phone)
	tenant.Address = optional(req.Address)
	tenant.City = optional(req.City)
	tenant.PostalCode = optional(req.PostalCode)

	if err := s.tenantRepo.Update(ctx, tenant); err != nil {
		return nil, err
	}
	return storeSettingsToResponse(tenant), nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func storeSettingsToResponse(t *model.Tenant) *dto.StoreSettingsResponse {
	resp := &dto.StoreSettingsResponse{
		Name:  t.Name,
		Email: t.Email,
	}
	if t.Phone != nil {
		resp.Phone = *t.Phone
	}
	if t.Address != nil {
		resp.Address = *t.Address
	}
	if t.City != nil {
		resp.City = *t.City
	}
	if t.PostalCode != nil {
		resp.PostalCode = *t.PostalCode
	}
	if t.Subdomain != nil {
		resp.Subdomain = *t.Subdomain
	}
	return resp
}
