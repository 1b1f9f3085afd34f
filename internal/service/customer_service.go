package service

import (
	"context"
	"errors"
	"time"

	"github.com/jmsleo/kreasiPOS/internal/dto"
	"github.com/jmsleo/kreasiPOS/internal/model"
	"github.com/jmsleo/kreasiPOS/internal/repository"

	"github.com/google/uuid"
)

var ErrCustomerNotFound = errors.New("customer not found")

type CustomerService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*dto.CustomerResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter dto.CustomerFilter) (*dto.PaginatedResponse, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

type customerService struct {
	repo repository.CustomerRepository
}

func NewCustomerService(repo repository.CustomerRepository) CustomerService {
	return &customerService{repo: repo}
}

func (s *customerService) Create(ctx context.Context, tenantID uuid.UUID, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	c := &model.Customer{
		TenantID: tenantID,
		Name:     req.Name,
	}
	applyCustomerContact(c, req.Email, req.Phone, req.Address)
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return customerToResponse(c, nil), nil
}

// Get returns the customer together with purchase history aggregates.
func (s *customerService) Get(ctx context.Context, tenantID, id uuid.UUID) (*dto.CustomerResponse, error) {
	c, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, ErrCustomerNotFound
	}
	stats, err := s.repo.Stats(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return customerToResponse(c, stats), nil
}

func (s *customerService) List(ctx context.Context, tenantID uuid.UUID, filter dto.CustomerFilter) (*dto.PaginatedResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	customers, total, err := s.repo.List(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		items = append(items, *customerToResponse(&customers[i], nil))
	}
	return paginate(items, total, filter.Page, filter.PageSize), nil
}

func (s *customerService) Update(ctx context.Context, tenantID, id uuid.UUID, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	c, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, ErrCustomerNotFound
	}
	c.Name = req.Name
	c.Email, c.Phone, c.Address = nil, nil, nil
	applyCustomerContact(c, req.Email, req.Phone, req.Address)
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return customerToResponse(c, nil), nil
}

func (s *customerService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, tenantID, id); err != nil {
		return ErrCustomerNotFound
	}
	return s.repo.Delete(ctx, tenantID, id)
}

func applyCustomerContact(c *model.Customer, email, phone, address string) {
	if email != "" {
		c.Email = &email
	}
	if phone != "" {
		c.Phone = &phone
	}
	if address != "" {
		c.Address = &address
	}
}

func customerToResponse(c *model.Customer, stats *repository.CustomerStats) *dto.CustomerResponse {
	resp := &dto.CustomerResponse{
		ID:            c.ID.String(),
		Name:          c.Name,
		LoyaltyPoints: c.LoyaltyPoints,
		CreatedAt:     c.CreatedAt.Format(time.RFC3339),
	}
	if c.Email != nil {
		resp.Email = *c.Email
	}
	if c.Phone != nil {
		resp.Phone = *c.Phone
	}
	if c.Address != nil {
		resp.Address = *c.Address
	}
	if stats != nil {
		resp.TotalSpent = stats.TotalSpent
		resp.SalesCount = stats.SalesCount
		if stats.LastSaleAt != nil {
			resp.LastSaleAt = stats.LastSaleAt.Format(time.RFC3339)
		}
	}
	return resp
}
