package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/tidyhome-backend/internal/data/repos"
	types "github.com/yungbote/tidyhome-backend/internal/domain"
	domainagg "github.com/yungbote/tidyhome-backend/internal/domain/aggregates"
	"github.com/yungbote/tidyhome-backend/internal/platform/dbctx"
	"github.com/yungbote/tidyhome-backend/internal/platform/logger"
)

type CustomerService interface {
	List(dbc dbctx.Context) ([]*types.Customer, error)
	Get(dbc dbctx.Context, id uuid.UUID) (*types.Customer, error)
	Create(ctx context.Context, in CreateCustomerInput) (*types.Customer, error)
}

type CreateCustomerInput struct {
	Name    string
	Address string
}

type customerService struct {
	db        *gorm.DB
	log       *logger.Logger
	customers repos.CustomerRepo
}

func NewCustomerService(db *gorm.DB, baseLog *logger.Logger, customers repos.CustomerRepo) CustomerService {
	return &customerService{
		db:        db,
		log:       baseLog.With("service", "CustomerService"),
		customers: customers,
	}
}

func (s *customerService) List(dbc dbctx.Context) ([]*types.Customer, error) {
	return s.customers.List(dbc)
}

func (s *customerService) Get(dbc dbctx.Context, id uuid.UUID) (*types.Customer, error) {
	c, err := s.customers.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, notFound("Customer.Get", "customer")
	}
	return c, nil
}

func (s *customerService) Create(ctx context.Context, in CreateCustomerInput) (*types.Customer, error) {
	const op = "Customer.Create"
	name := strings.TrimSpace(in.Name)
	address := strings.TrimSpace(in.Address)
	var problems []string
	if name == "" {
		problems = append(problems, "name is required")
	}
	if address == "" {
		problems = append(problems, "address is required")
	}
	if len(problems) > 0 {
		return nil, invalid(op, strings.Join(problems, "; "))
	}

	row := &types.Customer{ID: uuid.New(), Name: name, Address: address}
	if _, err := s.customers.Create(dbctx.Context{Ctx: ctx}, []*types.Customer{row}); err != nil {
		s.log.Error("create customer failed", "error", err)
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	s.log.Info("customer created", "customer_id", row.ID)
	return row, nil
}
