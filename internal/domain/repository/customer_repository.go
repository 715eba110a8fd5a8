package repository

import (
	"context"

	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
)

// CustomerRepository puerto de lectura de clientes.
type CustomerRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Customer, error)
}
