package entity

import "time"

// Customer cliente de la empresa (referencia de solo lectura).
type Customer struct {
	ID            string
	CompanyID     string
	Name          string
	TaxID         string // RUC o DNI
	PriceCategory string
	Email         string
	Phone         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
