package document

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial/pkg/money"
)

// InstallmentsMatchTotal true si la suma de cuotas está a menos de 0.01 del neto.
// Sin cuotas devuelve true: "aún sin conflicto"; exigir cuotas es tarea del llamador.
func InstallmentsMatchTotal(installments []entity.Installment, netPayable decimal.Decimal) bool {
	if len(installments) == 0 {
		return true
	}
	return money.WithinTolerance(SumInstallments(installments), netPayable)
}

// PaymentAmountsMatchTotal concilia medios de pago; solo aplica a ventas al contado.
func PaymentAmountsMatchTotal(amounts map[entity.PaymentMethod]decimal.Decimal, netPayable decimal.Decimal, paymentType entity.PaymentType) bool {
	if paymentType != entity.PaymentTypeCash {
		return true
	}
	if len(amounts) == 0 {
		return true
	}
	return money.WithinTolerance(SumPayments(amounts), netPayable)
}

// AutoGenerateInstallment cuota única por el neto a pagar.
func AutoGenerateInstallment(netPayable decimal.Decimal, dueDays int) entity.Installment {
	return entity.Installment{DueDays: dueDays, Amount: netPayable}
}

// CanAllocate indica si newAmount cabe en el neto sin sobreasignar.
// excludeIndex >= 0 omite ese monto (edición en el lugar).
func CanAllocate(current []decimal.Decimal, excludeIndex int, newAmount, netPayable decimal.Decimal) bool {
	sum := decimal.Zero
	for i, a := range current {
		if i == excludeIndex {
			continue
		}
		sum = sum.Add(a)
	}
	return !money.Internal(sum.Add(newAmount)).GreaterThan(netPayable)
}

// SumInstallments suma de montos de cuotas.
func SumInstallments(installments []entity.Installment) decimal.Decimal {
	sum := decimal.Zero
	for _, in := range installments {
		sum = sum.Add(in.Amount)
	}
	return money.Internal(sum)
}

// SumPayments suma de montos por medio de pago.
func SumPayments(amounts map[entity.PaymentMethod]decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, a := range amounts {
		sum = sum.Add(a)
	}
	return money.Internal(sum)
}
