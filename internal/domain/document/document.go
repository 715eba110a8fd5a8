package document

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-comercial/internal/domain"
	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial/internal/domain/pricing"
	"github.com/jhoicas/gestion-comercial/pkg/money"
)

// Document documento comercial en composición. Cada formulario abierto es dueño
// exclusivo de su instancia; no se comparte entre sesiones.
// Los totales se recalculan de forma síncrona tras cada mutación.
type Document struct {
	profile      Profile
	policy       Policy
	header       entity.Header
	lines        *LineCollection
	paymentType  entity.PaymentType
	retention    bool
	installments []entity.Installment
	payments     map[entity.PaymentMethod]decimal.Decimal
	totals       pricing.Totals
}

// New crea un documento vacío del tipo indicado.
func New(t entity.DocumentType, policy Policy) (*Document, error) {
	profile, ok := ProfileFor(t)
	if !ok {
		return nil, fmt.Errorf("%w: tipo de documento %q", domain.ErrInvalidInput, t)
	}
	d := &Document{
		profile:  profile,
		policy:   policy,
		payments: map[entity.PaymentMethod]decimal.Decimal{},
	}
	if profile.Payments {
		d.paymentType = entity.PaymentTypeCash
	}
	d.lines = NewLineCollection(policy.TaxRate, profile.Priced, d.recompute)
	d.recompute()
	return d, nil
}

// Type tipo del documento.
func (d *Document) Type() entity.DocumentType { return d.profile.Type }

// Profile perfil del tipo de documento.
func (d *Document) Profile() Profile { return d.profile }

// Policy constantes de negocio con las que se creó.
func (d *Document) Policy() Policy { return d.policy }

// Header cabecera actual.
func (d *Document) Header() entity.Header { return d.header }

// Lines detalles en orden de inserción.
func (d *Document) Lines() []entity.LineItem { return d.lines.Items() }

// Totals totales derivados de los detalles actuales.
func (d *Document) Totals() pricing.Totals { return d.totals }

// PaymentType condición de pago (vacía si el tipo no la admite).
func (d *Document) PaymentType() entity.PaymentType { return d.paymentType }

// Retention indica si se marcó la retención.
func (d *Document) Retention() bool { return d.retention }

// Installments copia de las cuotas.
func (d *Document) Installments() []entity.Installment {
	out := make([]entity.Installment, len(d.installments))
	copy(out, d.installments)
	return out
}

// PaymentAmounts copia de los montos por medio de pago.
func (d *Document) PaymentAmounts() map[entity.PaymentMethod]decimal.Decimal {
	out := make(map[entity.PaymentMethod]decimal.Decimal, len(d.payments))
	for k, v := range d.payments {
		out[k] = v
	}
	return out
}

// SetHeader reemplaza los campos editables de cabecera. La referencia al
// documento origen solo cambia mediante Import.
func (d *Document) SetHeader(h entity.Header) {
	h.SourceType = d.header.SourceType
	h.SourceID = d.header.SourceID
	d.header = h
}

// AddLine agrega un detalle.
func (d *Document) AddLine(in LineInput) error { return d.lines.Add(in) }

// UpdateLine reemplaza el detalle i.
func (d *Document) UpdateLine(i int, in LineInput) error { return d.lines.UpdateAt(i, in) }

// RemoveLine elimina el detalle i.
func (d *Document) RemoveLine(i int) error { return d.lines.RemoveAt(i) }

// ReplaceLines reemplaza todos los detalles.
func (d *Document) ReplaceLines(in []LineInput) error { return d.lines.ReplaceAll(in) }

// Import reemplaza cabecera y detalles a partir de un documento origen.
// Es atómico: si algún detalle es inválido no cambia nada.
func (d *Document) Import(h entity.Header, in []LineInput) error {
	if !d.profile.AllowsSource(h.SourceType) {
		return fmt.Errorf("%w: %s no puede importarse en %s", domain.ErrInvalidSource, h.SourceType, d.profile.Type)
	}
	if h.SourceID == "" {
		return fmt.Errorf("%w: documento origen requerido", domain.ErrInvalidInput)
	}
	items, err := d.lines.buildAll(in)
	if err != nil {
		return err
	}
	d.header = h
	d.lines.items = items
	d.lines.changed()
	return nil
}

// SetPaymentType cambia la condición de pago.
// A crédito: descarta los medios de pago y genera una cuota por el neto a DefaultCreditDays.
// Al contado: descarta las cuotas.
func (d *Document) SetPaymentType(pt entity.PaymentType) error {
	if !d.profile.Payments {
		return domain.ErrPaymentsNotAllowed
	}
	if pt != entity.PaymentTypeCash && pt != entity.PaymentTypeCredit {
		return fmt.Errorf("%w: condición de pago %q", domain.ErrInvalidInput, pt)
	}
	if pt == d.paymentType {
		return nil
	}
	d.paymentType = pt
	d.recompute()
	switch pt {
	case entity.PaymentTypeCredit:
		d.payments = map[entity.PaymentMethod]decimal.Decimal{}
		d.installments = []entity.Installment{AutoGenerateInstallment(d.totals.NetPayable, d.policy.DefaultCreditDays)}
	case entity.PaymentTypeCash:
		d.installments = nil
	}
	return nil
}

// SetRetention marca o desmarca la retención. Al marcarla en un documento al
// crédito se regenera una cuota única a 0 días por el nuevo neto.
func (d *Document) SetRetention(on bool) error {
	if !d.profile.Retention {
		return domain.ErrRetentionNotAllowed
	}
	if on == d.retention {
		return nil
	}
	d.retention = on
	d.recompute()
	if on && d.paymentType == entity.PaymentTypeCredit {
		d.installments = []entity.Installment{AutoGenerateInstallment(d.totals.NetPayable, 0)}
	}
	return nil
}

// AddInstallment agrega una cuota manual si no sobreasigna el neto a pagar.
func (d *Document) AddInstallment(in entity.Installment) error {
	if err := d.checkInstallment(in); err != nil {
		return err
	}
	if !CanAllocate(installmentAmounts(d.installments), -1, in.Amount, d.totals.NetPayable) {
		return d.overAllocation(SumInstallments(d.installments).Add(in.Amount))
	}
	d.installments = append(d.installments, in)
	return nil
}

// UpdateInstallment reemplaza la cuota i; su monto anterior no cuenta para el tope.
func (d *Document) UpdateInstallment(i int, in entity.Installment) error {
	if i < 0 || i >= len(d.installments) {
		return domain.ErrInstallmentIndex
	}
	if err := d.checkInstallment(in); err != nil {
		return err
	}
	amounts := installmentAmounts(d.installments)
	if !CanAllocate(amounts, i, in.Amount, d.totals.NetPayable) {
		return d.overAllocation(SumInstallments(d.installments).Sub(amounts[i]).Add(in.Amount))
	}
	d.installments[i] = in
	return nil
}

// RemoveInstallment elimina la cuota i.
func (d *Document) RemoveInstallment(i int) error {
	if i < 0 || i >= len(d.installments) {
		return domain.ErrInstallmentIndex
	}
	d.installments = append(d.installments[:i], d.installments[i+1:]...)
	return nil
}

// SetPaymentAmount fija el monto de un medio de pago (cero lo elimina).
func (d *Document) SetPaymentAmount(m entity.PaymentMethod, amount decimal.Decimal) error {
	if err := d.checkPayment(m, amount); err != nil {
		return err
	}
	others := decimal.Zero
	for k, v := range d.payments {
		if k != m {
			others = others.Add(v)
		}
	}
	if money.Internal(others.Add(amount)).GreaterThan(d.totals.NetPayable) {
		return d.overAllocation(others.Add(amount))
	}
	if amount.IsZero() {
		delete(d.payments, m)
		return nil
	}
	d.payments[m] = amount
	return nil
}

// SetPaymentAmounts reemplaza todos los montos por medio de pago.
func (d *Document) SetPaymentAmounts(amounts map[entity.PaymentMethod]decimal.Decimal) error {
	next := make(map[entity.PaymentMethod]decimal.Decimal, len(amounts))
	for m, a := range amounts {
		if err := d.checkPayment(m, a); err != nil {
			return err
		}
		if !a.IsZero() {
			next[m] = a
		}
	}
	if sum := SumPayments(next); sum.GreaterThan(d.totals.NetPayable) {
		return d.overAllocation(sum)
	}
	d.payments = next
	return nil
}

// Issues problemas que bloquean el envío, en orden de aparición.
func (d *Document) Issues() []error {
	var errs []error
	errs = append(errs, d.headerIssues()...)

	if d.lines.Len() == 0 {
		errs = append(errs, domain.ErrEmptyDocument)
	}
	for _, i := range d.lines.Pending() {
		errs = append(errs, fmt.Errorf("%w: detalle %d", domain.ErrIncompleteLine, i+1))
	}

	if !d.profile.Payments {
		return errs
	}
	net := d.totals.NetPayable
	switch d.paymentType {
	case entity.PaymentTypeCredit:
		if len(d.installments) == 0 {
			errs = append(errs, domain.ErrInstallmentsRequired)
		} else if !InstallmentsMatchTotal(d.installments, net) {
			errs = append(errs, mismatch("cuotas", net, SumInstallments(d.installments)))
		}
	case entity.PaymentTypeCash:
		if !PaymentAmountsMatchTotal(d.payments, net, d.paymentType) {
			errs = append(errs, mismatch("medios de pago", net, SumPayments(d.payments)))
		}
	default:
		errs = append(errs, fmt.Errorf("%w: condición de pago requerida", domain.ErrInvalidInput))
	}
	return errs
}

// Validate ejecuta todas las validaciones de envío; nil si el documento puede enviarse.
func (d *Document) Validate() error {
	return errors.Join(d.Issues()...)
}

func (d *Document) headerIssues() []error {
	var errs []error
	p, h := d.profile, d.header
	if p.RequiresCustomer && h.CustomerID == "" {
		errs = append(errs, fmt.Errorf("%w: cliente", domain.ErrMissingReference))
	}
	if p.RequiresSupplier && h.SupplierID == "" {
		errs = append(errs, fmt.Errorf("%w: proveedor", domain.ErrMissingReference))
	}
	if p.RequiresWarehouse && h.WarehouseID == "" {
		errs = append(errs, fmt.Errorf("%w: almacén", domain.ErrMissingReference))
	}
	if p.RequiresCarrier && h.CarrierID == "" {
		errs = append(errs, fmt.Errorf("%w: transportista", domain.ErrMissingReference))
	}
	return errs
}

func (d *Document) checkInstallment(in entity.Installment) error {
	if !d.profile.Payments {
		return domain.ErrPaymentsNotAllowed
	}
	if d.paymentType != entity.PaymentTypeCredit {
		return fmt.Errorf("%w: las cuotas solo aplican al crédito", domain.ErrWrongPaymentType)
	}
	if in.DueDays < 0 || !in.Amount.IsPositive() {
		return fmt.Errorf("%w: cuota con días o monto inválido", domain.ErrInvalidInput)
	}
	return nil
}

func (d *Document) checkPayment(m entity.PaymentMethod, amount decimal.Decimal) error {
	if !d.profile.Payments {
		return domain.ErrPaymentsNotAllowed
	}
	if d.paymentType != entity.PaymentTypeCash {
		return fmt.Errorf("%w: los medios de pago solo aplican al contado", domain.ErrWrongPaymentType)
	}
	if !m.Valid() {
		return fmt.Errorf("%w: medio de pago %q", domain.ErrInvalidInput, m)
	}
	if amount.IsNegative() {
		return fmt.Errorf("%w: monto negativo", domain.ErrInvalidInput)
	}
	return nil
}

func (d *Document) overAllocation(attempted decimal.Decimal) error {
	return fmt.Errorf("%w: %s supera %s", domain.ErrOverAllocation,
		money.Display(attempted), money.Display(d.totals.NetPayable))
}

// retentionApplies decide si la retención entra al cálculo según la política.
func (d *Document) retentionApplies() bool {
	if !d.retention {
		return false
	}
	if d.policy.RetentionCreditOnly {
		return d.paymentType == entity.PaymentTypeCredit
	}
	return true
}

func (d *Document) recompute() {
	d.totals = pricing.ComputeTotals(d.lines.Items(), d.retentionApplies(), d.policy.RetentionRate)
}

func installmentAmounts(in []entity.Installment) []decimal.Decimal {
	out := make([]decimal.Decimal, len(in))
	for i, it := range in {
		out[i] = it.Amount
	}
	return out
}

func mismatch(kind string, expected, actual decimal.Decimal) error {
	return &domain.MismatchError{
		Kind:     kind,
		Expected: money.Display(expected),
		Actual:   money.Display(actual),
	}
}
