package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/edi-pro/internal/domain"
	"github.com/tu-usuario/edi-pro/internal/domain/entity"
	"github.com/tu-usuario/edi-pro/internal/domain/repository"
)

var _ repository.PaymentTermRepository = (*PaymentTermRepo)(nil)

// PaymentTermRepo lectura del catálogo de términos de pago.
type PaymentTermRepo struct {
	q Querier
}

// NewPaymentTermRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentTermRepository(q Querier) *PaymentTermRepo {
	return &PaymentTermRepo{q: q}
}

const paymentTermColumns = `
	id, name, description, terms_type, basis_date_code,
	discount_percentage, discount_date, discount_due_days, net_due_date, net_due_days`

func (r *PaymentTermRepo) loadLines(ctx context.Context, term *entity.PaymentTerm) error {
	rows, err := r.q.Query(ctx, `
		SELECT id, term_id, value, days, percent
		FROM payment_term_lines WHERE term_id = $1 ORDER BY created_at`, term.ID)
	if err != nil {
		return fmt.Errorf("list payment term lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.PaymentTermLine
		if err := rows.Scan(&l.ID, &l.TermID, &l.Value, &l.Days, &l.Percent); err != nil {
			return fmt.Errorf("scan payment term line: %w", err)
		}
		term.Lines = append(term.Lines, l)
	}
	return rows.Err()
}

// GetByDescription busca por la descripción EDI exacta previamente asociada.
func (r *PaymentTermRepo) GetByDescription(ctx context.Context, description string) (*entity.PaymentTerm, error) {
	query := `SELECT ` + paymentTermColumns + ` FROM payment_terms WHERE description = $1 LIMIT 1`
	var t entity.PaymentTerm
	err := r.q.QueryRow(ctx, query, description).Scan(
		&t.ID, &t.Name, &t.Description, &t.TermsType, &t.BasisDateCode,
		&t.DiscountPercentage, &t.DiscountDate, &t.DiscountDueDays, &t.NetDueDate, &t.NetDueDays,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment term by description: %w", err)
	}
	if err := r.loadLines(ctx, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// List devuelve todos los términos con sus líneas, en orden estable de creación.
// Sobre este orden opera la heurística de "gana la primera coincidencia".
func (r *PaymentTermRepo) List(ctx context.Context) ([]*entity.PaymentTerm, error) {
	query := `SELECT ` + paymentTermColumns + ` FROM payment_terms ORDER BY created_at`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list payment terms: %w", err)
	}
	defer rows.Close()
	var list []*entity.PaymentTerm
	for rows.Next() {
		var t entity.PaymentTerm
		if err := rows.Scan(
			&t.ID, &t.Name, &t.Description, &t.TermsType, &t.BasisDateCode,
			&t.DiscountPercentage, &t.DiscountDate, &t.DiscountDueDays, &t.NetDueDate, &t.NetDueDays,
		); err != nil {
			return nil, fmt.Errorf("scan payment term: %w", err)
		}
		list = append(list, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, t := range list {
		if err := r.loadLines(ctx, t); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// ── Cargos y descuentos ──────────────────────────────────────────────────────

var _ repository.ChargeAllowanceRepository = (*ChargeAllowanceRepo)(nil)

// ChargeAllowanceRepo catálogo append-only de cargos y descuentos.
type ChargeAllowanceRepo struct {
	q Querier
}

// NewChargeAllowanceRepository construye el adaptador.
func NewChargeAllowanceRepository(q Querier) *ChargeAllowanceRepo {
	return &ChargeAllowanceRepo{q: q}
}

// Find busca un registro que coincida campo a campo con el candidato.
func (r *ChargeAllowanceRepo) Find(ctx context.Context, c *entity.ChargeAllowance) (*entity.ChargeAllowance, error) {
	query := `
		SELECT id, indicator, code, amount, percent_qualifier, percent, handling_code, created_at
		FROM charge_allowances
		WHERE indicator = $1 AND code = $2 AND amount = $3
		  AND percent_qualifier = $4 AND percent = $5 AND handling_code = $6
		LIMIT 1`
	var found entity.ChargeAllowance
	err := r.q.QueryRow(ctx, query,
		c.Indicator, c.Code, c.Amount, c.PercentQualifier, c.Percent, c.HandlingCode,
	).Scan(
		&found.ID, &found.Indicator, &found.Code, &found.Amount,
		&found.PercentQualifier, &found.Percent, &found.HandlingCode, &found.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find charge allowance: %w", err)
	}
	return &found, nil
}

// Create inserta un registro nuevo en el catálogo.
func (r *ChargeAllowanceRepo) Create(ctx context.Context, c *entity.ChargeAllowance) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	c.CreatedAt = time.Now()

	query := `
		INSERT INTO charge_allowances (id, indicator, code, amount, percent_qualifier, percent, handling_code, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Indicator, c.Code, c.Amount, c.PercentQualifier, c.Percent, c.HandlingCode, c.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert charge allowance: %w", err)
	}
	return nil
}

// ListByIDs devuelve los registros referenciados por una orden.
func (r *ChargeAllowanceRepo) ListByIDs(ctx context.Context, ids []string) ([]*entity.ChargeAllowance, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `
		SELECT id, indicator, code, amount, percent_qualifier, percent, handling_code, created_at
		FROM charge_allowances WHERE id = ANY($1) ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("list charge allowances: %w", err)
	}
	defer rows.Close()
	var list []*entity.ChargeAllowance
	for rows.Next() {
		var c entity.ChargeAllowance
		if err := rows.Scan(
			&c.ID, &c.Indicator, &c.Code, &c.Amount,
			&c.PercentQualifier, &c.Percent, &c.HandlingCode, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan charge allowance: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
