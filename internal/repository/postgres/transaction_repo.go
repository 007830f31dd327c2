package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dafibh/spendwise/spendwise-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transactionSelect = `
	SELECT t.id, t.user_id, t.amount, t.type, t.category_id, t.payment_method, t.transaction_at,
	       t.note, t.receipt_path, t.created_at, t.updated_at,
	       c.id, c.user_id, c.name, c.color, c.is_active, c.created_at
	FROM transactions t
	JOIN categories c ON c.id = t.category_id`

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create creates a new transaction
func (r *TransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	var id uuid.UUID
	err = r.pool.QueryRow(ctx, `
		INSERT INTO transactions (user_id, amount, type, category_id, payment_method, transaction_at, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		transaction.UserID,
		amount,
		string(transaction.Type),
		transaction.CategoryID,
		string(transaction.PaymentMethod),
		transaction.TransactionAt,
		stringPtrToPgText(transaction.Note),
	).Scan(&id)
	if err != nil {
		if isPgError(err, foreignKeyViolation) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}

	return r.GetByID(transaction.UserID, id)
}

// GetByID retrieves a live transaction owned by the user
func (r *TransactionRepository) GetByID(userID, id uuid.UUID) (*domain.Transaction, error) {
	row := r.pool.QueryRow(context.Background(),
		transactionSelect+` WHERE t.id = $1 AND t.user_id = $2 AND t.deleted_at IS NULL`, id, userID)

	tx, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return tx, nil
}

// GetByUser lists the user's transactions with optional filters and pagination
func (r *TransactionRepository) GetByUser(userID uuid.UUID, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	ctx := context.Background()

	// Set default pagination values
	page := int32(1)
	pageSize := int32(domain.DefaultPageSize)
	oldestFirst := false

	conditions := []string{"t.user_id = $1", "t.deleted_at IS NULL"}
	args := []interface{}{userID}

	if filters != nil {
		if filters.Page > 0 {
			page = filters.Page
		}
		if filters.PageSize > 0 {
			pageSize = filters.PageSize
			if pageSize > domain.MaxPageSize {
				pageSize = domain.MaxPageSize
			}
		}
		oldestFirst = filters.OldestFirst

		if filters.StartDate != nil {
			args = append(args, *filters.StartDate)
			conditions = append(conditions, fmt.Sprintf("t.transaction_at >= $%d", len(args)))
		}
		if filters.EndDate != nil {
			args = append(args, *filters.EndDate)
			conditions = append(conditions, fmt.Sprintf("t.transaction_at <= $%d", len(args)))
		}
		if filters.Type != nil {
			args = append(args, string(*filters.Type))
			conditions = append(conditions, fmt.Sprintf("t.type = $%d", len(args)))
		}
	}

	where := " WHERE " + strings.Join(conditions, " AND ")

	var totalItems int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions t`+where, args...).Scan(&totalItems); err != nil {
		return nil, err
	}

	order := " ORDER BY t.transaction_at DESC, t.created_at DESC"
	if oldestFirst {
		order = " ORDER BY t.transaction_at ASC, t.created_at ASC"
	}
	offset := (page - 1) * pageSize
	pageArgs := append(append([]interface{}{}, args...), pageSize, offset)
	limit := fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)

	result, err := r.queryTransactions(ctx, transactionSelect+where+order+limit, pageArgs...)
	if err != nil {
		return nil, err
	}

	// Calculate total pages
	totalPages := int32(totalItems / int64(pageSize))
	if totalItems%int64(pageSize) > 0 {
		totalPages++
	}

	return &domain.PaginatedTransactions{
		Data:       result,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}, nil
}

// GetInRange returns live transactions with start <= transaction_at <= end, oldest first
func (r *TransactionRepository) GetInRange(userID uuid.UUID, start, end time.Time, txType *domain.TransactionType) ([]*domain.Transaction, error) {
	sql := transactionSelect + `
		WHERE t.user_id = $1 AND t.deleted_at IS NULL
		  AND t.transaction_at BETWEEN $2 AND $3`
	args := []interface{}{userID, start, end}
	if txType != nil {
		sql += ` AND t.type = $4`
		args = append(args, string(*txType))
	}
	sql += ` ORDER BY t.transaction_at, t.created_at`

	return r.queryTransactions(context.Background(), sql, args...)
}

// Update applies a partial update to a live transaction
func (r *TransactionRepository) Update(userID, id uuid.UUID, update domain.TransactionUpdate) (*domain.Transaction, error) {
	var amount pgtype.Numeric
	if update.Amount != nil {
		n, err := decimalToPgNumeric(*update.Amount)
		if err != nil {
			return nil, fmt.Errorf("invalid amount: %w", err)
		}
		amount = n
	}

	var txType, paymentMethod pgtype.Text
	if update.Type != nil {
		txType = pgtype.Text{String: string(*update.Type), Valid: true}
	}
	if update.PaymentMethod != nil {
		paymentMethod = pgtype.Text{String: string(*update.PaymentMethod), Valid: true}
	}

	tag, err := r.pool.Exec(context.Background(), `
		UPDATE transactions SET
			amount         = COALESCE($3, amount),
			type           = COALESCE($4, type),
			category_id    = COALESCE($5, category_id),
			payment_method = COALESCE($6, payment_method),
			transaction_at = COALESCE($7, transaction_at),
			note           = CASE WHEN $8 THEN NULL ELSE COALESCE($9, note) END,
			updated_at     = NOW()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`,
		id, userID, amount, txType, update.CategoryID, paymentMethod, update.TransactionAt,
		update.ClearNote, stringPtrToPgText(update.Note),
	)
	if err != nil {
		if isPgError(err, foreignKeyViolation) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrTransactionNotFound
	}

	return r.GetByID(userID, id)
}

// SoftDelete marks a transaction as deleted
func (r *TransactionRepository) SoftDelete(userID, id uuid.UUID) error {
	tag, err := r.pool.Exec(context.Background(), `
		UPDATE transactions SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// SetReceiptPath stores or clears the object path of the transaction's receipt
func (r *TransactionRepository) SetReceiptPath(userID, id uuid.UUID, path *string) error {
	tag, err := r.pool.Exec(context.Background(), `
		UPDATE transactions SET receipt_path = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`, id, userID, stringPtrToPgText(path))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

func (r *TransactionRepository) queryTransactions(ctx context.Context, sql string, args ...interface{}) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*domain.Transaction, 0)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, tx)
	}
	return result, rows.Err()
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		t             domain.Transaction
		c             domain.Category
		amount        pgtype.Numeric
		txType        string
		paymentMethod string
		note          pgtype.Text
		receiptPath   pgtype.Text
	)

	err := row.Scan(
		&t.ID, &t.UserID, &amount, &txType, &t.CategoryID, &paymentMethod, &t.TransactionAt,
		&note, &receiptPath, &t.CreatedAt, &t.UpdatedAt,
		&c.ID, &c.UserID, &c.Name, &c.Color, &c.IsActive, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Amount = pgNumericToDecimal(amount)
	t.Type = domain.TransactionType(txType)
	t.PaymentMethod = domain.PaymentMethod(paymentMethod)
	t.Note = pgTextToStringPtr(note)
	t.ReceiptPath = pgTextToStringPtr(receiptPath)
	t.Category = &c
	return &t, nil
}
