package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/sharemal/internal/bill"
	"github.com/MrJamesThe3rd/sharemal/internal/database"
)

var _ bill.Repository = (*Store)(nil)

type Store struct {
	db      *sql.DB
	dialect dialect
	now     func() time.Time
}

// New returns a Store for db. driver selects placeholder syntax and row locking.
func New(db *sql.DB, driver string) *Store {
	return &Store{
		db:      db,
		dialect: dialectFor(driver),
		now:     time.Now,
	}
}

// dialect hides the differences between the supported SQL engines. Queries are
// written with ? placeholders and rebound for postgres.
type dialect struct {
	numbered  bool
	forUpdate string
}

func dialectFor(driver string) dialect {
	if driver == database.DriverPostgres {
		return dialect{numbered: true, forUpdate: " FOR UPDATE"}
	}

	return dialect{}
}

func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}

	var b strings.Builder

	n := 0

	for _, r := range query {
		if r == '?' {
			n++

			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))

			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}

// likeEscaper makes LIKE wildcards in user input match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectBillColumns = `id, title, total_amount, strategy, bill_date, status, created_at, updated_at`

const selectParticipantColumns = `id, bill_id, name, amount, payment_status, position`

// dateColumn reads a DATE (postgres) or TEXT (sqlite) column into a time.Time.
type dateColumn struct {
	t *time.Time
}

func (d dateColumn) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d.t = time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC)
		return nil
	case string:
		return d.parse(v)
	case []byte:
		return d.parse(string(v))
	}

	return fmt.Errorf("unsupported bill_date value %T", src)
}

func (d dateColumn) parse(s string) error {
	if len(s) > len(time.DateOnly) {
		s = s[:len(time.DateOnly)]
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return fmt.Errorf("parsing bill_date: %w", err)
	}

	*d.t = t

	return nil
}

// scanBill reads a bill row. Expected column order matches selectBillColumns.
func scanBill(s scanner) (*bill.Bill, error) {
	var (
		b                    bill.Bill
		strategy, status     string
		createdAt, updatedAt int64
	)

	if err := s.Scan(
		&b.ID, &b.Title, &b.TotalAmount, &strategy, dateColumn{&b.Date}, &status, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	b.Strategy = bill.Strategy(strategy)
	b.Status = bill.Status(status)
	b.CreatedAt = time.UnixMilli(createdAt).UTC()
	b.UpdatedAt = time.UnixMilli(updatedAt).UTC()

	return &b, nil
}

func scanParticipant(s scanner) (*bill.Participant, error) {
	var (
		p             bill.Participant
		paymentStatus string
	)

	if err := s.Scan(&p.ID, &p.BillID, &p.Name, &p.Amount, &paymentStatus, &p.Position); err != nil {
		return nil, err
	}

	p.PaymentStatus = bill.PaymentStatus(paymentStatus)

	return &p, nil
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func (s *Store) CreateBill(ctx context.Context, b *bill.Bill) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}

	now := s.timestamp()
	b.CreatedAt = now
	b.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	query := s.dialect.rebind(`
		INSERT INTO bills (id, title, total_amount, strategy, bill_date, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)

	if _, err := tx.ExecContext(ctx, query,
		b.ID,
		b.Title,
		b.TotalAmount.Cents(),
		string(b.Strategy),
		b.Date.Format(time.DateOnly),
		string(b.Status),
		now.UnixMilli(),
		now.UnixMilli(),
	); err != nil {
		return fmt.Errorf("inserting bill: %w", err)
	}

	for i := range b.Participants {
		b.Participants[i].Position = i

		if err := s.insertParticipant(ctx, tx, b.ID, &b.Participants[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *Store) insertParticipant(ctx context.Context, tx *sql.Tx, billID uuid.UUID, p *bill.Participant) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}

	p.BillID = billID

	query := s.dialect.rebind(`
		INSERT INTO participants (id, bill_id, name, amount, payment_status, position)
		VALUES (?, ?, ?, ?, ?, ?)
	`)

	if _, err := tx.ExecContext(ctx, query,
		p.ID, p.BillID, p.Name, p.Amount.Cents(), string(p.PaymentStatus), p.Position,
	); err != nil {
		return fmt.Errorf("inserting participant: %w", err)
	}

	return nil
}

func (s *Store) GetBill(ctx context.Context, id uuid.UUID) (*bill.Bill, error) {
	return s.getBill(ctx, s.db, id, "")
}

func (s *Store) getBill(ctx context.Context, q querier, id uuid.UUID, lock string) (*bill.Bill, error) {
	query := s.dialect.rebind(`SELECT ` + selectBillColumns + ` FROM bills WHERE id = ?` + lock)

	b, err := scanBill(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("bill %s: %w", id, bill.ErrNotFound)
		}

		return nil, fmt.Errorf("getting bill: %w", err)
	}

	participants, err := s.listParticipants(ctx, q, bill.ParticipantFilter{BillID: &b.ID})
	if err != nil {
		return nil, err
	}

	b.Participants = make([]bill.Participant, len(participants))
	for i, p := range participants {
		b.Participants[i] = *p
	}

	return b, nil
}

func (s *Store) ListBills(ctx context.Context, filter bill.ListFilter) ([]*bill.Bill, error) {
	query := `SELECT ` + selectBillColumns + ` FROM bills WHERE 1 = 1`

	var args []any

	if filter.Status != nil {
		query += ` AND status = ?`

		args = append(args, string(*filter.Status))
	}

	if title := strings.TrimSpace(filter.Title); title != "" {
		query += ` AND LOWER(title) LIKE ? ESCAPE '\'`

		args = append(args, "%"+likeEscaper.Replace(strings.ToLower(title))+"%")
	}

	query += ` ORDER BY bill_date DESC, created_at DESC`

	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("listing bills: %w", err)
	}
	defer rows.Close()

	var (
		bills []*bill.Bill
		byID  = map[uuid.UUID]*bill.Bill{}
	)

	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning bill: %w", err)
		}

		bills = append(bills, b)
		byID[b.ID] = b
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating bills: %w", err)
	}

	if len(bills) == 0 {
		return bills, nil
	}

	if err := s.attachParticipants(ctx, bills, byID); err != nil {
		return nil, err
	}

	return bills, nil
}

// attachParticipants loads the participants of all given bills in one query.
func (s *Store) attachParticipants(ctx context.Context, bills []*bill.Bill, byID map[uuid.UUID]*bill.Bill) error {
	placeholders := make([]string, len(bills))
	args := make([]any, len(bills))

	for i, b := range bills {
		placeholders[i] = "?"
		args[i] = b.ID
	}

	query := `SELECT ` + selectParticipantColumns + ` FROM participants
		WHERE bill_id IN (` + strings.Join(placeholders, ", ") + `)
		ORDER BY bill_id, position`

	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(query), args...)
	if err != nil {
		return fmt.Errorf("listing participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return fmt.Errorf("scanning participant: %w", err)
		}

		if b, ok := byID[p.BillID]; ok {
			b.Participants = append(b.Participants, *p)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating participants: %w", err)
	}

	return nil
}

// UpdateBill reads the bill under a row lock, applies fn and writes the bill
// and its participants back in the same transaction.
func (s *Store) UpdateBill(ctx context.Context, id uuid.UUID, fn func(*bill.Bill) error) (*bill.Bill, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	b, err := s.getBill(ctx, tx, id, s.dialect.forUpdate)
	if err != nil {
		return nil, err
	}

	loaded := make(map[uuid.UUID]bool, len(b.Participants))
	for _, p := range b.Participants {
		loaded[p.ID] = true
	}

	if err := fn(b); err != nil {
		return nil, err
	}

	b.UpdatedAt = s.timestamp()

	billQuery := s.dialect.rebind(`
		UPDATE bills
		SET title = ?, total_amount = ?, strategy = ?, bill_date = ?, status = ?, updated_at = ?
		WHERE id = ?
	`)

	if _, err := tx.ExecContext(ctx, billQuery,
		b.Title,
		b.TotalAmount.Cents(),
		string(b.Strategy),
		b.Date.Format(time.DateOnly),
		string(b.Status),
		b.UpdatedAt.UnixMilli(),
		b.ID,
	); err != nil {
		return nil, fmt.Errorf("updating bill: %w", err)
	}

	participantQuery := s.dialect.rebind(`
		UPDATE participants
		SET name = ?, amount = ?, payment_status = ?, position = ?
		WHERE id = ? AND bill_id = ?
	`)

	for i := range b.Participants {
		p := &b.Participants[i]
		p.Position = i

		if !loaded[p.ID] {
			if err := s.insertParticipant(ctx, tx, b.ID, p); err != nil {
				return nil, err
			}

			continue
		}

		delete(loaded, p.ID)

		if _, err := tx.ExecContext(ctx, participantQuery,
			p.Name, p.Amount.Cents(), string(p.PaymentStatus), p.Position, p.ID, b.ID,
		); err != nil {
			return nil, fmt.Errorf("updating participant: %w", err)
		}
	}

	removeQuery := s.dialect.rebind(`DELETE FROM participants WHERE id = ? AND bill_id = ?`)

	for id := range loaded {
		if _, err := tx.ExecContext(ctx, removeQuery, id, b.ID); err != nil {
			return nil, fmt.Errorf("removing participant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	return b, nil
}

// DeleteBill removes the bill and every participant that belongs to it.
func (s *Store) DeleteBill(ctx context.Context, id uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, s.dialect.rebind(`DELETE FROM participants WHERE bill_id = ?`), id); err != nil {
		return fmt.Errorf("deleting participants: %w", err)
	}

	res, err := tx.ExecContext(ctx, s.dialect.rebind(`DELETE FROM bills WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("deleting bill: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting bill: %w", err)
	}

	if n == 0 {
		return fmt.Errorf("bill %s: %w", id, bill.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *Store) GetParticipant(ctx context.Context, billID, participantID uuid.UUID) (*bill.Participant, error) {
	query := s.dialect.rebind(`SELECT ` + selectParticipantColumns + ` FROM participants WHERE bill_id = ? AND id = ?`)

	p, err := scanParticipant(s.db.QueryRowContext(ctx, query, billID, participantID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, bill.ErrNotFound
		}

		return nil, fmt.Errorf("getting participant: %w", err)
	}

	return p, nil
}

func (s *Store) ListParticipants(ctx context.Context, filter bill.ParticipantFilter) ([]*bill.Participant, error) {
	return s.listParticipants(ctx, s.db, filter)
}

func (s *Store) listParticipants(ctx context.Context, q querier, filter bill.ParticipantFilter) ([]*bill.Participant, error) {
	query := `SELECT ` + selectParticipantColumns + ` FROM participants WHERE 1 = 1`

	var args []any

	if filter.BillID != nil {
		query += ` AND bill_id = ?`

		args = append(args, *filter.BillID)
	}

	if filter.PaymentStatus != nil {
		query += ` AND payment_status = ?`

		args = append(args, string(*filter.PaymentStatus))
	}

	query += ` ORDER BY bill_id, position`

	rows, err := q.QueryContext(ctx, s.dialect.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("listing participants: %w", err)
	}
	defer rows.Close()

	var participants []*bill.Participant

	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning participant: %w", err)
		}

		participants = append(participants, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating participants: %w", err)
	}

	return participants, nil
}
