/*
Package sqlite provides a SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements store.Contracts and store.Activity using SQLite. In
  production the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

KEY TABLES:
  contracts: Contract documents, primary key (owner, id). The commission
             breakdown is stored as a JSON document column - the store
             never interprets it, matching how the engine treats lines as
             opaque input.
  activity:  Daily activity counters, primary key (owner, day, kind),
             bumped with an upsert.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  multiple readers don't block, single writer at a time.

USAGE:
  st, err := sqlite.New("./data/commission.db")
  if err != nil {
      log.Fatal(err)
  }
  defer st.Close()

SEE ALSO:
  - store/store.go: Interface definitions
  - store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/commission-engine/projection"
	"github.com/warp/commission-engine/store"
)

// Store implements store.Contracts and store.Activity using SQLite.
type Store struct {
	db *sql.DB
}

var (
	_ store.Contracts = (*Store)(nil)
	_ store.Activity  = (*Store)(nil)
)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS contracts (
		owner          TEXT NOT NULL,
		id             TEXT NOT NULL,
		product        TEXT NOT NULL,
		agreement_date TEXT NOT NULL,
		policy_start   TEXT NOT NULL DEFAULT '',
		frequency      TEXT NOT NULL DEFAULT '',
		duration_years INTEGER NOT NULL DEFAULT 0,
		premium        TEXT NOT NULL,
		currency       TEXT NOT NULL,
		lines_json     TEXT NOT NULL,
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL,
		PRIMARY KEY (owner, id)
	);

	CREATE INDEX IF NOT EXISTS idx_contracts_owner_date
		ON contracts(owner, agreement_date);

	CREATE TABLE IF NOT EXISTS activity (
		owner TEXT NOT NULL,
		day   TEXT NOT NULL,
		kind  TEXT NOT NULL,
		count INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (owner, day, kind)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// CONTRACTS
// =============================================================================

// lineDoc is the JSON shape of one commission line in the document column.
type lineDoc struct {
	Kind   string `json:"kind,omitempty"`
	Title  string `json:"title"`
	Amount string `json:"amount"`
}

func (s *Store) Save(ctx context.Context, rec store.ContractRecord) error {
	c := rec.Contract

	linesJSON, err := marshalLines(c.Lines)
	if err != nil {
		return fmt.Errorf("failed to encode commission lines: %w", err)
	}

	product := ""
	if c.Product != nil {
		product = c.Product.ProductID()
	}
	policyStart := ""
	if !c.PolicyStart.IsZero() {
		policyStart = c.PolicyStart.String()
	}

	now := time.Now().UTC()
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO contracts
			(owner, id, product, agreement_date, policy_start, frequency,
			 duration_years, premium, currency, lines_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(owner, id) DO UPDATE SET
			product = excluded.product,
			agreement_date = excluded.agreement_date,
			policy_start = excluded.policy_start,
			frequency = excluded.frequency,
			duration_years = excluded.duration_years,
			premium = excluded.premium,
			currency = excluded.currency,
			lines_json = excluded.lines_json,
			updated_at = excluded.updated_at`,
		string(c.Owner), string(c.ID), product, c.AgreementDate.String(), policyStart,
		string(c.Frequency), c.DurationYears, c.Premium.Value.String(),
		string(c.Premium.Currency), linesJSON,
		createdAt.Format(time.RFC3339), now.Format(time.RFC3339),
	)
	return err
}

func (s *Store) Get(ctx context.Context, owner projection.Owner, id projection.ContractID) (store.ContractRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT owner, id, product, agreement_date, policy_start, frequency,
		       duration_years, premium, currency, lines_json, created_at, updated_at
		FROM contracts WHERE owner = ? AND id = ?`,
		string(owner), string(id))

	rec, err := scanContract(row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ContractRecord{}, store.ErrContractNotFound
	}
	return rec, err
}

func (s *Store) ListByOwner(ctx context.Context, owner projection.Owner) ([]store.ContractRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT owner, id, product, agreement_date, policy_start, frequency,
		       duration_years, premium, currency, lines_json, created_at, updated_at
		FROM contracts WHERE owner = ?
		ORDER BY agreement_date, id`,
		string(owner))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []store.ContractRecord
	for rows.Next() {
		rec, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}

func (s *Store) Delete(ctx context.Context, owner projection.Owner, id projection.ContractID) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM contracts WHERE owner = ? AND id = ?`,
		string(owner), string(id))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrContractNotFound
	}
	return nil
}

func (s *Store) Owners(ctx context.Context) ([]projection.Owner, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT owner FROM contracts ORDER BY owner`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []projection.Owner
	for rows.Next() {
		var owner string
		if err := rows.Scan(&owner); err != nil {
			return nil, err
		}
		result = append(result, projection.Owner(owner))
	}
	return result, rows.Err()
}

// =============================================================================
// ACTIVITY
// =============================================================================

func (s *Store) Record(ctx context.Context, owner projection.Owner, day projection.Date, kind string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO activity (owner, day, kind, count) VALUES (?, ?, ?, 1)
		ON CONFLICT(owner, day, kind) DO UPDATE SET count = count + 1`,
		string(owner), day.String(), kind)
	return err
}

func (s *Store) Summary(ctx context.Context, owner projection.Owner, from, to projection.Date) ([]store.ActivityCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT day, kind, count FROM activity
		WHERE owner = ? AND day >= ? AND day <= ?
		ORDER BY day, kind`,
		string(owner), from.String(), to.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []store.ActivityCount
	for rows.Next() {
		var dayStr, kind string
		var count int
		if err := rows.Scan(&dayStr, &kind, &count); err != nil {
			return nil, err
		}
		day, err := projection.ParseDate(dayStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt activity day %q: %w", dayStr, err)
		}
		result = append(result, store.ActivityCount{Owner: owner, Day: day, Kind: kind, Count: count})
	}
	return result, rows.Err()
}

// Reset wipes all data. Dev/demo only.
func (s *Store) Reset(ctx context.Context) error {
	for _, table := range []string{"contracts", "activity"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// ROW MAPPING
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContract(row rowScanner) (store.ContractRecord, error) {
	var (
		owner, id, product, agreementStr, startStr, frequency string
		durationYears                                         int
		premiumStr, currency, linesJSON                       string
		createdStr, updatedStr                                string
	)
	if err := row.Scan(&owner, &id, &product, &agreementStr, &startStr, &frequency,
		&durationYears, &premiumStr, &currency, &linesJSON, &createdStr, &updatedStr); err != nil {
		return store.ContractRecord{}, err
	}

	agreement, err := projection.ParseDate(agreementStr)
	if err != nil {
		return store.ContractRecord{}, fmt.Errorf("corrupt agreement date %q: %w", agreementStr, err)
	}
	var policyStart projection.Date
	if startStr != "" {
		policyStart, err = projection.ParseDate(startStr)
		if err != nil {
			return store.ContractRecord{}, fmt.Errorf("corrupt policy start %q: %w", startStr, err)
		}
	}

	premium, err := decimal.NewFromString(premiumStr)
	if err != nil {
		return store.ContractRecord{}, fmt.Errorf("corrupt premium %q: %w", premiumStr, err)
	}

	lines, err := unmarshalLines(linesJSON, projection.Currency(currency))
	if err != nil {
		return store.ContractRecord{}, err
	}

	createdAt, _ := time.Parse(time.RFC3339, createdStr)
	updatedAt, _ := time.Parse(time.RFC3339, updatedStr)

	return store.ContractRecord{
		Contract: projection.Contract{
			ID:            projection.ContractID(id),
			Owner:         projection.Owner(owner),
			Product:       projection.GetOrCreateProduct(product),
			AgreementDate: agreement,
			PolicyStart:   policyStart,
			Frequency:     projection.PaymentFrequency(frequency),
			DurationYears: durationYears,
			Premium:       projection.NewAmountFromDecimal(premium, projection.Currency(currency)),
			Lines:         lines,
		},
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

func marshalLines(lines []projection.CommissionLine) (string, error) {
	docs := make([]lineDoc, len(lines))
	for i, l := range lines {
		docs[i] = lineDoc{
			Kind:   string(l.Kind),
			Title:  l.Title,
			Amount: l.Amount.Value.String(),
		}
	}
	b, err := json.Marshal(docs)
	return string(b), err
}

func unmarshalLines(linesJSON string, currency projection.Currency) ([]projection.CommissionLine, error) {
	var docs []lineDoc
	if err := json.Unmarshal([]byte(linesJSON), &docs); err != nil {
		return nil, fmt.Errorf("corrupt commission lines: %w", err)
	}
	lines := make([]projection.CommissionLine, 0, len(docs))
	for _, d := range docs {
		amount, err := decimal.NewFromString(d.Amount)
		if err != nil {
			// A single bad line shouldn't poison the contract; the
			// engine treats a missing line as a disabled branch anyway.
			continue
		}
		lines = append(lines, projection.CommissionLine{
			Kind:   projection.LineKind(d.Kind),
			Title:  d.Title,
			Amount: projection.NewAmountFromDecimal(amount, currency),
		})
	}
	return lines, nil
}
