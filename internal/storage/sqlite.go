package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/callerid-mcp/internal/normalize"
	"github.com/dshills/callerid-mcp/pkg/types"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = types.ErrNotFound
	// ErrAlreadyExists is returned when trying to create a duplicate entity
	ErrAlreadyExists = errors.New("already exists")
)

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite benefits from single writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Apply migrations
	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// BeginTx starts a new transaction
func (s *SQLiteStorage) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqliteTx{tx: tx, storage: s}, nil
}

// querier is an interface that both *sql.DB and *sql.Tx implement
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// sqliteTx wraps a SQL transaction
type sqliteTx struct {
	tx      *sql.Tx
	storage *SQLiteStorage
}

func (t *sqliteTx) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTx) Rollback() error {
	return t.tx.Rollback()
}

// querier returns the transaction querier
func (t *sqliteTx) querier() querier {
	return t.tx
}

// querier returns the DB querier
func (s *SQLiteStorage) querier() querier {
	return s.db
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
// Both drivers use SQLite's own message text.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// likePattern builds a substring pattern over folded text with LIKE
// wildcards in the input escaped. It must be matched against
// display_name_folded: SQLite's LIKE only ignores ASCII case.
func likePattern(text string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(normalize.Fold(text))
	return "%" + escaped + "%"
}

// canonicalPhone stores numbers in the same form lookups normalize to
func canonicalPhone(raw string) (string, error) {
	phone := normalize.Phone(raw)
	if phone == "" {
		return "", types.ErrMissingPhoneNumber
	}
	if !normalize.ValidPhone(phone) {
		return "", fmt.Errorf("%w: %q", types.ErrInvalidPhoneNumber, raw)
	}
	return phone, nil
}

// Account operations

const accountColumns = `id, display_name, phone_number, email, created_at`

// scanner is implemented by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanAccount(row scanner) (*types.Account, error) {
	var account types.Account
	var email sql.NullString
	var createdAt int64
	if err := row.Scan(&account.ID, &account.DisplayName, &account.PhoneNumber, &email, &createdAt); err != nil {
		return nil, err
	}
	if email.Valid {
		account.Email = &email.String
	}
	account.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &account, nil
}

// createAccountWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) createAccountWithQuerier(ctx context.Context, q querier, account *types.Account) error {
	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	if err := account.Validate(); err != nil {
		return err
	}
	phone, err := canonicalPhone(account.PhoneNumber)
	if err != nil {
		return err
	}
	account.PhoneNumber = phone
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO accounts (id, display_name, display_name_folded, phone_number, email, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, account.ID, account.DisplayName, normalize.Fold(account.DisplayName), account.PhoneNumber, account.Email, account.CreatedAt.Unix())
	if isUniqueViolation(err) {
		return fmt.Errorf("account %s: %w", account.PhoneNumber, ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) CreateAccount(ctx context.Context, account *types.Account) error {
	return s.createAccountWithQuerier(ctx, s.querier(), account)
}

func (s *SQLiteStorage) getAccountWithQuerier(ctx context.Context, q querier, accountID string) (*types.Account, error) {
	row := q.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, accountID)
	account, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

func (s *SQLiteStorage) GetAccount(ctx context.Context, accountID string) (*types.Account, error) {
	return s.getAccountWithQuerier(ctx, s.querier(), accountID)
}

func (s *SQLiteStorage) findAccountByPhoneWithQuerier(ctx context.Context, q querier, phone string) (*types.Account, error) {
	row := q.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE phone_number = ?`, phone)
	account, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account by phone: %w", err)
	}
	return account, nil
}

// FindAccountByPhone returns ErrNotFound when no account owns the number
func (s *SQLiteStorage) FindAccountByPhone(ctx context.Context, phone string) (*types.Account, error) {
	return s.findAccountByPhoneWithQuerier(ctx, s.querier(), phone)
}

func (s *SQLiteStorage) findAccountsByNamePatternWithQuerier(ctx context.Context, q querier, pattern string) ([]*types.Account, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE display_name_folded LIKE ? ESCAPE '\'
		ORDER BY rowid
	`, likePattern(pattern))
	if err != nil {
		return nil, fmt.Errorf("failed to search accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	accounts := make([]*types.Account, 0)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

// FindAccountsByNamePattern returns accounts whose display name contains
// pattern under Unicode case folding, in insertion order
func (s *SQLiteStorage) FindAccountsByNamePattern(ctx context.Context, pattern string) ([]*types.Account, error) {
	return s.findAccountsByNamePatternWithQuerier(ctx, s.querier(), pattern)
}

func (s *SQLiteStorage) countAccountsWithQuerier(ctx context.Context, q querier) (int, error) {
	var count int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return count, nil
}

func (s *SQLiteStorage) CountAccounts(ctx context.Context) (int, error) {
	return s.countAccountsWithQuerier(ctx, s.querier())
}

// Contact operations

const contactColumns = `id, owner_id, display_name, phone_number, created_at`

func scanContact(row scanner) (*types.ContactEntry, error) {
	var contact types.ContactEntry
	var createdAt int64
	if err := row.Scan(&contact.ID, &contact.OwnerID, &contact.DisplayName, &contact.PhoneNumber, &createdAt); err != nil {
		return nil, err
	}
	contact.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &contact, nil
}

func (s *SQLiteStorage) queryContacts(ctx context.Context, q querier, query string, args ...interface{}) ([]*types.ContactEntry, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	contacts := make([]*types.ContactEntry, 0)
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, contact)
	}
	return contacts, rows.Err()
}

// upsertContactWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) upsertContactWithQuerier(ctx context.Context, q querier, contact *types.ContactEntry) error {
	if contact.ID == "" {
		contact.ID = uuid.New().String()
	}
	if err := contact.Validate(); err != nil {
		return err
	}
	phone, err := canonicalPhone(contact.PhoneNumber)
	if err != nil {
		return err
	}
	contact.PhoneNumber = phone
	if contact.CreatedAt.IsZero() {
		contact.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}

	var createdAt int64
	err = q.QueryRowContext(ctx, `
		INSERT INTO contacts (id, owner_id, display_name, display_name_folded, phone_number, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(owner_id, phone_number) DO UPDATE SET
			display_name = excluded.display_name,
			display_name_folded = excluded.display_name_folded
		RETURNING id, created_at
	`, contact.ID, contact.OwnerID, contact.DisplayName, normalize.Fold(contact.DisplayName), contact.PhoneNumber, contact.CreatedAt.Unix(),
	).Scan(&contact.ID, &createdAt)
	if err != nil {
		return fmt.Errorf("failed to upsert contact: %w", err)
	}
	contact.CreatedAt = time.Unix(createdAt, 0).UTC()
	return nil
}

// UpsertContact stores an owner's label for a number, replacing the label
// when the owner already has an entry for it
func (s *SQLiteStorage) UpsertContact(ctx context.Context, contact *types.ContactEntry) error {
	return s.upsertContactWithQuerier(ctx, s.querier(), contact)
}

func (s *SQLiteStorage) findContactsByNamePatternWithQuerier(ctx context.Context, q querier, pattern string) ([]*types.ContactEntry, error) {
	contacts, err := s.queryContacts(ctx, q, `
		SELECT `+contactColumns+`
		FROM contacts
		WHERE display_name_folded LIKE ? ESCAPE '\'
		ORDER BY rowid
	`, likePattern(pattern))
	if err != nil {
		return nil, fmt.Errorf("failed to search contacts: %w", err)
	}
	return contacts, nil
}

// FindContactsByNamePattern returns contact entries of every owner whose
// label contains pattern under Unicode case folding, in insertion order
func (s *SQLiteStorage) FindContactsByNamePattern(ctx context.Context, pattern string) ([]*types.ContactEntry, error) {
	return s.findContactsByNamePatternWithQuerier(ctx, s.querier(), pattern)
}

func (s *SQLiteStorage) findContactsByPhoneWithQuerier(ctx context.Context, q querier, phone string) ([]*types.ContactEntry, error) {
	contacts, err := s.queryContacts(ctx, q, `
		SELECT `+contactColumns+`
		FROM contacts
		WHERE phone_number = ?
		ORDER BY rowid
	`, phone)
	if err != nil {
		return nil, fmt.Errorf("failed to find contacts by phone: %w", err)
	}
	return contacts, nil
}

// FindContactsByPhone returns every owner's entry for a number
func (s *SQLiteStorage) FindContactsByPhone(ctx context.Context, phone string) ([]*types.ContactEntry, error) {
	return s.findContactsByPhoneWithQuerier(ctx, s.querier(), phone)
}

func (s *SQLiteStorage) hasContactWithQuerier(ctx context.Context, q querier, ownerID, phone string) (bool, error) {
	var exists bool
	err := q.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM contacts WHERE owner_id = ? AND phone_number = ?)
	`, ownerID, phone).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check contact: %w", err)
	}
	return exists, nil
}

// HasContact reports whether ownerID has an entry for phone
func (s *SQLiteStorage) HasContact(ctx context.Context, ownerID, phone string) (bool, error) {
	return s.hasContactWithQuerier(ctx, s.querier(), ownerID, phone)
}

// Spam report operations

// createSpamReportWithQuerier relies on the partial unique index over active
// reports, so the duplicate check and the insert are one statement
func (s *SQLiteStorage) createSpamReportWithQuerier(ctx context.Context, q querier, reporterID, phone string) (*types.SpamReport, error) {
	report := &types.SpamReport{
		ID:                uuid.New().String(),
		ReporterAccountID: reporterID,
		PhoneNumber:       phone,
		CreatedAt:         time.Now().UTC().Truncate(time.Second),
		IsActive:          true,
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO spam_reports (id, reporter_id, phone_number, reported_at, is_active)
		VALUES (?, ?, ?, ?, 1)
	`, report.ID, reporterID, phone, report.CreatedAt.Unix())
	if isUniqueViolation(err) {
		return nil, types.ErrDuplicateReport
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create spam report: %w", err)
	}
	return report, nil
}

// CreateSpamReport fails with types.ErrDuplicateReport when the reporter
// already has an active report for the number
func (s *SQLiteStorage) CreateSpamReport(ctx context.Context, reporterID, phone string) (*types.SpamReport, error) {
	return s.createSpamReportWithQuerier(ctx, s.querier(), reporterID, phone)
}

func (s *SQLiteStorage) retractSpamReportWithQuerier(ctx context.Context, q querier, reporterID, phone string) error {
	result, err := q.ExecContext(ctx, `
		UPDATE spam_reports
		SET is_active = 0, retracted_at = ?
		WHERE reporter_id = ? AND phone_number = ? AND is_active = 1
	`, time.Now().UTC().Unix(), reporterID, phone)
	if err != nil {
		return fmt.Errorf("failed to retract spam report: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("no active spam report for %s: %w", phone, ErrNotFound)
	}
	return nil
}

// RetractSpamReport deactivates the reporter's active report, keeping the
// row for history. Fails with ErrNotFound when none is active.
func (s *SQLiteStorage) RetractSpamReport(ctx context.Context, reporterID, phone string) error {
	return s.retractSpamReportWithQuerier(ctx, s.querier(), reporterID, phone)
}

func (s *SQLiteStorage) countActiveSpamReportsSinceWithQuerier(ctx context.Context, q querier, phone string, since time.Time) (int, error) {
	var count int
	err := q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM spam_reports
		WHERE phone_number = ? AND is_active = 1 AND reported_at >= ?
	`, phone, since.Unix()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count spam reports: %w", err)
	}
	return count, nil
}

func (s *SQLiteStorage) CountActiveSpamReports(ctx context.Context, phone string) (int, error) {
	return s.countActiveSpamReportsSinceWithQuerier(ctx, s.querier(), phone, time.Unix(0, 0))
}

func (s *SQLiteStorage) CountActiveSpamReportsSince(ctx context.Context, phone string, since time.Time) (int, error) {
	return s.countActiveSpamReportsSinceWithQuerier(ctx, s.querier(), phone, since)
}

func (s *SQLiteStorage) hasActiveSpamReportWithQuerier(ctx context.Context, q querier, reporterID, phone string) (bool, error) {
	var exists bool
	err := q.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM spam_reports
			WHERE reporter_id = ? AND phone_number = ? AND is_active = 1
		)
	`, reporterID, phone).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check spam report: %w", err)
	}
	return exists, nil
}

func (s *SQLiteStorage) HasActiveSpamReport(ctx context.Context, reporterID, phone string) (bool, error) {
	return s.hasActiveSpamReportWithQuerier(ctx, s.querier(), reporterID, phone)
}

// spamStatisticsWithQuerier aggregates active reports. Day boundaries are UTC.
func (s *SQLiteStorage) spamStatisticsWithQuerier(ctx context.Context, q querier, now time.Time) (*types.SpamStatistics, error) {
	today := now.UTC().Truncate(24 * time.Hour)
	stats := &types.SpamStatistics{
		MostReportedNumbers: make([]types.NumberReportCount, 0),
		ReportsByWeekday:    make([]types.BucketCount, 0),
		PeakReportingHours:  make([]types.BucketCount, 0),
	}

	err := q.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(reported_at >= ?), 0),
			COALESCE(SUM(reported_at >= ?), 0),
			COALESCE(SUM(reported_at >= ?), 0)
		FROM spam_reports
		WHERE is_active = 1
	`, today.Unix(), today.AddDate(0, 0, -7).Unix(), today.AddDate(0, 0, -30).Unix()).Scan(
		&stats.TotalReports, &stats.ReportsToday, &stats.ReportsThisWeek, &stats.ReportsThisMonth,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count spam reports: %w", err)
	}

	err = q.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(c >= 10), 0),
			COALESCE(SUM(c BETWEEN 5 AND 9), 0),
			COALESCE(SUM(c < 5), 0)
		FROM (
			SELECT COUNT(*) AS c FROM spam_reports
			WHERE is_active = 1
			GROUP BY phone_number
		)
	`).Scan(&stats.Distribution.High, &stats.Distribution.Medium, &stats.Distribution.Low)
	if err != nil {
		return nil, fmt.Errorf("failed to compute likelihood distribution: %w", err)
	}

	rows, err := q.QueryContext(ctx, `
		SELECT phone_number, COUNT(*) AS c FROM spam_reports
		WHERE is_active = 1
		GROUP BY phone_number
		ORDER BY c DESC, phone_number
		LIMIT 10
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list most reported numbers: %w", err)
	}
	for rows.Next() {
		var n types.NumberReportCount
		if err := rows.Scan(&n.PhoneNumber, &n.ReportCount); err != nil {
			_ = rows.Close()
			return nil, err
		}
		stats.MostReportedNumbers = append(stats.MostReportedNumbers, n)
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	stats.ReportsByWeekday, err = queryBuckets(ctx, q, `
		SELECT CAST(strftime('%w', reported_at, 'unixepoch') AS INTEGER) AS b, COUNT(*)
		FROM spam_reports
		WHERE is_active = 1
		GROUP BY b
		ORDER BY b
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to bucket reports by weekday: %w", err)
	}

	stats.PeakReportingHours, err = queryBuckets(ctx, q, `
		SELECT CAST(strftime('%H', reported_at, 'unixepoch') AS INTEGER) AS b, COUNT(*) AS c
		FROM spam_reports
		WHERE is_active = 1
		GROUP BY b
		ORDER BY c DESC, b
		LIMIT 5
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to bucket reports by hour: %w", err)
	}

	return stats, nil
}

func queryBuckets(ctx context.Context, q querier, query string) ([]types.BucketCount, error) {
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	buckets := make([]types.BucketCount, 0)
	for rows.Next() {
		var b types.BucketCount
		if err := rows.Scan(&b.Bucket, &b.Count); err != nil {
			return nil, err
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

func (s *SQLiteStorage) SpamStatistics(ctx context.Context, now time.Time) (*types.SpamStatistics, error) {
	return s.spamStatisticsWithQuerier(ctx, s.querier(), now)
}

// Transaction implementations. Every method goes through the transaction's
// querier: the pool holds a single connection, so touching s.db while the
// transaction is open would block.

func (t *sqliteTx) CreateAccount(ctx context.Context, account *types.Account) error {
	return t.storage.createAccountWithQuerier(ctx, t.querier(), account)
}

func (t *sqliteTx) GetAccount(ctx context.Context, accountID string) (*types.Account, error) {
	return t.storage.getAccountWithQuerier(ctx, t.querier(), accountID)
}

func (t *sqliteTx) FindAccountByPhone(ctx context.Context, phone string) (*types.Account, error) {
	return t.storage.findAccountByPhoneWithQuerier(ctx, t.querier(), phone)
}

func (t *sqliteTx) FindAccountsByNamePattern(ctx context.Context, pattern string) ([]*types.Account, error) {
	return t.storage.findAccountsByNamePatternWithQuerier(ctx, t.querier(), pattern)
}

func (t *sqliteTx) CountAccounts(ctx context.Context) (int, error) {
	return t.storage.countAccountsWithQuerier(ctx, t.querier())
}

func (t *sqliteTx) UpsertContact(ctx context.Context, contact *types.ContactEntry) error {
	return t.storage.upsertContactWithQuerier(ctx, t.querier(), contact)
}

func (t *sqliteTx) FindContactsByNamePattern(ctx context.Context, pattern string) ([]*types.ContactEntry, error) {
	return t.storage.findContactsByNamePatternWithQuerier(ctx, t.querier(), pattern)
}

func (t *sqliteTx) FindContactsByPhone(ctx context.Context, phone string) ([]*types.ContactEntry, error) {
	return t.storage.findContactsByPhoneWithQuerier(ctx, t.querier(), phone)
}

func (t *sqliteTx) HasContact(ctx context.Context, ownerID, phone string) (bool, error) {
	return t.storage.hasContactWithQuerier(ctx, t.querier(), ownerID, phone)
}

func (t *sqliteTx) CreateSpamReport(ctx context.Context, reporterID, phone string) (*types.SpamReport, error) {
	return t.storage.createSpamReportWithQuerier(ctx, t.querier(), reporterID, phone)
}

func (t *sqliteTx) RetractSpamReport(ctx context.Context, reporterID, phone string) error {
	return t.storage.retractSpamReportWithQuerier(ctx, t.querier(), reporterID, phone)
}

func (t *sqliteTx) CountActiveSpamReports(ctx context.Context, phone string) (int, error) {
	return t.storage.countActiveSpamReportsSinceWithQuerier(ctx, t.querier(), phone, time.Unix(0, 0))
}

func (t *sqliteTx) CountActiveSpamReportsSince(ctx context.Context, phone string, since time.Time) (int, error) {
	return t.storage.countActiveSpamReportsSinceWithQuerier(ctx, t.querier(), phone, since)
}

func (t *sqliteTx) HasActiveSpamReport(ctx context.Context, reporterID, phone string) (bool, error) {
	return t.storage.hasActiveSpamReportWithQuerier(ctx, t.querier(), reporterID, phone)
}

func (t *sqliteTx) SpamStatistics(ctx context.Context, now time.Time) (*types.SpamStatistics, error) {
	return t.storage.spamStatisticsWithQuerier(ctx, t.querier(), now)
}

func (t *sqliteTx) Close() error {
	// Transactions don't close the underlying connection
	return nil
}

func (t *sqliteTx) BeginTx(ctx context.Context) (Tx, error) {
	// SQLite does not support true nested transactions
	return nil, errors.New("nested transactions not supported")
}
