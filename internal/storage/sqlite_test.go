package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/callerid-mcp/pkg/types"
)

func setupTestDB(t *testing.T) *SQLiteStorage {
	// Use in-memory database for testing
	storage, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NotNil(t, storage)
	return storage
}

func createAccount(t *testing.T, s *SQLiteStorage, name, phone string) *types.Account {
	t.Helper()
	account := &types.Account{DisplayName: name, PhoneNumber: phone}
	require.NoError(t, s.CreateAccount(context.Background(), account))
	return account
}

// insertReportAt backdates a report so time windows can be exercised
func insertReportAt(t *testing.T, s *SQLiteStorage, id, reporterID, phone string, at time.Time) {
	t.Helper()
	_, err := s.db.Exec(`
		INSERT INTO spam_reports (id, reporter_id, phone_number, reported_at, is_active)
		VALUES (?, ?, ?, ?, 1)
	`, id, reporterID, phone, at.Unix())
	require.NoError(t, err)
}

func TestNewSQLiteStorage(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	assert.NotNil(t, storage)
	assert.NotNil(t, storage.db)

	version, err := SchemaVersion(context.Background(), storage.db)
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, version.String())
}

func TestApplyMigrations_Idempotent(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	require.NoError(t, ApplyMigrations(ctx, storage.db))

	var count int
	require.NoError(t, storage.db.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&count))
	assert.Equal(t, len(AllMigrations), count)
}

func TestRollbackMigration(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	require.NoError(t, RollbackMigration(ctx, storage.db))

	version, err := SchemaVersion(ctx, storage.db)
	require.NoError(t, err)
	assert.Equal(t, AllMigrations[len(AllMigrations)-2].Version, version.String())

	// Reapplying brings the schema forward again
	require.NoError(t, ApplyMigrations(ctx, storage.db))
	version, err = SchemaVersion(ctx, storage.db)
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, version.String())
}

func TestApplyMigrations_BackfillsFoldedNames(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	require.NoError(t, RollbackMigration(ctx, storage.db))

	// A row written before names were folded
	_, err := storage.db.Exec(`
		INSERT INTO accounts (id, display_name, phone_number, created_at)
		VALUES ('legacy', 'Ébène', '+15550000001', 0)
	`)
	require.NoError(t, err)

	require.NoError(t, ApplyMigrations(ctx, storage.db))

	accounts, err := storage.FindAccountsByNamePattern(ctx, "ÉBÈNE")
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "legacy", accounts[0].ID)
}

func TestClose(t *testing.T) {
	storage := setupTestDB(t)
	err := storage.Close()
	assert.NoError(t, err)
}

func TestCreateAccount(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	email := "alice@example.com"
	account := &types.Account{DisplayName: "Alice", PhoneNumber: "+15550000001", Email: &email}

	err := storage.CreateAccount(ctx, account)
	require.NoError(t, err)
	assert.NotEmpty(t, account.ID)
	assert.False(t, account.CreatedAt.IsZero())

	// Phone numbers are unique across accounts
	duplicate := &types.Account{DisplayName: "Other", PhoneNumber: "+15550000001"}
	err = storage.CreateAccount(ctx, duplicate)
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestCreateAccount_Invalid(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	err := storage.CreateAccount(context.Background(), &types.Account{PhoneNumber: "+15550000001"})
	assert.ErrorIs(t, err, types.ErrMissingName)

	err = storage.CreateAccount(context.Background(), &types.Account{DisplayName: "Alice", PhoneNumber: "555-0001"})
	assert.ErrorIs(t, err, types.ErrInvalidPhoneNumber)
}

func TestCreateAccount_CanonicalPhone(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	account := createAccount(t, storage, "Alice", "1 555 000 0001")
	assert.Equal(t, "+15550000001", account.PhoneNumber)

	found, err := storage.FindAccountByPhone(ctx, "+15550000001")
	require.NoError(t, err)
	assert.Equal(t, account.ID, found.ID)

	// Spacing variants collide with the stored number
	err = storage.CreateAccount(ctx, &types.Account{DisplayName: "Other", PhoneNumber: "+1 5550000001"})
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestGetAccount(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	account := createAccount(t, storage, "Alice", "+15550000001")

	retrieved, err := storage.GetAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, account.ID, retrieved.ID)
	assert.Equal(t, "Alice", retrieved.DisplayName)
	assert.Nil(t, retrieved.Email)

	_, err = storage.GetAccount(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindAccountByPhone(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	account := createAccount(t, storage, "Alice", "+15550000001")

	found, err := storage.FindAccountByPhone(ctx, "+15550000001")
	require.NoError(t, err)
	assert.Equal(t, account.ID, found.ID)

	_, err = storage.FindAccountByPhone(ctx, "+15559999999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindAccountsByNamePattern(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	createAccount(t, storage, "Johnny", "+15550000001")
	createAccount(t, storage, "Alice", "+15550000002")
	createAccount(t, storage, "Big JOHN", "+15550000003")
	createAccount(t, storage, "100% John", "+15550000004")

	accounts, err := storage.FindAccountsByNamePattern(ctx, "john")
	require.NoError(t, err)
	require.Len(t, accounts, 3)
	// Insertion order
	assert.Equal(t, "Johnny", accounts[0].DisplayName)
	assert.Equal(t, "Big JOHN", accounts[1].DisplayName)
	assert.Equal(t, "100% John", accounts[2].DisplayName)

	// Wildcards in the query match literally
	accounts, err = storage.FindAccountsByNamePattern(ctx, "0%")
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "100% John", accounts[0].DisplayName)

	accounts, err = storage.FindAccountsByNamePattern(ctx, "zzz")
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestFindByNamePattern_UnicodeCase(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	owner := createAccount(t, storage, "José", "+15550000001")
	require.NoError(t, storage.UpsertContact(ctx, &types.ContactEntry{
		OwnerID: owner.ID, DisplayName: "Ölaf Straße", PhoneNumber: "+15551112222",
	}))

	for _, query := range []string{"JOSÉ", "josé", "José"} {
		accounts, err := storage.FindAccountsByNamePattern(ctx, query)
		require.NoError(t, err)
		require.Len(t, accounts, 1, "query=%q", query)
		assert.Equal(t, "José", accounts[0].DisplayName)
	}

	for _, query := range []string{"ÖLAF", "STRASSE"} {
		contacts, err := storage.FindContactsByNamePattern(ctx, query)
		require.NoError(t, err)
		assert.Len(t, contacts, 1, "query=%q", query)
	}
}

func TestCountAccounts(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	createAccount(t, storage, "Alice", "+15550000001")
	createAccount(t, storage, "Bob", "+15550000002")

	count, err := storage.CountAccounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestUpsertContact(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	owner := createAccount(t, storage, "Alice", "+15550000001")

	contact := &types.ContactEntry{OwnerID: owner.ID, DisplayName: "Mom", PhoneNumber: "+15551112222"}
	require.NoError(t, storage.UpsertContact(ctx, contact))
	originalID := contact.ID

	// Same owner and number relabels the existing entry
	relabel := &types.ContactEntry{OwnerID: owner.ID, DisplayName: "Mother", PhoneNumber: "+15551112222"}
	require.NoError(t, storage.UpsertContact(ctx, relabel))
	assert.Equal(t, originalID, relabel.ID)

	contacts, err := storage.FindContactsByPhone(ctx, "+15551112222")
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "Mother", contacts[0].DisplayName)

	// Entered with spaces, stored canonical, so it relabels the same entry
	spaced := &types.ContactEntry{OwnerID: owner.ID, DisplayName: "Mum", PhoneNumber: "1 555 111 2222"}
	require.NoError(t, storage.UpsertContact(ctx, spaced))
	assert.Equal(t, originalID, spaced.ID)
	assert.Equal(t, "+15551112222", spaced.PhoneNumber)

	byName, err := storage.FindContactsByNamePattern(ctx, "MUM")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Mum", byName[0].DisplayName)
}

func TestUpsertContact_UnknownOwner(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	contact := &types.ContactEntry{OwnerID: "ghost", DisplayName: "Mom", PhoneNumber: "+15551112222"}
	err := storage.UpsertContact(context.Background(), contact)
	assert.Error(t, err) // Foreign key violation
}

func TestFindContacts(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	alice := createAccount(t, storage, "Alice", "+15550000001")
	bob := createAccount(t, storage, "Bob", "+15550000002")

	require.NoError(t, storage.UpsertContact(ctx, &types.ContactEntry{OwnerID: alice.ID, DisplayName: "Mom", PhoneNumber: "+15551112222"}))
	require.NoError(t, storage.UpsertContact(ctx, &types.ContactEntry{OwnerID: bob.ID, DisplayName: "Mother", PhoneNumber: "+15551112222"}))
	require.NoError(t, storage.UpsertContact(ctx, &types.ContactEntry{OwnerID: bob.ID, DisplayName: "Plumber", PhoneNumber: "+15553334444"}))

	byPhone, err := storage.FindContactsByPhone(ctx, "+15551112222")
	require.NoError(t, err)
	require.Len(t, byPhone, 2)
	assert.Equal(t, "Mom", byPhone[0].DisplayName)
	assert.Equal(t, "Mother", byPhone[1].DisplayName)

	byName, err := storage.FindContactsByNamePattern(ctx, "MO")
	require.NoError(t, err)
	assert.Len(t, byName, 2)

	has, err := storage.HasContact(ctx, bob.ID, "+15553334444")
	require.NoError(t, err)
	assert.True(t, has)

	has, err = storage.HasContact(ctx, alice.ID, "+15553334444")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestSpamReportLifecycle(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	reporter := createAccount(t, storage, "Alice", "+15550000001")
	phone := "+15559990000"

	report, err := storage.CreateSpamReport(ctx, reporter.ID, phone)
	require.NoError(t, err)
	assert.True(t, report.IsActive)
	assert.NotEmpty(t, report.ID)

	// Second active report from the same reporter is rejected
	_, err = storage.CreateSpamReport(ctx, reporter.ID, phone)
	assert.ErrorIs(t, err, types.ErrDuplicateReport)

	count, err := storage.CountActiveSpamReports(ctx, phone)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	has, err := storage.HasActiveSpamReport(ctx, reporter.ID, phone)
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, storage.RetractSpamReport(ctx, reporter.ID, phone))

	count, err = storage.CountActiveSpamReports(ctx, phone)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// Nothing left to retract
	err = storage.RetractSpamReport(ctx, reporter.ID, phone)
	assert.ErrorIs(t, err, ErrNotFound)

	// Retracted reports do not block a new one
	_, err = storage.CreateSpamReport(ctx, reporter.ID, phone)
	require.NoError(t, err)

	var rows int
	require.NoError(t, storage.db.QueryRow("SELECT COUNT(*) FROM spam_reports WHERE phone_number = ?", phone).Scan(&rows))
	assert.Equal(t, 2, rows)
}

func TestCountActiveSpamReportsSince(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	a := createAccount(t, storage, "Alice", "+15550000001")
	b := createAccount(t, storage, "Bob", "+15550000002")
	phone := "+15559990000"
	now := time.Now().UTC()

	insertReportAt(t, storage, "r1", a.ID, phone, now.AddDate(0, 0, -45))
	insertReportAt(t, storage, "r2", b.ID, phone, now.AddDate(0, 0, -2))

	recent, err := storage.CountActiveSpamReportsSince(ctx, phone, now.AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, 1, recent)

	total, err := storage.CountActiveSpamReports(ctx, phone)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestSpamStatistics(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC) // Friday

	reporters := make([]*types.Account, 0, 10)
	for i := 0; i < 10; i++ {
		reporters = append(reporters, createAccount(t, storage, "Reporter", "+1555000010"+string(rune('0'+i))))
	}

	// +1 has ten reports today, +2 five reports 3 days ago, +3 one report 19 days ago
	for i, r := range reporters {
		insertReportAt(t, storage, "a"+string(rune('0'+i)), r.ID, "+15551000001", now.Add(-time.Hour))
	}
	for i, r := range reporters[:5] {
		insertReportAt(t, storage, "b"+string(rune('0'+i)), r.ID, "+15551000002", now.AddDate(0, 0, -3))
	}
	insertReportAt(t, storage, "c0", reporters[0].ID, "+15551000003", now.AddDate(0, 0, -19))

	// Inactive reports are ignored
	_, err := storage.db.Exec(`UPDATE spam_reports SET is_active = 0 WHERE id = 'c0'`)
	require.NoError(t, err)
	insertReportAt(t, storage, "c1", reporters[1].ID, "+15551000003", now.AddDate(0, 0, -19))

	stats, err := storage.SpamStatistics(ctx, now)
	require.NoError(t, err)

	assert.Equal(t, 16, stats.TotalReports)
	assert.Equal(t, 10, stats.ReportsToday)
	assert.Equal(t, 15, stats.ReportsThisWeek)
	assert.Equal(t, 16, stats.ReportsThisMonth)

	require.Len(t, stats.MostReportedNumbers, 3)
	assert.Equal(t, types.NumberReportCount{PhoneNumber: "+15551000001", ReportCount: 10}, stats.MostReportedNumbers[0])
	assert.Equal(t, types.NumberReportCount{PhoneNumber: "+15551000002", ReportCount: 5}, stats.MostReportedNumbers[1])

	assert.Equal(t, types.LikelihoodDistribution{High: 1, Medium: 1, Low: 1}, stats.Distribution)

	// Friday=5, Tuesday=2 (3 days before), Sunday=0 (19 days before)
	assert.Equal(t, []types.BucketCount{{Bucket: 0, Count: 1}, {Bucket: 2, Count: 5}, {Bucket: 5, Count: 10}}, stats.ReportsByWeekday)

	require.NotEmpty(t, stats.PeakReportingHours)
	assert.Equal(t, types.BucketCount{Bucket: 13, Count: 10}, stats.PeakReportingHours[0])
}

func TestSpamStatistics_Empty(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	stats, err := storage.SpamStatistics(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalReports)
	assert.Empty(t, stats.MostReportedNumbers)
	assert.NotNil(t, stats.ReportsByWeekday)
	assert.Equal(t, types.LikelihoodDistribution{}, stats.Distribution)
}

func TestTransaction(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()

	tx, err := storage.BeginTx(ctx)
	require.NoError(t, err)

	owner := &types.Account{DisplayName: "Alice", PhoneNumber: "+15550000001"}
	require.NoError(t, tx.CreateAccount(ctx, owner))
	require.NoError(t, tx.UpsertContact(ctx, &types.ContactEntry{OwnerID: owner.ID, DisplayName: "Mom", PhoneNumber: "+15551112222"}))

	// Reads inside the transaction see its writes
	found, err := tx.FindAccountByPhone(ctx, "+15550000001")
	require.NoError(t, err)
	assert.Equal(t, owner.ID, found.ID)

	require.NoError(t, tx.Commit())

	has, err := storage.HasContact(ctx, owner.ID, "+15551112222")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestTransaction_Rollback(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()

	tx, err := storage.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.CreateAccount(ctx, &types.Account{DisplayName: "Alice", PhoneNumber: "+15550000001"}))
	require.NoError(t, tx.Rollback())

	count, err := storage.CountAccounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestTransaction_Nested(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	tx, err := storage.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback()

	_, err = tx.BeginTx(ctx)
	assert.Error(t, err)
	assert.NoError(t, tx.Close())
}
