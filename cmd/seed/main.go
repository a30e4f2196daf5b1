// Command seed fills a caller-ID database with random accounts, contacts
// and spam reports, then prints a token for one of the seeded accounts.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/callerid-mcp/internal/auth"
	"github.com/dshills/callerid-mcp/internal/config"
	"github.com/dshills/callerid-mcp/internal/storage"
	"github.com/dshills/callerid-mcp/pkg/logging"
	"github.com/dshills/callerid-mcp/pkg/types"
)

var names = []string{
	"John Smith", "Emma Wilson", "Michael Brown", "Sarah Davis", "James Johnson",
	"Lisa Anderson", "David Miller", "Jennifer Taylor", "Robert Jones", "Maria Garcia",
	"William Martinez", "Elizabeth Thomas", "Richard White", "Susan Moore", "Joseph Lee",
	"Margaret Wilson", "Charles Davis", "Patricia Brown", "Thomas Anderson", "Linda Martin",
}

var prefixes = []string{"+1", "+44", "+91", "+61", "+86"}

func main() {
	var (
		numAccounts = flag.Int("accounts", 20, "number of accounts to create")
		avgContacts = flag.Int("contacts", 10, "average contacts per account")
		spamProb    = flag.Float64("spam", 0.2, "probability an account reports a given contact")
		seed        = flag.Int64("seed", time.Now().UnixNano(), "random seed")
	)
	flag.Parse()

	logging.Setup()

	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := run(context.Background(), cfg, rand.New(rand.NewSource(*seed)), *numAccounts, *avgContacts, *spamProb); err != nil {
		slog.Error("seeding failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, rng *rand.Rand, numAccounts, avgContacts int, spamProb float64) error {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	store, err := storage.NewSQLiteStorage(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	tx, err := store.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	accounts, err := seedAccounts(ctx, tx, rng, numAccounts)
	if err != nil {
		return err
	}
	contacts, err := seedContacts(ctx, tx, rng, accounts, avgContacts)
	if err != nil {
		return err
	}
	reports, err := seedReports(ctx, tx, rng, accounts, contacts, spamProb)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	slog.Info("database seeded",
		"path", cfg.DBPath,
		"accounts", len(accounts),
		"contacts", len(contacts),
		"spam_reports", reports,
	)

	if len(accounts) == 0 {
		return nil
	}
	token, err := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL).Generate(accounts[0])
	if err != nil {
		return err
	}
	fmt.Printf("Account: %s (%s)\n", accounts[0].DisplayName, accounts[0].PhoneNumber)
	fmt.Printf("CALLERID_TOKEN=%s\n", token)
	return nil
}

func randomPhone(rng *rand.Rand) string {
	var b strings.Builder
	b.WriteString(prefixes[rng.Intn(len(prefixes))])
	for i := 0; i < 10; i++ {
		b.WriteByte(byte('0' + rng.Intn(10)))
	}
	return b.String()
}

func seedAccounts(ctx context.Context, store storage.Storage, rng *rand.Rand, n int) ([]*types.Account, error) {
	accounts := make([]*types.Account, 0, n)
	for len(accounts) < n {
		name := names[rng.Intn(len(names))]
		account := &types.Account{
			ID:          uuid.NewString(),
			DisplayName: name,
			PhoneNumber: randomPhone(rng),
		}
		// 70% of accounts carry an email
		if rng.Float64() > 0.3 {
			email := fmt.Sprintf("%s.%s@example.com", strings.ToLower(strings.ReplaceAll(name, " ", ".")), account.ID[:8])
			account.Email = &email
		}

		err := store.CreateAccount(ctx, account)
		if errors.Is(err, storage.ErrAlreadyExists) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create account: %w", err)
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

func seedContacts(ctx context.Context, store storage.Storage, rng *rand.Rand, accounts []*types.Account, avg int) ([]*types.ContactEntry, error) {
	var contacts []*types.ContactEntry
	for _, owner := range accounts {
		n := avg - 5 + rng.Intn(11)
		for i := 0; i < n; i++ {
			phone := randomPhone(rng)
			// Some entries point at registered accounts so searches merge names
			if rng.Float64() < 0.25 {
				phone = accounts[rng.Intn(len(accounts))].PhoneNumber
			}
			if phone == owner.PhoneNumber {
				continue
			}

			contact := &types.ContactEntry{
				ID:          uuid.NewString(),
				OwnerID:     owner.ID,
				DisplayName: names[rng.Intn(len(names))],
				PhoneNumber: phone,
			}
			if err := store.UpsertContact(ctx, contact); err != nil {
				return nil, fmt.Errorf("failed to create contact: %w", err)
			}
			contacts = append(contacts, contact)
		}
	}
	return contacts, nil
}

func seedReports(ctx context.Context, store storage.Storage, rng *rand.Rand, accounts []*types.Account, contacts []*types.ContactEntry, prob float64) (int, error) {
	if len(contacts) == 0 {
		return 0, nil
	}

	created := 0
	for _, reporter := range accounts {
		for _, c := range contacts {
			if rng.Float64() >= prob || c.PhoneNumber == reporter.PhoneNumber {
				continue
			}
			_, err := store.CreateSpamReport(ctx, reporter.ID, c.PhoneNumber)
			if errors.Is(err, types.ErrDuplicateReport) {
				continue
			}
			if err != nil {
				return created, fmt.Errorf("failed to create spam report: %w", err)
			}
			created++
		}
	}
	return created, nil
}
