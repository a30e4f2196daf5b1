package storage

import (
	"context"
	"time"

	"github.com/dshills/callerid-mcp/pkg/types"
)

// Storage defines the record store the search core queries: accounts,
// per-owner contact entries and spam reports
type Storage interface {
	// Account operations
	CreateAccount(ctx context.Context, account *types.Account) error
	GetAccount(ctx context.Context, accountID string) (*types.Account, error)
	FindAccountByPhone(ctx context.Context, phone string) (*types.Account, error)
	FindAccountsByNamePattern(ctx context.Context, pattern string) ([]*types.Account, error)
	CountAccounts(ctx context.Context) (int, error)

	// Contact operations
	UpsertContact(ctx context.Context, contact *types.ContactEntry) error
	FindContactsByNamePattern(ctx context.Context, pattern string) ([]*types.ContactEntry, error)
	FindContactsByPhone(ctx context.Context, phone string) ([]*types.ContactEntry, error)
	HasContact(ctx context.Context, ownerID, phone string) (bool, error)

	// Spam report operations
	CreateSpamReport(ctx context.Context, reporterID, phone string) (*types.SpamReport, error)
	RetractSpamReport(ctx context.Context, reporterID, phone string) error
	CountActiveSpamReports(ctx context.Context, phone string) (int, error)
	CountActiveSpamReportsSince(ctx context.Context, phone string, since time.Time) (int, error)
	HasActiveSpamReport(ctx context.Context, reporterID, phone string) (bool, error)
	SpamStatistics(ctx context.Context, now time.Time) (*types.SpamStatistics, error)

	// Database operations
	Close() error
	BeginTx(ctx context.Context) (Tx, error)
}

// Tx represents a database transaction
type Tx interface {
	Commit() error
	Rollback() error
	Storage // Embed Storage interface for transaction operations
}
