// Package storage provides SQLite-based persistence for the directory:
// registered accounts, per-owner contact entries and spam reports.
//
// # Database Schema
//
// Tables:
//   - accounts: registered users, unique by phone number
//   - contacts: an owner's label for a number, unique per (owner, number)
//   - spam_reports: one row per report; retraction flips is_active and
//     keeps the row. A partial unique index allows at most one active
//     report per (reporter, number).
//
// Name lookups are substring matches on a Unicode case-folded copy of the
// name (display_name_folded), returned in insertion order so callers that
// sort stably keep a deterministic tie order. Phone numbers are stored in
// canonical form; malformed numbers are rejected on write.
//
// # Basic Usage
//
//	db, err := storage.NewSQLiteStorage("~/.callerid/callerid.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	account, err := db.FindAccountByPhone(ctx, "+15551234567")
//	if errors.Is(err, storage.ErrNotFound) {
//	    // unregistered number
//	}
//
// # Transactions
//
//	tx, err := db.BeginTx(ctx)
//	if err != nil {
//	    return err
//	}
//	defer tx.Rollback()
//
//	_ = tx.CreateAccount(ctx, account)
//	_ = tx.UpsertContact(ctx, contact)
//
//	if err := tx.Commit(); err != nil {
//	    return err
//	}
//
// # Build Tags
//
// Pure Go build (default, or purego tag): modernc.org/sqlite.
//
// CGO build (cgo_sqlite tag): github.com/mattn/go-sqlite3.
//
//	CGO_ENABLED=1 go build -tags "cgo_sqlite"
package storage
