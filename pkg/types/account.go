package types

import "time"

// Account is a registered identity. PhoneNumber is canonical and unique
// across all accounts.
type Account struct {
	ID          string
	DisplayName string
	PhoneNumber string
	Email       *string // Nullable
	CreatedAt   time.Time
}

// Validate checks the account carries the fields the store requires
func (a *Account) Validate() error {
	if a.ID == "" {
		return ErrMissingID
	}
	if a.DisplayName == "" {
		return ErrMissingName
	}
	if a.PhoneNumber == "" {
		return ErrMissingPhoneNumber
	}
	return nil
}

// ContactEntry is a private address-book record one account keeps for a
// phone number. Unique per (OwnerID, PhoneNumber).
type ContactEntry struct {
	ID          string
	OwnerID     string
	DisplayName string // Owner's label for the number
	PhoneNumber string
	CreatedAt   time.Time
}

// Validate checks the contact entry carries the fields the store requires
func (c *ContactEntry) Validate() error {
	if c.ID == "" {
		return ErrMissingID
	}
	if c.OwnerID == "" {
		return ErrMissingOwner
	}
	if c.DisplayName == "" {
		return ErrMissingName
	}
	if c.PhoneNumber == "" {
		return ErrMissingPhoneNumber
	}
	return nil
}

// SpamReport is an account's flag that a phone number is unwanted.
// Retraction flips IsActive rather than deleting the row.
type SpamReport struct {
	ID                string
	ReporterAccountID string
	PhoneNumber       string
	CreatedAt         time.Time
	IsActive          bool
	RetractedAt       *time.Time // Nullable
}
