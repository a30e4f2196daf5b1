// Package visibility decides which contact details a requester may see.
package visibility

import (
	"context"
	"fmt"

	"github.com/dshills/callerid-mcp/pkg/types"
)

// ContactChecker reports whether ownerID keeps phone in its contacts
type ContactChecker interface {
	HasContact(ctx context.Context, ownerID, phone string) (bool, error)
}

// Gate applies the mutual-contact rule: a requester may see a target's
// email when the target has listed the requester's number as a contact.
// Listing the target yourself grants nothing. Decisions are per request
// and never cached.
type Gate struct {
	contacts ContactChecker
}

// NewGate creates a Gate
func NewGate(contacts ContactChecker) *Gate {
	return &Gate{contacts: contacts}
}

// CanSeeEmail reports whether requester may see target's email. A nil
// requester sees nothing; requesters always see their own email.
func (g *Gate) CanSeeEmail(ctx context.Context, requester, target *types.Account) (bool, error) {
	if requester == nil || target == nil {
		return false, nil
	}
	if requester.ID == target.ID {
		return true, nil
	}
	listed, err := g.contacts.HasContact(ctx, target.ID, requester.PhoneNumber)
	if err != nil {
		return false, fmt.Errorf("failed to check contact visibility: %w", err)
	}
	return listed, nil
}

// Email returns target's email when visible and nil otherwise
func (g *Gate) Email(ctx context.Context, requester, target *types.Account) (*string, error) {
	if target == nil || target.Email == nil {
		return nil, nil
	}
	ok, err := g.CanSeeEmail(ctx, requester, target)
	if err != nil || !ok {
		return nil, err
	}
	email := *target.Email
	return &email, nil
}
