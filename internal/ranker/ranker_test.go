package ranker

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/callerid-mcp/pkg/types"
)

func account(name, phone string) *types.Account {
	return &types.Account{ID: "acct-" + phone, DisplayName: name, PhoneNumber: phone}
}

func contact(owner, name, phone string) *types.ContactEntry {
	return &types.ContactEntry{ID: owner + phone, OwnerID: owner, DisplayName: name, PhoneNumber: phone}
}

func names(candidates []Candidate) []string {
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.Name
	}
	return out
}

func TestRank(t *testing.T) {
	tests := []struct {
		name string
		want float64
	}{
		{"John", RankExact},
		{"JOHN", RankExact},
		{"Johnny", RankPrefix},
		{"john smith", RankPrefix},
		{"Big John", RankSubstring},
		{"Alice", RankNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Rank("john", tt.name))
		})
	}
	assert.Equal(t, RankNone, Rank("", "John"))
}

func TestMerge_JohnScenario(t *testing.T) {
	accounts := []*types.Account{account("John Smith", "+15550000001")}
	contacts := []*types.ContactEntry{
		contact("o1", "Johnny", "+15550000002"),
		contact("o2", "John Smith", "+15550000001"),
	}

	got := Merge("john", accounts, contacts)

	require.Len(t, got, 2)
	assert.Equal(t, "John Smith", got[0].Name)
	assert.True(t, got[0].IsRegisteredAccount)
	assert.NotNil(t, got[0].Account)
	assert.Equal(t, "Johnny", got[1].Name)
	assert.False(t, got[1].IsRegisteredAccount)
	assert.Nil(t, got[1].Account)
}

func TestMerge_RankOrderWithinSource(t *testing.T) {
	accounts := []*types.Account{
		account("Big John", "+15550000001"),
		account("Johnny", "+15550000002"),
		account("john", "+15550000003"),
		account("Johanna", "+15550000004"), // no match
	}
	contacts := []*types.ContactEntry{
		contact("o1", "Uncle John", "+15550000011"),
		contact("o1", "John", "+15550000012"),
		contact("o1", "Johnson", "+15550000013"),
	}

	got := Merge("John", accounts, contacts)

	assert.Equal(t, []string{"john", "Johnny", "Big John", "John", "Johnson", "Uncle John"}, names(got))
}

func TestMerge_StableTies(t *testing.T) {
	contacts := []*types.ContactEntry{
		contact("o1", "Johnny B", "+15550000001"),
		contact("o2", "Johnny A", "+15550000002"),
		contact("o3", "Johnny C", "+15550000003"),
	}

	got := Merge("johnny", nil, contacts)

	assert.Equal(t, []string{"Johnny B", "Johnny A", "Johnny C"}, names(got))
}

func TestMerge_FirstSeenNameWinsAmongContacts(t *testing.T) {
	contacts := []*types.ContactEntry{
		contact("o1", "Mom", "+15550000001"),
		contact("o2", "Mommy", "+15550000001"),
	}

	got := Merge("mom", nil, contacts)

	require.Len(t, got, 1)
	assert.Equal(t, "Mom", got[0].Name)
}

func TestMerge_AccountShadowsHigherRankedContact(t *testing.T) {
	accounts := []*types.Account{account("Big John", "+15550000001")} // substring
	contacts := []*types.ContactEntry{contact("o1", "John", "+15550000001")} // exact

	got := Merge("john", accounts, contacts)

	require.Len(t, got, 1)
	assert.Equal(t, "Big John", got[0].Name)
	assert.True(t, got[0].IsRegisteredAccount)
}

func TestMerge_NoDuplicatePhones(t *testing.T) {
	var accounts []*types.Account
	var contacts []*types.ContactEntry
	for i := 0; i < 30; i++ {
		phone := fmt.Sprintf("+1555000%04d", i%7)
		if i%3 == 0 {
			accounts = append(accounts, account(fmt.Sprintf("Ann %d", i), phone))
		} else {
			contacts = append(contacts, contact(fmt.Sprintf("o%d", i), fmt.Sprintf("Annie %d", i), phone))
		}
	}

	got := Merge("ann", accounts, contacts)

	seen := map[string]bool{}
	for _, c := range got {
		assert.False(t, seen[c.PhoneNumber], "duplicate phone %s", c.PhoneNumber)
		seen[c.PhoneNumber] = true
	}

	// Accounts precede contacts
	sawContact := false
	for _, c := range got {
		if !c.IsRegisteredAccount {
			sawContact = true
		} else {
			assert.False(t, sawContact, "account after contact")
		}
	}
}

func TestMerge_Empty(t *testing.T) {
	got := Merge("john", nil, nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestMergePhone_Account(t *testing.T) {
	a := account("Alice", "+15550000001")
	got := MergePhone(a, []*types.ContactEntry{contact("o1", "Ally", "+15550000001")})

	require.NotNil(t, got)
	assert.Equal(t, "Alice", got.Name)
	assert.True(t, got.IsRegisteredAccount)
	assert.Empty(t, got.AssociatedNames)
}

func TestMergePhone_SharedContact(t *testing.T) {
	contacts := []*types.ContactEntry{
		contact("o1", "Mom", "+15550000001"),
		contact("o2", "Mother", "+15550000001"),
		contact("o3", "Mom", "+15550000001"),
	}

	got := MergePhone(nil, contacts)

	require.NotNil(t, got)
	assert.Equal(t, "Mom", got.Name)
	assert.False(t, got.IsRegisteredAccount)
	assert.Equal(t, []string{"Mom", "Mother"}, got.AssociatedNames)
	assert.Equal(t, "+15550000001", got.PhoneNumber)
}

func TestMergePhone_NoMatch(t *testing.T) {
	assert.Nil(t, MergePhone(nil, nil))
}
