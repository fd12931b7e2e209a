package notify

import (
	"strings"

	"github.com/google/uuid"
)

type RecipientKind int

const (
	// KindAddress is a contact address used as given.
	KindAddress RecipientKind = iota
	// KindUser is a portal user resolved through its profile.
	KindUser
)

// Recipient is either a raw address or a reference to a user.
type Recipient struct {
	Kind    RecipientKind
	Address string
	UserID  uuid.UUID
}

func Address(addr string) Recipient {
	return Recipient{Kind: KindAddress, Address: addr}
}

func UserRef(id uuid.UUID) Recipient {
	return Recipient{Kind: KindUser, UserID: id}
}

// ParseRecipients classifies each string on its own: UUIDs become user
// references, anything else an address. Blank entries are dropped.
func ParseRecipients(raw []string) []Recipient {
	out := make([]Recipient, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if id, err := uuid.Parse(s); err == nil && len(s) == 36 {
			out = append(out, UserRef(id))
			continue
		}
		out = append(out, Address(s))
	}
	return out
}
