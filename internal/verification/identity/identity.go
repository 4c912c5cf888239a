// Package identity implements out-of-band identity confirmation over
// email or phone. A confirmation token is delivered to the destination
// the mentor controls; presenting it back proves control of that
// channel and flips the identity signal for the subject.
package identity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Channel is the out-of-band delivery channel for a confirmation token.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelPhone Channel = "phone"
)

func (c Channel) Valid() bool {
	return c == ChannelEmail || c == ChannelPhone
}

// Confirmation is a pending out-of-band confirmation. TokenHash holds a
// bcrypt hash; the plaintext token exists only in the delivery message.
type Confirmation struct {
	SubjectID   uuid.UUID
	Channel     Channel
	Destination string
	TokenHash   string
	IssuedAt    time.Time
	ExpiresAt   time.Time
	Used        bool
}

func (c *Confirmation) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// ValidDestination performs lightweight format validation for the
// given channel. It rejects obviously malformed input; deliverability
// is the sender's problem.
func ValidDestination(channel Channel, destination string) bool {
	switch channel {
	case ChannelEmail:
		parts := strings.Split(destination, "@")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return false
		}
		return strings.Contains(parts[1], ".")
	case ChannelPhone:
		digits := 0
		for _, r := range destination {
			switch {
			case r >= '0' && r <= '9':
				digits++
			case r == '+' || r == ' ' || r == '-' || r == '(' || r == ')':
			default:
				return false
			}
		}
		return digits >= 7
	default:
		return false
	}
}
