package domain

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is the single direct-message thread between two users. The
// pair is unordered: (User1ID, User2ID) and (User2ID, User1ID) denote the
// same conversation, stored in the orientation of its first creator.
type Conversation struct {
	ID        uuid.UUID `json:"id"`
	User1ID   uuid.UUID `json:"user1_id"`
	User2ID   uuid.UUID `json:"user2_id"`
	CreatedAt time.Time `json:"created_at"`
}

// HasParticipant reports whether userID is one of the two participants.
func (c *Conversation) HasParticipant(userID uuid.UUID) bool {
	return c.User1ID == userID || c.User2ID == userID
}

// OtherParticipant returns the participant that is not userID.
func (c *Conversation) OtherParticipant(userID uuid.UUID) uuid.UUID {
	if c.User1ID == userID {
		return c.User2ID
	}
	return c.User1ID
}

// CanonicalPair orders two user ids so that equality ignores argument order.
func CanonicalPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if a.String() > b.String() {
		return b, a
	}
	return a, b
}
