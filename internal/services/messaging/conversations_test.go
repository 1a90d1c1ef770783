package messaging

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmondo-adventures/tours_be/internal/models"
)

func TestConversationsSummaries(t *testing.T) {
	db := newTestDB(t)
	s := NewStore(db)

	me := newUser(t, db, models.RoleSuperadmin, "Me")
	v := newUser(t, db, models.RoleCustomer, "Victor")
	w := newUser(t, db, models.RoleCustomer, "Wanda")
	booking := newBooking(t, db, w, "Murchison Falls Safari")

	// thread with v: two unread for me, oldest first
	mustCreate(t, s, v, me, "hi there")
	mustCreate(t, s, v, me, "are you around?")

	// thread with w: booking-scoped, the newest activity overall
	_, err := s.Create(w.ID, CreateInput{ReceiverID: me.ID, BookingID: &booking.ID, Content: "about my safari"})
	require.NoError(t, err)
	mustCreate(t, s, me, w, "happy to help")

	sums, err := s.Conversations(me.ID)
	require.NoError(t, err)
	require.Len(t, sums, 2)

	// newest activity first: w's thread got the last message
	assert.Equal(t, w.ID, sums[0].OtherUserID)
	assert.Equal(t, "Wanda", sums[0].OtherUserName)
	assert.Equal(t, "happy to help", sums[0].LastMessage)
	assert.Equal(t, 1, sums[0].UnreadCount)
	require.NotNil(t, sums[0].BookingID)
	assert.Equal(t, booking.ID, *sums[0].BookingID)
	assert.Equal(t, "Murchison Falls Safari", sums[0].BookingTitle)

	assert.Equal(t, v.ID, sums[1].OtherUserID)
	assert.Equal(t, "are you around?", sums[1].LastMessage)
	assert.Equal(t, 2, sums[1].UnreadCount)
	assert.Nil(t, sums[1].BookingID)
	assert.Empty(t, sums[1].BookingTitle)
}

func TestConversationsUnreadCountsOwnMessagesExcluded(t *testing.T) {
	db := newTestDB(t)
	s := NewStore(db)

	me := newUser(t, db, models.RoleSuperadmin, "Me")
	v := newUser(t, db, models.RoleAdmin, "Victor")

	mustCreate(t, s, me, v, "my own unread must not count for me")
	msg := mustCreate(t, s, v, me, "one for me")
	mustCreate(t, s, v, me, "two for me")

	_, err := s.MarkRead(msg.ID, me.ID)
	require.NoError(t, err)

	sums, err := s.Conversations(me.ID)
	require.NoError(t, err)
	require.Len(t, sums, 1)
	assert.Equal(t, 1, sums[0].UnreadCount)
}

func TestConversationsEmpty(t *testing.T) {
	db := newTestDB(t)
	s := NewStore(db)

	me := newUser(t, db, models.RoleCustomer, "Loner")
	sums, err := s.Conversations(me.ID)
	require.NoError(t, err)
	assert.Empty(t, sums)
}

func TestTruncatePreview(t *testing.T) {
	short := "short message"
	assert.Equal(t, short, truncatePreview(short))

	exact := strings.Repeat("a", previewLength)
	assert.Equal(t, exact, truncatePreview(exact))

	long := strings.Repeat("b", previewLength+1)
	got := truncatePreview(long)
	assert.Equal(t, strings.Repeat("b", previewLength)+"...", got)

	// multibyte content is cut on rune boundaries
	wide := strings.Repeat("ü", previewLength+5)
	got = truncatePreview(wide)
	assert.Equal(t, strings.Repeat("ü", previewLength)+"...", got)
}
