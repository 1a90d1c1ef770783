package messaging

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mmondo-adventures/tours_be/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// one connection so every query sees the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Tour{},
		&models.Booking{},
		&models.Message{},
	))
	return db
}

func newUser(t *testing.T, db *gorm.DB, role models.Role, name string) *models.User {
	t.Helper()
	u := &models.User{
		ID:       uuid.New(),
		FullName: name,
		Email:    uuid.New().String() + "@example.com",
		Password: "x",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func newBooking(t *testing.T, db *gorm.DB, owner *models.User, tourTitle string) *models.Booking {
	t.Helper()
	tour := &models.Tour{Title: tourTitle, Country: "Uganda", Price: 100, IsActive: true}
	require.NoError(t, db.Create(tour).Error)

	b := &models.Booking{
		UserID:        owner.ID,
		TourID:        tour.ID,
		Adults:        2,
		TotalPrice:    200,
		PaymentStatus: models.PaymentStatusPaid,
	}
	require.NoError(t, db.Create(b).Error)
	return b
}

func mustCreate(t *testing.T, s *Store, from, to *models.User, content string) *models.Message {
	t.Helper()
	msg, err := s.Create(from.ID, CreateInput{ReceiverID: to.ID, Content: content})
	require.NoError(t, err)
	return msg
}

func TestCreateDefaultsAndRoundTrip(t *testing.T) {
	db := newTestDB(t)
	s := NewStore(db)

	customer := newUser(t, db, models.RoleCustomer, "Alice Customer")
	admin := newUser(t, db, models.RoleSuperadmin, "Sam Super")
	booking := newBooking(t, db, customer, "Gorilla Trek")

	subject := "Pickup time"
	msg, err := s.Create(customer.ID, CreateInput{
		ReceiverID: admin.ID,
		BookingID:  &booking.ID,
		Subject:    &subject,
		Content:    "What time is the pickup?",
	})
	require.NoError(t, err)

	assert.Equal(t, models.MessageStatusUnread, msg.Status)
	assert.NotEqual(t, uuid.Nil, msg.ID)
	assert.False(t, msg.CreatedAt.IsZero())

	got, err := s.GetByID(msg.ID)
	require.NoError(t, err)
	assert.Equal(t, customer.ID, got.SenderID)
	assert.Equal(t, admin.ID, got.ReceiverID)
	require.NotNil(t, got.BookingID)
	assert.Equal(t, booking.ID, *got.BookingID)
	require.NotNil(t, got.Subject)
	assert.Equal(t, subject, *got.Subject)
	assert.Equal(t, "What time is the pickup?", got.Content)
	assert.Nil(t, got.ParentMessageID)
}

func TestCreateValidation(t *testing.T) {
	db := newTestDB(t)
	s := NewStore(db)

	a := newUser(t, db, models.RoleCustomer, "A")
	b := newUser(t, db, models.RoleSuperadmin, "B")

	_, err := s.Create(a.ID, CreateInput{ReceiverID: b.ID, Content: "   "})
	assert.ErrorIs(t, err, ErrEmptyContent)

	_, err = s.Create(a.ID, CreateInput{ReceiverID: a.ID, Content: "hello me"})
	assert.ErrorIs(t, err, ErrSelfMessage)

	missingBooking := uint(9999)
	_, err = s.Create(a.ID, CreateInput{ReceiverID: b.ID, BookingID: &missingBooking, Content: "hi"})
	assert.ErrorIs(t, err, ErrBookingNotFound)

	missingParent := uuid.New()
	_, err = s.Create(a.ID, CreateInput{ReceiverID: b.ID, ParentMessageID: &missingParent, Content: "hi"})
	assert.ErrorIs(t, err, ErrParentNotFound)
}

func TestGetByIDNotFound(t *testing.T) {
	db := newTestDB(t)
	s := NewStore(db)

	msg, err := s.GetByID(uuid.New())
	assert.Nil(t, msg)
	assert.ErrorIs(t, err, ErrMessageNotFound)
}

func TestListForUserOrderAndPagination(t *testing.T) {
	db := newTestDB(t)
	s := NewStore(db)

	a := newUser(t, db, models.RoleCustomer, "A")
	b := newUser(t, db, models.RoleSuperadmin, "B")
	c := newUser(t, db, models.RoleSuperadmin, "C")

	m1 := mustCreate(t, s, a, b, "first")
	m2 := mustCreate(t, s, b, a, "second")
	m3 := mustCreate(t, s, a, c, "third")
	mustCreate(t, s, b, c, "not a's message")

	msgs, err := s.ListForUser(a.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, m3.ID, msgs[0].ID)
	assert.Equal(t, m2.ID, msgs[1].ID)
	assert.Equal(t, m1.ID, msgs[2].ID)

	page, err := s.ListForUser(a.ID, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, m2.ID, page[0].ID)

	// limit is clamped, negative skip is ignored
	all, err := s.ListForUser(a.ID, -5, MaxPageSize+1000)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestListConversationSymmetricAndChronological(t *testing.T) {
	db := newTestDB(t)
	s := NewStore(db)

	a := newUser(t, db, models.RoleCustomer, "A")
	b := newUser(t, db, models.RoleSuperadmin, "B")
	c := newUser(t, db, models.RoleSuperadmin, "C")

	m1 := mustCreate(t, s, a, b, "one")
	m2 := mustCreate(t, s, b, a, "two")
	m3 := mustCreate(t, s, a, b, "three")
	mustCreate(t, s, a, c, "other thread")

	ab, err := s.ListConversation(a.ID, b.ID, nil)
	require.NoError(t, err)
	ba, err := s.ListConversation(b.ID, a.ID, nil)
	require.NoError(t, err)

	require.Len(t, ab, 3)
	require.Equal(t, len(ab), len(ba))
	for i := range ab {
		assert.Equal(t, ab[i].ID, ba[i].ID, "argument order must not change ordering")
	}
	assert.Equal(t, m1.ID, ab[0].ID)
	assert.Equal(t, m2.ID, ab[1].ID)
	assert.Equal(t, m3.ID, ab[2].ID)
}

func TestListConversationBookingFilter(t *testing.T) {
	db := newTestDB(t)
	s := NewStore(db)

	a := newUser(t, db, models.RoleCustomer, "A")
	b := newUser(t, db, models.RoleSuperadmin, "B")
	booking := newBooking(t, db, a, "Nile Rafting")

	mustCreate(t, s, a, b, "general question")
	scoped, err := s.Create(a.ID, CreateInput{ReceiverID: b.ID, BookingID: &booking.ID, Content: "about my booking"})
	require.NoError(t, err)

	msgs, err := s.ListConversation(a.ID, b.ID, &booking.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, scoped.ID, msgs[0].ID)
}

func TestCountUnreadMatchesListForUser(t *testing.T) {
	db := newTestDB(t)
	s := NewStore(db)

	a := newUser(t, db, models.RoleCustomer, "A")
	b := newUser(t, db, models.RoleSuperadmin, "B")
	c := newUser(t, db, models.RoleSuperadmin, "C")

	mustCreate(t, s, b, a, "unread 1")
	m2 := mustCreate(t, s, c, a, "unread 2")
	mustCreate(t, s, a, b, "sent by a, never counts")

	_, err := s.MarkRead(m2.ID, a.ID)
	require.NoError(t, err)

	n, err := s.CountUnread(a.ID)
	require.NoError(t, err)

	msgs, err := s.ListForUser(a.ID, 0, MaxPageSize)
	require.NoError(t, err)
	manual := int64(0)
	for _, m := range msgs {
		if m.ReceiverID == a.ID && m.Status == models.MessageStatusUnread {
			manual++
		}
	}
	assert.Equal(t, manual, n)
	assert.Equal(t, int64(1), n)
}

func TestMarkReadIdempotentAndAuthorized(t *testing.T) {
	db := newTestDB(t)
	s := NewStore(db)

	a := newUser(t, db, models.RoleCustomer, "A")
	b := newUser(t, db, models.RoleSuperadmin, "B")
	outsider := newUser(t, db, models.RoleAdmin, "Outsider")

	msg := mustCreate(t, s, a, b, "read me")

	// neither sender nor an outsider may mark it
	_, err := s.MarkRead(msg.ID, a.ID)
	assert.ErrorIs(t, err, ErrNotMessageReceiver)
	_, err = s.MarkRead(msg.ID, outsider.ID)
	assert.ErrorIs(t, err, ErrNotMessageReceiver)

	got, err := s.GetByID(msg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MessageStatusUnread, got.Status, "unauthorized attempts must not mutate")

	first, err := s.MarkRead(msg.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MessageStatusRead, first.Status)

	second, err := s.MarkRead(msg.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MessageStatusRead, second.Status)

	_, err = s.MarkRead(uuid.New(), b.ID)
	assert.ErrorIs(t, err, ErrMessageNotFound)
}

func TestMarkReadTouchesUpdatedAt(t *testing.T) {
	db := newTestDB(t)
	s := NewStore(db)

	a := newUser(t, db, models.RoleCustomer, "A")
	b := newUser(t, db, models.RoleSuperadmin, "B")

	msg := mustCreate(t, s, a, b, "timestamps")
	created := msg.CreatedAt

	updated, err := s.MarkRead(msg.ID, b.ID)
	require.NoError(t, err)
	// compare instants, not time.Time structs: the DB round-trip changes the Location
	assert.True(t, created.Equal(updated.CreatedAt), "created_at is immutable")
	assert.False(t, updated.UpdatedAt.Before(created))
}

func TestMarkConversationReadScopedToPair(t *testing.T) {
	db := newTestDB(t)
	s := NewStore(db)

	a := newUser(t, db, models.RoleCustomer, "A")
	b := newUser(t, db, models.RoleSuperadmin, "B")
	c := newUser(t, db, models.RoleSuperadmin, "C")

	mustCreate(t, s, b, a, "from b 1")
	mustCreate(t, s, b, a, "from b 2")
	mustCreate(t, s, c, a, "from c")
	mustCreate(t, s, a, b, "a to b stays unread for b")

	updated, err := s.MarkConversationRead(a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	n, err := s.CountUnread(a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "unread from other senders must survive")

	bn, err := s.CountUnread(b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), bn, "the reverse direction is untouched")

	again, err := s.MarkConversationRead(a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), again)
}

func TestMarkArchived(t *testing.T) {
	db := newTestDB(t)
	s := NewStore(db)

	a := newUser(t, db, models.RoleCustomer, "A")
	b := newUser(t, db, models.RoleSuperadmin, "B")

	msg := mustCreate(t, s, a, b, "archive me")

	_, err := s.MarkArchived(msg.ID, a.ID)
	assert.ErrorIs(t, err, ErrNotMessageReceiver)

	got, err := s.MarkArchived(msg.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MessageStatusArchived, got.Status)

	again, err := s.MarkArchived(msg.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MessageStatusArchived, again.Status)
}

func TestCounterpartiesDeduplicated(t *testing.T) {
	db := newTestDB(t)
	s := NewStore(db)

	a := newUser(t, db, models.RoleCustomer, "A")
	b := newUser(t, db, models.RoleSuperadmin, "B")
	c := newUser(t, db, models.RoleSuperadmin, "C")

	mustCreate(t, s, a, b, "sent")
	mustCreate(t, s, b, a, "received")
	mustCreate(t, s, c, a, "received only")

	ids, err := s.Counterparties(a.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{b.ID, c.ID}, ids)

	empty, err := s.Counterparties(uuid.New())
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDeletePermissionsAndOrphans(t *testing.T) {
	db := newTestDB(t)
	s := NewStore(db)

	a := newUser(t, db, models.RoleCustomer, "A")
	b := newUser(t, db, models.RoleSuperadmin, "B")
	outsider := newUser(t, db, models.RoleAdmin, "Outsider")

	parent := mustCreate(t, s, a, b, "parent")
	reply, err := s.Create(b.ID, CreateInput{ReceiverID: a.ID, ParentMessageID: &parent.ID, Content: "reply"})
	require.NoError(t, err)

	err = s.Delete(parent.ID, outsider.ID)
	assert.ErrorIs(t, err, ErrNotParticipant)
	_, err = s.GetByID(parent.ID)
	require.NoError(t, err, "non-participant delete must not remove the row")

	require.NoError(t, s.Delete(parent.ID, a.ID))
	_, err = s.GetByID(parent.ID)
	assert.ErrorIs(t, err, ErrMessageNotFound)

	// the reply is orphaned, not cascaded
	got, err := s.GetByID(reply.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ParentMessageID)
	assert.Equal(t, parent.ID, *got.ParentMessageID)

	// receiver may delete too
	require.NoError(t, s.Delete(reply.ID, a.ID))

	err = s.Delete(uuid.New(), a.ID)
	assert.ErrorIs(t, err, ErrMessageNotFound)
}
