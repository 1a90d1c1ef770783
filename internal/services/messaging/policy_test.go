package messaging

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmondo-adventures/tours_be/internal/models"
)

func user(role models.Role) *models.User {
	return &models.User{ID: uuid.New(), Role: role}
}

func TestAuthorizeRoleTable(t *testing.T) {
	customer := user(models.RoleCustomer)
	admin := user(models.RoleAdmin)
	super := user(models.RoleSuperadmin)

	cases := []struct {
		name     string
		sender   *models.User
		receiver *models.User
		wantErr  error
	}{
		{"customer to superadmin", customer, super, nil},
		{"customer to admin", customer, admin, ErrCustomerReceiver},
		{"customer to customer", customer, user(models.RoleCustomer), ErrCustomerReceiver},
		{"admin to superadmin", admin, super, nil},
		{"admin to admin", admin, user(models.RoleAdmin), ErrAdminReceiver},
		{"admin to customer", admin, customer, ErrAdminReceiver},
		{"superadmin to admin", super, admin, nil},
		{"superadmin to superadmin", super, user(models.RoleSuperadmin), nil},
		{"superadmin to customer", super, customer, ErrSuperadminReceiver},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Authorize(tc.sender, tc.receiver, nil)
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestAuthorizeBookingOwnership(t *testing.T) {
	customer := user(models.RoleCustomer)
	super := user(models.RoleSuperadmin)

	own := &models.Booking{ID: 1, UserID: customer.ID}
	someoneElses := &models.Booking{ID: 2, UserID: uuid.New()}

	assert.NoError(t, Authorize(customer, super, own))
	assert.ErrorIs(t, Authorize(customer, super, someoneElses), ErrNotBookingOwner)

	// ownership is checked before the receiver role, so a customer messaging
	// an admin about a foreign booking fails on ownership first
	admin := user(models.RoleAdmin)
	assert.ErrorIs(t, Authorize(customer, admin, someoneElses), ErrNotBookingOwner)

	// staff are not subject to the ownership check
	assert.NoError(t, Authorize(super, admin, someoneElses))
}

func TestErrorTaxonomy(t *testing.T) {
	require.True(t, IsValidation(ErrEmptyContent))
	require.True(t, IsValidation(ErrSelfMessage))

	require.True(t, IsNotFound(ErrMessageNotFound))
	require.True(t, IsNotFound(ErrBookingNotFound))
	require.True(t, IsNotFound(ErrReceiverNotFound))
	require.True(t, IsNotFound(ErrParentNotFound))

	require.True(t, IsPermission(ErrNotMessageReceiver))
	require.True(t, IsPermission(ErrNotParticipant))
	require.True(t, IsPermission(ErrNotBookingOwner))
	require.True(t, IsPermission(ErrCustomerReceiver))
	require.True(t, IsPermission(ErrAdminReceiver))
	require.True(t, IsPermission(ErrSuperadminReceiver))

	assert.False(t, IsNotFound(ErrNotParticipant))
	assert.False(t, IsPermission(ErrMessageNotFound))
	assert.False(t, IsValidation(ErrNotBookingOwner))
}
