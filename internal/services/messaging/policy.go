package messaging

import "github.com/mmondo-adventures/tours_be/internal/models"

// Authorize decides whether sender may message receiver, optionally about a
// booking. The role table applies to every send, booking-scoped or not;
// booking ownership is only checked when a booking is referenced. Callers
// resolve receiver and booking first, so missing references surface as
// not-found before any role check runs.
func Authorize(sender, receiver *models.User, booking *models.Booking) error {
	switch sender.Role {
	case models.RoleCustomer:
		if booking != nil && booking.UserID != sender.ID {
			return ErrNotBookingOwner
		}
		if receiver.Role != models.RoleSuperadmin {
			return ErrCustomerReceiver
		}
	case models.RoleAdmin:
		if receiver.Role != models.RoleSuperadmin {
			return ErrAdminReceiver
		}
	case models.RoleSuperadmin:
		if receiver.Role != models.RoleAdmin && receiver.Role != models.RoleSuperadmin {
			return ErrSuperadminReceiver
		}
	}
	return nil
}
