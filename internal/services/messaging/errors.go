package messaging

import "errors"

// Validation failures (bad input, never retried).
var (
	ErrEmptyContent = errors.New("message content is required")
	ErrSelfMessage  = errors.New("cannot send a message to yourself")
)

// Not-found failures. Kept distinct from permission failures so callers can
// decide how much to leak; the HTTP layer collapses unauthorized reads into
// 404 on purpose.
var (
	ErrMessageNotFound  = errors.New("message not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrReceiverNotFound = errors.New("receiver not found")
	ErrParentNotFound   = errors.New("parent message not found")
)

// Permission failures.
var (
	ErrNotMessageReceiver = errors.New("only the receiver can mark a message as read")
	ErrNotParticipant     = errors.New("only the sender or receiver can delete a message")
	ErrNotBookingOwner    = errors.New("you don't have permission to message about this booking")
	ErrCustomerReceiver   = errors.New("customers can only message superadmins")
	ErrAdminReceiver      = errors.New("admins can only message superadmins")
	ErrSuperadminReceiver = errors.New("superadmins can only message admins or other superadmins")
)

func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyContent) || errors.Is(err, ErrSelfMessage)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrMessageNotFound) ||
		errors.Is(err, ErrBookingNotFound) ||
		errors.Is(err, ErrReceiverNotFound) ||
		errors.Is(err, ErrParentNotFound)
}

func IsPermission(err error) bool {
	return errors.Is(err, ErrNotMessageReceiver) ||
		errors.Is(err, ErrNotParticipant) ||
		errors.Is(err, ErrNotBookingOwner) ||
		errors.Is(err, ErrCustomerReceiver) ||
		errors.Is(err, ErrAdminReceiver) ||
		errors.Is(err, ErrSuperadminReceiver)
}
