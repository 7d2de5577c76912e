package domain

// BookingStatus represents the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingPaid      BookingStatus = "PAID"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingCompleted BookingStatus = "COMPLETED"
)

// Booking is the slice of the booking record this service reads and,
// on payment confirmation, mutates. Creation and the rest of the booking
// lifecycle live in the bookings service.
type Booking struct {
	ID          string
	UserID      string
	TotalAmount int64
	Status      BookingStatus
}

// IsPayable reports whether a payment can be initiated against the booking.
// Only a PENDING booking may be paid; PAID, CANCELLED and COMPLETED are all
// non-payable.
func (b *Booking) IsPayable() bool {
	return b.Status == BookingPending
}

// IsOwnedBy reports whether the booking belongs to the given user.
func (b *Booking) IsOwnedBy(userID string) bool {
	return b.UserID == userID
}
