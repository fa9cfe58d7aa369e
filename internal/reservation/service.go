package reservation

import (
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/cinetix/cinema-booking/internal/domain"
)

const DefaultHoldTTL = 10 * time.Minute

// Service is the reservation engine. All cross-request coordination happens
// through the shared store and the Locker, never through in-process state,
// so any number of replicas can run it concurrently.
type Service struct {
	store           Store
	locker          *Locker
	logger          *slog.Logger
	seatRepo        domain.SeatRepository
	bookingRepo     domain.BookingRepository
	paymentProvider domain.PaymentProvider
	holdTTL         time.Duration
}

func NewService(
	store Store,
	locker *Locker,
	logger *slog.Logger,
	seatRepo domain.SeatRepository,
	bookingRepo domain.BookingRepository,
	paymentProvider domain.PaymentProvider,
	holdTTL time.Duration) *Service {

	if holdTTL <= 0 {
		holdTTL = DefaultHoldTTL
	}

	return &Service{
		store:           store,
		locker:          locker,
		logger:          logger,
		seatRepo:        seatRepo,
		bookingRepo:     bookingRepo,
		paymentProvider: paymentProvider,
		holdTTL:         holdTTL,
	}
}

func (s *Service) HoldTTL() time.Duration {
	return s.holdTTL
}
func holdKey(holdID string) string {
	return fmt.Sprintf("hold:%s", holdID)
}

func seatHoldKey(showtimeID, seatID int) string {
	return fmt.Sprintf("seat_hold:%d:%d", showtimeID, seatID)
}

func heldSeatSetKey(showtimeID int) string {
	return fmt.Sprintf("seat_holds:%d", showtimeID)
}

// lockResource derives the lock name from the showtime and the sorted seat
// set. Overlapping-but-not-identical seat sets hash to different resources
// and may still race; the per-seat marker writes below catch that, and seat
// collisions are rare and short-lived enough that per-seat locking is not
// worth its overhead.
func lockResource(showtimeID int, seatIDs []int) string {
	sorted := slices.Clone(seatIDs)
	slices.Sort(sorted)

	parts := make([]string, len(sorted))
	for i, id := range sorted {
		parts[i] = strconv.Itoa(id)
	}

	return fmt.Sprintf("showtime:%d:seats:%s", showtimeID, strings.Join(parts, "-"))
}
