package reservation

import (
	"context"
	"fmt"

	"github.com/cinetix/cinema-booking/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Prunes seat IDs whose hold marker has expired from the per-showtime set
// and returns the ones still live. Absence of the marker is authoritative,
// Redis expiry already did the work.
var filterLiveHeldSeats = redis.NewScript(`
	local setKey = KEYS[1]
	local showtimeId = ARGV[1]
	local cursor = "0"
	local batchSize = 100
	local expiredSeats = {}
	local liveSeats = {}

	repeat
		local result = redis.call("SSCAN", setKey, cursor, "COUNT", batchSize)
		cursor = result[1]
		local seatIds = result[2]

		for _, seatId in ipairs(seatIds) do
			local markerKey = "seat_hold:" .. showtimeId .. ":" .. seatId
			if redis.call("EXISTS", markerKey) == 0 then
				table.insert(expiredSeats, seatId)
			else
				table.insert(liveSeats, seatId)
			end
		end
	until cursor == "0"

	if #expiredSeats > 0 then
		redis.call("SREM", setKey, unpack(expiredSeats))
	end

	return liveSeats
`)

// AvailableSeats returns the showtime's full seat inventory with every seat
// flagged available unless it carries a pending/booked durable status or a
// live hold marker. The result is a lock-free snapshot and may be stale the
// moment it is produced; a subsequent hold request is the actual authority.
func (s *Service) AvailableSeats(ctx context.Context, showtimeID int) (*domain.ShowtimeSeats, error) {
	showtimeSeats, err := s.seatRepo.GetSeatsByShowtime(ctx, showtimeID)
	if err != nil {
		return nil, err
	}

	if len(showtimeSeats.Seats) == 0 {
		return nil, domain.ErrShowtimeNotFound
	}

	cmd := filterLiveHeldSeats.Run(ctx, s.store, []string{heldSeatSetKey(showtimeID)}, showtimeID)
	heldSeatIDs, err := cmd.Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("failed to run filterLiveHeldSeats script: %w", err)
	}

	reservedSeatIDs, err := s.bookingRepo.GetReservedSeatIDs(ctx, showtimeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reserved seats from DB: %w", err)
	}

	unavailable := make(map[int]bool)

	for _, seatID := range heldSeatIDs {
		unavailable[int(seatID)] = true
	}

	for _, seatID := range reservedSeatIDs {
		unavailable[seatID] = true
	}

	for i := range showtimeSeats.Seats {
		showtimeSeats.Seats[i].Available = !unavailable[showtimeSeats.Seats[i].ID]
	}

	return showtimeSeats, nil
}
