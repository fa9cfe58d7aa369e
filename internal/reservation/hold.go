package reservation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cinetix/cinema-booking/internal/domain"
	"github.com/redis/go-redis/v9"
)

var ErrEmptySeatList = errors.New("seat list must not be empty")

// RequestHold claims the given seats for one showtime for the duration of
// the hold TTL. Under the distributed lock it checks every seat against both
// live hold markers and durable seat statuses; either all seats are held or
// none are. No durable writes happen here.
func (s *Service) RequestHold(ctx context.Context, showtimeID int, seatIDs []int, holderID string) (*domain.Hold, error) {
	if len(seatIDs) == 0 {
		return nil, ErrEmptySeatList
	}

	showtimeSeats, err := s.seatRepo.GetSeatsByShowtimeAndSeatIds(ctx, showtimeID, seatIDs)
	if err != nil {
		return nil, err
	}

	if len(showtimeSeats.Seats) != len(seatIDs) {
		return nil, domain.ErrRecordNotFound
	}

	var hold domain.Hold

	err = s.locker.WithLock(ctx, lockResource(showtimeID, seatIDs), func(ctx context.Context) error {
		conflicts, err := s.conflictingSeats(ctx, showtimeID, seatIDs)
		if err != nil {
			return err
		}

		if len(conflicts) > 0 {
			return domain.NewSeatConflictError(conflicts)
		}

		hold = domain.NewHold(showtimeID, seatIDs, holderID, showtimeSeats.TotalPrice(), s.holdTTL)

		return s.writeHold(ctx, hold)
	})

	if err != nil {
		return nil, err
	}

	return &hold, nil
}

// conflictingSeats returns the seats that already carry a live hold marker
// or a pending/booked durable status.
func (s *Service) conflictingSeats(ctx context.Context, showtimeID int, seatIDs []int) ([]int, error) {
	pipe := s.store.TxPipeline()

	existsCmds := make([]*redis.IntCmd, len(seatIDs))
	for i, seatID := range seatIDs {
		existsCmds[i] = pipe.Exists(ctx, seatHoldKey(showtimeID, seatID))
	}

	_, err := pipe.Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to probe seat hold markers: %w", err)
	}

	conflictSet := make(map[int]bool)

	for i, cmd := range existsCmds {
		if cmd.Val() > 0 {
			conflictSet[seatIDs[i]] = true
		}
	}

	reserved, err := s.bookingRepo.GetReservedSeatIDsIn(ctx, showtimeID, seatIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to check persisted seat statuses: %w", err)
	}

	for _, seatID := range reserved {
		conflictSet[seatID] = true
	}

	if len(conflictSet) == 0 {
		return nil, nil
	}

	conflicts := make([]int, 0, len(conflictSet))
	for _, seatID := range seatIDs {
		if conflictSet[seatID] {
			conflicts = append(conflicts, seatID)
		}
	}

	return conflicts, nil
}

// writeHold stores the hold document and one marker per seat, all with the
// same TTL. Markers are written with SetNX as a second line of defense; if
// any of them was taken between the check and the write, everything is
// rolled back and the request is reported as a conflict.
func (s *Service) writeHold(ctx context.Context, hold domain.Hold) error {
	holdBytes, err := json.Marshal(hold)
	if err != nil {
		return err
	}

	pipe := s.store.TxPipeline()

	setCmds := make([]*redis.BoolCmd, len(hold.SeatIDs))
	seatIDValues := make([]interface{}, len(hold.SeatIDs))

	for i, seatID := range hold.SeatIDs {
		setCmds[i] = pipe.SetNX(ctx, seatHoldKey(hold.ShowtimeID, seatID), hold.ID, s.holdTTL)
		seatIDValues[i] = seatID
	}

	pipe.SAdd(ctx, heldSeatSetKey(hold.ShowtimeID), seatIDValues...)
	pipe.Set(ctx, holdKey(hold.ID), holdBytes, s.holdTTL)

	_, err = pipe.Exec(ctx)
	if err != nil {
		// The SetNX outcomes are unknown on this path, so each marker may
		// belong to a competing hold by now. Only markers still carrying
		// this hold's ID are deleted.
		s.rollbackOwnedMarkers(ctx, hold)
		return fmt.Errorf("failed to write hold markers: %w", err)
	}

	var won, lost []int
	for i, cmd := range setCmds {
		if cmd.Val() {
			won = append(won, hold.SeatIDs[i])
		} else {
			lost = append(lost, hold.SeatIDs[i])
		}
	}

	if len(lost) > 0 {
		s.rollbackHold(ctx, hold, won)
		return domain.NewSeatConflictError(lost)
	}

	return nil
}

// rollbackHold removes the markers this hold actually won, their set
// memberships and the hold document. Seats whose SetNX lost are owned by a
// competing hold and must stay untouched, deleting them would let a third
// request double-claim a seat the competitor still holds.
func (s *Service) rollbackHold(ctx context.Context, hold domain.Hold, wonSeatIDs []int) {
	pipe := s.store.TxPipeline()

	for _, seatID := range wonSeatIDs {
		pipe.Del(ctx, seatHoldKey(hold.ShowtimeID, seatID))
	}

	if len(wonSeatIDs) > 0 {
		seatIDValues := make([]interface{}, len(wonSeatIDs))
		for i, seatID := range wonSeatIDs {
			seatIDValues[i] = seatID
		}

		pipe.SRem(ctx, heldSeatSetKey(hold.ShowtimeID), seatIDValues...)
	}

	pipe.Del(ctx, holdKey(hold.ID))

	_, err := pipe.Exec(ctx)
	if err != nil {
		s.logger.Error("failed to roll back hold markers", "hold_id", hold.ID, "error", err)
	}
}

// Compare-and-delete for markers whose ownership is uncertain: a marker is
// removed, and its seat dropped from the set, only while it still carries
// the rolling-back hold's ID. KEYS[1] is the set, KEYS[i>=2] the marker for
// seat ARGV[i]; ARGV[1] is the hold ID.
var releaseOwnedMarkers = redis.NewScript(`
	local setKey = KEYS[1]
	local holdId = ARGV[1]
	local released = {}

	for i = 2, #KEYS do
		if redis.call("GET", KEYS[i]) == holdId then
			redis.call("DEL", KEYS[i])
			table.insert(released, ARGV[i])
		end
	end

	if #released > 0 then
		redis.call("SREM", setKey, unpack(released))
	end

	return #released
`)

func (s *Service) rollbackOwnedMarkers(ctx context.Context, hold domain.Hold) {
	keys := make([]string, 0, len(hold.SeatIDs)+1)
	keys = append(keys, heldSeatSetKey(hold.ShowtimeID))

	argv := make([]interface{}, 0, len(hold.SeatIDs)+1)
	argv = append(argv, hold.ID)

	for _, seatID := range hold.SeatIDs {
		keys = append(keys, seatHoldKey(hold.ShowtimeID, seatID))
		argv = append(argv, seatID)
	}

	err := releaseOwnedMarkers.Run(ctx, s.store, keys, argv...).Err()
	if err != nil {
		s.logger.Error("failed to roll back hold markers", "hold_id", hold.ID, "error", err)
	}

	err = s.store.Del(ctx, holdKey(hold.ID)).Err()
	if err != nil {
		s.logger.Error("failed to delete hold document during rollback", "hold_id", hold.ID, "error", err)
	}
}

// ReleaseHold removes a hold before its TTL lapses. Only the session that
// created the hold may release it. A missing hold is indistinguishable from
// an expired one and is reported as such.
func (s *Service) ReleaseHold(ctx context.Context, holdID, holderID string) error {
	hold, err := s.getLiveHold(ctx, holdID)
	if err != nil {
		return err
	}

	if holderID != "" && hold.HolderID != holderID {
		return domain.ErrHoldNotOwned
	}

	return s.deleteHold(ctx, *hold)
}

// getLiveHold reads a hold by ID. Absence of the key is authoritative: it
// means the hold expired (or never existed), never an error condition. The
// ExpiresAt check additionally tolerates clock skew between the store and
// the application.
func (s *Service) getLiveHold(ctx context.Context, holdID string) (*domain.Hold, error) {
	holdBytes, err := s.store.Get(ctx, holdKey(holdID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrHoldExpired
		}

		return nil, err
	}

	var hold domain.Hold

	err = json.Unmarshal(holdBytes, &hold)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal hold %s: %w", holdID, err)
	}

	if !hold.IsLive(time.Now().UTC()) {
		return nil, domain.ErrHoldExpired
	}

	return &hold, nil
}

func (s *Service) deleteHold(ctx context.Context, hold domain.Hold) error {
	pipe := s.store.TxPipeline()

	seatIDValues := make([]interface{}, len(hold.SeatIDs))
	for i, seatID := range hold.SeatIDs {
		pipe.Del(ctx, seatHoldKey(hold.ShowtimeID, seatID))
		seatIDValues[i] = seatID
	}

	pipe.SRem(ctx, heldSeatSetKey(hold.ShowtimeID), seatIDValues...)
	pipe.Del(ctx, holdKey(hold.ID))

	_, err := pipe.Exec(ctx)

	return err
}
