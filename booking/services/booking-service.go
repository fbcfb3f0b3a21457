package services

import (
	"errors"
	"log"
	"time"

	"main/booking/model"
	"main/utils"
)

var errNotEnoughClaims = errors.New("could not claim enough rooms")

// BookingService moves rooms between the FreeRooms and OccupiedRooms tables.
//
// The default booking path is read-then-write with no isolation boundary: the
// free-room read, the per-room delete and the per-room insert are three
// independent store operations, so concurrent bookers can observe the same
// free-room snapshot and claim overlapping rooms. That behavior is part of the
// contract; callers wanting all-or-nothing claims opt into the conditional
// mode at construction.
type BookingService struct {
	dao               model.InventoryDao
	conditionalClaims bool
}

func NewBookingService(dao model.InventoryDao, conditionalClaims bool) *BookingService {
	return &BookingService{dao: dao, conditionalClaims: conditionalClaims}
}

// LoadHotel assembles the projection from two independent reads.
func (bs *BookingService) LoadHotel(hotelId int) (*model.Hotel, error) {
	freeRooms, err := bs.dao.SelectFreeRooms(hotelId)
	if err != nil {
		return nil, err
	}
	occupiedRooms, err := bs.dao.SelectOccupiedRooms(hotelId)
	if err != nil {
		return nil, err
	}

	hotel := model.NewHotel()
	hotel.FreeRooms = freeRooms
	hotel.OccupiedRooms = occupiedRooms
	return hotel, nil
}

// BookRooms allocates count rooms to the customer. It reports false without
// mutating anything when the free-room read shows insufficient inventory.
// On a store failure mid-loop, rooms already moved stay occupied; there is no
// compensating rollback and no retry.
func (bs *BookingService) BookRooms(hotelId int, customer string, count int) (bool, error) {
	if bs.conditionalClaims {
		return bs.bookRoomsConditional(hotelId, customer, count)
	}

	freeRooms, err := bs.dao.SelectFreeRooms(hotelId)
	if err != nil {
		return false, err
	}

	if len(freeRooms) < count {
		return false, nil
	}

	processed := 0
	for _, room := range freeRooms {
		if processed >= count {
			break
		}
		if err := bs.dao.DeleteFreeRoom(hotelId, room); err != nil {
			return false, err
		}
		if err := bs.dao.InsertOccupiedRoom(hotelId, room, customer); err != nil {
			return false, err
		}
		processed++
	}

	return true, nil
}

// bookRoomsConditional claims each room with a conditional delete, skipping
// rooms stolen by concurrent bookers and re-reading the free list under a
// bounded backoff until the quota is met. If it still cannot be met, every
// room claimed so far is released, so this mode is all-or-nothing.
func (bs *BookingService) bookRoomsConditional(hotelId int, customer string, count int) (bool, error) {
	var claimed []int
	retrier := utils.NewRetrier[struct{}](utils.NewExponentialBackoffStrategy(5, 20*time.Millisecond, 0.1, 500*time.Millisecond))
	_, err := retrier.DoWithReturn(func() (struct{}, error) {
		freeRooms, readErr := bs.dao.SelectFreeRooms(hotelId)
		if readErr != nil {
			return struct{}{}, readErr
		}
		for _, room := range freeRooms {
			if len(claimed) >= count {
				break
			}
			claimErr := bs.dao.ClaimFreeRoom(hotelId, room)
			if errors.Is(claimErr, model.ErrRoomTaken) {
				continue
			}
			if claimErr != nil {
				return struct{}{}, claimErr
			}
			if insertErr := bs.dao.InsertOccupiedRoom(hotelId, room, customer); insertErr != nil {
				return struct{}{}, insertErr
			}
			claimed = append(claimed, room)
		}
		if len(claimed) < count {
			return struct{}{}, errNotEnoughClaims
		}
		return struct{}{}, nil
	})

	if err == nil {
		return true, nil
	}

	if releaseErr := bs.releaseRooms(hotelId, claimed); releaseErr != nil {
		return false, releaseErr
	}
	if errors.Is(err, errNotEnoughClaims) {
		return false, nil
	}
	return false, err
}

func (bs *BookingService) releaseRooms(hotelId int, rooms []int) error {
	for _, room := range rooms {
		if err := bs.dao.DeleteOccupiedRoom(hotelId, room); err != nil {
			return err
		}
		if err := bs.dao.InsertFreeRoom(hotelId, room); err != nil {
			return err
		}
	}
	return nil
}

// UnBookRooms releases every room the customer holds at the hotel. The
// per-room delete and insert are independent writes, same as booking.
func (bs *BookingService) UnBookRooms(hotelId int, customer string) (bool, error) {
	rooms, err := bs.dao.SelectOccupiedRoomsByCustomer(hotelId, customer)
	if err != nil {
		return false, err
	}

	for _, room := range rooms {
		if err := bs.dao.DeleteOccupiedRoom(hotelId, room); err != nil {
			return false, err
		}
		if err := bs.dao.InsertFreeRoom(hotelId, room); err != nil {
			return false, err
		}
	}

	return true, nil
}

// AddHotel inserts the hotel row and rooms 1..freeRooms as individual writes.
// Calling it twice with the same id appends rooms rather than erroring.
func (bs *BookingService) AddHotel(hotelId int, name string, freeRooms int) error {
	if err := bs.dao.InsertHotel(hotelId, name); err != nil {
		return err
	}
	for i := 0; i < freeRooms; i++ {
		if err := bs.dao.InsertFreeRoom(hotelId, i+1); err != nil {
			return err
		}
	}
	return nil
}

func (bs *BookingService) GetAllHotels() ([]int, error) {
	return bs.dao.SelectHotelIds()
}

func (bs *BookingService) GetOccupiedRooms(hotelId int, customer string) ([]int, error) {
	return bs.dao.SelectOccupiedRoomsByCustomer(hotelId, customer)
}

// DeleteAll truncates the three tables. Each truncation is attempted
// independently and failures are logged, not propagated, so the later tables
// are still cleaned when an earlier one fails. Must not run concurrently with
// in-flight bookings; that discipline is on the caller.
func (bs *BookingService) DeleteAll() {
	if err := bs.dao.TruncateFreeRooms(); err != nil {
		log.Printf("Could not truncate free rooms: %v\n", err)
	}
	if err := bs.dao.TruncateHotels(); err != nil {
		log.Printf("Could not truncate hotels: %v\n", err)
	}
	if err := bs.dao.TruncateOccupiedRooms(); err != nil {
		log.Printf("Could not truncate occupied rooms: %v\n", err)
	}
}
