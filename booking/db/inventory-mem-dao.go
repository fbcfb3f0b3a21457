package db

import (
	"sync"

	"main/booking/model"
)

// InventoryMemDao is an in-memory model.InventoryDao used by the test suites
// and by runs without a reachable DynamoDB endpoint. Each method holds the
// mutex only for its own single-row mutation, mirroring the store's
// per-operation atomicity: nothing is coordinated across calls, so the same
// races the real store allows are reproducible against this implementation.
type InventoryMemDao struct {
	mu       sync.Mutex
	hotels   map[int]string
	free     map[int]map[int]struct{}
	occupied map[int]map[int]string
}

func NewInventoryMemDao() *InventoryMemDao {
	return &InventoryMemDao{
		hotels:   make(map[int]string),
		free:     make(map[int]map[int]struct{}),
		occupied: make(map[int]map[int]string),
	}
}

func (dao *InventoryMemDao) SelectFreeRooms(hotelId int) ([]int, error) {
	dao.mu.Lock()
	defer dao.mu.Unlock()
	var rooms []int
	for room := range dao.free[hotelId] {
		rooms = append(rooms, room)
	}
	// map iteration order stands in for the store-defined result order
	return rooms, nil
}

func (dao *InventoryMemDao) InsertFreeRoom(hotelId int, room int) error {
	dao.mu.Lock()
	defer dao.mu.Unlock()
	if dao.free[hotelId] == nil {
		dao.free[hotelId] = make(map[int]struct{})
	}
	dao.free[hotelId][room] = struct{}{}
	return nil
}

func (dao *InventoryMemDao) DeleteFreeRoom(hotelId int, room int) error {
	dao.mu.Lock()
	defer dao.mu.Unlock()
	delete(dao.free[hotelId], room)
	return nil
}

func (dao *InventoryMemDao) ClaimFreeRoom(hotelId int, room int) error {
	dao.mu.Lock()
	defer dao.mu.Unlock()
	if _, ok := dao.free[hotelId][room]; !ok {
		return model.ErrRoomTaken
	}
	delete(dao.free[hotelId], room)
	return nil
}

func (dao *InventoryMemDao) SelectOccupiedRooms(hotelId int) (map[int]string, error) {
	dao.mu.Lock()
	defer dao.mu.Unlock()
	occupied := make(map[int]string, len(dao.occupied[hotelId]))
	for room, customer := range dao.occupied[hotelId] {
		occupied[room] = customer
	}
	return occupied, nil
}

func (dao *InventoryMemDao) SelectOccupiedRoomsByCustomer(hotelId int, customer string) ([]int, error) {
	dao.mu.Lock()
	defer dao.mu.Unlock()
	var rooms []int
	for room, roomCustomer := range dao.occupied[hotelId] {
		if roomCustomer == customer {
			rooms = append(rooms, room)
		}
	}
	return rooms, nil
}

func (dao *InventoryMemDao) InsertOccupiedRoom(hotelId int, room int, customer string) error {
	dao.mu.Lock()
	defer dao.mu.Unlock()
	if dao.occupied[hotelId] == nil {
		dao.occupied[hotelId] = make(map[int]string)
	}
	// overwrites any previous occupant, like a put on the same row key
	dao.occupied[hotelId][room] = customer
	return nil
}

func (dao *InventoryMemDao) DeleteOccupiedRoom(hotelId int, room int) error {
	dao.mu.Lock()
	defer dao.mu.Unlock()
	delete(dao.occupied[hotelId], room)
	return nil
}

func (dao *InventoryMemDao) InsertHotel(hotelId int, name string) error {
	dao.mu.Lock()
	defer dao.mu.Unlock()
	dao.hotels[hotelId] = name
	return nil
}

func (dao *InventoryMemDao) SelectHotelIds() ([]int, error) {
	dao.mu.Lock()
	defer dao.mu.Unlock()
	var hotelIds []int
	for hotelId := range dao.hotels {
		hotelIds = append(hotelIds, hotelId)
	}
	return hotelIds, nil
}

func (dao *InventoryMemDao) TruncateFreeRooms() error {
	dao.mu.Lock()
	defer dao.mu.Unlock()
	dao.free = make(map[int]map[int]struct{})
	return nil
}

func (dao *InventoryMemDao) TruncateHotels() error {
	dao.mu.Lock()
	defer dao.mu.Unlock()
	dao.hotels = make(map[int]string)
	return nil
}

func (dao *InventoryMemDao) TruncateOccupiedRooms() error {
	dao.mu.Lock()
	defer dao.mu.Unlock()
	dao.occupied = make(map[int]map[int]string)
	return nil
}
