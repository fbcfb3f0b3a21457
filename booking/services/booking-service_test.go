package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/booking/db"
	"main/booking/model"
	"main/utils"
)

func newServiceWithHotel(t *testing.T, hotelId int, rooms int) (*BookingService, *db.InventoryMemDao) {
	dao := db.NewInventoryMemDao()
	service := NewBookingService(dao, false)
	require.NoError(t, service.AddHotel(hotelId, "TestHotel", rooms))
	return service, dao
}

func TestAddHotelCreatesFreeRooms(t *testing.T) {
	service, _ := newServiceWithHotel(t, 1, 5)

	hotel, err := service.LoadHotel(1)
	require.NoError(t, err)

	assert.ElementsMatch(t, []int{1, 2, 3, 4, 5}, hotel.FreeRooms)
	assert.Empty(t, hotel.OccupiedRooms)

	hotels, err := service.GetAllHotels()
	require.NoError(t, err)
	assert.Equal(t, []int{1}, hotels)
}

func TestBookRoomsScenario(t *testing.T) {
	service, _ := newServiceWithHotel(t, 1, 3)

	success, err := service.BookRooms(1, "alice", 2)
	require.NoError(t, err)
	assert.True(t, success)

	hotel, err := service.LoadHotel(1)
	require.NoError(t, err)
	assert.Len(t, hotel.FreeRooms, 1)
	assert.Len(t, hotel.OccupiedRooms, 2)
	for _, customer := range hotel.OccupiedRooms {
		assert.Equal(t, "alice", customer)
	}

	// only one room left, bob's request must be rejected without mutations
	success, err = service.BookRooms(1, "bob", 2)
	require.NoError(t, err)
	assert.False(t, success)

	afterReject, err := service.LoadHotel(1)
	require.NoError(t, err)
	assert.ElementsMatch(t, hotel.FreeRooms, afterReject.FreeRooms)
	assert.Equal(t, hotel.OccupiedRooms, afterReject.OccupiedRooms)

	success, err = service.UnBookRooms(1, "alice")
	require.NoError(t, err)
	assert.True(t, success)

	final, err := service.LoadHotel(1)
	require.NoError(t, err)
	assert.Len(t, final.FreeRooms, 3)
	assert.Empty(t, final.OccupiedRooms)
}

func TestInventoryConservation(t *testing.T) {
	service, _ := newServiceWithHotel(t, 7, 10)

	_, err := service.BookRooms(7, "alice", 4)
	require.NoError(t, err)
	_, err = service.BookRooms(7, "bob", 3)
	require.NoError(t, err)

	hotel, err := service.LoadHotel(7)
	require.NoError(t, err)
	assert.Equal(t, 10, len(hotel.FreeRooms)+len(hotel.OccupiedRooms))
}

func TestSequentialBookingsNeverShareRooms(t *testing.T) {
	service, _ := newServiceWithHotel(t, 1, 6)

	occupants := make(map[int]string)
	for _, customer := range []string{"alice", "bob", "carol"} {
		success, err := service.BookRooms(1, customer, 2)
		require.NoError(t, err)
		require.True(t, success)

		rooms, err := service.GetOccupiedRooms(1, customer)
		require.NoError(t, err)
		require.Len(t, rooms, 2)
		for _, room := range rooms {
			previous, taken := occupants[room]
			assert.False(t, taken, "room %v allocated to both %v and %v", room, previous, customer)
			occupants[room] = customer
		}
	}
}

func TestRoundTripRestoresFreeRoomMembership(t *testing.T) {
	service, _ := newServiceWithHotel(t, 1, 8)

	before, err := service.LoadHotel(1)
	require.NoError(t, err)
	beforeSet := utils.NewMapSetFromElems(before.FreeRooms...)

	success, err := service.BookRooms(1, "alice", 5)
	require.NoError(t, err)
	require.True(t, success)
	_, err = service.UnBookRooms(1, "alice")
	require.NoError(t, err)

	after, err := service.LoadHotel(1)
	require.NoError(t, err)
	afterSet := utils.NewMapSetFromElems(after.FreeRooms...)

	assert.True(t, beforeSet.Equals(afterSet), "free-room membership changed: before %v, after %v", before.FreeRooms, after.FreeRooms)
}

func TestUnbookOnlyReleasesOwnRooms(t *testing.T) {
	service, _ := newServiceWithHotel(t, 1, 4)

	_, err := service.BookRooms(1, "alice", 2)
	require.NoError(t, err)
	_, err = service.BookRooms(1, "bob", 1)
	require.NoError(t, err)

	_, err = service.UnBookRooms(1, "alice")
	require.NoError(t, err)

	bobRooms, err := service.GetOccupiedRooms(1, "bob")
	require.NoError(t, err)
	assert.Len(t, bobRooms, 1)

	hotel, err := service.LoadHotel(1)
	require.NoError(t, err)
	assert.Len(t, hotel.FreeRooms, 3)
}

func TestDeleteAllIsIdempotent(t *testing.T) {
	service, _ := newServiceWithHotel(t, 1, 3)
	_, err := service.BookRooms(1, "alice", 1)
	require.NoError(t, err)

	service.DeleteAll()
	service.DeleteAll()

	hotels, err := service.GetAllHotels()
	require.NoError(t, err)
	assert.Empty(t, hotels)

	hotel, err := service.LoadHotel(1)
	require.NoError(t, err)
	assert.Empty(t, hotel.FreeRooms)
	assert.Empty(t, hotel.OccupiedRooms)
}

// failingInsertDao makes InsertOccupiedRoom fail after a number of successes,
// simulating a store failure in the middle of the booking loop.
type failingInsertDao struct {
	model.InventoryDao
	successesLeft int
}

func (dao *failingInsertDao) InsertOccupiedRoom(hotelId int, room int, customer string) error {
	if dao.successesLeft <= 0 {
		return &model.BackendError{Op: "insert occupied room", Err: errors.New("write timeout")}
	}
	dao.successesLeft--
	return dao.InventoryDao.InsertOccupiedRoom(hotelId, room, customer)
}

func TestBookRoomsDoesNotRollBackOnFailure(t *testing.T) {
	memDao := db.NewInventoryMemDao()
	failing := &failingInsertDao{InventoryDao: memDao, successesLeft: 1}
	service := NewBookingService(failing, false)
	require.NoError(t, service.AddHotel(1, "TestHotel", 3))

	_, err := service.BookRooms(1, "alice", 2)
	require.Error(t, err)

	var backendErr *model.BackendError
	assert.True(t, errors.As(err, &backendErr))

	// the first room stays occupied; the second was deleted from the free
	// table before the insert failed, so it is gone from both tables
	hotel, err := service.LoadHotel(1)
	require.NoError(t, err)
	assert.Len(t, hotel.OccupiedRooms, 1)
	assert.Len(t, hotel.FreeRooms, 1)
}

// phantomFreeRoomsDao reports rooms as free that were already claimed,
// simulating the stale snapshot a concurrent booker leaves behind.
type phantomFreeRoomsDao struct {
	model.InventoryDao
	phantomRooms []int
}

func (dao *phantomFreeRoomsDao) SelectFreeRooms(hotelId int) ([]int, error) {
	rooms, err := dao.InventoryDao.SelectFreeRooms(hotelId)
	if err != nil {
		return nil, err
	}
	return append(rooms, dao.phantomRooms...), nil
}

func TestConditionalClaimsReleaseEverythingOnShortage(t *testing.T) {
	memDao := db.NewInventoryMemDao()
	phantom := &phantomFreeRoomsDao{InventoryDao: memDao, phantomRooms: []int{98, 99}}
	service := NewBookingService(phantom, true)
	require.NoError(t, service.AddHotel(1, "TestHotel", 1))

	// two of the three "free" rooms cannot be claimed, so the quota of two
	// is unreachable and the one claimed room must be released again
	success, err := service.BookRooms(1, "alice", 2)
	require.NoError(t, err)
	assert.False(t, success)

	hotel, err := service.LoadHotel(1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{1}, hotel.FreeRooms)
	assert.Empty(t, hotel.OccupiedRooms)
}

func TestConditionalClaimsBookNormally(t *testing.T) {
	dao := db.NewInventoryMemDao()
	service := NewBookingService(dao, true)
	require.NoError(t, service.AddHotel(1, "TestHotel", 3))

	success, err := service.BookRooms(1, "alice", 2)
	require.NoError(t, err)
	assert.True(t, success)

	rooms, err := service.GetOccupiedRooms(1, "alice")
	require.NoError(t, err)
	assert.Len(t, rooms, 2)
}

func TestLoadHotelPropagatesStoreFailure(t *testing.T) {
	memDao := db.NewInventoryMemDao()
	failing := &failingSelectDao{InventoryDao: memDao}
	service := NewBookingService(failing, false)

	_, err := service.LoadHotel(1)
	require.Error(t, err)
	var backendErr *model.BackendError
	assert.True(t, errors.As(err, &backendErr))
}

type failingSelectDao struct {
	model.InventoryDao
}

func (dao *failingSelectDao) SelectFreeRooms(hotelId int) ([]int, error) {
	return nil, &model.BackendError{Op: "query free rooms", Err: errors.New("store unavailable")}
}
