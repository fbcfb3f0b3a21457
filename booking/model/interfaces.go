package model

// InventoryDao is the session against the inventory store. Every method maps to
// a single-row read or write: the store replicates each of them durably but
// offers no atomicity across calls. Implementations must be safe for concurrent
// use, since one long-lived session is shared by all callers.
type InventoryDao interface {
	SelectFreeRooms(hotelId int) ([]int, error)
	InsertFreeRoom(hotelId int, room int) error
	DeleteFreeRoom(hotelId int, room int) error

	// ClaimFreeRoom deletes the free-room row only if it still exists,
	// reporting ErrRoomTaken when a concurrent booker got there first.
	ClaimFreeRoom(hotelId int, room int) error

	SelectOccupiedRooms(hotelId int) (map[int]string, error)
	SelectOccupiedRoomsByCustomer(hotelId int, customer string) ([]int, error)
	InsertOccupiedRoom(hotelId int, room int, customer string) error
	DeleteOccupiedRoom(hotelId int, room int) error

	InsertHotel(hotelId int, name string) error
	SelectHotelIds() ([]int, error)

	TruncateFreeRooms() error
	TruncateHotels() error
	TruncateOccupiedRooms() error
}
