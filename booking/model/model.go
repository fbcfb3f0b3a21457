package model

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/exp/maps"
)

// Hotel is the in-memory projection of one hotel's room state, assembled from
// two independent reads. There is no snapshot guarantee between the two table
// reads: a room may move between them while the projection is being built.
type Hotel struct {
	FreeRooms     []int
	OccupiedRooms map[int]string
}

func NewHotel() *Hotel {
	return &Hotel{OccupiedRooms: make(map[int]string)}
}

func (h *Hotel) String() string {
	var builder strings.Builder
	builder.WriteString("Free rooms:\n")
	for _, room := range h.FreeRooms {
		builder.WriteString(strconv.Itoa(room))
		builder.WriteString(" ")
	}
	builder.WriteString("\nOccupied rooms:\n")
	occupied := maps.Keys(h.OccupiedRooms)
	sort.Ints(occupied)
	for _, room := range occupied {
		builder.WriteString(strconv.Itoa(room))
		builder.WriteString(" ")
		builder.WriteString(h.OccupiedRooms[room])
		builder.WriteString("\n")
	}
	return builder.String()
}

// BookingCommand is the wire format accepted by the booking service handler.
type BookingCommand struct {
	Action   string
	HotelId  int
	Customer string
	Count    int
}

// BookingResult is the wire format returned by the booking service handler.
type BookingResult struct {
	Success bool
	Rooms   []int
	Error   string
}
