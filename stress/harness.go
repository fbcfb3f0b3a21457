package stress

import (
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"main/booking/services"
)

// Client is the booking surface a simulated customer talks to. It is satisfied
// in-process by *services.BookingService and remotely by the Lambda invoker.
type Client interface {
	BookRooms(hotelId int, customer string, count int) (bool, error)
	UnBookRooms(hotelId int, customer string) (bool, error)
	GetOccupiedRooms(hotelId int, customer string) ([]int, error)
}

type Params struct {
	HotelId             int
	RoomCount           int
	Customers           int
	AttemptsPerCustomer int
	MaxRoomsPerBooking  int
	ReportName          string
}

func DefaultParams() Params {
	return Params{
		HotelId:             48167278,
		RoomCount:           300,
		Customers:           500,
		AttemptsPerCustomer: 3,
		MaxRoomsPerBooking:  6,
	}
}

// Discrepancy records a customer that observed fewer occupied rooms than it
// had successfully booked: the signal that concurrent bookers claimed
// overlapping rooms.
type Discrepancy struct {
	Customer string
	Booked   int
	Occupied int
}

// Harness drives many concurrent simulated customers against one shared hotel
// and deletes all test data afterwards, whatever the outcome. Discrepancies
// are logged and reported but never treated as failures: the harness is an
// observability tool for the engine's known races.
type Harness struct {
	service *services.BookingService
	client  Client
	params  Params

	mu            sync.Mutex
	discrepancies []Discrepancy
	bookings      int
	latencies     []time.Duration
	totalLatency  time.Duration
}

func NewHarness(service *services.BookingService, params Params) *Harness {
	return &Harness{service: service, client: service, params: params}
}

// NewRemoteHarness books through the given client while still using the local
// service for hotel creation and teardown.
func NewRemoteHarness(service *services.BookingService, client Client, params Params) *Harness {
	return &Harness{service: service, client: client, params: params}
}

func (h *Harness) Run() []Discrepancy {
	defer h.service.DeleteAll()

	if err := h.service.AddHotel(h.params.HotelId, "stressTest", h.params.RoomCount); err != nil {
		log.Printf("Could not create the stressed hotel: %v\n", err)
		return nil
	}

	started := time.Now()
	var customersWg sync.WaitGroup
	for i := 0; i < h.params.Customers; i++ {
		customersWg.Add(1)
		go func() {
			defer customersWg.Done()
			if err := h.runCustomer(); err != nil {
				log.Printf("Customer failed: %v\n", err)
			}
		}()
	}
	customersWg.Wait()
	elapsed := time.Since(started)

	log.Printf("Stress run finished: %v customers, %v booking calls, %v discrepancies, took %v\n",
		h.params.Customers, h.bookings, len(h.discrepancies), elapsed)

	if h.params.ReportName != "" {
		h.exportReport(elapsed)
	}

	return h.discrepancies
}

func (h *Harness) runCustomer() error {
	name := uuid.NewString()

	booked := 0
	for i := 0; i < h.params.AttemptsPerCustomer; i++ {
		roomCount := rand.Intn(h.params.MaxRoomsPerBooking) + 1
		requestStart := time.Now()
		success, err := h.client.BookRooms(h.params.HotelId, name, roomCount)
		h.recordBooking(time.Since(requestStart))
		if err != nil {
			return err
		}
		if success {
			booked += roomCount
			log.Printf("Customer %v booked %v rooms.\n", name, roomCount)
		} else {
			log.Printf("Customer %v failed to book %v rooms.\n", name, roomCount)
		}
	}

	occupiedRooms, err := h.client.GetOccupiedRooms(h.params.HotelId, name)
	if err != nil {
		return err
	}
	if len(occupiedRooms) < booked {
		log.Printf("Customer %v booked %v, but occupied %v.\n", name, booked, len(occupiedRooms))
		h.recordDiscrepancy(Discrepancy{Customer: name, Booked: booked, Occupied: len(occupiedRooms)})
	}

	_, err = h.client.UnBookRooms(h.params.HotelId, name)
	return err
}

func (h *Harness) recordBooking(latency time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.bookings++
	h.latencies = append(h.latencies, latency)
	h.totalLatency += latency
}

func (h *Harness) recordDiscrepancy(discrepancy Discrepancy) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.discrepancies = append(h.discrepancies, discrepancy)
}
