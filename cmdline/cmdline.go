package cmdline

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"main/booking/services"
	"main/stress"
)

// Run reads line-oriented commands from stdin and dispatches them against the
// booking service. Unrecognized commands print an error and the loop
// continues; "quit" or end of input terminates normally.
func Run(service *services.BookingService, stressParams stress.Params) {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		if !scanner.Scan() {
			return
		}
		cmd := strings.TrimSpace(scanner.Text())
		switch cmd {
		case "book":
			book(scanner, service)
		case "unbook":
			unbook(scanner, service)
		case "addHotel":
			addHotel(scanner, service)
		case "list":
			list(service)
		case "stress":
			stress.NewHarness(service, stressParams).Run()
		case "quit":
			return
		default:
			fmt.Println("Command was not recognized.")
		}
	}
}

func book(scanner *bufio.Scanner, service *services.BookingService) {
	hotels, err := service.GetAllHotels()
	if err != nil {
		fmt.Printf("Could not list hotels: %v\n", err)
		return
	}
	fmt.Printf("Available hotels: %v\n", hotels)

	fmt.Println("Type: hotelId, customerName, count")
	if !scanner.Scan() {
		return
	}
	hotelId, customer, count, err := ParseBookArgs(scanner.Text())
	if err != nil {
		fmt.Printf("Invalid input: %v\n", err)
		return
	}

	success, err := service.BookRooms(hotelId, customer, count)
	if err != nil {
		fmt.Printf("Booking error: %v\n", err)
		return
	}
	if success {
		fmt.Println("Booking success")
	} else {
		fmt.Println("Booking fail")
	}
}

func unbook(scanner *bufio.Scanner, service *services.BookingService) {
	fmt.Println("Type: hotelId, customerName")
	if !scanner.Scan() {
		return
	}
	hotelId, customer, err := ParseUnbookArgs(scanner.Text())
	if err != nil {
		fmt.Printf("Invalid input: %v\n", err)
		return
	}

	if _, err := service.UnBookRooms(hotelId, customer); err != nil {
		fmt.Printf("Unbooking error: %v\n", err)
	}
}

func addHotel(scanner *bufio.Scanner, service *services.BookingService) {
	fmt.Println("Type: hotelId, name, freeRooms")
	if !scanner.Scan() {
		return
	}
	hotelId, name, freeRooms, err := ParseAddHotelArgs(scanner.Text())
	if err != nil {
		fmt.Printf("Invalid input: %v\n", err)
		return
	}

	if err := service.AddHotel(hotelId, name, freeRooms); err != nil {
		fmt.Printf("Could not add hotel: %v\n", err)
		return
	}
	fmt.Printf("Hotel %v with %v free rooms added.\n", name, freeRooms)
}

func list(service *services.BookingService) {
	hotels, err := service.GetAllHotels()
	if err != nil {
		fmt.Printf("Could not list hotels: %v\n", err)
		return
	}
	for _, hotelId := range hotels {
		hotel, err := service.LoadHotel(hotelId)
		if err != nil {
			fmt.Printf("Could not load hotel %v: %v\n", hotelId, err)
			continue
		}
		fmt.Printf("Hotel %v\n%v", hotelId, hotel)
	}
}

func ParseBookArgs(line string) (hotelId int, customer string, count int, err error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return 0, "", 0, errors.New("expected: hotelId customerName count")
	}
	hotelId, err = strconv.Atoi(fields[0])
	if err != nil {
		return 0, "", 0, fmt.Errorf("hotelId must be a number: %v", fields[0])
	}
	count, err = strconv.Atoi(fields[2])
	if err != nil {
		return 0, "", 0, fmt.Errorf("count must be a number: %v", fields[2])
	}
	return hotelId, fields[1], count, nil
}

func ParseUnbookArgs(line string) (hotelId int, customer string, err error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, "", errors.New("expected: hotelId customerName")
	}
	hotelId, err = strconv.Atoi(fields[0])
	if err != nil {
		return 0, "", fmt.Errorf("hotelId must be a number: %v", fields[0])
	}
	return hotelId, fields[1], nil
}

func ParseAddHotelArgs(line string) (hotelId int, name string, freeRooms int, err error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return 0, "", 0, errors.New("expected: hotelId name freeRooms")
	}
	hotelId, err = strconv.Atoi(fields[0])
	if err != nil {
		return 0, "", 0, fmt.Errorf("hotelId must be a number: %v", fields[0])
	}
	freeRooms, err = strconv.Atoi(fields[2])
	if err != nil {
		return 0, "", 0, fmt.Errorf("freeRooms must be a number: %v", fields[2])
	}
	return hotelId, fields[1], freeRooms, nil
}
