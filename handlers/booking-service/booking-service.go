package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"main/booking/db"
	"main/booking/model"
	"main/booking/services"
	"main/dynamoutils"
)

var client *dynamodb.Client

func init() {
	client = dynamoutils.CreateAwsClient("")
}

func handler(_ context.Context, evt json.RawMessage) (model.BookingResult, error) {
	command := &model.BookingCommand{}
	err := json.Unmarshal(evt, command)

	if err != nil {
		return model.BookingResult{}, err
	}

	dao := db.NewInventoryDynDao(client, os.Getenv("TABLE_PREFIX"), true)
	service := services.NewBookingService(dao, os.Getenv("CONDITIONAL_CLAIMS") == "true")

	switch command.Action {
	case "book":
		success, err := service.BookRooms(command.HotelId, command.Customer, command.Count)
		if err != nil {
			return model.BookingResult{Error: err.Error()}, nil
		}
		return model.BookingResult{Success: success}, nil
	case "unbook":
		success, err := service.UnBookRooms(command.HotelId, command.Customer)
		if err != nil {
			return model.BookingResult{Error: err.Error()}, nil
		}
		return model.BookingResult{Success: success}, nil
	case "occupied":
		rooms, err := service.GetOccupiedRooms(command.HotelId, command.Customer)
		if err != nil {
			return model.BookingResult{Error: err.Error()}, nil
		}
		return model.BookingResult{Success: true, Rooms: rooms}, nil
	default:
		return model.BookingResult{Error: fmt.Sprintf("unknown action %v", command.Action)}, nil
	}
}

func main() {
	lambda.Start(handler)
}
