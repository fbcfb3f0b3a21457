package lambdautils

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/lambda"

	"main/booking/model"
	"main/utils"
)

func CreateNewClient() *lambda.Client {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithClientLogMode(aws.LogRetries),
	)
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	client := lambda.NewFromConfig(cfg)
	return client
}

// BookingLambdaClient drives a deployed booking-service function. It
// satisfies the stress harness client surface, so the same harness can target
// a remote deployment. Invocation transport errors are retried with a bounded
// backoff; the engine behind the function stays retry-free.
type BookingLambdaClient struct {
	client       *lambda.Client
	functionName string
}

func NewBookingLambdaClient(client *lambda.Client, functionName string) *BookingLambdaClient {
	return &BookingLambdaClient{client: client, functionName: functionName}
}

func (c *BookingLambdaClient) BookRooms(hotelId int, customer string, count int) (bool, error) {
	result, err := c.invoke(model.BookingCommand{Action: "book", HotelId: hotelId, Customer: customer, Count: count})
	if err != nil {
		return false, err
	}
	return result.Success, nil
}

func (c *BookingLambdaClient) UnBookRooms(hotelId int, customer string) (bool, error) {
	result, err := c.invoke(model.BookingCommand{Action: "unbook", HotelId: hotelId, Customer: customer})
	if err != nil {
		return false, err
	}
	return result.Success, nil
}

func (c *BookingLambdaClient) GetOccupiedRooms(hotelId int, customer string) ([]int, error) {
	result, err := c.invoke(model.BookingCommand{Action: "occupied", HotelId: hotelId, Customer: customer})
	if err != nil {
		return nil, err
	}
	return result.Rooms, nil
}

func (c *BookingLambdaClient) invoke(command model.BookingCommand) (model.BookingResult, error) {
	payload, err := json.Marshal(command)
	if err != nil {
		return model.BookingResult{}, err
	}

	retrier := utils.NewRetrier[*lambda.InvokeOutput](utils.NewExponentialBackoffStrategy(5, 50*time.Millisecond, 0.1, 2*time.Second))
	response, err := retrier.DoWithReturn(func() (*lambda.InvokeOutput, error) {
		return c.client.Invoke(context.TODO(), &lambda.InvokeInput{
			FunctionName: aws.String(c.functionName),
			Payload:      payload,
		})
	})
	if err != nil {
		return model.BookingResult{}, err
	}
	if response.FunctionError != nil {
		return model.BookingResult{}, errors.New("booking function failed: " + *response.FunctionError)
	}

	var result model.BookingResult
	if err := json.Unmarshal(response.Payload, &result); err != nil {
		return model.BookingResult{}, err
	}
	if result.Error != "" {
		return model.BookingResult{}, errors.New(result.Error)
	}

	return result, nil
}
