package main

import (
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"main/dynamoutils"
)

var client *dynamodb.Client

func init() {
	client = dynamoutils.CreateAwsClient("")
}

func handler() error {
	return dynamoutils.DeleteBookingTables(client, os.Getenv("TABLE_PREFIX"))
}

func main() {
	lambda.Start(handler)
}
