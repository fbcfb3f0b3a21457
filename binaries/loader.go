package main

import (
	"log"
	"os"
	"slices"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"main/booking/db"
	"main/booking/services"
	"main/cmdline"
	"main/config"
	"main/dynamoutils"
	"main/lambdautils"
	"main/stress"
	"main/utils"
)

// The loader is the local entry point: it wires the store session from
// config.yaml, runs one-shot commands (setup, teardown, stress) and otherwise
// drops into the interactive command loop.
func main() {
	args := os.Args

	configPath := os.Getenv("BOOKING_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Cannot load %v: %v", configPath, err)
	}

	var client *dynamodb.Client
	isLocalDeployment := !slices.Contains(args, "aws")
	if !isLocalDeployment {
		client = dynamoutils.CreateAwsClient(cfg.Store.Region)
	} else {
		client = dynamoutils.CreateLocalClient(cfg.Store.Endpoint)
	}

	if cfg.LogFile != "" {
		if logErr := utils.SetLogger(cfg.LogFile); logErr != nil {
			log.Fatalf("Could not correctly setup the logger: %v", logErr)
		}
	}

	dao := db.NewInventoryDynDao(client, cfg.Store.TablePrefix, cfg.Store.ConsistentReads)
	service := services.NewBookingService(dao, cfg.Store.ConditionalClaims)

	switch {
	case slices.Contains(args, "setup"):
		err = dynamoutils.EnsureBookingTables(client, cfg.Store.TablePrefix)
	case slices.Contains(args, "teardown"):
		err = dynamoutils.DeleteBookingTables(client, cfg.Store.TablePrefix)
	case slices.Contains(args, "stress"):
		if !isLocalDeployment && cfg.Store.BookingFunction != "" {
			remoteClient := lambdautils.NewBookingLambdaClient(lambdautils.CreateNewClient(), cfg.Store.BookingFunction)
			stress.NewRemoteHarness(service, remoteClient, cfg.StressParams()).Run()
		} else {
			stress.NewHarness(service, cfg.StressParams()).Run()
		}
	default:
		cmdline.Run(service, cfg.StressParams())
	}
	if err != nil {
		log.Fatal(err)
	}
}
