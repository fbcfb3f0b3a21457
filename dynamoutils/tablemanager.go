package dynamoutils

import (
	"context"
	"errors"
	"fmt"
	"log"
	net "net/http"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"main/utils"
)

const (
	HotelsTableName        = "Hotels"
	FreeRoomsTableName     = "FreeRooms"
	OccupiedRoomsTableName = "OccupiedRooms"

	OccupiedByCustomerIndexName = "OccupiedByCustomer"

	maxDeleteBatchSize = 25
)

type TableDefinition struct {
	TableName string

	PartitionKey         AttributeDefinition
	SortKey              AttributeDefinition
	AdditionalAttributes []AttributeDefinition

	SecondaryIndexes []SecondaryIndexDefinition
}

type SecondaryIndexDefinition struct {
	IndexName string

	PartitionKeyName string
	SortKeyName      string
}

type AttributeDefinition struct {
	Name       string
	ScalarType types.ScalarAttributeType
}

func CreateTable(client *dynamodb.Client, tableDefinition TableDefinition) (*types.TableDescription, error) {
	var tableDesc *types.TableDescription
	attributeDefinitions := []types.AttributeDefinition{{
		AttributeName: aws.String(tableDefinition.PartitionKey.Name),
		AttributeType: tableDefinition.PartitionKey.ScalarType,
	}}
	if tableDefinition.SortKey.Name != "" {
		attributeDefinitions = append(attributeDefinitions, types.AttributeDefinition{
			AttributeName: aws.String(tableDefinition.SortKey.Name),
			AttributeType: tableDefinition.SortKey.ScalarType,
		})
	}

	for _, additionalAttribute := range tableDefinition.AdditionalAttributes {
		attributeDefinitions = append(attributeDefinitions, types.AttributeDefinition{
			AttributeName: aws.String(additionalAttribute.Name),
			AttributeType: additionalAttribute.ScalarType,
		})
	}

	tableSchema := createKeySchema(
		tableDefinition.PartitionKey.Name,
		tableDefinition.SortKey.Name,
	)

	globalSecondaryIndexes := []types.GlobalSecondaryIndex{}
	for _, index := range tableDefinition.SecondaryIndexes {
		indexSchema := createKeySchema(
			index.PartitionKeyName,
			index.SortKeyName,
		)

		globalSecondaryIndexes = append(globalSecondaryIndexes, types.GlobalSecondaryIndex{
			IndexName:  aws.String(index.IndexName),
			KeySchema:  indexSchema,
			Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
		})
	}

	if len(globalSecondaryIndexes) == 0 {
		globalSecondaryIndexes = nil
	}

	createTableInput := dynamodb.CreateTableInput{
		TableName:              aws.String(tableDefinition.TableName),
		AttributeDefinitions:   attributeDefinitions,
		KeySchema:              tableSchema,
		BillingMode:            types.BillingModePayPerRequest,
		GlobalSecondaryIndexes: globalSecondaryIndexes,
	}

	table, err := client.CreateTable(context.TODO(), &createTableInput)

	if err != nil {
		log.Printf("Couldn't create table %v. Here's why: %v\n", tableDefinition.TableName, err)
	} else {
		waiter := dynamodb.NewTableExistsWaiter(client)
		err = waiter.Wait(context.TODO(), &dynamodb.DescribeTableInput{
			TableName: aws.String(tableDefinition.TableName)}, 5*time.Minute)
		if err != nil {
			log.Printf("Wait for table exists failed. Here's why: %v\n", err)
		}
		tableDesc = table.TableDescription
	}
	return tableDesc, err
}

func CreateHotelsTable(client *dynamodb.Client, tablePrefix string) (*types.TableDescription, error) {
	tableDefinition := TableDefinition{
		TableName:    tablePrefix + HotelsTableName,
		PartitionKey: AttributeDefinition{"hotel_id", types.ScalarAttributeTypeN},
	}

	return CreateTable(client, tableDefinition)
}

func CreateFreeRoomsTable(client *dynamodb.Client, tablePrefix string) (*types.TableDescription, error) {
	tableDefinition := TableDefinition{
		TableName:    tablePrefix + FreeRoomsTableName,
		PartitionKey: AttributeDefinition{"hotel_id", types.ScalarAttributeTypeN},
		SortKey:      AttributeDefinition{"room", types.ScalarAttributeTypeN},
	}

	return CreateTable(client, tableDefinition)
}

func CreateOccupiedRoomsTable(client *dynamodb.Client, tablePrefix string) (*types.TableDescription, error) {
	tableDefinition := TableDefinition{
		TableName:    tablePrefix + OccupiedRoomsTableName,
		PartitionKey: AttributeDefinition{"hotel_id", types.ScalarAttributeTypeN},
		SortKey:      AttributeDefinition{"room", types.ScalarAttributeTypeN},
		AdditionalAttributes: []AttributeDefinition{
			{
				Name:       "customer",
				ScalarType: types.ScalarAttributeTypeS,
			},
		},
		SecondaryIndexes: []SecondaryIndexDefinition{
			{
				IndexName:        OccupiedByCustomerIndexName,
				PartitionKeyName: "hotel_id",
				SortKeyName:      "customer",
			},
		},
	}

	return CreateTable(client, tableDefinition)
}

// EnsureBookingTables creates whichever of the three booking tables do not
// exist yet.
func EnsureBookingTables(client *dynamodb.Client, tablePrefix string) error {
	existingTableNames, err := GetExistingTableNames(client)

	if err != nil {
		return err
	}

	if !slices.Contains(existingTableNames, tablePrefix+HotelsTableName) {
		_, err = CreateHotelsTable(client, tablePrefix)
		if err != nil {
			return err
		}
	}

	if !slices.Contains(existingTableNames, tablePrefix+FreeRoomsTableName) {
		_, err = CreateFreeRoomsTable(client, tablePrefix)
		if err != nil {
			return err
		}
	}

	if !slices.Contains(existingTableNames, tablePrefix+OccupiedRoomsTableName) {
		_, err = CreateOccupiedRoomsTable(client, tablePrefix)
		if err != nil {
			return err
		}
	}

	return nil
}

// CreateLocalClient targets DynamoDB Local; a non-empty endpoint overrides
// the default.
func CreateLocalClient(endpoint string) *dynamodb.Client {
	if endpoint == "" {
		endpoint = "http://localhost:8000"
	}
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion("localhost"),
		config.WithHTTPClient(
			http.NewBuildableClient().
				WithTransportOptions(func(tr *net.Transport) {
					tr.ExpectContinueTimeout = 0
					tr.MaxIdleConns = 1000
				}),
		),
		config.WithClientLogMode(aws.LogRetries),
	)

	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	client := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.Credentials = credentials.NewStaticCredentialsProvider("local", "local", "")
	})

	return client
}

// CreateAwsClient uses the default credential chain; region comes from the
// argument when set, otherwise from the environment. DDB_URL overrides the
// endpoint for private deployments.
func CreateAwsClient(region string) *dynamodb.Client {
	loadOptions := []func(*config.LoadOptions) error{
		config.WithClientLogMode(aws.LogRetries),
	}
	if region != "" {
		loadOptions = append(loadOptions, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(context.TODO(), loadOptions...)
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	client := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint := os.Getenv("DDB_URL"); endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return client
}

func GetExistingTableNames(client *dynamodb.Client) (tableNames []string, err error) {
	result, err := client.ListTables(context.TODO(), &dynamodb.ListTablesInput{})
	if err != nil {
		return []string{}, err
	}
	return result.TableNames, nil
}

// DeleteBookingTables deletes the three booking tables. Every table is
// attempted even when an earlier delete fails; all failures are reported.
func DeleteBookingTables(client *dynamodb.Client, tablePrefix string) error {
	var errs []error
	for _, tableName := range []string{
		tablePrefix + HotelsTableName,
		tablePrefix + FreeRoomsTableName,
		tablePrefix + OccupiedRoomsTableName,
	} {
		if _, err := DeleteTable(client, tableName); err != nil {
			errs = append(errs, fmt.Errorf("could not delete table %v: %w", tableName, err))
		}
	}
	return errors.Join(errs...)
}

func DeleteTable(client *dynamodb.Client, tableName string) (*dynamodb.DeleteTableOutput, error) {
	table, err := client.DeleteTable(context.TODO(), &dynamodb.DeleteTableInput{TableName: &tableName})

	if err != nil {
		log.Printf("Could not delete table %v: %v\n", tableName, err)
	}

	return table, err
}

// TruncateTable removes every item from the table: a paginated scan projecting
// the key attributes feeds batched deletes to a parallel job executor. Delete
// failures are logged and do not stop the remaining batches; only a scan
// failure is returned.
func TruncateTable(client *dynamodb.Client, tableName string, keyAttributes []string) error {
	executor := utils.NewSimpleParallelJobExecutor(getConcurrentDeleteUnits())
	executor.RegisterErrorHandler(func(err error) { log.Printf("Encountered error while truncating %v: %v\n", tableName, err) })
	executor.Start()

	var scanErr error
	var lastKey map[string]types.AttributeValue
	for {
		result, err := client.Scan(context.TODO(), &dynamodb.ScanInput{
			TableName:            aws.String(tableName),
			ProjectionExpression: aws.String(strings.Join(keyAttributes, ", ")),
			ExclusiveStartKey:    lastKey,
		})

		if err != nil {
			scanErr = err
			break
		}
		lastKey = result.LastEvaluatedKey

		var deleteRequests []types.WriteRequest
		for _, item := range result.Items {
			key := make(map[string]types.AttributeValue, len(keyAttributes))
			for _, attribute := range keyAttributes {
				key[attribute] = item[attribute]
			}
			deleteRequests = append(deleteRequests, types.WriteRequest{DeleteRequest: &types.DeleteRequest{Key: key}})
		}

		for startIndex := 0; startIndex < len(deleteRequests); startIndex += maxDeleteBatchSize {
			excludedEndIndex := min(startIndex+maxDeleteBatchSize, len(deleteRequests))
			batch := deleteRequests[startIndex:excludedEndIndex]
			executor.SubmitJob(func() (utils.Result, error) {
				_, batchErr := client.BatchWriteItem(context.TODO(), &dynamodb.BatchWriteItemInput{
					RequestItems: map[string][]types.WriteRequest{tableName: batch},
				})
				return utils.Result{}, batchErr
			})
		}

		if len(result.LastEvaluatedKey) == 0 {
			break
		}
	}

	executor.Stop()

	return scanErr
}

func createKeySchema(
	partitionKeyName string, sortKeyName string) []types.KeySchemaElement {
	schema := []types.KeySchemaElement{{
		AttributeName: aws.String(partitionKeyName),
		KeyType:       types.KeyTypeHash,
	}}

	if sortKeyName != "" {
		schema = append(schema, types.KeySchemaElement{
			AttributeName: aws.String(sortKeyName),
			KeyType:       types.KeyTypeRange,
		})
	}

	return schema
}

func getConcurrentDeleteUnits() int {
	concurrentDeleteUnits := 10
	concurrentDeleteUnitsEnv := os.Getenv("CONCURRENT_DELETE_UNITS")
	if concurrentDeleteUnitsEnv != "" {
		var err error
		concurrentDeleteUnits, err = strconv.Atoi(concurrentDeleteUnitsEnv)
		if err != nil {
			log.Fatalf("Malformed CONCURRENT_DELETE_UNITS env variable (%v): %v", concurrentDeleteUnitsEnv, err)
		}
	}
	return concurrentDeleteUnits
}
