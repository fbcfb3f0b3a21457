package db

import (
	"context"
	"errors"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"main/booking/model"
	"main/dynamoutils"
)

// InventoryDynDao implements model.InventoryDao on DynamoDB. The client is
// long-lived and shared process-wide; thread-safety is delegated to it.
// consistentRead is fixed at construction and applies to every table read
// (queries against the OccupiedByCustomer index are always eventually
// consistent, DynamoDB does not support consistent reads on a GSI).
// No operation in this layer retries.
type InventoryDynDao struct {
	client         *dynamodb.Client
	tablePrefix    string
	consistentRead bool
}

func NewInventoryDynDao(client *dynamodb.Client, tablePrefix string, consistentRead bool) *InventoryDynDao {
	return &InventoryDynDao{client: client, tablePrefix: tablePrefix, consistentRead: consistentRead}
}

func (dao *InventoryDynDao) SelectFreeRooms(hotelId int) ([]int, error) {
	var rooms []int
	var lastKey map[string]types.AttributeValue
	for {
		result, err := dao.client.Query(context.TODO(), &dynamodb.QueryInput{
			TableName: aws.String(dao.tablePrefix + dynamoutils.FreeRoomsTableName),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":hotelId": numberAttribute(hotelId),
			},
			KeyConditionExpression: aws.String("hotel_id = :hotelId"),
			ConsistentRead:         aws.Bool(dao.consistentRead),
			ExclusiveStartKey:      lastKey,
		})
		if err != nil {
			return nil, &model.BackendError{Op: "query free rooms", Err: err}
		}
		lastKey = result.LastEvaluatedKey

		for _, item := range result.Items {
			room, convErr := numberValue(item["room"])
			if convErr != nil {
				return nil, &model.BackendError{Op: "decode free room", Err: convErr}
			}
			rooms = append(rooms, room)
		}

		if len(result.LastEvaluatedKey) == 0 {
			break
		}
	}
	return rooms, nil
}

func (dao *InventoryDynDao) InsertFreeRoom(hotelId int, room int) error {
	_, err := dao.client.PutItem(context.TODO(), &dynamodb.PutItemInput{
		TableName: aws.String(dao.tablePrefix + dynamoutils.FreeRoomsTableName),
		Item: map[string]types.AttributeValue{
			"hotel_id": numberAttribute(hotelId),
			"room":     numberAttribute(room),
		},
	})
	if err != nil {
		return &model.BackendError{Op: "insert free room", Err: err}
	}
	return nil
}

func (dao *InventoryDynDao) DeleteFreeRoom(hotelId int, room int) error {
	_, err := dao.client.DeleteItem(context.TODO(), &dynamodb.DeleteItemInput{
		TableName: aws.String(dao.tablePrefix + dynamoutils.FreeRoomsTableName),
		Key:       roomKey(hotelId, room),
	})
	if err != nil {
		return &model.BackendError{Op: "delete free room", Err: err}
	}
	return nil
}

func (dao *InventoryDynDao) ClaimFreeRoom(hotelId int, room int) error {
	_, err := dao.client.DeleteItem(context.TODO(), &dynamodb.DeleteItemInput{
		TableName:           aws.String(dao.tablePrefix + dynamoutils.FreeRoomsTableName),
		Key:                 roomKey(hotelId, room),
		ConditionExpression: aws.String("attribute_exists(hotel_id)"),
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return model.ErrRoomTaken
		}
		return &model.BackendError{Op: "claim free room", Err: err}
	}
	return nil
}

func (dao *InventoryDynDao) SelectOccupiedRooms(hotelId int) (map[int]string, error) {
	occupied := make(map[int]string)
	var lastKey map[string]types.AttributeValue
	for {
		result, err := dao.client.Query(context.TODO(), &dynamodb.QueryInput{
			TableName: aws.String(dao.tablePrefix + dynamoutils.OccupiedRoomsTableName),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":hotelId": numberAttribute(hotelId),
			},
			KeyConditionExpression: aws.String("hotel_id = :hotelId"),
			ConsistentRead:         aws.Bool(dao.consistentRead),
			ExclusiveStartKey:      lastKey,
		})
		if err != nil {
			return nil, &model.BackendError{Op: "query occupied rooms", Err: err}
		}
		lastKey = result.LastEvaluatedKey

		for _, item := range result.Items {
			room, convErr := numberValue(item["room"])
			if convErr != nil {
				return nil, &model.BackendError{Op: "decode occupied room", Err: convErr}
			}
			customer, convErr := stringValue(item["customer"])
			if convErr != nil {
				return nil, &model.BackendError{Op: "decode customer", Err: convErr}
			}
			occupied[room] = customer
		}

		if len(result.LastEvaluatedKey) == 0 {
			break
		}
	}
	return occupied, nil
}

func (dao *InventoryDynDao) SelectOccupiedRoomsByCustomer(hotelId int, customer string) ([]int, error) {
	var rooms []int
	var lastKey map[string]types.AttributeValue
	for {
		result, err := dao.client.Query(context.TODO(), &dynamodb.QueryInput{
			TableName: aws.String(dao.tablePrefix + dynamoutils.OccupiedRoomsTableName),
			IndexName: aws.String(dynamoutils.OccupiedByCustomerIndexName),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":hotelId":  numberAttribute(hotelId),
				":customer": &types.AttributeValueMemberS{Value: customer},
			},
			KeyConditionExpression: aws.String("hotel_id = :hotelId AND customer = :customer"),
			ExclusiveStartKey:      lastKey,
		})
		if err != nil {
			return nil, &model.BackendError{Op: "query occupied rooms by customer", Err: err}
		}
		lastKey = result.LastEvaluatedKey

		for _, item := range result.Items {
			room, convErr := numberValue(item["room"])
			if convErr != nil {
				return nil, &model.BackendError{Op: "decode occupied room", Err: convErr}
			}
			rooms = append(rooms, room)
		}

		if len(result.LastEvaluatedKey) == 0 {
			break
		}
	}
	return rooms, nil
}

func (dao *InventoryDynDao) InsertOccupiedRoom(hotelId int, room int, customer string) error {
	_, err := dao.client.PutItem(context.TODO(), &dynamodb.PutItemInput{
		TableName: aws.String(dao.tablePrefix + dynamoutils.OccupiedRoomsTableName),
		Item: map[string]types.AttributeValue{
			"hotel_id": numberAttribute(hotelId),
			"room":     numberAttribute(room),
			"customer": &types.AttributeValueMemberS{Value: customer},
		},
	})
	if err != nil {
		return &model.BackendError{Op: "insert occupied room", Err: err}
	}
	return nil
}

func (dao *InventoryDynDao) DeleteOccupiedRoom(hotelId int, room int) error {
	_, err := dao.client.DeleteItem(context.TODO(), &dynamodb.DeleteItemInput{
		TableName: aws.String(dao.tablePrefix + dynamoutils.OccupiedRoomsTableName),
		Key:       roomKey(hotelId, room),
	})
	if err != nil {
		return &model.BackendError{Op: "delete occupied room", Err: err}
	}
	return nil
}

func (dao *InventoryDynDao) InsertHotel(hotelId int, name string) error {
	_, err := dao.client.PutItem(context.TODO(), &dynamodb.PutItemInput{
		TableName: aws.String(dao.tablePrefix + dynamoutils.HotelsTableName),
		Item: map[string]types.AttributeValue{
			"hotel_id": numberAttribute(hotelId),
			"name":     &types.AttributeValueMemberS{Value: name},
		},
	})
	if err != nil {
		return &model.BackendError{Op: "insert hotel", Err: err}
	}
	return nil
}

func (dao *InventoryDynDao) SelectHotelIds() ([]int, error) {
	var hotelIds []int
	var lastKey map[string]types.AttributeValue
	for {
		result, err := dao.client.Scan(context.TODO(), &dynamodb.ScanInput{
			TableName:            aws.String(dao.tablePrefix + dynamoutils.HotelsTableName),
			ProjectionExpression: aws.String("hotel_id"),
			ConsistentRead:       aws.Bool(dao.consistentRead),
			ExclusiveStartKey:    lastKey,
		})
		if err != nil {
			return nil, &model.BackendError{Op: "scan hotels", Err: err}
		}
		lastKey = result.LastEvaluatedKey

		for _, item := range result.Items {
			hotelId, convErr := numberValue(item["hotel_id"])
			if convErr != nil {
				return nil, &model.BackendError{Op: "decode hotel id", Err: convErr}
			}
			hotelIds = append(hotelIds, hotelId)
		}

		if len(result.LastEvaluatedKey) == 0 {
			break
		}
	}
	return hotelIds, nil
}

func (dao *InventoryDynDao) TruncateFreeRooms() error {
	err := dynamoutils.TruncateTable(dao.client, dao.tablePrefix+dynamoutils.FreeRoomsTableName, []string{"hotel_id", "room"})
	if err != nil {
		return &model.BackendError{Op: "truncate free rooms", Err: err}
	}
	return nil
}

func (dao *InventoryDynDao) TruncateHotels() error {
	err := dynamoutils.TruncateTable(dao.client, dao.tablePrefix+dynamoutils.HotelsTableName, []string{"hotel_id"})
	if err != nil {
		return &model.BackendError{Op: "truncate hotels", Err: err}
	}
	return nil
}

func (dao *InventoryDynDao) TruncateOccupiedRooms() error {
	err := dynamoutils.TruncateTable(dao.client, dao.tablePrefix+dynamoutils.OccupiedRoomsTableName, []string{"hotel_id", "room"})
	if err != nil {
		return &model.BackendError{Op: "truncate occupied rooms", Err: err}
	}
	return nil
}

func roomKey(hotelId int, room int) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"hotel_id": numberAttribute(hotelId),
		"room":     numberAttribute(room),
	}
}

func numberAttribute(value int) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: strconv.Itoa(value)}
}

func numberValue(attribute types.AttributeValue) (int, error) {
	member, ok := attribute.(*types.AttributeValueMemberN)
	if !ok {
		return 0, errors.New("attribute is not a number")
	}
	return strconv.Atoi(member.Value)
}

func stringValue(attribute types.AttributeValue) (string, error) {
	member, ok := attribute.(*types.AttributeValueMemberS)
	if !ok {
		return "", errors.New("attribute is not a string")
	}
	return member.Value, nil
}
