package stress

import (
	"testing"

	"main/booking/db"
	"main/booking/services"
	"main/dynamoutils"
)

// Requires a DynamoDB Local instance on localhost:8000; skipped in short mode.
func TestHarnessAgainstDynamoLocal(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping stress run requiring DynamoDB Local")
	}

	client := dynamoutils.CreateLocalClient("")
	tablePrefix := "StressTest"
	if err := dynamoutils.EnsureBookingTables(client, tablePrefix); err != nil {
		t.Fatalf("Could not create the booking tables: %v", err)
	}
	t.Cleanup(func() {
		dynamoutils.DeleteTable(client, tablePrefix+dynamoutils.HotelsTableName)
		dynamoutils.DeleteTable(client, tablePrefix+dynamoutils.FreeRoomsTableName)
		dynamoutils.DeleteTable(client, tablePrefix+dynamoutils.OccupiedRoomsTableName)
	})

	dao := db.NewInventoryDynDao(client, tablePrefix, true)
	service := services.NewBookingService(dao, false)

	harness := NewHarness(service, DefaultParams())
	discrepancies := harness.Run()

	// discrepancies are expected under contention and only ever under-report
	for _, discrepancy := range discrepancies {
		if discrepancy.Occupied >= discrepancy.Booked {
			t.Errorf("Discrepancy for %v does not under-report: booked %v, occupied %v",
				discrepancy.Customer, discrepancy.Booked, discrepancy.Occupied)
		}
	}

	hotels, err := service.GetAllHotels()
	if err != nil {
		t.Fatalf("Could not list the hotels after teardown: %v", err)
	}
	if len(hotels) != 0 {
		t.Errorf("Expected the stress data to be deleted, found hotels %v", hotels)
	}
}
