package dynamoutils

import (
	"strings"
	"testing"
)

// Requires a DynamoDB Local instance on localhost:8000; skipped in short mode.
func TestDeleteBookingTablesReportsEveryFailure(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test requiring DynamoDB Local")
	}

	client := CreateLocalClient("")
	tablePrefix := "TableManagerTest"

	if err := EnsureBookingTables(client, tablePrefix); err != nil {
		t.Fatalf("Could not create the booking tables: %v", err)
	}
	if err := DeleteBookingTables(client, tablePrefix); err != nil {
		t.Fatalf("Deleting existing tables should succeed: %v", err)
	}

	// all three tables are gone now, so all three deletes must fail and the
	// joined error must mention each of them
	err := DeleteBookingTables(client, tablePrefix)
	if err == nil {
		t.Fatal("Expected an error deleting missing tables")
	}
	for _, tableName := range []string{HotelsTableName, FreeRoomsTableName, OccupiedRoomsTableName} {
		if !strings.Contains(err.Error(), tablePrefix+tableName) {
			t.Errorf("Expected the error to mention table %v, got: %v", tablePrefix+tableName, err)
		}
	}
}
