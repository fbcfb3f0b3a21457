package stress

import (
	"log"
	"strconv"
	"time"

	"main/utils"
)

// exportReport writes the discrepancy records, the per-booking latency samples
// and a short summary to log/<name>.csv, log/<name>-latencies.csv and
// log/<name>-summary.csv.
func (h *Harness) exportReport(elapsed time.Duration) {
	records := [][]string{
		{"customer", "booked", "occupied"},
	}
	for _, discrepancy := range h.discrepancies {
		records = append(records, []string{
			discrepancy.Customer,
			strconv.Itoa(discrepancy.Booked),
			strconv.Itoa(discrepancy.Occupied),
		})
	}
	if err := utils.ExportToCsv(h.params.ReportName, records); err != nil {
		log.Printf("Could not export discrepancy report: %v\n", err)
	}

	latencyRecords := [][]string{
		{"latencyMillis"},
	}
	for _, latency := range h.latencies {
		latencyRecords = append(latencyRecords, []string{strconv.FormatInt(latency.Milliseconds(), 10)})
	}
	if err := utils.ExportToCsv(h.params.ReportName+"-latencies", latencyRecords); err != nil {
		log.Printf("Could not export latency report: %v\n", err)
	}

	averageLatency := time.Duration(0)
	if h.bookings > 0 {
		averageLatency = h.totalLatency / time.Duration(h.bookings)
	}
	throughput := float64(h.bookings) / elapsed.Seconds()

	summary := [][]string{
		{"bookings", "discrepancies", "averageLatencyMillis", "throughputPerSec"},
		{
			strconv.Itoa(h.bookings),
			strconv.Itoa(len(h.discrepancies)),
			strconv.FormatInt(averageLatency.Milliseconds(), 10),
			strconv.FormatFloat(throughput, 'f', 3, 64),
		},
	}
	if err := utils.ExportToCsv(h.params.ReportName+"-summary", summary); err != nil {
		log.Printf("Could not export summary report: %v\n", err)
	}
}
