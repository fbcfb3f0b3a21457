package utils

import (
	"encoding/csv"
	"log"
	"os"
	"path/filepath"
	"runtime"
)

var (
	_, b, _, _ = runtime.Caller(0)

	// Root folder of this project
	Root = filepath.Join(filepath.Dir(b), "")
)

// SetLogger redirects the standard logger to log/<fileName>.txt.
func SetLogger(fileName string) error {
	logDir := filepath.Join(filepath.Dir(Root), "log")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}
	file, err := os.OpenFile(filepath.Join(logDir, fileName+".txt"), os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		return err
	}
	log.SetOutput(file)
	log.SetFlags(log.LstdFlags | log.Lshortfile | log.Lmicroseconds)

	log.Println("log file created")
	return nil
}

// ExportToCsv writes the records to log/<name>.csv.
func ExportToCsv(name string, records [][]string) error {
	logDir := filepath.Join(filepath.Dir(Root), "log")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}
	file, err := os.Create(filepath.Join(logDir, name+".csv"))
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	for _, value := range records {
		if err = writer.Write(value); err != nil {
			return err
		}
	}

	return err
}
