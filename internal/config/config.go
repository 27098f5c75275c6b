// Package config provides runtime configuration values for the service.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultQuickCash are the quick-cash button amounts shown next to the
// cash input.
var DefaultQuickCash = []int64{2000, 5000, 10000, 20000, 50000, 100000}

// Config holds configuration knobs for the HTTP server, the register actor
// and receipt printing.
type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration
	LogLevel        string

	CatalogPath string

	ReceiptPrefix   string
	ReceiptDir      string
	StoreName       string
	StoreBranch     string
	ReceiptLocation *time.Location
	QuickCash       []int64

	QueueBuffer int
	// QueueHighWatermark caps commands waiting for the worker; further
	// commands are refused as busy until the backlog drains.
	QueueHighWatermark int
	FeedbackBuffer     int
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func durenvms(key string, defMs int) time.Duration {
	ms := atoienv(key, defMs)
	return time.Duration(ms) * time.Millisecond
}

func durenvs(key string, defSec int) time.Duration {
	sec := atoienv(key, defSec)
	return time.Duration(sec) * time.Second
}

// amountsenv parses a comma separated list of positive amounts. Any bad
// entry makes the whole value fall back to def.
func amountsenv(key string, def []int64) []int64 {
	v := getenv(key, "")
	if v == "" {
		return append([]int64(nil), def...)
	}
	var out []int64
	for _, part := range strings.Split(v, ",") {
		n, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || n <= 0 {
			return append([]int64(nil), def...)
		}
		out = append(out, n)
	}
	return out
}

func locenv(key string) *time.Location {
	name := getenv(key, "")
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Local
	}
	return loc
}

// Load collects configuration from environment with defaults.
func Load() Config {
	return Config{
		HTTPAddr:           getenv("HTTP_ADDR", ":8080"),
		ShutdownTimeout:    durenvs("SHUTDOWN_TIMEOUT", 15),
		RequestTimeout:     durenvms("REQUEST_TIMEOUT_MS", 5000),
		LogLevel:           getenv("LOG_LEVEL", "info"),
		CatalogPath:        getenv("CATALOG_PATH", ""),
		ReceiptPrefix:      getenv("RECEIPT_PREFIX", "TWPOS-KS"),
		ReceiptDir:         getenv("RECEIPT_DIR", ""),
		StoreName:          getenv("STORE_NAME", "TAILWIND POS"),
		StoreBranch:        getenv("STORE_BRANCH", "CABANG KONOHA SELATAN"),
		ReceiptLocation:    locenv("RECEIPT_TIMEZONE"),
		QuickCash:          amountsenv("QUICK_CASH_PRESETS", DefaultQuickCash),
		QueueBuffer:        atoienv("QUEUE_BUFFER", 64),
		QueueHighWatermark: atoienv("QUEUE_HIGH_WATERMARK", 1000),
		FeedbackBuffer:     atoienv("FEEDBACK_BUFFER", 32),
	}
}
