package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{
		"HTTP_ADDR", "SHUTDOWN_TIMEOUT", "REQUEST_TIMEOUT_MS", "LOG_LEVEL", "CATALOG_PATH",
		"RECEIPT_PREFIX", "RECEIPT_DIR", "STORE_NAME", "STORE_BRANCH", "RECEIPT_TIMEZONE",
		"QUICK_CASH_PRESETS", "QUEUE_BUFFER", "QUEUE_HIGH_WATERMARK", "FEEDBACK_BUFFER",
	} {
		t.Setenv(k, "")
	}
	c := Load()
	if c.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr default")
	}
	if c.ShutdownTimeout != 15*time.Second {
		t.Fatalf("ShutdownTimeout default")
	}
	if c.RequestTimeout != 5*time.Second {
		t.Fatalf("RequestTimeout default")
	}
	if c.ReceiptPrefix != "TWPOS-KS" || c.StoreBranch != "CABANG KONOHA SELATAN" {
		t.Fatalf("receipt header defaults: %q %q", c.ReceiptPrefix, c.StoreBranch)
	}
	if c.ReceiptLocation != time.Local {
		t.Fatalf("ReceiptLocation default")
	}
	if !reflect.DeepEqual(c.QuickCash, DefaultQuickCash) {
		t.Fatalf("QuickCash default: %v", c.QuickCash)
	}
	if c.QueueBuffer != 64 || c.QueueHighWatermark != 1000 || c.FeedbackBuffer != 32 {
		t.Fatalf("buffer defaults")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("SHUTDOWN_TIMEOUT", "2")
	t.Setenv("REQUEST_TIMEOUT_MS", "250")
	t.Setenv("RECEIPT_PREFIX", "TWPOS-JKT")
	t.Setenv("RECEIPT_TIMEZONE", "UTC")
	t.Setenv("QUICK_CASH_PRESETS", "1000, 3000")
	t.Setenv("QUEUE_BUFFER", "8")
	c := Load()
	if c.HTTPAddr != ":9090" {
		t.Fatalf("HTTPAddr env")
	}
	if c.ShutdownTimeout != 2*time.Second || c.RequestTimeout != 250*time.Millisecond {
		t.Fatalf("timeouts env")
	}
	if c.ReceiptPrefix != "TWPOS-JKT" {
		t.Fatalf("ReceiptPrefix env")
	}
	if c.ReceiptLocation.String() != "UTC" {
		t.Fatalf("ReceiptLocation env: %s", c.ReceiptLocation)
	}
	if !reflect.DeepEqual(c.QuickCash, []int64{1000, 3000}) {
		t.Fatalf("QuickCash env: %v", c.QuickCash)
	}
	if c.QueueBuffer != 8 {
		t.Fatalf("QueueBuffer env")
	}
}

func TestLoadBadValuesFallBack(t *testing.T) {
	t.Setenv("QUEUE_BUFFER", "lots")
	t.Setenv("QUICK_CASH_PRESETS", "1000,abc")
	t.Setenv("RECEIPT_TIMEZONE", "Mars/Olympus")
	c := Load()
	if c.QueueBuffer != 64 {
		t.Fatalf("expected fallback, got %d", c.QueueBuffer)
	}
	if !reflect.DeepEqual(c.QuickCash, DefaultQuickCash) {
		t.Fatalf("expected default presets, got %v", c.QuickCash)
	}
	if c.ReceiptLocation != time.Local {
		t.Fatalf("expected local zone fallback")
	}
}
