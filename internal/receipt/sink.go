package receipt

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/fairyhunter13/pos-register/internal/model"
	"github.com/fairyhunter13/pos-register/internal/obs"
)

// Sink prints a receipt. A nil error confirms the receipt was printed and
// the sale may be completed.
type Sink interface {
	Print(ctx context.Context, r model.Receipt) error
}

// WriterSink renders receipts to a single writer such as stdout.
type WriterSink struct {
	mu     sync.Mutex
	w      io.Writer
	header Header
}

// NewWriterSink returns a sink printing to w.
func NewWriterSink(w io.Writer, h Header) *WriterSink {
	return &WriterSink{w: w, header: h}
}

// Print implements Sink.
func (s *WriterSink) Print(ctx context.Context, r model.Receipt) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := Render(s.w, r, s.header); err != nil {
		return fmt.Errorf("print receipt %s: %w", r.ID, err)
	}
	obs.Logger.Info("receipt_printed", "receipt_id", r.ID, "sink", "writer")
	return nil
}

// DirSink writes each receipt to <Dir>/<receipt id>.txt.
type DirSink struct {
	Dir    string
	Header Header
}

// Print implements Sink.
func (s DirSink) Print(ctx context.Context, r model.Receipt) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("receipt dir: %w", err)
	}
	path := filepath.Join(s.Dir, r.ID+".txt")
	if err := os.WriteFile(path, []byte(Text(r, s.Header)), 0o644); err != nil {
		return fmt.Errorf("print receipt %s: %w", r.ID, err)
	}
	obs.Logger.Info("receipt_printed", "receipt_id", r.ID, "sink", "dir", "path", path)
	return nil
}
