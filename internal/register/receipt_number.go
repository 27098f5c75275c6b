package register

import (
	"strconv"
	"sync/atomic"
	"time"
)

// Numberer issues receipt numbers of the form <prefix>-<unix seconds>.
// Numbers are strictly increasing within a process: two receipts in the
// same second get consecutive values. A clock set backwards across restarts
// can still repeat a number.
type Numberer struct {
	prefix string
	last   atomic.Int64
}

// NewNumberer returns a Numberer using the store/branch prefix.
func NewNumberer(prefix string) *Numberer {
	return &Numberer{prefix: prefix}
}

// Next returns the receipt number for a sale submitted at now.
func (n *Numberer) Next(now time.Time) string {
	sec := now.Unix()
	for {
		last := n.last.Load()
		v := sec
		if v <= last {
			v = last + 1
		}
		if n.last.CompareAndSwap(last, v) {
			return n.prefix + "-" + strconv.FormatInt(v, 10)
		}
	}
}
