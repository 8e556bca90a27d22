package cache

import (
	"math"
	"strconv"
	"time"
)

// Status reports whether a response came from the Store.
type Status string

const (
	StatusHit  Status = "HIT"
	StatusMiss Status = "MISS"
)

// Decoration is the cache metadata attached to every cached response.
type Decoration struct {
	Status  Status
	Elapsed time.Duration
}

// Decorate measures the time since startedAt, which is taken when the
// request began so a hit still reports its own lookup time.
func Decorate(status Status, startedAt time.Time) Decoration {
	elapsed := time.Since(startedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	return Decoration{Status: status, Elapsed: elapsed}
}

func (d Decoration) ElapsedMilliseconds() float64 {
	return float64(d.Elapsed) / float64(time.Millisecond)
}

// ResponseTime renders the elapsed time in milliseconds rounded to two
// decimals, e.g. "12.34ms".
func (d Decoration) ResponseTime() string {
	ms := math.Round(d.ElapsedMilliseconds()*100) / 100
	return strconv.FormatFloat(ms, 'f', -1, 64) + "ms"
}
