package utils

import (
	"math/rand"
	"time"
)

// RandomDelay sleeps for a random duration between min and max. Fixed
// delays are a detectable pattern; randomised ones read as a human pacing
// through the page.
func RandomDelay(min, max time.Duration) {
	diff := max - min
	if diff <= 0 {
		time.Sleep(min)
		return
	}
	time.Sleep(min + time.Duration(rand.Int63n(int64(diff))))
}
