// internal/daily/daily.go
//
// Daily Challenge word schedule.
//   - A day is a UTC calendar date, keyed as YYYY-MM-DD.
//   - The day's answer is HMAC-SHA256(salt, date key) reduced modulo the
//     answer-list size, so every player gets the same word and the order
//     cannot be read off the list without the salt.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// ParseDateKey checks that s is a YYYY-MM-DD key and returns its UTC midnight.
func ParseDateKey(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("daily: bad date %q: %w", s, err)
	}
	return t, nil
}

// Schedule maps dates onto an answer list of Size words.
type Schedule struct {
	Salt string
	Size int
}

// Day is one scheduled puzzle.
type Day struct {
	Date  string // YYYY-MM-DD (UTC)
	Index int    // position in the answer list
}

// On returns the puzzle for the UTC date containing t.
func (s Schedule) On(t time.Time) Day {
	dk := DateKey(t)
	return Day{Date: dk, Index: s.index(dk)}
}

func (s Schedule) index(dateKey string) int {
	if s.Size <= 0 {
		return 0
	}
	mac := hmac.New(sha256.New, []byte(s.Salt))
	mac.Write([]byte(dateKey))
	sum := mac.Sum(nil)
	return int(binary.BigEndian.Uint64(sum[:8]) % uint64(s.Size))
}

// WordIndex returns the answer index for date; see Schedule.
func WordIndex(date time.Time, salt string, answersLen int) int {
	return Schedule{Salt: salt, Size: answersLen}.On(date).Index
}
