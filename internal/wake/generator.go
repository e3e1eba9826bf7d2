// Package wake picks the randomized wake instant inside a user's
// alarm window.
package wake

import (
	"errors"
	"math/rand"

	"github.com/iliyamo/smart-alarm/internal/model"
)

// ErrInvalidWindow is returned when the window end precedes its start.
// Windows wrapping past midnight are not supported; the HTTP boundary
// rejects them before an alarm row ever exists, so hitting this error
// here means a corrupted row.
var ErrInvalidWindow = errors.New("window end before window start")

// Generate returns a uniformly random minute in [start, end], both
// bounds inclusive. It is pure with respect to the injected random
// source: day-to-day stability is not this function's job — the
// scheduler only calls it when no instant has been generated for the
// current date.
func Generate(r *rand.Rand, start, end model.TimeOfDay) (model.TimeOfDay, error) {
	span := int(end) - int(start)
	if span < 0 {
		return 0, ErrInvalidWindow
	}
	return start + model.TimeOfDay(r.Intn(span+1)), nil
}
