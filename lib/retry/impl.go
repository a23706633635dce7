package retry

import (
	"time"

	"github.com/redox-os-tools/disk-installer/lib/backoffdelay"
	"github.com/redox-os-tools/disk-installer/lib/clock"
)

type simpleSleeper struct {
	clock clock.Clock
}

func retry(fn func() bool, params Params) error {
	params.prepare()
	stopTime := params.Clock.Now().Add(params.RetryTimeout)
	var tryCount uint64
	for {
		tryCount++
		if fn() {
			return nil
		}
		if params.RetryTimeout > 0 && !params.Clock.Now().Before(stopTime) {
			return ErrTimeout
		}
		if params.MaxRetries > 0 && tryCount >= params.MaxRetries {
			return ErrTooManyRetries
		}
		params.Sleeper.Sleep()
	}
}

func (p *Params) prepare() {
	if p.Clock == nil {
		p.Clock = clock.New()
	}
	if p.Sleeper == nil {
		p.Sleeper = &simpleSleeper{clock: p.Clock}
	} else if resetter, ok := p.Sleeper.(backoffdelay.Resetter); ok {
		resetter.Reset()
	}
}

func (s *simpleSleeper) Sleep() {
	s.clock.Sleep(100 * time.Millisecond)
}
