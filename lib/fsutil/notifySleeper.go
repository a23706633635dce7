package fsutil

import (
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/redox-os-tools/disk-installer/lib/log"
)

func newNotifySleeper(dirname string, minimumDelay, maximumDelay time.Duration,
	logger log.DebugLogger) (*NotifySleeper, error) {
	if minimumDelay <= 0 {
		minimumDelay = 10 * time.Millisecond
	}
	if maximumDelay <= minimumDelay {
		maximumDelay = 10 * minimumDelay
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(dirname); err != nil {
		watcher.Close()
		return nil, err
	}
	events := make(chan struct{}, 1)
	go waitForNotifyEvents(watcher, events, logger)
	return &NotifySleeper{
		events:   events,
		interval: minimumDelay,
		logger:   logger,
		maximum:  maximumDelay,
		minimum:  minimumDelay,
		watcher:  watcher,
	}, nil
}

func waitForNotifyEvents(watcher *fsnotify.Watcher, events chan<- struct{},
	logger log.DebugLogger) {
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			logger.Debugf(2, "created: %s\n", event.Name)
			select {
			case events <- struct{}{}:
			default:
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Println("Error with watcher:", err)
		}
	}
}

func (s *NotifySleeper) sleep() {
	timer := time.NewTimer(s.interval)
	select {
	case <-timer.C:
	case <-s.events:
		timer.Stop()
	}
	s.interval += s.interval >> 1
	if s.interval > s.maximum {
		s.interval = s.maximum
	}
}
