package osutil

import (
	"testing"
	"time"
)

func TestSyncTimeout(t *testing.T) {
	oldSyncFunc := syncFunc
	defer func() { syncFunc = oldSyncFunc }()
	release := make(chan struct{})
	defer close(release)
	syncFunc = func() error {
		<-release
		return nil
	}
	if err := SyncTimeout(10 * time.Millisecond); err == nil {
		t.Fatal("blocked sync did not time out")
	}
}
