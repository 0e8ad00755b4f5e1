package platform

import "time"

// DefaultTimeout is how long a toast stays on screen when Options.Timeout is
// zero.
const DefaultTimeout = 2 * time.Second

// AppName identifies the sender to the host notification service.
const AppName = "rxpad"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath points to an image shown with the toast where supported.
	IconPath string
	// Timeout overrides DefaultTimeout.
	Timeout time.Duration
}

func (o Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return DefaultTimeout
	}
	return o.Timeout
}
