package realtime

import (
	"context"
	"errors"

	"github.com/swap24/backend/internal/monitor"
)

type sink struct {
	name string
	pub  Publisher
}

// Fanout publishes every event to each registered sink and joins their errors.
type Fanout struct {
	sinks []sink
}

func NewFanout() *Fanout {
	return &Fanout{}
}

// Add registers a sink under a metrics label. Nil publishers are ignored.
func (f *Fanout) Add(name string, p Publisher) *Fanout {
	if p != nil {
		f.sinks = append(f.sinks, sink{name: name, pub: p})
	}
	return f
}

func (f *Fanout) Publish(ctx context.Context, room, event string, payload any) error {
	var errs []error
	for _, s := range f.sinks {
		if err := s.pub.Publish(ctx, room, event, payload); err != nil {
			monitor.RealtimeEventsTotal.WithLabelValues(s.name, "error").Inc()
			errs = append(errs, err)
			continue
		}
		monitor.RealtimeEventsTotal.WithLabelValues(s.name, "ok").Inc()
	}
	return errors.Join(errs...)
}
