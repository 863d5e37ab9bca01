package realtime

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Broadcaster fans a single event out to every session subscribed to a
// topic at call time. Delivery is best-effort, at-most-once: a session
// joining mid-publish may miss the event, and a failed write to one
// session is logged and skipped without affecting the rest.
type Broadcaster struct {
	reg *Registry
	log *zap.Logger
}

func NewBroadcaster(reg *Registry, log *zap.Logger) *Broadcaster {
	return &Broadcaster{reg: reg, log: log.Named("broadcast")}
}

// Publish delivers event to the members of topic. The member set is
// snapshotted before any write so a slow or stalled subscriber never
// blocks joins, leaves, or publishes on other topics.
func (b *Broadcaster) Publish(topic Topic, event Event) {
	members := b.reg.Members(topic)

	delivered := 0
	for _, sess := range members {
		if err := sess.Send(event.Kind(), event); err != nil {
			b.log.Warn("event delivery failed",
				zap.String("topic", string(topic)),
				zap.String("kind", event.Kind()),
				zap.String("session_id", sess.ID),
				zap.Error(err),
			)
			continue
		}
		delivered++
	}

	b.log.Debug("event published", grouped(
		zap.String("topic", string(topic)),
		zap.String("kind", event.Kind()),
		zap.Int("subscribers", len(members)),
		zap.Int("delivered", delivered),
	))
}

// grouped nests fields under one "values" object so a publish debug line
// stays a single level deep however many fields it carries.
func grouped(fields ...zap.Field) zap.Field {
	return zap.Object("values", zapcore.ObjectMarshalerFunc(func(enc zapcore.ObjectEncoder) error {
		for _, f := range fields {
			f.AddTo(enc)
		}
		return nil
	}))
}
