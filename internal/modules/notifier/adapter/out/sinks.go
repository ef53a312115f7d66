package out

import (
	"io"
	"time"

	"go.uber.org/zap"

	"gear/internal/modules/notifier/domain"
	"gear/internal/modules/notifier/dto"
)

// MultiSink delivers to each sink in order.
type MultiSink []Sink

func (m MultiSink) Deliver(notification domain.Notification, at time.Time) {
	for _, sink := range m {
		sink.Deliver(notification, at)
	}
}

func NewLogSink(logger *zap.Logger) Sink {
	return SinkFunc(func(n domain.Notification, at time.Time) {
		logger.Info("notification delivered",
			zap.String("key", n.Key),
			zap.String("title", n.Title),
			zap.Time("at", at))
	})
}

// NewBellSink rings the terminal bell on w.
func NewBellSink(w io.Writer) Sink {
	return SinkFunc(func(domain.Notification, time.Time) {
		_, _ = io.WriteString(w, "\a")
	})
}

// ChannelSink hands alerts to a consumer such as the terminal UI. Alerts are
// dropped when the buffer is full.
type ChannelSink struct {
	alerts chan dto.Alert
}

func NewChannelSink(buffer int) *ChannelSink {
	return &ChannelSink{alerts: make(chan dto.Alert, buffer)}
}

func (s *ChannelSink) Alerts() <-chan dto.Alert { return s.alerts }

func (s *ChannelSink) Deliver(n domain.Notification, at time.Time) {
	select {
	case s.alerts <- dto.Alert{Key: n.Key, Title: n.Title, Body: n.Body, At: at}:
	default:
	}
}
