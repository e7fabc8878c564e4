package sim

import "github.com/sirupsen/logrus"

// EventType tags the simulation events emitted to a ReportSink.
type EventType string

const (
	EventTaskAssigned       EventType = "TaskAssigned"
	EventTaskCompleted      EventType = "TaskCompleted"
	EventTaskFailed         EventType = "TaskFailed"
	EventProcessorThrottled EventType = "ProcessorThrottled"
	EventSimulationTimeout  EventType = "SimulationTimeout"
)

// Event is one reportable occurrence inside the simulation.
// TaskID and ProcessorID are -1 when not applicable.
type Event struct {
	Type        EventType
	TaskID      int64
	ProcessorID int
	Reason      string
}

// ReportSink consumes simulation events. The presentation layer (console,
// log output) is an external collaborator behind this interface.
type ReportSink interface {
	Record(tick int64, ev Event)
}

// TimedEvent pairs an event with the tick it was recorded at.
type TimedEvent struct {
	Tick  int64
	Event Event
}

// CollectorSink accumulates events in memory for the final report and tests.
type CollectorSink struct {
	Events []TimedEvent
}

// NewCollectorSink creates an empty CollectorSink.
func NewCollectorSink() *CollectorSink {
	return &CollectorSink{Events: make([]TimedEvent, 0)}
}

// Record implements ReportSink.
func (c *CollectorSink) Record(tick int64, ev Event) {
	c.Events = append(c.Events, TimedEvent{Tick: tick, Event: ev})
}

// CountByType returns how many recorded events carry the given type.
func (c *CollectorSink) CountByType(t EventType) int {
	n := 0
	for _, te := range c.Events {
		if te.Event.Type == t {
			n++
		}
	}
	return n
}

// LoggingSink forwards events to logrus and optionally to a wrapped sink.
type LoggingSink struct {
	Next ReportSink
}

// Record implements ReportSink.
func (l *LoggingSink) Record(tick int64, ev Event) {
	switch ev.Type {
	case EventProcessorThrottled:
		logrus.Warnf("[tick %07d] %s processor=%d %s", tick, ev.Type, ev.ProcessorID, ev.Reason)
	case EventTaskFailed, EventSimulationTimeout:
		logrus.Warnf("[tick %07d] %s task=%d %s", tick, ev.Type, ev.TaskID, ev.Reason)
	default:
		logrus.Infof("[tick %07d] %s task=%d processor=%d", tick, ev.Type, ev.TaskID, ev.ProcessorID)
	}
	if l.Next != nil {
		l.Next.Record(tick, ev)
	}
}
