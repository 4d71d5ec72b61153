package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	studentsCreated    metric.Int64Counter
	studentsViewed     metric.Int64Counter
	studentsListViewed metric.Int64Counter
	studentsUpdated    metric.Int64Counter
	studentsDeleted    metric.Int64Counter
	queryDuration      metric.Float64Histogram
}

func New(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.studentsCreated, err = meter.Int64Counter(
		"student_records.students.created",
		metric.WithDescription("Total number of student records created"),
		metric.WithUnit("{student}"),
	)
	if err != nil {
		return nil, err
	}

	m.studentsViewed, err = meter.Int64Counter(
		"student_records.students.viewed",
		metric.WithDescription("Total number of single-record reads"),
		metric.WithUnit("{view}"),
	)
	if err != nil {
		return nil, err
	}

	m.studentsListViewed, err = meter.Int64Counter(
		"student_records.students.list_viewed",
		metric.WithDescription("Total number of times the student list was viewed"),
		metric.WithUnit("{view}"),
	)
	if err != nil {
		return nil, err
	}

	m.studentsUpdated, err = meter.Int64Counter(
		"student_records.students.updated",
		metric.WithDescription("Total number of student records updated"),
		metric.WithUnit("{student}"),
	)
	if err != nil {
		return nil, err
	}

	m.studentsDeleted, err = meter.Int64Counter(
		"student_records.students.deleted",
		metric.WithDescription("Total number of student records deleted"),
		metric.WithUnit("{student}"),
	)
	if err != nil {
		return nil, err
	}

	m.queryDuration, err = meter.Float64Histogram(
		"student_records.store.query_duration",
		metric.WithDescription("Document store query duration"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Metrics) RecordStudentCreated(ctx context.Context) {
	if m != nil && m.studentsCreated != nil {
		m.studentsCreated.Add(ctx, 1)
	}
}

func (m *Metrics) RecordStudentViewed(ctx context.Context) {
	if m != nil && m.studentsViewed != nil {
		m.studentsViewed.Add(ctx, 1)
	}
}

func (m *Metrics) RecordStudentsListViewed(ctx context.Context) {
	if m != nil && m.studentsListViewed != nil {
		m.studentsListViewed.Add(ctx, 1)
	}
}

func (m *Metrics) RecordStudentUpdated(ctx context.Context) {
	if m != nil && m.studentsUpdated != nil {
		m.studentsUpdated.Add(ctx, 1)
	}
}

func (m *Metrics) RecordStudentDeleted(ctx context.Context) {
	if m != nil && m.studentsDeleted != nil {
		m.studentsDeleted.Add(ctx, 1)
	}
}

// RecordQuery records the duration and outcome of one document store call
func (m *Metrics) RecordQuery(ctx context.Context, operation string, duration time.Duration, err error) {
	if m == nil || m.queryDuration == nil {
		return
	}
	m.queryDuration.Record(ctx, float64(duration.Milliseconds()),
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.Bool("success", err == nil),
		),
	)
}

// NewMock creates a no-op Metrics instance for testing
// The returned Metrics will safely ignore all Record* calls
func NewMock() *Metrics {
	return &Metrics{}
}
