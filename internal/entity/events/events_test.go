package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"kycdesk/internal/entity/metrics"
	"kycdesk/pkg/platform/circuit"
	"kycdesk/pkg/requestcontext"
)

type fakeProducer struct {
	err     error
	records []*kgo.Record
	closed  bool
}

func (f *fakeProducer) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	f.records = append(f.records, rs...)
	out := make(kgo.ProduceResults, len(rs))
	for i, r := range rs {
		out[i] = kgo.ProduceResult{Record: r, Err: f.err}
	}
	return out
}

func (f *fakeProducer) Close() { f.closed = true }

func TestNewChangeCarriesRequestMetadata(t *testing.T) {
	at := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), at)
	ctx = requestcontext.WithRequestID(ctx, "req-1")
	ctx = requestcontext.WithClientMetadata(ctx, "10.0.0.7", "Mozilla/5.0")
	ctx = requestcontext.WithClientName(ctx, "Firefox 128 (Linux)")

	c := NewChange(ctx, ActionUpdated, "ent_1")
	assert.Equal(t, Change{
		Action:    ActionUpdated,
		EntityID:  "ent_1",
		Timestamp: at,
		RequestID: "req-1",
		ClientIP:  "10.0.0.7",
		Client:    "Firefox 128 (Linux)",
	}, c)
}

func TestKafkaPublisherProducesKeyedRecord(t *testing.T) {
	producer := &fakeProducer{}
	m := metrics.New(prometheus.NewRegistry())
	p := NewKafkaPublisher(producer, "changes", WithMetrics(m))

	change := Change{Action: ActionUpdated, EntityID: "ent_2", Field: "banking.swift", Timestamp: time.Unix(0, 0).UTC()}
	require.NoError(t, p.Publish(context.Background(), change))

	require.Len(t, producer.records, 1)
	rec := producer.records[0]
	assert.Equal(t, "changes", rec.Topic)
	assert.Equal(t, []byte("ent_2"), rec.Key)
	assert.Equal(t, "entity.updated", string(rec.Headers[0].Value))

	var decoded Change
	require.NoError(t, json.Unmarshal(rec.Value, &decoded))
	assert.Equal(t, change, decoded)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsPublished.WithLabelValues("published")))

	require.NoError(t, p.Close())
	assert.True(t, producer.closed)
}

func TestKafkaPublisherFallsBackAndTrips(t *testing.T) {
	producer := &fakeProducer{err: errors.New("broker down")}
	fallback := &Recorder{}
	breaker := circuit.New("test", circuit.WithFailureThreshold(2), circuit.WithCooldown(time.Hour))
	p := NewKafkaPublisher(producer, "changes", WithFallback(fallback), WithBreaker(breaker))

	ctx := context.Background()
	assert.Error(t, p.Publish(ctx, Change{Action: ActionCreated, EntityID: "a"}))
	assert.Error(t, p.Publish(ctx, Change{Action: ActionCreated, EntityID: "b"}))
	assert.True(t, breaker.IsOpen())

	// open: broker is skipped, fallback still receives
	assert.NoError(t, p.Publish(ctx, Change{Action: ActionCreated, EntityID: "c"}))
	assert.Len(t, producer.records, 2)
	assert.Len(t, fallback.Changes(), 3)
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	p := NewLogPublisher(slog.New(slog.NewJSONHandler(&buf, nil)))

	require.NoError(t, p.Publish(context.Background(), Change{Action: ActionSelected, EntityID: "ent_1"}))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "entity change", line["msg"])
	assert.Equal(t, "entity.selected", line["action"])
	assert.Equal(t, "ent_1", line["entity_id"])
}

func TestRecorderActions(t *testing.T) {
	r := &Recorder{}
	_ = r.Publish(context.Background(), Change{Action: ActionCreated})
	_ = r.Publish(context.Background(), Change{Action: ActionSelected})
	assert.Equal(t, []Action{ActionCreated, ActionSelected}, r.Actions())
}
