package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func headerValue(msg kafka.Message, key string) string {
	return headerCarrier{headers: &msg.Headers}.Get(key)
}

func TestNewEvent(t *testing.T) {
	ev, err := NewEvent("storefront.cart.updated", "sess-1", "cart", "storefront", map[string]int{"item_count": 2})
	require.NoError(t, err)

	assert.NotEmpty(t, ev.EventID)
	assert.Equal(t, 1, ev.Version)
	assert.Equal(t, "sess-1", ev.SessionID)
	assert.Equal(t, "cart", ev.Subject)
	assert.Equal(t, []byte("sess-1"), ev.Key())

	var data map[string]int
	require.NoError(t, ev.UnmarshalData(&data))
	assert.Equal(t, 2, data["item_count"])

	ev.WithCorrelationID("corr")
	assert.Equal(t, "corr", ev.CorrelationID)

	_, err = NewEvent("storefront.cart.updated", "sess-1", "cart", "storefront", func() {})
	assert.ErrorContains(t, err, "encode storefront.cart.updated payload")
}

func TestProducer_PublishWritesKeyedMessage(t *testing.T) {
	w := &recordingWriter{}
	p := NewProducerWithWriter(w, nil, testLogger())

	ev, err := NewEvent("storefront.order.placed", "sess-9", "order", "storefront", map[string]string{"total": "10.00"})
	require.NoError(t, err)
	ev.WithCorrelationID("corr-9")

	before := testutil.ToFloat64(producerMessages.WithLabelValues("orders", "ok"))
	require.NoError(t, p.Publish(context.Background(), "orders", ev))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "orders", msg.Topic)
	assert.Equal(t, "sess-9", string(msg.Key))
	assert.Equal(t, "storefront.order.placed", headerValue(msg, "event_type"))
	assert.Equal(t, "corr-9", headerValue(msg, "correlation_id"))
	assert.Equal(t, before+1, testutil.ToFloat64(producerMessages.WithLabelValues("orders", "ok")))
}

func TestProducer_PublishInjectsTraceContext(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	w := &recordingWriter{}
	p := NewProducerWithWriter(w, nil, testLogger())
	ev, err := NewEvent("storefront.cart.updated", "s", "cart", "storefront", nil)
	require.NoError(t, err)
	require.NoError(t, p.Publish(ctx, "cart", ev))

	assert.Contains(t, headerValue(w.msgs[0], "traceparent"), "4bf92f3577b34da6a3ce929d0e0e4736")
}

func TestProducer_PublishError(t *testing.T) {
	w := &recordingWriter{err: errors.New("broker down")}
	p := NewProducerWithWriter(w, nil, testLogger())
	ev, err := NewEvent("storefront.cart.updated", "s", "cart", "storefront", nil)
	require.NoError(t, err)

	err = p.Publish(context.Background(), "cart", ev)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish event to cart")
}

func TestProducer_PingWithoutBrokers(t *testing.T) {
	p := NewProducerWithWriter(&recordingWriter{}, nil, testLogger())
	assert.Error(t, p.Ping(context.Background()))
}

func TestProducer_Close(t *testing.T) {
	w := &recordingWriter{}
	p := NewProducerWithWriter(w, nil, testLogger())
	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestHeaderCarrier_SetOverwrites(t *testing.T) {
	headers := []kafka.Header{{Key: "a", Value: []byte("1")}}
	c := headerCarrier{headers: &headers}
	c.Set("a", "2")
	c.Set("b", "3")
	assert.Equal(t, "2", c.Get("a"))
	assert.Equal(t, []string{"a", "b"}, c.Keys())
}
