package pubsub

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLocalHTTPPublisher_PublishOrderPlaced(t *testing.T) {
	var received PushMessage
	var requestID string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = r.Header.Get("X-Request-Id")
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	event := &service.OrderPlacedEvent{
		RequestID:   "req-1",
		OrderID:     "order-1",
		UserID:      "user-1",
		ItemCount:   3,
		TotalAmount: 250,
		PlacedAt:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	publisher := NewLocalHTTPPublisher(srv.URL, newTestLogger())
	require.NoError(t, publisher.PublishOrderPlaced(context.Background(), event))

	assert.Equal(t, "req-1", requestID)
	assert.Equal(t, "order-1", received.Message.MessageID)
	assert.Equal(t, "order.placed", received.Message.Attributes["event_type"])
	assert.Equal(t, "user-1", received.Message.Attributes["user_id"])

	data, err := base64.StdEncoding.DecodeString(received.Message.Data)
	require.NoError(t, err)

	var decoded service.OrderPlacedEvent
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, *event, decoded)
}

func TestLocalHTTPPublisher_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	publisher := NewLocalHTTPPublisher(srv.URL, newTestLogger())
	err := publisher.PublishOrderPlaced(context.Background(), &service.OrderPlacedEvent{OrderID: "order-1"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestOrderAttributes_OmitsEmptyRequestID(t *testing.T) {
	attrs := orderAttributes(&service.OrderPlacedEvent{OrderID: "o", UserID: "u"})

	_, ok := attrs["request_id"]
	assert.False(t, ok)
	assert.Equal(t, "o", attrs["order_id"])
}

func TestNoopPublisher(t *testing.T) {
	publisher := &noopPublisher{logger: newTestLogger()}

	assert.NoError(t, publisher.PublishOrderPlaced(context.Background(), &service.OrderPlacedEvent{OrderID: "o"}))
	assert.NoError(t, publisher.Close())
}
