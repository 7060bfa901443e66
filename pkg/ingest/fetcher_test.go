package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
)

func feedPayload(t *testing.T, entities ...*gtfs.FeedEntity) []byte {
	t.Helper()

	feed := &gtfs.FeedMessage{
		Header: &gtfs.FeedHeader{
			GtfsRealtimeVersion: proto.String("2.0"),
		},
		Entity: entities,
	}

	payload, err := proto.Marshal(feed)
	require.NoError(t, err)

	return payload
}

func TestFetchDecodesFeed(t *testing.T) {
	payload := feedPayload(t,
		vehicleEntity("1", vehiclePosition("trip-1", "1", "127N", 40.7553, -73.9877)),
		tripUpdateEntity("2", tripUpdate("trip-2", "1", "631S")),
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/x-protobuf", r.Header.Get("Accept"))

		w.Write(payload)
	}))
	defer server.Close()

	entities, err := NewFetcher(0).Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	require.Len(t, entities, 2)

	assert.Equal(t, "trip-1", entities[0].GetVehicle().GetTrip().GetTripId())
	assert.Equal(t, "trip-2", entities[1].GetTripUpdate().GetTrip().GetTripId())
}

func TestFetchErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := NewFetcher(0).Fetch(context.Background(), server.URL)
	assert.ErrorContains(t, err, "502")
}

func TestFetchInvalidPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>definitely not protobuf</html>"))
	}))
	defer server.Close()

	_, err := NewFetcher(0).Fetch(context.Background(), server.URL)
	assert.Error(t, err)
}

func TestFetchUnreachableEndpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := NewFetcher(0).Fetch(context.Background(), server.URL)
	assert.Error(t, err)
}
