package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gennadyy7/rssi-analyzer/internal/core/domain"
	"github.com/Gennadyy7/rssi-analyzer/internal/core/services/analysis"
)

type roundFrame struct {
	Type    string       `json:"type"`
	Payload analysis.Summary `json:"payload"`
}

func testView(round uint64, history []float64) domain.StateView {
	return domain.StateView{
		Generation: "gen-1",
		Round:      round,
		Adapters:   []string{"wlan1", "wlan2"},
		Histories:  map[domain.NetworkID][]float64{"HomeNetwork": history},
		Snapshot: domain.NewSnapshot([]string{"wlan1", "wlan2"}, []domain.Readings{
			{"HomeNetwork": -50},
			{"HomeNetwork": -54},
		}),
	}
}

func dial(t *testing.T, srv *httptest.Server, header http.Header) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	return websocket.DefaultDialer.Dial(url, header)
}

func readRound(t *testing.T, conn *websocket.Conn) roundFrame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var frame roundFrame
	require.NoError(t, json.Unmarshal(data, &frame))
	return frame
}

func TestWSManagerStreamsRounds(t *testing.T) {
	source := NewMockStateSource(testView(1, []float64{-52}))
	m := NewWSManager(source, domain.NewSettingsStore(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx)

	srv := httptest.NewServer(http.HandlerFunc(m.HandleWebSocket))
	defer srv.Close()

	conn, _, err := dial(t, srv, nil)
	require.NoError(t, err)
	defer conn.Close()

	first := readRound(t, conn)
	assert.Equal(t, "round", first.Type)
	assert.Equal(t, uint64(1), first.Payload.Round)
	require.Len(t, first.Payload.Networks, 1)
	assert.Equal(t, domain.NetworkID("HomeNetwork"), first.Payload.Networks[0].ID)

	require.Eventually(t, func() bool { return m.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	source.Publish(testView(2, []float64{-52, -51}))

	next := readRound(t, conn)
	assert.Equal(t, uint64(2), next.Payload.Round)
	assert.Equal(t, []string{"wlan1", "wlan2"}, next.Payload.Adapters)
	assert.Equal(t, -51.0, next.Payload.Networks[0].LastValue)
}

func TestWSManagerRejectsForeignOrigin(t *testing.T) {
	m := NewWSManager(NewMockStateSource(domain.StateView{}), domain.NewSettingsStore(), []string{"http://localhost:8080"})

	srv := httptest.NewServer(http.HandlerFunc(m.HandleWebSocket))
	defer srv.Close()

	_, resp, err := dial(t, srv, http.Header{"Origin": []string{"http://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, 0, m.ClientCount())
}

func TestWSManagerDropsClientOnDisconnect(t *testing.T) {
	m := NewWSManager(NewMockStateSource(domain.StateView{}), domain.NewSettingsStore(), nil)

	srv := httptest.NewServer(http.HandlerFunc(m.HandleWebSocket))
	defer srv.Close()

	conn, _, err := dial(t, srv, nil)
	require.NoError(t, err)
	readRound(t, conn)
	require.Eventually(t, func() bool { return m.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return m.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}
