package httpapi_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prilive-com/xoxa/httpapi"
	"github.com/prilive-com/xoxa/internal/testutil"
	"github.com/prilive-com/xoxa/transport"
	"github.com/prilive-com/xoxa/xm"
)

const sendPath = "/v1/messages/send"

func newConnected(t *testing.T, server *testutil.MockProviderServer, headers map[string]string) *httpapi.Transport {
	t.Helper()
	tr := httpapi.New(httpapi.Config{BaseURL: server.BaseURL(), Headers: headers})
	require.NoError(t, tr.Connect(transport.Options{Timeout: 5 * time.Second}))
	return tr
}

func TestChannel(t *testing.T) {
	assert.Equal(t, xm.ChannelHTTP, httpapi.New(httpapi.Config{}).Channel())
}

func TestConnectRequiresBaseURL(t *testing.T) {
	tr := httpapi.New(httpapi.Config{})
	err := tr.Connect(transport.Options{})

	require.Error(t, err)
	var vErr *xm.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, xm.StateError, tr.State())
}

func TestSendPostsCanonicalMessage(t *testing.T) {
	server := testutil.NewMockServer(t)
	server.On(sendPath, func(w http.ResponseWriter, r *http.Request) {
		testutil.ReplyDispatchAck(w, "msg-1", "sent", "2026-09-01T10:00:00Z")
	})
	tr := newConnected(t, server, map[string]string{"X-Gateway-Key": "abc"})

	msg := xm.OutboundMessage{
		Channel:  xm.ChannelHTTP,
		To:       "ops@example.com",
		From:     "alerts@example.com",
		Body:     "disk usage high",
		Subject:  "alert",
		Metadata: map[string]any{"severity": "warning"},
	}
	receipt, err := tr.Send(context.Background(), msg, transport.SendConfig{
		Headers: map[string]string{"X-Xoxa-App-Id": testutil.TestAppID},
	})
	require.NoError(t, err)

	assert.Equal(t, xm.ChannelHTTP, receipt.Channel)
	assert.Equal(t, "msg-1", receipt.MessageID)
	assert.Equal(t, xm.StatusSent, receipt.Status)
	assert.Equal(t, time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC), receipt.Timestamp.UTC())

	capture := server.LastCapture()
	require.NotNil(t, capture)
	capture.AssertPath(t, sendPath)
	capture.AssertHeader(t, "X-Gateway-Key", "abc")
	capture.AssertHeader(t, "X-Xoxa-App-Id", testutil.TestAppID)
	capture.AssertJSONField(t, "channel", "http")
	capture.AssertJSONField(t, "to", "ops@example.com")
	capture.AssertJSONField(t, "body", "disk usage high")
	capture.AssertJSONField(t, "subject", "alert")
}

func TestSendFillsAckDefaults(t *testing.T) {
	server := testutil.NewMockServer(t)
	// Default handler replies an empty JSON object.
	tr := newConnected(t, server, nil)

	receipt, err := tr.Send(context.Background(),
		xm.OutboundMessage{Channel: xm.ChannelHTTP, To: "a@b.c", Body: "hi"},
		transport.SendConfig{})
	require.NoError(t, err)

	assert.NotEmpty(t, receipt.MessageID)
	assert.Equal(t, xm.StatusUnknown, receipt.Status)
	assert.False(t, receipt.Timestamp.IsZero())
}

func TestSendEchoesInboundSynchronously(t *testing.T) {
	server := testutil.NewMockServer(t)
	server.On(sendPath, func(w http.ResponseWriter, r *http.Request) {
		testutil.ReplyDispatchAck(w, "msg-9", "sent", "")
	})
	tr := newConnected(t, server, nil)

	var inbound []xm.InboundMessage
	tr.OnMessage(func(m xm.InboundMessage) { inbound = append(inbound, m) })

	msg := xm.OutboundMessage{
		Channel: xm.ChannelHTTP,
		To:      "ops@example.com",
		From:    "alerts@example.com",
		Body:    "ping",
	}
	_, err := tr.Send(context.Background(), msg, transport.SendConfig{})
	require.NoError(t, err)

	// The echo is synchronous: it is observable as soon as Send returns.
	require.Len(t, inbound, 1)
	assert.Equal(t, xm.ChannelHTTP, inbound[0].Channel)
	assert.Equal(t, "msg-9", inbound[0].ID)
	assert.Equal(t, "alerts@example.com", inbound[0].From)
	assert.Equal(t, "ops@example.com", inbound[0].To)
	assert.Equal(t, "ping", inbound[0].Body)
	assert.False(t, inbound[0].ReceivedAt.IsZero())
}

func TestSendEchoDefaultsSender(t *testing.T) {
	server := testutil.NewMockServer(t)
	tr := newConnected(t, server, nil)

	var inbound []xm.InboundMessage
	tr.OnMessage(func(m xm.InboundMessage) { inbound = append(inbound, m) })

	_, err := tr.Send(context.Background(),
		xm.OutboundMessage{Channel: xm.ChannelHTTP, To: "a@b.c", Body: "hi"},
		transport.SendConfig{})
	require.NoError(t, err)

	require.Len(t, inbound, 1)
	assert.Equal(t, "system@xoxa", inbound[0].From)
}

func TestSendNoEchoWithoutHandler(t *testing.T) {
	server := testutil.NewMockServer(t)
	tr := newConnected(t, server, nil)

	_, err := tr.Send(context.Background(),
		xm.OutboundMessage{Channel: xm.ChannelHTTP, To: "a@b.c", Body: "hi"},
		transport.SendConfig{})
	assert.NoError(t, err)
}

func TestOnMessageClearStopsEcho(t *testing.T) {
	server := testutil.NewMockServer(t)
	tr := newConnected(t, server, nil)

	var calls int
	clearFn := tr.OnMessage(func(xm.InboundMessage) { calls++ })
	clearFn()

	_, err := tr.Send(context.Background(),
		xm.OutboundMessage{Channel: xm.ChannelHTTP, To: "a@b.c", Body: "hi"},
		transport.SendConfig{})
	require.NoError(t, err)
	assert.Zero(t, calls)
}

func TestSendBeforeConnectFails(t *testing.T) {
	tr := httpapi.New(httpapi.Config{BaseURL: "http://localhost:0"})

	_, err := tr.Send(context.Background(),
		xm.OutboundMessage{Channel: xm.ChannelHTTP, To: "a@b.c", Body: "hi"},
		transport.SendConfig{})
	assert.ErrorIs(t, err, xm.ErrNotConnected)
}
