package whatsapp_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prilive-com/xoxa/internal/testutil"
	"github.com/prilive-com/xoxa/transport"
	"github.com/prilive-com/xoxa/whatsapp"
	"github.com/prilive-com/xoxa/xm"
)

const messagesPath = "/" + testutil.TestWAPhoneID + "/messages"

func newConnected(t *testing.T, server *testutil.MockProviderServer) *whatsapp.Transport {
	t.Helper()
	tr := whatsapp.New(whatsapp.Config{
		PhoneNumberID: testutil.TestWAPhoneID,
		AccessToken:   xm.Secret(testutil.TestWAToken),
		BaseURL:       server.BaseURL(),
	})
	require.NoError(t, tr.Connect(transport.Options{Timeout: 5 * time.Second}))
	return tr
}

func TestChannel(t *testing.T) {
	assert.Equal(t, xm.ChannelWhatsApp, whatsapp.New(whatsapp.Config{}).Channel())
}

func TestConnectRequiresCredentials(t *testing.T) {
	tr := whatsapp.New(whatsapp.Config{})
	err := tr.Connect(transport.Options{})

	require.Error(t, err)
	var vErr *xm.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, xm.StateError, tr.State())
}

func TestSendBeforeConnectFails(t *testing.T) {
	tr := whatsapp.New(whatsapp.Config{PhoneNumberID: testutil.TestWAPhoneID, AccessToken: testutil.TestWAToken})

	_, err := tr.Send(context.Background(),
		xm.OutboundMessage{To: "+15551234567", Body: "hi"}, transport.SendConfig{})
	assert.ErrorIs(t, err, xm.ErrNotConnected)
}

func TestSendTextPayload(t *testing.T) {
	server := testutil.NewMockServer(t)
	server.On(messagesPath, func(w http.ResponseWriter, r *http.Request) {
		testutil.ReplyWhatsApp(w, "wamid.ABC123")
	})
	tr := newConnected(t, server)

	msg := xm.OutboundMessage{
		Channel: xm.ChannelWhatsApp,
		To:      "+1 (555) 123-4567",
		Body:    "hello there",
	}
	receipt, err := tr.Send(context.Background(), msg, transport.SendConfig{})
	require.NoError(t, err)

	assert.Equal(t, xm.ChannelWhatsApp, receipt.Channel)
	assert.Equal(t, "wamid.ABC123", receipt.MessageID)
	assert.Equal(t, xm.StatusQueued, receipt.Status)

	capture := server.LastCapture()
	require.NotNil(t, capture)
	capture.AssertPath(t, messagesPath)
	capture.AssertHeader(t, "Authorization", "Bearer "+testutil.TestWAToken)

	body := capture.BodyMap(t)
	assert.Equal(t, "whatsapp", body["messaging_product"])
	assert.Equal(t, "15551234567", body["to"], "recipient must be digits only")
	assert.Equal(t, "text", body["type"])
	text := body["text"].(map[string]any)
	assert.Equal(t, "hello there", text["body"])
	assert.NotContains(t, text, "preview_url")
}

func TestSendTextWithPreviewURL(t *testing.T) {
	server := testutil.NewMockServer(t)
	tr := newConnected(t, server)

	msg := xm.OutboundMessage{
		Channel:    xm.ChannelWhatsApp,
		To:         "15551234567",
		Body:       "check https://example.com",
		PreviewURL: true,
	}
	_, err := tr.Send(context.Background(), msg, transport.SendConfig{})
	require.NoError(t, err)

	text := server.LastCapture().BodyMap(t)["text"].(map[string]any)
	assert.Equal(t, true, text["preview_url"])
}

func TestSendTemplatePayload(t *testing.T) {
	server := testutil.NewMockServer(t)
	tr := newConnected(t, server)

	msg := xm.OutboundMessage{
		Channel:      xm.ChannelWhatsApp,
		To:           "15551234567",
		TemplateName: "order_update",
		Components: []xm.TemplateComponent{
			{Type: "body", Parameters: []xm.TemplateParameter{{Type: "text", Text: "42"}}},
		},
	}
	_, err := tr.Send(context.Background(), msg, transport.SendConfig{})
	require.NoError(t, err)

	body := server.LastCapture().BodyMap(t)
	assert.Equal(t, "template", body["type"])
	tmpl := body["template"].(map[string]any)
	assert.Equal(t, "order_update", tmpl["name"])
	lang := tmpl["language"].(map[string]any)
	assert.Equal(t, "en_US", lang["code"], "language defaults to en_US")
	assert.Contains(t, tmpl, "components")
}

func TestSendTemplateKeepsExplicitLanguage(t *testing.T) {
	server := testutil.NewMockServer(t)
	tr := newConnected(t, server)

	msg := xm.OutboundMessage{
		Channel:      xm.ChannelWhatsApp,
		To:           "15551234567",
		TemplateName: "order_update",
		LanguageCode: "de_DE",
	}
	_, err := tr.Send(context.Background(), msg, transport.SendConfig{})
	require.NoError(t, err)

	tmpl := server.LastCapture().BodyMap(t)["template"].(map[string]any)
	lang := tmpl["language"].(map[string]any)
	assert.Equal(t, "de_DE", lang["code"])
	assert.NotContains(t, tmpl, "components")
}

func TestSendMediaPayload(t *testing.T) {
	server := testutil.NewMockServer(t)
	tr := newConnected(t, server)

	msg := xm.OutboundMessage{
		Channel: xm.ChannelWhatsApp,
		To:      "15551234567",
		Media: []xm.MediaAttachment{{
			Kind:     xm.MediaDocument,
			URL:      "https://example.com/invoice.pdf",
			Filename: "invoice.pdf",
			Caption:  "Your invoice",
		}},
	}
	_, err := tr.Send(context.Background(), msg, transport.SendConfig{})
	require.NoError(t, err)

	body := server.LastCapture().BodyMap(t)
	assert.Equal(t, "document", body["type"])
	doc := body["document"].(map[string]any)
	assert.Equal(t, "https://example.com/invoice.pdf", doc["link"])
	assert.Equal(t, "invoice.pdf", doc["filename"])
	assert.Equal(t, "Your invoice", doc["caption"])
}

func TestSendMediaWinsOverTemplateAndText(t *testing.T) {
	server := testutil.NewMockServer(t)
	tr := newConnected(t, server)

	msg := xm.OutboundMessage{
		Channel:      xm.ChannelWhatsApp,
		To:           "15551234567",
		Body:         "body text",
		TemplateName: "order_update",
		Media:        []xm.MediaAttachment{{Kind: xm.MediaImage, URL: "https://example.com/a.jpg"}},
	}
	_, err := tr.Send(context.Background(), msg, transport.SendConfig{})
	require.NoError(t, err)

	body := server.LastCapture().BodyMap(t)
	assert.Equal(t, "image", body["type"])
	assert.NotContains(t, body, "template")
	assert.NotContains(t, body, "text")

	// Body text falls through as the media caption.
	img := body["image"].(map[string]any)
	assert.Equal(t, "body text", img["caption"])
}

func TestSendTemplateWinsOverText(t *testing.T) {
	server := testutil.NewMockServer(t)
	tr := newConnected(t, server)

	msg := xm.OutboundMessage{
		Channel:      xm.ChannelWhatsApp,
		To:           "15551234567",
		Body:         "body text",
		TemplateName: "order_update",
	}
	_, err := tr.Send(context.Background(), msg, transport.SendConfig{})
	require.NoError(t, err)

	body := server.LastCapture().BodyMap(t)
	assert.Equal(t, "template", body["type"])
	assert.NotContains(t, body, "text")
}

func TestSendAlwaysQueued(t *testing.T) {
	server := testutil.NewMockServer(t)
	server.On(messagesPath, func(w http.ResponseWriter, r *http.Request) {
		testutil.ReplyWhatsApp(w, "wamid.XYZ")
	})
	tr := newConnected(t, server)

	receipt, err := tr.Send(context.Background(),
		xm.OutboundMessage{Channel: xm.ChannelWhatsApp, To: "15551234567", Body: "hi"},
		transport.SendConfig{})
	require.NoError(t, err)
	assert.Equal(t, xm.StatusQueued, receipt.Status)
}

func TestSendSynthesizesIDOnEmptyAck(t *testing.T) {
	server := testutil.NewMockServer(t)
	server.On(messagesPath, func(w http.ResponseWriter, r *http.Request) {
		testutil.ReplyWhatsAppEmpty(w)
	})
	tr := newConnected(t, server)

	receipt, err := tr.Send(context.Background(),
		xm.OutboundMessage{Channel: xm.ChannelWhatsApp, To: "15551234567", Body: "hi"},
		transport.SendConfig{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(receipt.MessageID, "wa_"), "got %q", receipt.MessageID)
	assert.Equal(t, xm.StatusQueued, receipt.Status)
}

func TestSendProviderError(t *testing.T) {
	server := testutil.NewMockServer(t)
	server.On(messagesPath, func(w http.ResponseWriter, r *http.Request) {
		testutil.ReplyWhatsAppError(w, http.StatusUnauthorized, 190, "access token expired")
	})
	tr := newConnected(t, server)

	_, err := tr.Send(context.Background(),
		xm.OutboundMessage{Channel: xm.ChannelWhatsApp, To: "15551234567", Body: "hi"},
		transport.SendConfig{})
	require.Error(t, err)

	var httpErr *xm.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, "190", httpErr.Code)
	assert.Equal(t, "access token expired", httpErr.Message)
}

func TestDisconnectIdempotent(t *testing.T) {
	server := testutil.NewMockServer(t)
	tr := newConnected(t, server)

	require.NoError(t, tr.Disconnect())
	require.NoError(t, tr.Disconnect())
	assert.Equal(t, xm.StateClosed, tr.State())
}
