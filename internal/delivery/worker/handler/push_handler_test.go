package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"boutique/config"
	deliverycontext "boutique/internal/delivery/context"
	"boutique/internal/domain/constants"
	"boutique/internal/domain/service"
	"boutique/internal/errors"
	"boutique/internal/infra/pubsub"
	"boutique/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"
)

type recordingMaintenance struct {
	usecase.MaintenanceUsecase
	err       error
	events    []*service.DomainEvent
	requestID string
}

func (m *recordingMaintenance) HandleEvent(ctx context.Context, event *service.DomainEvent) error {
	m.events = append(m.events, event)
	m.requestID = deliverycontext.GetRequestIDFromContext(ctx)

	return m.err
}

func newTestPushHandler(cfg *config.Config, maintenance usecase.MaintenanceUsecase) *PushHandler {
	return NewPushHandler(PushHandlerParams{
		Config:      cfg,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Maintenance: maintenance,
	})
}

func pushBody(t *testing.T, event service.DomainEvent, attributes map[string]string) string {
	t.Helper()

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var msg pubsub.PushMessage
	msg.Message.Data = base64.StdEncoding.EncodeToString(data)
	msg.Message.Attributes = attributes
	msg.Message.MessageID = "msg-1"

	body, err := json.Marshal(msg)
	require.NoError(t, err)

	return string(body)
}

func servePush(h *PushHandler, body string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/pubsub/push", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for key, values := range header {
		req.Header[key] = values
	}
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	_ = h.HandlePush(c)

	return rec
}

func TestPushHandler_HandlePush(t *testing.T) {
	maintenance := &recordingMaintenance{}
	h := newTestPushHandler(&config.Config{}, maintenance)

	body := pushBody(t, service.DomainEvent{
		ID:         "evt-1",
		Type:       service.EventProductDeleted,
		RequestID:  "from-event",
		Attributes: map[string]string{service.ImagePathAttribute: "products/SKU-1.jpg"},
	}, map[string]string{"request_id": "from-attributes"})

	rec := servePush(h, body, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, maintenance.events, 1)
	assert.Equal(t, "products/SKU-1.jpg", maintenance.events[0].Attributes[service.ImagePathAttribute])
	assert.Equal(t, "from-attributes", maintenance.requestID)

	rec = servePush(h, pushBody(t, service.DomainEvent{ID: "evt-2", RequestID: "from-event"}, nil), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "from-event", maintenance.requestID)
}

func TestPushHandler_HandlePush_Outcomes(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "processed", err: nil, expected: http.StatusOK},
		{name: "unhandled events are acknowledged", err: errors.Wrap(usecase.ErrUnhandledEvent, "event type"), expected: http.StatusOK},
		{name: "failures are redelivered", err: errors.New("storage down"), expected: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestPushHandler(&config.Config{}, &recordingMaintenance{err: tt.err})
			rec := servePush(h, pushBody(t, service.DomainEvent{ID: "evt", Type: "x"}, nil), nil)
			assert.Equal(t, tt.expected, rec.Code)
		})
	}
}

func TestPushHandler_HandlePush_MalformedMessages(t *testing.T) {
	maintenance := &recordingMaintenance{}
	h := newTestPushHandler(&config.Config{}, maintenance)

	assert.Equal(t, http.StatusBadRequest, servePush(h, `{"message":{"data":"%%%"}}`, nil).Code)

	notJSON := base64.StdEncoding.EncodeToString([]byte("not json"))
	assert.Equal(t, http.StatusBadRequest, servePush(h, `{"message":{"data":"`+notJSON+`"}}`, nil).Code)

	assert.Empty(t, maintenance.events)
}

func TestPushHandler_VerifiesGoogleToken(t *testing.T) {
	cfg := &config.Config{PubSub: &config.PubSubConfig{Provider: constants.PubSubProviderGoogle, PushAudience: "https://worker.example.com/pubsub/push"}}
	cfg.Env.Env = constants.EnvProduction
	maintenance := &recordingMaintenance{}
	h := newTestPushHandler(cfg, maintenance)

	var audiences []string
	h.validate = func(_ context.Context, token, audience string) (*idtoken.Payload, error) {
		audiences = append(audiences, audience)
		switch token {
		case "good":
			return &idtoken.Payload{Issuer: "https://accounts.google.com", Claims: map[string]any{"email_verified": true}}, nil
		case "foreign":
			return &idtoken.Payload{Issuer: "https://evil.example.com"}, nil
		default:
			return nil, errors.New("bad signature")
		}
	}

	body := pushBody(t, service.DomainEvent{ID: "evt"}, nil)

	assert.Equal(t, http.StatusUnauthorized, servePush(h, body, nil).Code)
	for _, token := range []string{"forged", "foreign"} {
		rec := servePush(h, body, http.Header{echo.HeaderAuthorization: {"Bearer " + token}})
		assert.Equal(t, http.StatusUnauthorized, rec.Code, token)
	}
	assert.Empty(t, maintenance.events)

	rec := servePush(h, body, http.Header{echo.HeaderAuthorization: {"Bearer good"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, maintenance.events, 1)

	for _, audience := range audiences {
		assert.Equal(t, "https://worker.example.com/pubsub/push", audience)
	}
}
