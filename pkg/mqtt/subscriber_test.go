package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"liyu1981.xyz/container-monitor-service/pkg/archive"
	"liyu1981.xyz/container-monitor-service/pkg/common"
	"liyu1981.xyz/container-monitor-service/pkg/db"
	"liyu1981.xyz/container-monitor-service/pkg/filter"
	"liyu1981.xyz/container-monitor-service/pkg/iot"
	"liyu1981.xyz/container-monitor-service/pkg/iot/mocks"
)

type fakeMessage struct {
	topic   string
	payload []byte
}

func (m *fakeMessage) Duplicate() bool   { return false }
func (m *fakeMessage) Qos() byte         { return DefaultQoS }
func (m *fakeMessage) Retained() bool    { return false }
func (m *fakeMessage) Topic() string     { return m.topic }
func (m *fakeMessage) MessageID() uint16 { return 1 }
func (m *fakeMessage) Payload() []byte   { return m.payload }
func (m *fakeMessage) Ack()              {}

type published struct {
	topic   string
	payload []byte
}

// fakeClient records publishes; any other call panics on the nil interface.
type fakeClient struct {
	paho.Client
	sent []published
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload any) paho.Token {
	c.sent = append(c.sent, published{topic: topic, payload: payload.([]byte)})
	return nil
}

func newSubscriber(t *testing.T, limiter *iot.RateLimiterStore) *Subscriber {
	common.SetTestLoggerNop()

	dbInstance, err := db.Open(db.UseNamedMemorySqliteDialector(uuid.NewString()))
	require.NoError(t, err)
	sink, err := archive.NewFileSink(t.TempDir())
	require.NoError(t, err)

	clock := &common.FixedClock{At: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	return &Subscriber{
		Iot:              iot.New(dbInstance, clock, sink),
		RateLimiterStore: limiter,
		Topic:            "containers/reports",
		QoS:              DefaultQoS,
	}
}

func payload(deviceID uint, level int, door bool) []byte {
	return []byte(fmt.Sprintf(`{"device_id":%d,"level":%d,"door":%t}`, deviceID, level, door))
}

func TestHandleStoresReport(t *testing.T) {
	s := newSubscriber(t, nil)
	ctx := context.Background()

	device, err := s.Iot.Device.CreateDevice(ctx, "north")
	require.NoError(t, err)

	resp := s.Handle(ctx, payload(device.ID, 90, true))
	assert.Equal(t, "ok", resp.Status)
	assert.NotZero(t, resp.ReportID)

	reports, err := s.Iot.Report.QueryReports(ctx, filter.Query{Scope: filter.AllDevices()})
	require.NoError(t, err)
	require.Len(t, reports, 1)
	require.Len(t, reports[0].Alerts, 1)
	assert.True(t, reports[0].Alerts[0].Active)
}

func TestHandleRejects(t *testing.T) {
	s := newSubscriber(t, nil)
	ctx := context.Background()

	for _, body := range []string{
		`not json`,
		`{"level":10,"door":false}`,
		`{"device_id":1,"door":false}`,
		`{"device_id":1,"level":10}`,
	} {
		resp := s.Handle(ctx, []byte(body))
		assert.Equal(t, "error", resp.Status, body)
		assert.Contains(t, resp.Message, common.ErrMalformedPayload.Error(), body)
	}

	resp := s.Handle(ctx, payload(42, 10, false))
	assert.Equal(t, "error", resp.Status)
	assert.Contains(t, resp.Message, common.ErrUnknownDevice.Error())
}

func TestHandleRateLimited(t *testing.T) {
	s := newSubscriber(t, iot.NewRateLimiterStore(1, 1))
	ctx := context.Background()

	device, err := s.Iot.Device.CreateDevice(ctx, "south")
	require.NoError(t, err)

	assert.Equal(t, "ok", s.Handle(ctx, payload(device.ID, 20, false)).Status)

	resp := s.Handle(ctx, payload(device.ID, 20, false))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "rate limit exceeded", resp.Message)
}

func TestHandleMessageReplies(t *testing.T) {
	s := newSubscriber(t, nil)
	s.ReplyTopic = "containers/acks"

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockIngest := mocks.NewMockIIngest(ctrl)
	s.Iot.WithServices(iot.ServiceOpts{Ingestion: mockIngest})

	mockIngest.EXPECT().
		Ingest(gomock.Any(), gomock.Eq(uint(5)), gomock.Eq(60), gomock.Eq(false)).
		Return(uint(11), nil).
		Times(1)

	client := &fakeClient{}
	s.HandleMessage(client, &fakeMessage{topic: s.Topic, payload: payload(5, 60, false)})

	require.Len(t, client.sent, 1)
	assert.Equal(t, "containers/acks", client.sent[0].topic)

	var resp iot.IngestResponse
	require.NoError(t, json.Unmarshal(client.sent[0].payload, &resp))
	assert.Equal(t, iot.IngestOK(11), resp)
}

func TestHandleMessageWithoutReplyTopic(t *testing.T) {
	s := newSubscriber(t, nil)

	client := &fakeClient{}
	s.HandleMessage(client, &fakeMessage{topic: s.Topic, payload: []byte(`{}`)})
	assert.Empty(t, client.sent)
}
