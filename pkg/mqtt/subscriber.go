// Package mqtt feeds container reports published on a broker topic into
// the same ingestion path the HTTP and gRPC servers use.
package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"liyu1981.xyz/container-monitor-service/pkg/common"
	"liyu1981.xyz/container-monitor-service/pkg/iot"
)

const (
	DefaultQoS        byte = 1
	ingestTimeout          = 10 * time.Second
	disconnectQuiesce      = 250
)

type Subscriber struct {
	Iot              *iot.IOT
	RateLimiterStore *iot.RateLimiterStore
	Topic            string
	// ReplyTopic, when set, receives an iot.IngestResponse per message.
	ReplyTopic string
	QoS        byte

	client paho.Client
}

func logger() *zap.Logger {
	return common.GetLoggerWith(common.LoggerNameMqttSubscriber)
}

func (s *Subscriber) allow(deviceID uint) bool {
	if s.RateLimiterStore == nil {
		return true
	}
	return s.RateLimiterStore.Allow(deviceID)
}

// Handle runs one payload through decoding, the rate limiter and ingestion.
func (s *Subscriber) Handle(ctx context.Context, payload []byte) iot.IngestResponse {
	req, err := iot.DecodeIngestRequest(payload)
	if err != nil {
		logger().Warn("Dropped malformed message", zap.Error(err))
		return iot.IngestFailed(err)
	}

	deviceID := req.GetDeviceId()
	if !s.allow(deviceID) {
		logger().Warn("Device over its rate limit", zap.Uint("device_id", deviceID))
		return iot.IngestFailed(fmt.Errorf("rate limit exceeded"))
	}

	reportID, err := s.Iot.Ingestion.Ingest(ctx, deviceID, *req.Level, *req.Door)
	if err != nil {
		logger().Error("Ingestion failed", zap.Uint("device_id", deviceID), zap.Error(err))
		return iot.IngestFailed(err)
	}
	return iot.IngestOK(reportID)
}

// HandleMessage is the paho message callback.
func (s *Subscriber) HandleMessage(client paho.Client, msg paho.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), ingestTimeout)
	defer cancel()

	resp := s.Handle(ctx, msg.Payload())

	if s.ReplyTopic == "" || client == nil {
		return
	}
	body, err := json.Marshal(resp)
	if err != nil {
		logger().Error("Failed to encode reply", zap.Error(err))
		return
	}
	client.Publish(s.ReplyTopic, s.QoS, false, body)
}

// Start connects to broker and subscribes to s.Topic.
func (s *Subscriber) Start(broker, clientID string) error {
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetOrderMatters(false).
		SetOnConnectHandler(func(c paho.Client) {
			// subscriptions do not survive a reconnect with a clean session
			if token := c.Subscribe(s.Topic, s.QoS, s.HandleMessage); token.Wait() && token.Error() != nil {
				logger().Error("Subscribe failed", zap.String("topic", s.Topic), zap.Error(token.Error()))
				return
			}
			logger().Info("Subscribed", zap.String("topic", s.Topic))
		}).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			logger().Warn("Connection to broker lost", zap.Error(err))
		})

	s.client = paho.NewClient(opts)
	if token := s.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt connect %s: %w", broker, token.Error())
	}
	logger().Info("Connected to broker", zap.String("broker", broker))
	return nil
}

func (s *Subscriber) Stop() {
	if s.client != nil && s.client.IsConnected() {
		s.client.Disconnect(disconnectQuiesce)
	}
}
