// Package publish pushes the current energy price to an MQTT broker so home
// automation can react to it.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/hszdev/i3-energy-tracker/render"
)

const publishTimeout = 5 * time.Second

type PricePayload struct {
	Date      string `json:"date"`
	Hour      int    `json:"hour"`
	Price     int    `json:"price"` // øre per kWh including VAT
	Formatted string `json:"formatted"`
	Color     string `json:"color"`
}

func NewPricePayload(date string, hour int, price int, color string) PricePayload {
	return PricePayload{
		Date:      date,
		Hour:      hour,
		Price:     price,
		Formatted: render.FormatPrice(price),
		Color:     color,
	}
}

type Publisher struct {
	client mqtt.Client
	logger *slog.Logger
	topic  string
}

func New(broker string, port int16, username, password, clientID, topic string) *Publisher {
	logger := slog.Default().With("module", "mqtt")
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", broker, port))
	opts.SetClientID(clientID)
	opts.SetUsername(username)
	opts.SetPassword(password)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(publishTimeout)
	opts.OnConnect = func(client mqtt.Client) {
		logger.Info("mqtt connected", slog.String("broker", broker))
	}
	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		logger.Warn("mqtt connection lost", slog.Any("error", err))
	}

	mqtt.CRITICAL = newMqttLogger(logger, slog.LevelError)
	mqtt.ERROR = newMqttLogger(logger, slog.LevelError)
	mqtt.WARN = newMqttLogger(logger, slog.LevelWarn)

	return &Publisher{
		client: mqtt.NewClient(opts),
		logger: logger,
		topic:  topic,
	}
}

func (p *Publisher) Connect() error {
	token := p.client.Connect()
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("timeout when connecting to mqtt broker")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("error when connecting to mqtt broker: %w", err)
	}
	return nil
}

func (p *Publisher) Disconnect() {
	p.logger.Info("disconnecting mqtt client")
	p.client.Disconnect(250)
}

// Publish sends the payload as a retained message, so late subscribers get
// the current price right away.
func (p *Publisher) Publish(ctx context.Context, payload PricePayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode price payload: %w", err)
	}

	token := p.client.Publish(p.topic, 1, true, data)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return fmt.Errorf("publish price: %w", ctx.Err())
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("error when publishing price: %w", err)
	}

	p.logger.Debug("price published", slog.String("topic", p.topic), slog.Int("price", payload.Price))
	return nil
}
