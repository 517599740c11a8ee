// Package ingest feeds appliance readings published over MQTT into the log.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ANIKETSHETTY47/dynamic-energy-optimizer/internal/domain"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

type sink interface {
	Ingest(ctx context.Context, in domain.ApplianceInput) (domain.ApplianceRecord, error)
}

type Subscriber struct {
	client mqtt.Client
	topic  string
	sink   sink
}

func NewSubscriber(broker, topic string, s sink) *Subscriber {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID("energy-optimizer-api").
		SetAutoReconnect(true)
	return &Subscriber{client: mqtt.NewClient(opts), topic: topic, sink: s}
}

// Start connects and subscribes. Messages are handled until Stop.
func (s *Subscriber) Start(ctx context.Context) error {
	if token := s.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt connect: %w", token.Error())
	}

	handler := func(_ mqtt.Client, msg mqtt.Message) {
		if _, err := HandlePayload(ctx, s.sink, msg.Payload()); err != nil {
			log.Error().Err(err).Str("topic", msg.Topic()).Msg("ingest failed")
		}
	}

	if token := s.client.Subscribe(s.topic, 0, handler); token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt subscribe %s: %w", s.topic, token.Error())
	}
	log.Info().Str("topic", s.topic).Msg("mqtt ingest subscribed")
	return nil
}

func (s *Subscriber) Stop() {
	s.client.Disconnect(250)
}

// HandlePayload decodes one submit-shaped JSON payload and appends it.
func HandlePayload(ctx context.Context, s sink, payload []byte) (domain.ApplianceRecord, error) {
	var in domain.ApplianceInput
	if err := json.Unmarshal(payload, &in); err != nil {
		return domain.ApplianceRecord{}, fmt.Errorf("decode payload: %w", err)
	}
	return s.Ingest(ctx, in)
}
