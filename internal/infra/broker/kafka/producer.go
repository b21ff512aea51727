// Package kafka publishes outbox records to Kafka topics.
package kafka

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/IBM/sarama"
)

var ErrNoBrokers = errors.New("kafka: at least one broker is required")

type ProducerOptions struct {
	Brokers  []string
	ClientID string
}

// Producer is a synchronous, idempotent publisher: Publish returns once every in-sync
// replica has the record.
type Producer struct {
	sync sarama.SyncProducer
}

func NewProducer(opts ProducerOptions) (*Producer, error) {
	brokers := make([]string, 0, len(opts.Brokers))
	for _, b := range opts.Brokers {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	if len(brokers) == 0 {
		return nil, ErrNoBrokers
	}
	sync, err := sarama.NewSyncProducer(brokers, Config(opts.ClientID))
	if err != nil {
		return nil, err
	}
	return &Producer{sync: sync}, nil
}

// NewProducerWithSync wraps an existing producer, typically sarama/mocks in tests.
func NewProducerWithSync(sync sarama.SyncProducer) *Producer {
	return &Producer{sync: sync}
}

// Config is the sarama configuration the booking event stream needs.
func Config(clientID string) *sarama.Config {
	cfg := sarama.NewConfig()
	if clientID == "" {
		clientID = "airbrb"
	}
	cfg.ClientID = clientID
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Idempotent = true
	cfg.Producer.Return.Successes = true
	cfg.Producer.Retry.Max = 3
	cfg.Net.MaxOpenRequests = 1
	return cfg
}

// Publish keys by aggregate id so every event of a booking lands on one partition.
func (p *Producer) Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic:   topic,
		Value:   sarama.ByteEncoder(payload),
		Headers: recordHeaders(headers),
	}
	if key != "" {
		msg.Key = sarama.StringEncoder(key)
	}
	_, _, err := p.sync.SendMessage(msg)
	return err
}

func (p *Producer) Close() error {
	if p == nil || p.sync == nil {
		return nil
	}
	return p.sync.Close()
}

func recordHeaders(headers map[string]string) []sarama.RecordHeader {
	if len(headers) == 0 {
		return nil
	}
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]sarama.RecordHeader, 0, len(keys))
	for _, k := range keys {
		out = append(out, sarama.RecordHeader{Key: []byte(k), Value: []byte(headers[k])})
	}
	return out
}
