package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishSendsPayload(t *testing.T) {
	mock := mocks.NewSyncProducer(t, Config(""))
	mock.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		if string(val) != `{"id":"b1"}` {
			return errors.New("unexpected payload " + string(val))
		}
		return nil
	})
	p := NewProducerWithSync(mock)
	defer p.Close()

	require.NoError(t, p.Publish(context.Background(), "booking.events.v1", "b1", []byte(`{"id":"b1"}`), map[string]string{"ce_type": "booking.requested"}))
}

func TestPublishReturnsBrokerError(t *testing.T) {
	mock := mocks.NewSyncProducer(t, Config(""))
	mock.ExpectSendMessageAndFail(sarama.ErrNotLeaderForPartition)
	p := NewProducerWithSync(mock)
	defer p.Close()

	err := p.Publish(context.Background(), "booking.events.v1", "b1", []byte("{}"), nil)
	assert.ErrorIs(t, err, sarama.ErrNotLeaderForPartition)
}

func TestPublishHonoursCancelledContext(t *testing.T) {
	mock := mocks.NewSyncProducer(t, Config(""))
	p := NewProducerWithSync(mock)
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Publish(ctx, "t", "k", nil, nil), context.Canceled)
}

func TestRecordHeadersAreSorted(t *testing.T) {
	hs := recordHeaders(map[string]string{"b": "2", "a": "1"})
	require.Len(t, hs, 2)
	assert.Equal(t, "a", string(hs[0].Key))
	assert.Equal(t, "b", string(hs[1].Key))
	assert.Nil(t, recordHeaders(nil))
}

func TestNewProducerNeedsBrokers(t *testing.T) {
	_, err := NewProducer(ProducerOptions{Brokers: []string{" "}})
	assert.ErrorIs(t, err, ErrNoBrokers)
}
