package events

import (
	"context"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
)

func TestAwaitConfirm(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		confirms []amqp.Confirmation
		tag      uint64
		wantErr  error
	}{
		{
			name:     "ack for tag",
			confirms: []amqp.Confirmation{{DeliveryTag: 1, Ack: true}},
			tag:      1,
		},
		{
			name:     "nack for tag",
			confirms: []amqp.Confirmation{{DeliveryTag: 1, Ack: false}},
			tag:      1,
			wantErr:  ErrNotAcknowledged,
		},
		{
			name:     "stale ack is skipped",
			confirms: []amqp.Confirmation{{DeliveryTag: 1, Ack: true}, {DeliveryTag: 2, Ack: true}},
			tag:      2,
		},
		{
			name:     "stale ack does not hide a nack",
			confirms: []amqp.Confirmation{{DeliveryTag: 1, Ack: true}, {DeliveryTag: 2, Ack: false}},
			tag:      2,
			wantErr:  ErrNotAcknowledged,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := make(chan amqp.Confirmation, len(tt.confirms))
			for _, c := range tt.confirms {
				ch <- c
			}
			err := awaitConfirm(ctx, ch, tt.tag)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAwaitConfirm_ClosedChannel(t *testing.T) {
	ch := make(chan amqp.Confirmation)
	close(ch)
	assert.ErrorIs(t, awaitConfirm(context.Background(), ch, 1), ErrNotAcknowledged)
}

func TestAwaitConfirm_GivesUpOnDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	ch := make(chan amqp.Confirmation, 1)
	ch <- amqp.Confirmation{DeliveryTag: 1, Ack: true}
	assert.ErrorIs(t, awaitConfirm(ctx, ch, 2), context.DeadlineExceeded)
}
