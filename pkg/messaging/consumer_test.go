package messaging

import (
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
)

func TestRetryCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		headers amqp.Table
		want    int
	}{
		{name: "nil headers", headers: nil, want: 0},
		{name: "missing header", headers: amqp.Table{"other": "x"}, want: 0},
		{name: "int32 from the wire", headers: amqp.Table{retryCountHeader: int32(2)}, want: 2},
		{name: "int64", headers: amqp.Table{retryCountHeader: int64(5)}, want: 5},
		{name: "plain int", headers: amqp.Table{retryCountHeader: 3}, want: 3},
		{name: "int8", headers: amqp.Table{retryCountHeader: int8(1)}, want: 1},
		{name: "int16", headers: amqp.Table{retryCountHeader: int16(4)}, want: 4},
		{name: "float64 from json round-trip", headers: amqp.Table{retryCountHeader: float64(7)}, want: 7},
		{name: "unparseable value", headers: amqp.Table{retryCountHeader: "two"}, want: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, RetryCount(tt.headers))
		})
	}
}
