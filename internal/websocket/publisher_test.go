package websocket

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoOpPublisher_DoesNotPanic(t *testing.T) {
	var pub EventPublisher = &NoOpPublisher{}
	assert.NotPanics(t, func() {
		pub.Publish(ChannelAdmin, PaymentRecorded(nil))
	})
}

func TestHub_ImplementsEventPublisher(t *testing.T) {
	var pub EventPublisher = NewHub()
	assert.NotNil(t, pub)
}
