// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package messaging

import (
	"context"
	"net/http"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/domain"
)

// NatsMessage adapts a received NATS message to [domain.Message].
type NatsMessage struct {
	msg *nats.Msg
}

var _ domain.Message = (*NatsMessage)(nil)

// NewNatsMessage wraps msg.
func NewNatsMessage(msg *nats.Msg) *NatsMessage {
	return &NatsMessage{msg: msg}
}

func (m *NatsMessage) Subject() string {
	return m.msg.Subject
}

func (m *NatsMessage) Data() []byte {
	return m.msg.Data
}

func (m *NatsMessage) Respond(data []byte) error {
	return m.msg.Respond(data)
}

func (m *NatsMessage) HasReply() bool {
	return m.msg.Reply != ""
}

// Context returns ctx carrying the trace context found in the message headers.
func (m *NatsMessage) Context(ctx context.Context) context.Context {
	if m.msg.Header == nil {
		return ctx
	}
	return otel.GetTextMapPropagator().Extract(ctx, propagation.HeaderCarrier(http.Header(m.msg.Header)))
}

// Subscribe registers handler on each subject in the queue group. Messages
// are dropped with an empty reply while the handler is not ready.
func Subscribe(ctx context.Context, conn *nats.Conn, queue string, handler domain.MessageHandler, subjects ...string) ([]*nats.Subscription, error) {
	subs := make([]*nats.Subscription, 0, len(subjects))
	for _, subject := range subjects {
		sub, err := conn.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
			wrapped := NewNatsMessage(msg)
			if !handler.HandlerReady() {
				if wrapped.HasReply() {
					_ = wrapped.Respond(nil)
				}
				return
			}
			handler.HandleMessage(wrapped.Context(ctx), wrapped)
		})
		if err != nil {
			for _, s := range subs {
				_ = s.Unsubscribe()
			}
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, nil
}
