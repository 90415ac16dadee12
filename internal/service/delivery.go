package service

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/sboli/rcstrap/internal/gateway"
	"github.com/sboli/rcstrap/internal/model"
	"github.com/sboli/rcstrap/internal/webhook"
	"go.uber.org/zap"
)

const (
	eventIsTyping  = "IS_TYPING"
	eventDelivered = "DELIVERED"
	eventRead      = "READ"
)

// reportTask is one pending simulated network stage for one message.
type reportTask struct {
	Phone     string
	MessageID string
	Event     string
	// Status is the transition to apply; empty for typing indicators,
	// which are webhook-only and never touch message state.
	Status model.MessageStatus
}

// DeliveryReportService simulates the asynchronous carrier-side lifecycle of
// a freshly sent MT message: typing indicator, delivery confirmation, read
// receipt, each probabilistic and delayed. Schedules for different messages
// are fully independent, and a scheduled stage always fires -- there is no
// cancellation, even if the message is revoked in the interim.
type DeliveryReportService interface {
	ScheduleReports(phone, messageID string)
}

type deliveryReport struct {
	config   ConfigService
	messages MessageService
	gateway  *gateway.Gateway
	webhook  webhook.Client
	logger   *zap.Logger

	// random yields a uniform value in [0,1); after submits a delayed task.
	// Both are swappable for deterministic tests.
	random func() float64
	after  func(d time.Duration, task func())
}

type DeliveryOption func(*deliveryReport)

// WithRandomSource replaces the uniform random source used for the
// delivered/read rolls.
func WithRandomSource(random func() float64) DeliveryOption {
	return func(d *deliveryReport) { d.random = random }
}

// WithAfterFunc replaces the delayed-task submission primitive.
func WithAfterFunc(after func(d time.Duration, task func())) DeliveryOption {
	return func(d *deliveryReport) { d.after = after }
}

func NewDeliveryReportService(config ConfigService, messages MessageService, gw *gateway.Gateway,
	webhookClient webhook.Client, logger *zap.Logger, opts ...DeliveryOption) DeliveryReportService {
	d := &deliveryReport{
		config:   config,
		messages: messages,
		gateway:  gw,
		webhook:  webhookClient,
		logger:   logger,
		random:   rand.Float64,
		after: func(delay time.Duration, task func()) {
			time.AfterFunc(delay, task)
		},
	}

	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ScheduleReports rolls the delivery dice for one message and queues the
// resulting stages. The delivered roll happens up front; the read roll is
// deliberately deferred until the delivered stage fires, so an operator
// changing the read percentage mid-run is honored for in-flight messages.
func (d *deliveryReport) ScheduleReports(phone, messageID string) {
	delay := d.config.DeliveryReportDelay()
	deliveredPct := d.config.DeliveredPct()

	if d.random()*100 >= deliveredPct {
		d.logger.Debug("Simulating a never-delivered message",
			zap.String("messageID", messageID),
			zap.Float64("deliveredPct", deliveredPct))
		return
	}

	if d.config.IsTypingEnabled() {
		d.after(delay/2, func() {
			d.run(reportTask{Phone: phone, MessageID: messageID, Event: eventIsTyping})
		})
	}

	d.after(delay, func() {
		d.run(reportTask{
			Phone:     phone,
			MessageID: messageID,
			Event:     eventDelivered,
			Status:    model.MessageStatusDelivered,
		})

		// Late binding: the read probability is read and rolled only now.
		if d.random()*100 < d.config.ReadPct() {
			d.after(delay, func() {
				d.run(reportTask{
					Phone:     phone,
					MessageID: messageID,
					Event:     eventRead,
					Status:    model.MessageStatusRead,
				})
			})
		}
	})
}

// run applies one fired stage: status transition (if any), real-time event,
// webhook notification. Webhook failures are already swallowed by the
// client; a failed transition is logged but never un-schedules later stages.
func (d *deliveryReport) run(task reportTask) {
	ctx := context.Background()

	if task.Status != "" {
		if _, err := d.messages.AdvanceStatus(ctx, task.MessageID, task.Status); err != nil {
			d.logger.Warn("Failed to advance message status from delivery timer",
				zap.String("messageID", task.MessageID),
				zap.String("status", string(task.Status)),
				zap.Error(err))
		}
		d.gateway.EmitMessageStatus(task.MessageID, task.Phone, task.Status)
	}

	d.webhook.SendDeliveryReport(ctx, webhook.DeliveryReport{
		SenderPhoneNumber: task.Phone,
		EventType:         task.Event,
		EventID:           uuid.NewString(),
		MessageID:         task.MessageID,
	})
}
