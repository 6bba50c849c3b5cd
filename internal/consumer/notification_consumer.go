package consumer

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/Eursukkul/salon-booking-service/internal/metrics"
	"github.com/Eursukkul/salon-booking-service/internal/models"
	"github.com/Eursukkul/salon-booking-service/internal/notify"
	"github.com/Eursukkul/salon-booking-service/pkg/logging"
)

const sendTimeout = 15 * time.Second

type NotificationConsumer struct {
	sender  notify.EmailSender
	metrics *metrics.BookingMetrics
	logger  *zap.Logger
}

func NewNotificationConsumer(sender notify.EmailSender, m *metrics.BookingMetrics, logger *zap.Logger) *NotificationConsumer {
	return &NotificationConsumer{
		sender:  sender,
		metrics: m,
		logger:  logging.OrNop(logger).Named("notifications"),
	}
}

// Start sends a confirmation email for every booking.confirmed message until msgs is closed.
func (nc *NotificationConsumer) Start(msgs <-chan amqp.Delivery) {
	go func() {
		for msg := range msgs {
			nc.handleMessage(msg)
		}
		nc.logger.Info("delivery channel closed, stopping consumer")
	}()
}

func (nc *NotificationConsumer) handleMessage(msg amqp.Delivery) {
	if msg.RoutingKey != "" && msg.RoutingKey != models.RoutingBookingConfirmed {
		_ = msg.Ack(false)
		return
	}

	var evt models.BookingConfirmedEvent
	if err := json.Unmarshal(msg.Body, &evt); err != nil {
		nc.logger.Error("failed to unmarshal booking event", zap.Error(err))
		_ = msg.Nack(false, false)
		return
	}

	number := evt.Booking.ConfirmationNumber
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if evt.Booking.CustomerEmail == "" {
		nc.logger.Warn("booking has no customer email, skipping confirmation", zap.String("confirmation", number))
	} else if err := nc.sender.Send(ctx, notify.ConfirmationEmail(evt)); err != nil {
		// One retry through the broker; a second failure is dropped since the booking already stands.
		requeue := !msg.Redelivered
		nc.logger.Warn("confirmation email failed",
			zap.String("confirmation", number),
			zap.Bool("requeue", requeue),
			zap.Error(err),
		)
		nc.metrics.ObserveEmail("failed")
		_ = msg.Nack(false, requeue)
		return
	} else {
		nc.metrics.ObserveEmail("sent")
		nc.logger.Info("confirmation email sent", zap.String("confirmation", number))
	}

	// The salon copy is best effort; a redelivery would resend the customer's email.
	if copyMsg, ok := notify.SalonCopyEmail(evt); ok {
		if err := nc.sender.Send(ctx, copyMsg); err != nil {
			nc.logger.Warn("salon copy email failed", zap.String("confirmation", number), zap.Error(err))
			nc.metrics.ObserveEmail("salon_failed")
		} else {
			nc.metrics.ObserveEmail("salon_sent")
		}
	}
	_ = msg.Ack(false)
}
