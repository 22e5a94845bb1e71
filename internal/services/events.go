package services

// Routing keys of the events published for the kitchen display.
const (
	EventOrderCreated        = "order.created"
	EventOrderStatusUpdated  = "order.status_updated"
	EventOrderPaymentUpdated = "order.payment_updated"
	EventMenuAvailability    = "menu.availability_updated"
)

// EventPublisher publishes domain events. *rabbitmq.Client satisfies it.
type EventPublisher interface {
	Publish(routingKey string, payload interface{}) error
}

// publish sends an event when a publisher is configured. Failures are logged, never returned:
// the database write has already happened.
func publish(p EventPublisher, log warnLogger, routingKey string, payload interface{}) {
	if p == nil {
		return
	}
	if err := p.Publish(routingKey, payload); err != nil {
		log.Warnw("failed to publish event", "routing_key", routingKey, "error", err)
	}
}

type warnLogger interface {
	Warnw(msg string, keysAndValues ...interface{})
}
