package queue

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// MessageQueue carries domain events between the assistant and its consumers.
type MessageQueue interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler func(data []byte) error) error
	Connected() bool
	Close() error
}

const (
	DriverNATS     = "nats"
	DriverRabbitMQ = "rabbitmq"
	DriverNone     = "none"
)

// New connects to the configured event bus. DriverNone yields an in-process
// queue so the analytics consumer still runs without a broker.
func New(driver, url string, log *zap.Logger) (MessageQueue, error) {
	switch strings.ToLower(driver) {
	case DriverNATS, "":
		return NewNATSQueue(url, log)
	case DriverRabbitMQ:
		return NewRabbitMQQueue(url, log)
	case DriverNone:
		log.Info("Event bus disabled, using in-process queue")
		return NewMemoryQueue(log), nil
	default:
		return nil, fmt.Errorf("unknown queue driver %q", driver)
	}
}
