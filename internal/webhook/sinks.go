package webhook

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/IBM/sarama"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/fivetwenty-io/dato-client/internal/constants"
)

// Static errors for err113 compliance.
var (
	ErrNATSURLRequired      = errors.New("NATS URL is required")
	ErrKafkaBrokersRequired = errors.New("at least one Kafka broker is required")
	ErrKafkaTopicRequired   = errors.New("kafka topic is required")
)

// Message headers set on forwarded deliveries.
const (
	HeaderDeliveryID  = "Dato-Delivery-Id"
	HeaderEntityType  = "Dato-Entity-Type"
	HeaderEventType   = "Dato-Event-Type"
	HeaderEnvironment = "Dato-Environment"
)

// LogSink logs every delivery.
type LogSink struct {
	log *zap.Logger
}

// NewLogSink creates a log sink.
func NewLogSink(log *zap.Logger) *LogSink {
	if log == nil {
		log = zap.NewNop()
	}

	return &LogSink{log: log}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Deliver(ctx context.Context, delivery *Delivery) error {
	s.log.Info("webhook received",
		zap.String("delivery_id", delivery.ID),
		zap.String("environment", delivery.Event.Environment),
		zap.String("entity_type", delivery.Event.EntityType),
		zap.String("event_type", delivery.Event.EventType),
		zap.String("entity_id", delivery.Event.EntityID()),
		zap.Int("bytes", len(delivery.Body)),
	)

	return nil
}

func (s *LogSink) Close() error {
	_ = s.log.Sync()

	return nil
}

// NATSSink publishes deliveries on <prefix>.<entity_type>.<event_type>.
type NATSSink struct {
	conn     *nats.Conn
	prefix   string
	ownsConn bool
}

// NewNATSSink connects to url.
func NewNATSSink(url, prefix string) (*NATSSink, error) {
	if url == "" {
		return nil, ErrNATSURLRequired
	}

	conn, err := nats.Connect(url, nats.Name("dato webhooks"))
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}

	sink := NewNATSSinkWithConn(conn, prefix)
	sink.ownsConn = true

	return sink, nil
}

// NewNATSSinkWithConn publishes on an existing connection, which Close leaves open.
func NewNATSSinkWithConn(conn *nats.Conn, prefix string) *NATSSink {
	if prefix == "" {
		prefix = constants.DefaultWebhookSubjectPrefix
	}

	return &NATSSink{conn: conn, prefix: strings.TrimSuffix(prefix, ".")}
}

func (s *NATSSink) Name() string { return "nats" }

// Subject returns the subject a delivery is published on.
func (s *NATSSink) Subject(delivery *Delivery) string {
	return s.prefix + "." + subjectToken(delivery.Event.EntityType) + "." + subjectToken(delivery.Event.EventType)
}

func (s *NATSSink) Deliver(ctx context.Context, delivery *Delivery) error {
	msg := nats.NewMsg(s.Subject(delivery))
	msg.Data = delivery.Body
	msg.Header.Set(nats.MsgIdHdr, delivery.ID)
	msg.Header.Set(HeaderDeliveryID, delivery.ID)
	msg.Header.Set(HeaderEntityType, delivery.Event.EntityType)
	msg.Header.Set(HeaderEventType, delivery.Event.EventType)
	msg.Header.Set(HeaderEnvironment, delivery.Event.Environment)

	err := s.conn.PublishMsg(msg)
	if err != nil {
		return fmt.Errorf("publishing to %s: %w", msg.Subject, err)
	}

	return nil
}

func (s *NATSSink) Close() error {
	if !s.ownsConn {
		return nil
	}

	err := s.conn.Drain()
	if err != nil {
		return fmt.Errorf("draining NATS connection: %w", err)
	}

	return nil
}

// subjectToken makes value safe as a single subject token.
func subjectToken(value string) string {
	if value == "" {
		return "unknown"
	}

	return strings.NewReplacer(".", "_", " ", "_", "*", "_", ">", "_").Replace(value)
}

// KafkaSink produces deliveries to a topic, keyed by entity id so that the
// events of one entity stay ordered within a partition.
type KafkaSink struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaConfig returns the producer configuration used by NewKafkaSink.
func NewKafkaConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.ClientID = "dato-webhooks"
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Partitioner = sarama.NewHashPartitioner

	return config
}

// NewKafkaSink connects a synchronous producer to brokers.
func NewKafkaSink(brokers []string, topic string) (*KafkaSink, error) {
	if len(brokers) == 0 {
		return nil, ErrKafkaBrokersRequired
	}

	if topic == "" {
		return nil, ErrKafkaTopicRequired
	}

	producer, err := sarama.NewSyncProducer(brokers, NewKafkaConfig())
	if err != nil {
		return nil, fmt.Errorf("creating Kafka producer: %w", err)
	}

	return NewKafkaSinkWithProducer(producer, topic), nil
}

// NewKafkaSinkWithProducer uses an existing producer. Close closes it.
func NewKafkaSinkWithProducer(producer sarama.SyncProducer, topic string) *KafkaSink {
	return &KafkaSink{producer: producer, topic: topic}
}

func (s *KafkaSink) Name() string { return "kafka" }

func (s *KafkaSink) Deliver(ctx context.Context, delivery *Delivery) error {
	key := delivery.Event.EntityID()
	if key == "" {
		key = delivery.ID
	}

	message := &sarama.ProducerMessage{
		Topic: s.topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(delivery.Body),
		Headers: []sarama.RecordHeader{
			{Key: []byte(HeaderDeliveryID), Value: []byte(delivery.ID)},
			{Key: []byte(HeaderEntityType), Value: []byte(delivery.Event.EntityType)},
			{Key: []byte(HeaderEventType), Value: []byte(delivery.Event.EventType)},
			{Key: []byte(HeaderEnvironment), Value: []byte(delivery.Event.Environment)},
		},
		Timestamp: delivery.ReceivedAt,
	}

	_, _, err := s.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("producing to %s: %w", s.topic, err)
	}

	return nil
}

func (s *KafkaSink) Close() error {
	err := s.producer.Close()
	if err != nil {
		return fmt.Errorf("closing Kafka producer: %w", err)
	}

	return nil
}
