package utils

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// ======================
// Kafka (audit event stream)
// ======================

const DefaultAuditTopic = "audit-events"

var auditWriter *kafka.Writer

// InitializeKafka sets up the audit-event writer. Kafka is optional: when no
// brokers are configured the publisher becomes a no-op.
func InitializeKafka() {
	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		fmt.Println("⚠️ KAFKA_BROKERS not set. Audit event streaming disabled.")
		return
	}

	topic := os.Getenv("KAFKA_AUDIT_TOPIC")
	if topic == "" {
		topic = DefaultAuditTopic
	}

	auditWriter = &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(brokers, ",")...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
		Async:        true,
	}

	fmt.Printf("✅ Kafka writer initialized (brokers=%s topic=%s)\n", brokers, topic)
}

// PublishAuditEvent ships one audit record to the stream. Failures are
// returned but callers treat publishing as best-effort.
func PublishAuditEvent(ctx context.Context, key string, payload []byte) error {
	if auditWriter == nil {
		return nil
	}
	return auditWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: payload,
	})
}

// NewAuditReader builds a consumer for the audit-event stream (used by the
// notification service).
func NewAuditReader(groupID string) *kafka.Reader {
	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		return nil
	}

	topic := os.Getenv("KAFKA_AUDIT_TOPIC")
	if topic == "" {
		topic = DefaultAuditTopic
	}

	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  strings.Split(brokers, ","),
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
}

// CloseKafka flushes and closes the writer on shutdown
func CloseKafka() {
	if auditWriter != nil {
		_ = auditWriter.Close()
	}
}
