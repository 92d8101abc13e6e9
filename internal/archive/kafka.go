package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"github.com/ASB-05/LearnHubPro/internal/config"
	"github.com/ASB-05/LearnHubPro/internal/domain"
	"github.com/ASB-05/LearnHubPro/pkg/log"
)

// KafkaArchiver publishes every persisted record to an archive topic. The
// topic is the durable long-term record once Cassandra rows expire under
// the configured message TTL.
type KafkaArchiver struct {
	producer *kafka.Producer
	topic    string
	doneCh   chan struct{}
}

func NewKafkaArchiver(cfg config.ArchiveConfig) (*KafkaArchiver, error) {
	if err := ensureTopic(cfg.Brokers, cfg.Topic, cfg.Partitions); err != nil {
		l := log.L()
		l.Warn().Err(err).Str("topic", cfg.Topic).Msg("failed to ensure archive topic (may already exist)")
	}

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": cfg.Brokers,
		"acks":              "1",
		"linger.ms":         5,
		"compression.type":  "snappy",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	a := &KafkaArchiver{
		producer: p,
		topic:    cfg.Topic,
		doneCh:   make(chan struct{}),
	}

	go a.deliveryReportHandler()

	return a, nil
}

func ensureTopic(brokers, topic string, partitions int) error {
	admin, err := kafka.NewAdminClient(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
	})
	if err != nil {
		return fmt.Errorf("failed to create admin client: %w", err)
	}
	defer admin.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	results, err := admin.CreateTopics(ctx, []kafka.TopicSpecification{
		{
			Topic:             topic,
			NumPartitions:     partitions,
			ReplicationFactor: 1,
		},
	})
	if err != nil {
		return err
	}

	for _, result := range results {
		if result.Error.Code() != kafka.ErrNoError && result.Error.Code() != kafka.ErrTopicAlreadyExists {
			return fmt.Errorf("failed to create topic %s: %v", result.Topic, result.Error)
		}
	}

	return nil
}

func (a *KafkaArchiver) deliveryReportHandler() {
	for e := range a.producer.Events() {
		switch ev := e.(type) {
		case *kafka.Message:
			if ev.TopicPartition.Error != nil {
				l := log.L()
				l.Error().Err(ev.TopicPartition.Error).Msg("archive delivery failed")
			}
		}
	}
	close(a.doneCh)
}

func (a *KafkaArchiver) Archive(ctx context.Context, msg *domain.ChatMessage) error {
	value, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal chat message: %w", err)
	}

	// Key by message id so replays keep a stable partition assignment.
	err = a.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{
			Topic:     &a.topic,
			Partition: kafka.PartitionAny,
		},
		Key:   []byte(msg.ID),
		Value: value,
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to produce archive record: %w", err)
	}

	return nil
}

func (a *KafkaArchiver) Close() error {
	a.producer.Flush(5000)
	a.producer.Close()
	<-a.doneCh
	return nil
}
