package repository

import (
	"context"

	"HorizonSim/internal/domain/models"
	"HorizonSim/internal/domain/repository"
	pkgkafka "HorizonSim/pkg/kafka"
)

// KafkaEpisodePublisher emits episode telemetry to the episode topic.
// Keyed by episode ID so one episode's transitions stay ordered on a
// single partition.
type KafkaEpisodePublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaEpisodePublisher creates an episode event publisher.
func NewKafkaEpisodePublisher(producer *pkgkafka.Producer, topic string) repository.EventPublisher {
	return &KafkaEpisodePublisher{producer: producer, topic: topic}
}

func (p *KafkaEpisodePublisher) PublishEpisode(ctx context.Context, ev models.EpisodeEvent) error {
	return p.producer.Publish(ctx, p.topic, []byte(ev.EpisodeID), ev)
}

// PublishMessage lets aggregated error logs ride the same producer.
// Implements logger.Publisher.
func (p *KafkaEpisodePublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return p.producer.Publish(ctx, topic, nil, payload)
}

func (p *KafkaEpisodePublisher) Close() error {
	return p.producer.Close()
}

var _ repository.EventPublisher = (*KafkaEpisodePublisher)(nil)
