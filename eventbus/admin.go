package eventbus

import (
	"context"
	"fmt"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// EnsureTopics 는 주어진 토픽을 생성한다. 이미 존재하면 성공으로 간주한다.
func EnsureTopics(ctx context.Context, brokers string, partitions int, topics ...Topic) error {
	if partitions <= 0 {
		partitions = 1
	}
	admin, err := kafka.NewAdminClient(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
	})
	if err != nil {
		return fmt.Errorf("AdminClient 생성 실패: %w", err)
	}
	defer admin.Close()

	specs := make([]kafka.TopicSpecification, 0, len(topics))
	for _, t := range topics {
		specs = append(specs, kafka.TopicSpecification{
			Topic:             t.Base(),
			NumPartitions:     partitions,
			ReplicationFactor: 1,
		})
	}

	results, err := admin.CreateTopics(ctx, specs)
	if err != nil {
		return fmt.Errorf("토픽 생성 요청 실패: %w", err)
	}

	for _, r := range results {
		code := r.Error.Code()
		if code != kafka.ErrNoError && code != kafka.ErrTopicAlreadyExists {
			return fmt.Errorf("토픽 %s 생성 실패: %v", r.Topic, r.Error)
		}
	}
	return nil
}
