package eventbus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"blog-api/internal/logger"
)

// KafkaPublisher 는 confluent-kafka-go 기반 Publisher 구현체다.
type KafkaPublisher struct {
	producer       *kafka.Producer
	flushTimeoutMs int
}

func NewKafkaPublisher(brokers string) (*KafkaPublisher, error) {
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
		"acks":              "all",
		"retries":           5,
	})
	if err != nil {
		return nil, fmt.Errorf("kafka Producer 생성 실패: %w", err)
	}

	// 전달 보고와 클라이언트 오류 로깅
	go func() {
		for e := range p.Events() {
			switch ev := e.(type) {
			case *kafka.Message:
				if ev.TopicPartition.Error != nil {
					logger.Log.Errorf("메시지 전달 실패 %v: %v", ev.TopicPartition, ev.TopicPartition.Error)
				}
			case kafka.Error:
				logger.Log.Errorf("Kafka 오류: %v", ev)
			}
		}
	}()

	return &KafkaPublisher{producer: p, flushTimeoutMs: 5000}, nil
}

// Close 는 남은 메시지를 flushTimeoutMs 동안 플러시한 뒤 Producer 를 닫는다.
func (k *KafkaPublisher) Close() {
	if k.producer == nil {
		return
	}
	if remaining := k.producer.Flush(k.flushTimeoutMs); remaining > 0 {
		logger.Log.Warnf("플러시 후에도 %d개의 메시지가 남아 있습니다.", remaining)
	}
	k.producer.Close()
	logger.Log.Info("Kafka Producer 종료.")
}

// Publish 는 메시지를 Producer 큐에 넣고 바로 반환한다.
// 전달 결과는 Events() 고루틴이 로깅하므로 브로커가 죽어 있어도 호출자를 막지 않는다.
func (k *KafkaPublisher) Publish(ctx context.Context, topic Topic, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("이벤트 마샬링 실패: %w", err)
	}

	name := topic.Base()
	err = k.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &name, Partition: kafka.PartitionAny},
		Value:          data,
		Key:            []byte(event.ID),
		Headers:        []kafka.Header{{Key: "event_type", Value: []byte(event.Type)}},
	}, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPublishFailed, err)
	}
	return nil
}
