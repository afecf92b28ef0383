package eventbus

import (
	"context"
	"encoding/json"
	"errors"
)

// Topic 은 접두사가 붙은 토픽 이름을 관리한다.
type Topic struct {
	base string
}

func NewTopic(base string) Topic {
	return Topic{base: base}
}

func (t Topic) Base() string {
	return t.base
}

// Event 는 Kafka 메시지 value 로 쓰이는 봉투다.
type Event struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Publisher 는 이벤트 발행의 추상화다. 구현체는 동시 호출에 안전해야 한다.
type Publisher interface {
	Publish(ctx context.Context, topic Topic, event Event) error
	Close()
}

// NopPublisher 는 Kafka 가 설정되지 않았을 때 사용하는 아무 일도 하지 않는 구현체다.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Topic, Event) error { return nil }
func (NopPublisher) Close()                                     {}

// ErrPublishFailed 는 Producer 가 메시지를 큐에 넣지 못했을 때 반환된다.
var ErrPublishFailed = errors.New("event delivery failed")
