package eventbus

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// NewJSONEvent 은 payload 를 JSON 으로 인코딩해 Event 를 만든다.
// id 가 비어 있으면 UUID 를 새로 발급한다.
func NewJSONEvent(id, eventType string, payload any) (Event, error) {
	if id == "" {
		id = uuid.NewString()
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("payload marshal 실패: %w", err)
	}
	return Event{
		ID:      id,
		Type:    eventType,
		Payload: b,
	}, nil
}

// DecodeJSON 은 Event.Payload 를 T 로 언마샬한다.
func DecodeJSON[T any](evt Event) (T, error) {
	var out T
	if err := json.Unmarshal(evt.Payload, &out); err != nil {
		var zero T
		return zero, fmt.Errorf("payload unmarshal 실패: %w", err)
	}
	return out, nil
}
