package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

type IPublisherService interface {
	Publish(ctx context.Context, payload any) error
}

type publisherService struct {
	topicName string
	publisher message.Publisher
}

func NewPublisherService(topicName string, publisher message.Publisher) IPublisherService {
	return &publisherService{
		topicName: topicName,
		publisher: publisher,
	}
}

func (ps *publisherService) Publish(ctx context.Context, payload any) error {
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payloadJson)
	return ps.publisher.Publish(ps.topicName, msg)
}
