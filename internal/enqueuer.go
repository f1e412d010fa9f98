package internal

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/aws/aws-sdk-go/service/sqs/sqsiface"
)

// Enqueuer publishes JSON messages to SQS queues looked up by name.
type Enqueuer struct {
	client sqsiface.SQSAPI

	mu        sync.Mutex
	queueURLs map[string]string
}

// SendMsg marshals msg and sends it to queue, tagging it with msgType as the "type" attribute.
func (e *Enqueuer) SendMsg(ctx context.Context, msg interface{}, msgType string, queue string) error {
	msgBytes, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	queueURL, err := e.queueURL(ctx, queue)
	if err != nil {
		return err
	}

	_, err = e.client.SendMessageWithContext(ctx, &sqs.SendMessageInput{
		MessageBody: aws.String(string(msgBytes)),
		QueueUrl:    aws.String(queueURL),
		MessageAttributes: map[string]*sqs.MessageAttributeValue{
			"type": {
				DataType:    aws.String("String"),
				StringValue: aws.String(msgType),
			},
		},
	})
	return err
}

func (e *Enqueuer) queueURL(ctx context.Context, queue string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if u, ok := e.queueURLs[queue]; ok {
		return u, nil
	}

	out, err := e.client.GetQueueUrlWithContext(ctx, &sqs.GetQueueUrlInput{
		QueueName: aws.String(queue),
	})
	if err != nil {
		return "", err
	}
	e.queueURLs[queue] = aws.StringValue(out.QueueUrl)
	return e.queueURLs[queue], nil
}

func NewEnqueuer(client sqsiface.SQSAPI) *Enqueuer {
	return &Enqueuer{
		client:    client,
		queueURLs: map[string]string{},
	}
}
