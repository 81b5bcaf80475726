package participation

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// DecisionNotifier is told about every decision after it has been stored.
type DecisionNotifier interface {
	NotifyDecision(ctx context.Context, rec Record) error
}

type SqsClient interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SqsNotifier publishes stored records as JSON messages.
type SqsNotifier struct {
	client   SqsClient
	queueUrl string
}

func NewSqsNotifier(client SqsClient, queueUrl string) *SqsNotifier {
	return &SqsNotifier{client: client, queueUrl: queueUrl}
}

func (n *SqsNotifier) NotifyDecision(ctx context.Context, rec Record) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal decision: %w", err)
	}

	_, err = n.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(n.queueUrl),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"classDate": {
				DataType:    aws.String("String"),
				StringValue: aws.String(rec.ClassDate),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send message to decision queue: %w", err)
	}
	return nil
}
