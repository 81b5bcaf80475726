package participation_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/programme-lv/participation/participation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSqsClient struct {
	inputs []*sqs.SendMessageInput
	err    error
}

func (c *fakeSqsClient) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	c.inputs = append(c.inputs, params)
	if c.err != nil {
		return nil, c.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("1")}, nil
}

func TestSqsNotifierSendsRecordAsJson(t *testing.T) {
	client := &fakeSqsClient{}
	notifier := participation.NewSqsNotifier(client, "https://sqs.us-east-1.amazonaws.com/123/decisions")
	rec := participation.Record{Email: "a@b.c", ClassDate: "2024-02-17", Name: "A", Participation: true}

	require.NoError(t, notifier.NotifyDecision(context.Background(), rec))

	require.Len(t, client.inputs, 1)
	assert.Equal(t, "https://sqs.us-east-1.amazonaws.com/123/decisions", aws.ToString(client.inputs[0].QueueUrl))

	var sent participation.Record
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(client.inputs[0].MessageBody)), &sent))
	assert.Equal(t, rec, sent)
	assert.Equal(t, "2024-02-17", aws.ToString(client.inputs[0].MessageAttributes["classDate"].StringValue))
}

func TestSqsNotifierWrapsErrors(t *testing.T) {
	cause := errors.New("QueueDoesNotExist")
	notifier := participation.NewSqsNotifier(&fakeSqsClient{err: cause}, "q")

	err := notifier.NotifyDecision(context.Background(), participation.Record{})
	assert.ErrorIs(t, err, cause)
}
