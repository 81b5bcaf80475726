package textmatch

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"
	"github.com/programme-lv/participation/s3bucket"
)

type TextractClient interface {
	DetectDocumentText(ctx context.Context, params *textract.DetectDocumentTextInput, optFns ...func(*textract.Options)) (*textract.DetectDocumentTextOutput, error)
}

// Textract implements TextExtractor with Amazon Textract's synchronous
// document text detection.
type Textract struct {
	client TextractClient
}

func NewTextract(client TextractClient) *Textract {
	return &Textract{client: client}
}

func (t *Textract) ExtractText(ctx context.Context, image s3bucket.ObjectRef) ([]Block, error) {
	out, err := t.client.DetectDocumentText(ctx, &textract.DetectDocumentTextInput{
		Document: &types.Document{
			S3Object: &types.S3Object{
				Bucket: aws.String(image.Bucket),
				Name:   aws.String(image.Key),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("textract detect document text: %w", err)
	}

	blocks := make([]Block, 0, len(out.Blocks))
	for _, b := range out.Blocks {
		kind := BlockOther
		if b.BlockType == types.BlockTypeLine {
			kind = BlockLine
		}
		blocks = append(blocks, Block{Type: kind, Text: aws.ToString(b.Text)})
	}
	return blocks, nil
}
