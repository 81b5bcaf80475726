package facematch_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/programme-lv/participation/facematch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRekognitionClient struct {
	detectIn  *rekognition.DetectFacesInput
	compareIn *rekognition.CompareFacesInput

	detectOut  *rekognition.DetectFacesOutput
	compareOut *rekognition.CompareFacesOutput
	err        error
}

func (c *fakeRekognitionClient) DetectFaces(ctx context.Context, in *rekognition.DetectFacesInput, _ ...func(*rekognition.Options)) (*rekognition.DetectFacesOutput, error) {
	c.detectIn = in
	if c.err != nil {
		return nil, c.err
	}
	return c.detectOut, nil
}

func (c *fakeRekognitionClient) CompareFaces(ctx context.Context, in *rekognition.CompareFacesInput, _ ...func(*rekognition.Options)) (*rekognition.CompareFacesOutput, error) {
	c.compareIn = in
	if c.err != nil {
		return nil, c.err
	}
	return c.compareOut, nil
}

func TestRekognitionDetectFaces(t *testing.T) {
	client := &fakeRekognitionClient{
		detectOut: &rekognition.DetectFacesOutput{
			FaceDetails: []types.FaceDetail{
				{Confidence: aws.Float32(99.5)},
				{Confidence: aws.Float32(87)},
			},
		},
	}

	faces, err := facematch.NewRekognition(client).DetectFaces(context.Background(), gallery[0])
	require.NoError(t, err)

	assert.Equal(t, []facematch.Face{{Confidence: 99.5}, {Confidence: 87}}, faces)
	assert.Equal(t, "participation-record", aws.ToString(client.detectIn.Image.S3Object.Bucket))
	assert.Equal(t, "faces1.jpg", aws.ToString(client.detectIn.Image.S3Object.Name))
	assert.Equal(t, []types.Attribute{types.AttributeDefault}, client.detectIn.Attributes)
}

func TestRekognitionCompareFaces(t *testing.T) {
	client := &fakeRekognitionClient{
		compareOut: &rekognition.CompareFacesOutput{
			FaceMatches: []types.CompareFacesMatch{
				{Similarity: aws.Float32(92)},
			},
		},
	}

	candidates, err := facematch.NewRekognition(client).CompareFaces(context.Background(), primary, gallery[1], 80)
	require.NoError(t, err)

	assert.Equal(t, []facematch.Candidate{{Similarity: 92}}, candidates)
	assert.Equal(t, primary.Key, aws.ToString(client.compareIn.SourceImage.S3Object.Name))
	assert.Equal(t, "faces2.jpg", aws.ToString(client.compareIn.TargetImage.S3Object.Name))
	assert.Equal(t, float32(80), aws.ToFloat32(client.compareIn.SimilarityThreshold))
}

func TestRekognitionWrapsErrors(t *testing.T) {
	client := &fakeRekognitionClient{err: errors.New("InvalidParameterException")}
	r := facematch.NewRekognition(client)

	_, err := r.DetectFaces(context.Background(), primary)
	assert.ErrorIs(t, err, client.err)

	_, err = r.CompareFaces(context.Background(), primary, gallery[0], 80)
	assert.ErrorIs(t, err, client.err)
}
