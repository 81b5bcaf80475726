package facematch

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/programme-lv/participation/s3bucket"
)

// RekognitionClient is the part of *rekognition.Client the matcher uses.
type RekognitionClient interface {
	DetectFaces(ctx context.Context, params *rekognition.DetectFacesInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectFacesOutput, error)
	CompareFaces(ctx context.Context, params *rekognition.CompareFacesInput, optFns ...func(*rekognition.Options)) (*rekognition.CompareFacesOutput, error)
}

// Rekognition implements FaceDetector and FaceComparer on top of Amazon
// Rekognition, reading images directly from S3.
type Rekognition struct {
	client RekognitionClient
}

func NewRekognition(client RekognitionClient) *Rekognition {
	return &Rekognition{client: client}
}

func s3Image(ref s3bucket.ObjectRef) *types.Image {
	return &types.Image{
		S3Object: &types.S3Object{
			Bucket: aws.String(ref.Bucket),
			Name:   aws.String(ref.Key),
		},
	}
}

func (r *Rekognition) DetectFaces(ctx context.Context, image s3bucket.ObjectRef) ([]Face, error) {
	out, err := r.client.DetectFaces(ctx, &rekognition.DetectFacesInput{
		Image:      s3Image(image),
		Attributes: []types.Attribute{types.AttributeDefault},
	})
	if err != nil {
		return nil, fmt.Errorf("rekognition detect faces: %w", err)
	}

	faces := make([]Face, 0, len(out.FaceDetails))
	for _, d := range out.FaceDetails {
		faces = append(faces, Face{Confidence: float64(aws.ToFloat32(d.Confidence))})
	}
	return faces, nil
}

func (r *Rekognition) CompareFaces(ctx context.Context, source, target s3bucket.ObjectRef, threshold float64) ([]Candidate, error) {
	out, err := r.client.CompareFaces(ctx, &rekognition.CompareFacesInput{
		SourceImage:         s3Image(source),
		TargetImage:         s3Image(target),
		SimilarityThreshold: aws.Float32(float32(threshold)),
	})
	if err != nil {
		return nil, fmt.Errorf("rekognition compare faces: %w", err)
	}

	candidates := make([]Candidate, 0, len(out.FaceMatches))
	for _, m := range out.FaceMatches {
		candidates = append(candidates, Candidate{Similarity: float64(aws.ToFloat32(m.Similarity))})
	}
	return candidates, nil
}
