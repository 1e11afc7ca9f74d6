package evidence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/scanset/ESP-Agent-SDK/internal/model"
)

// Sink persists a serialized output shape somewhere outside the
// scanning process, so the full/assessor envelope is not tied to any
// one deployment.
type Sink interface {
	Write(ctx context.Context, key string, data []byte) error
}

// FileSink writes envelope artifacts under a base directory, the
// default sink.
type FileSink struct {
	BaseDir string
}

// Write serializes into BaseDir/key, creating parent directories as
// needed.
func (f *FileSink) Write(ctx context.Context, key string, data []byte) error {
	path := filepath.Join(f.BaseDir, key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return model.Wrap(model.ErrSerializationFailed, "failed to create evidence output directory", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return model.Wrap(model.ErrSerializationFailed, "failed to write evidence artifact", err)
	}
	return nil
}

// S3Sink writes envelope artifacts to an S3 bucket/prefix, mirroring
// the teacher's evidence-pack export-to-blob-storage pattern as an
// opt-in alternative to FileSink.
type S3Sink struct {
	Client *s3.Client
	Bucket string
	Prefix string
}

// NewDefaultS3Sink loads the standard AWS credential/region chain
// (environment, shared config, EC2/ECS instance role) and returns an
// S3Sink bound to bucket/prefix. Callers who already hold a configured
// *s3.Client should build S3Sink directly instead.
func NewDefaultS3Sink(ctx context.Context, bucket, prefix string) (*S3Sink, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, model.Wrap(model.ErrSerializationFailed, "failed to load default AWS config", err)
	}
	return &S3Sink{Client: s3.NewFromConfig(cfg), Bucket: bucket, Prefix: prefix}, nil
}

// Write uploads data to s3://Bucket/Prefix/key.
func (s *S3Sink) Write(ctx context.Context, key string, data []byte) error {
	objectKey := key
	if s.Prefix != "" {
		objectKey = s.Prefix + "/" + key
	}
	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(objectKey),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return model.Wrap(model.ErrSerializationFailed, fmt.Sprintf("failed to upload evidence artifact %q to S3", objectKey), err)
	}
	return nil
}

// WriteJSON marshals v and writes it to sink under key. A convenience
// used by hosts persisting the full/assessor/attestation shapes.
func WriteJSON(ctx context.Context, sink Sink, key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return model.Wrap(model.ErrSerializationFailed, "failed to marshal evidence artifact", err)
	}
	return sink.Write(ctx, key, data)
}
