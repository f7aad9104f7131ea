// Package blob issues presigned URLs for file content on an S3-compatible
// backend. Bytes never transit the vault: uploads and downloads go straight
// between the client and object storage, the vault only tracks metadata.
package blob

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	sc "github.com/dmitrijs2005/filevault/internal/server/config"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// Presigner issues time-limited content URLs keyed by vault object id.
type Presigner struct {
	config *sc.Config
}

// NewPresigner constructs a Presigner from server configuration.
func NewPresigner(config *sc.Config) *Presigner {
	return &Presigner{config: config}
}

// StorageKey maps a vault object id to its content key in the bucket.
func StorageKey(objectID string) string {
	return fmt.Sprintf("objects/%s", objectID)
}

func (p *Presigner) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		config.WithRegion(p.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			p.config.S3RootUser,     // MINIO_ROOT_USER
			p.config.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(p.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// PutURL returns a presigned PUT URL for uploading the object's content.
func (p *Presigner) PutURL(ctx context.Context, objectID string) (string, error) {
	pc, err := p.getPresignClient()
	if err != nil {
		return "", fmt.Errorf("presign client: %w", err)
	}

	req, err := presignPutObject(pc, ctx, &s3.PutObjectInput{
		Bucket: aws.String(p.config.S3Bucket),
		Key:    aws.String(StorageKey(objectID)),
	}, func(o *s3.PresignOptions) {
		o.Expires = p.config.PresignValidityDuration
	})
	if err != nil {
		return "", fmt.Errorf("presign put: %w", err)
	}
	return req.URL, nil
}

// GetURL returns a presigned GET URL for downloading the object's content.
func (p *Presigner) GetURL(ctx context.Context, objectID string) (string, error) {
	pc, err := p.getPresignClient()
	if err != nil {
		return "", fmt.Errorf("presign client: %w", err)
	}

	req, err := presignGetObject(pc, ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.config.S3Bucket),
		Key:    aws.String(StorageKey(objectID)),
	}, func(o *s3.PresignOptions) {
		o.Expires = p.config.PresignValidityDuration
	})
	if err != nil {
		return "", fmt.Errorf("presign get: %w", err)
	}
	return req.URL, nil
}
