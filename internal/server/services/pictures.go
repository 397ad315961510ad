package services

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	sc "github.com/dmitrijs2005/addonaccounts/internal/server/config"
	"github.com/dmitrijs2005/addonaccounts/internal/server/models"
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

const pictureContentType = "image/png"

// PictureService hands out presigned object storage URLs for user pictures.
type PictureService struct {
	config *sc.Config
}

func NewPictureService(config *sc.Config) *PictureService {
	return &PictureService{config: config}
}

func (s *PictureService) validity() time.Duration {
	if s.config.PictureURLValidity > 0 {
		return s.config.PictureURLValidity
	}
	return 15 * time.Minute
}

func (s *PictureService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// PictureURL returns a presigned GET URL for the user's picture, or the
// anonymous placeholder when the user has none.
func (s *PictureService) PictureURL(ctx context.Context, user *models.User) (string, error) {
	if user.PictureType == "" {
		return user.PictureURL(s.config.MediaURL, s.config.StaticURL), nil
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket
	key := user.PictureKey()
	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.validity()))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// UploadURL returns a presigned PUT URL the client uploads a new picture
// to. The caller records the picture type once the upload has finished.
func (s *PictureService) UploadURL(ctx context.Context, user *models.User) (string, error) {
	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket
	key := user.PictureKey()
	contentType := pictureContentType
	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		ContentType: &contentType,
	}, s3.WithPresignExpires(s.validity()))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}
