package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Store uploads files to an S3-compatible bucket under <kind>/<owner>.<ext>
// and returns the object's public URL. Endpoint, region, bucket and
// credentials come from the environment, so MinIO and similar services work
// through S3_ENDPOINT + S3_USE_PATH_STYLE.
type S3Store struct {
	client *s3.Client
	bucket string
	base   string
	policy Policy
}

func NewS3Store(policy Policy) (*S3Store, error) {
	endpoint := os.Getenv("S3_ENDPOINT")
	region := os.Getenv("AWS_REGION")
	bucket := os.Getenv("S3_BUCKET_NAME")
	accessKey := os.Getenv("AWS_ACCESS_KEY_ID")
	secretKey := os.Getenv("AWS_SECRET_ACCESS_KEY")
	usePathStyle := os.Getenv("S3_USE_PATH_STYLE") == "true"

	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL:               endpoint,
			SigningRegion:     region,
			HostnameImmutable: true,
		}, nil
	})

	cfg, err := awsconfig.LoadDefaultConfig(
		context.TODO(),
		awsconfig.WithRegion(region),
		awsconfig.WithEndpointResolverWithOptions(resolver),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = usePathStyle
	})

	base := strings.TrimSuffix(endpoint, "/")
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	} else if usePathStyle {
		base = base + "/" + bucket
	}

	return &S3Store{client: client, bucket: bucket, base: base, policy: policy}, nil
}

// Save validates and uploads the file, overwriting any existing object for
// the same owner and kind.
func (s *S3Store) Save(ctx context.Context, kind Kind, owner, filename string, content io.Reader, size int64) (string, error) {
	if err := s.policy.Validate(filename, size, kind); err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/%s.%s", kind, owner, Ext(filename))
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          content,
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put object: %w", err)
	}
	return s.base + "/" + key, nil
}
