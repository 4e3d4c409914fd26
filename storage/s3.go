package storage

import (
	"io"
	"log"
	"math"
	"net/http"
	"strconv"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// S3Storage keeps originals and thumbnails in an S3 (or S3-compatible)
// bucket. Transient uploads are out of its scope - those always live on
// local disk under the Layout's temp dir.
type S3Storage struct {
	bucket   string
	s3Client *s3.S3
	uploader *s3manager.Uploader
}

type S3Config struct {
	Bucket   string
	Region   string
	Endpoint string // optional, for S3-compatible storage
	Key      string
	Secret   string
}

func NewS3Storage(cfg S3Config) (*S3Storage, error) {
	awsConfig := aws.Config{
		Region:      aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(cfg.Key, cfg.Secret, ""),
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}
	sess, err := session.NewSession(&awsConfig)
	if err != nil {
		return nil, err
	}
	client := s3.New(sess)
	return &S3Storage{
		bucket:   cfg.Bucket,
		s3Client: client,
		uploader: s3manager.NewUploaderWithClient(client),
	}, nil
}

func (s *S3Storage) Save(path string, reader io.Reader) (int64, error) {
	_, err := s.uploader.Upload(&s3manager.UploadInput{
		Bucket: &s.bucket,
		Key:    aws.String(path),
		Body:   reader,
	})
	if err != nil {
		return 0, err
	}
	return s.GetSize(path), nil
}

func (s *S3Storage) Load(path string, writer io.Writer) (int64, error) {
	resp, err := s.s3Client.GetObject(&s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    aws.String(path),
	})
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return io.Copy(writer, resp.Body)
}

// Serve proxies the object. No byte-range support - whole object only.
func (s *S3Storage) Serve(path string, request *http.Request, writer http.ResponseWriter) {
	resp, err := s.s3Client.GetObject(&s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    aws.String(path),
	})
	if err != nil {
		log.Printf("S3 serve error for %s: %v", path, err)
		writer.WriteHeader(http.StatusNotFound)
		return
	}
	defer resp.Body.Close()
	if resp.ContentType != nil {
		writer.Header().Set("content-type", *resp.ContentType)
	}
	if resp.ContentLength != nil {
		writer.Header().Set("content-length", strconv.FormatInt(*resp.ContentLength, 10))
	}
	_, _ = io.Copy(writer, resp.Body)
}

func (s *S3Storage) Delete(path string) error {
	_, err := s.s3Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: &s.bucket,
		Key:    aws.String(path),
	})
	return err
}

func (s *S3Storage) GetSize(path string) int64 {
	resp, err := s.s3Client.HeadObject(&s3.HeadObjectInput{
		Bucket: &s.bucket,
		Key:    aws.String(path),
	})
	if err != nil || resp.ContentLength == nil {
		return -1
	}
	return *resp.ContentLength
}

func (s *S3Storage) GetFreeSpace() uint64 {
	return math.MaxUint64
}
