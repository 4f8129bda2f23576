package rowio

import (
	"bytes"
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/rs/zerolog"

	"github.com/rowflow/rowflow/gologger"
	"github.com/rowflow/rowflow/row"
	"github.com/rowflow/rowflow/utils"
)

var logger = gologger.NewLogger()

func s3Session() (*session.Session, error) {
	s3Config := &aws.Config{
		Region:      aws.String(utils.AWS_DEFAULT_REGION),
		Credentials: credentials.NewEnvCredentials(),
	}
	if utils.S3_ENDPOINT != "" {
		s3Config.Endpoint = aws.String(utils.S3_ENDPOINT)
	}
	return session.NewSession(s3Config)
}

// WriteRowsToS3 drains rows as NDJSON and uploads the result as a single
// object. Returns the number of rows uploaded.
func WriteRowsToS3(ctx context.Context, fileName string, rows iter.Seq2[row.Row, error]) (int64, error) {
	ctx = logger.WithContext(ctx)
	logger := zerolog.Ctx(ctx)

	var b bytes.Buffer
	n, err := WriteNDJSON(&b, rows)
	if err != nil {
		return n, err
	}

	sess, err := s3Session()
	if err != nil {
		return n, fmt.Errorf("error making new session: %w", err)
	}

	uploader := s3manager.NewUploader(sess)

	input := &s3manager.UploadInput{
		Bucket:      aws.String(utils.S3_BUCKET_NAME),
		Key:         aws.String(fileName),
		Body:        &b,
		ContentType: utils.Ptr("application/x-ndjson"),
	}

	s := time.Now()
	_, err = uploader.UploadWithContext(ctx, input)
	if err != nil {
		return n, fmt.Errorf("error uploading to s3: %w", err)
	}

	d := time.Since(s)
	logger.Debug().Str("fileName", fileName).Int64("rows", n).Int64("durationNS", d.Nanoseconds()).Str("durationHuman", d.String()).Msg("uploaded rows to s3")

	return n, nil
}

// S3Source is a re-runnable named source streaming an NDJSON object from S3.
// The object is fetched on every run and the body closes when the sequence
// ends or is abandoned.
func S3Source(ctx context.Context, fileName string) func() iter.Seq2[row.Row, error] {
	return func() iter.Seq2[row.Row, error] {
		return func(yield func(row.Row, error) bool) {
			sess, err := s3Session()
			if err != nil {
				yield(nil, fmt.Errorf("error making new session: %w", err))
				return
			}

			out, err := s3.New(sess).GetObjectWithContext(ctx, &s3.GetObjectInput{
				Bucket: aws.String(utils.S3_BUCKET_NAME),
				Key:    aws.String(fileName),
			})
			if err != nil {
				yield(nil, fmt.Errorf("error getting object from s3: %w", err))
				return
			}
			defer out.Body.Close()

			for r, err := range ScanRows(out.Body) {
				if !yield(r, err) {
					return
				}
				if err != nil {
					return
				}
			}
		}
	}
}
