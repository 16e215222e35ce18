package utils

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Object storage on Cloudflare R2 (S3-compatible). Holds rendered
// result-checker cards and receipts.

func getR2Config() (aws.Config, error) {
	accountID := os.Getenv("R2_ACCOUNT_ID")
	accessKey := os.Getenv("R2_ACCESS_KEY_ID")
	secretKey := os.Getenv("R2_SECRET_ACCESS_KEY")

	if accountID == "" || accessKey == "" || secretKey == "" {
		return aws.Config{}, fmt.Errorf("R2_ACCOUNT_ID, R2_ACCESS_KEY_ID or R2_SECRET_ACCESS_KEY is not set")
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion("auto"), // Required by SDK, R2 ignores this
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		),
	)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load R2 config: %w", err)
	}

	return cfg, nil
}

func getR2Client() (*s3.Client, error) {
	accountID := os.Getenv("R2_ACCOUNT_ID")
	if accountID == "" {
		return nil, fmt.Errorf("R2_ACCOUNT_ID is not set")
	}

	cfg, err := getR2Config()
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	return client, nil
}

// UploadCheckerCard stores a rendered result-checker card and returns its
// public URL. Cards are namespaced by transaction reference.
func UploadCheckerCard(ctx context.Context, reference, serial string, content []byte) (string, error) {
	client, err := getR2Client()
	if err != nil {
		return "", err
	}

	bucket := os.Getenv("R2_BUCKET")
	if bucket == "" {
		return "", fmt.Errorf("R2_BUCKET is not set")
	}

	key := path.Join("checker-cards", reference, fmt.Sprintf("%s.txt", serial))
	uploadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err = client.PutObject(uploadCtx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload checker card: %w", err)
	}

	publicBase := os.Getenv("R2_PUBLIC_BASE_URL")
	if publicBase == "" {
		publicBase = fmt.Sprintf("https://%s.r2.cloudflarestorage.com/%s", os.Getenv("R2_ACCOUNT_ID"), bucket)
	}
	return fmt.Sprintf("%s/%s", publicBase, key), nil
}

// RenderCheckerCard produces the plain-text card a buyer downloads after
// purchasing a result-checker PIN.
func RenderCheckerCard(storeName, checkerType, serial, pin, reference string) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "%s\n", storeName)
	fmt.Fprintf(&b, "%s Result Checker\n", checkerType)
	fmt.Fprintf(&b, "----------------------------\n")
	fmt.Fprintf(&b, "Serial: %s\n", serial)
	fmt.Fprintf(&b, "PIN:    %s\n", pin)
	fmt.Fprintf(&b, "Order:  %s\n", reference)
	fmt.Fprintf(&b, "Issued: %s\n", time.Now().Format("2006-01-02 15:04"))
	return b.Bytes()
}
