package main

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	appConfig "github.com/alexuswingz/Clutched/internal/config"
)

// One-shot tool: configures CORS on the R2 avatar bucket so browsers can
// load uploaded images directly from the public URL.
func main() {
	appConfig.LoadConfig()
	cfg := appConfig.AppConfig

	if cfg.R2AccountID == "" || cfg.R2AccessKeyID == "" {
		log.Fatal("R2 credentials not configured")
	}

	r2Resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID),
		}, nil
	})

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithEndpointResolverWithOptions(r2Resolver),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.R2AccessKeyID, cfg.R2SecretAccessKey, "")),
	)
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}

	client := s3.NewFromConfig(awsCfg)

	origins := []string{"http://localhost:5173"}
	if cfg.FrontendURL != "" {
		origins = append(origins, cfg.FrontendURL)
	}

	_, err = client.PutBucketCors(context.TODO(), &s3.PutBucketCorsInput{
		Bucket: aws.String(cfg.R2BucketName),
		CORSConfiguration: &types.CORSConfiguration{
			CORSRules: []types.CORSRule{
				{
					AllowedOrigins: origins,
					AllowedMethods: []string{"GET", "HEAD"},
					AllowedHeaders: []string{"*"},
					MaxAgeSeconds:  aws.Int32(3600),
				},
			},
		},
	})
	if err != nil {
		log.Fatalf("Failed to set bucket CORS: %v", err)
	}

	fmt.Printf("CORS configured on bucket %s for origins %v\n", cfg.R2BucketName, origins)
}
