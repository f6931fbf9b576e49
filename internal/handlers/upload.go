package handlers

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	appConfig "github.com/alexuswingz/Clutched/internal/config"
	"github.com/alexuswingz/Clutched/internal/database"
	"github.com/alexuswingz/Clutched/internal/models"
	"github.com/alexuswingz/Clutched/pkg/logger"
	"github.com/alexuswingz/Clutched/pkg/utils"
	"github.com/gin-gonic/gin"
)

const maxAvatarSize = 5 << 20 // 5 MB

// -- Helpers -- //

func getS3Client() (*s3.Client, error) {
	cfg := appConfig.AppConfig
	r2Resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID),
		}, nil
	})

	awsCfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithEndpointResolverWithOptions(r2Resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.R2AccessKeyID, cfg.R2SecretAccessKey, "")),
	)
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(awsCfg), nil
}

// -- Handlers -- //

// UploadAvatar stores a profile image in R2 and points the profile at the
// public URL. If storage is down the client falls back to SaveAvatarData.
func UploadAvatar(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		file, header, err = c.Request.FormFile("avatar")
		if err != nil {
			file, header, err = c.Request.FormFile("image")
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "No valid file field found"})
				return
			}
		}
	}
	defer file.Close()

	if header.Size > maxAvatarSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image too large (max 5MB)"})
		return
	}

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only image uploads are allowed"})
		return
	}

	ext := filepath.Ext(header.Filename)
	key := fmt.Sprintf("clutched/avatars/%s%s", utils.GenerateID(), ext)

	client, err := getS3Client()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to init storage client"})
		return
	}

	cfg := appConfig.AppConfig
	_, err = client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(cfg.R2BucketName),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		logger.Error().Err(err).Str("userId", userID).Msg("Avatar upload to R2 failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Storage upload failed", "fallback": "avatarData"})
		return
	}

	publicURL := cfg.R2PublicURL
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.r2.dev", cfg.R2BucketName)
	}
	fullURL := fmt.Sprintf("%s/%s", publicURL, key)

	// A real URL supersedes any stored base64 fallback
	err = database.DB.Model(&models.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{"avatar": fullURL, "avatar_data": ""}).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save avatar"})
		return
	}

	EventBus.PublishRosterChanged()

	c.JSON(http.StatusOK, gin.H{
		"url":      fullURL,
		"key":      key,
		"mimetype": contentType,
		"size":     header.Size,
	})
}

// SaveAvatarData stores a base64 data URL as the avatar. This is the
// client's fallback when the storage upload fails.
func SaveAvatarData(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	var req struct {
		Data string `json:"data" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if !strings.HasPrefix(req.Data, "data:image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Expected an image data URL"})
		return
	}
	if len(req.Data) > maxAvatarSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image too large (max 5MB)"})
		return
	}

	err := database.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("avatar_data", req.Data).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save avatar"})
		return
	}

	EventBus.PublishRosterChanged()
	c.JSON(http.StatusOK, gin.H{"saved": true})
}
