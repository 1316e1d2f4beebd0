package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
)

// Uploads go straight from the browser to R2: the server only signs a PUT
// URL, it never proxies file bytes.

const presignExpiry = 15 * time.Minute

var (
	s3Once    sync.Once
	s3Client  *s3.Client
	s3Presign *s3.PresignClient
	s3InitErr error
)

func storageClients() (*s3.Client, *s3.PresignClient, error) {
	s3Once.Do(func() {
		accountID := os.Getenv("R2_ACCOUNT_ID")
		accessKey := os.Getenv("R2_ACCESS_KEY_ID")
		secretKey := os.Getenv("R2_SECRET_ACCESS_KEY")
		if accountID == "" || accessKey == "" || secretKey == "" {
			s3InitErr = fmt.Errorf("R2 credentials not configured")
			return
		}

		cfg, err := config.LoadDefaultConfig(context.Background(),
			config.WithRegion("auto"),
			config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
			),
		)
		if err != nil {
			s3InitErr = err
			return
		}

		endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)
		s3Client = s3.NewFromConfig(cfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		})
		s3Presign = s3.NewPresignClient(s3Client)
	})
	return s3Client, s3Presign, s3InitErr
}

// bucketName is read per request so tests and deployments can swap it.
func bucketName() string {
	if bucket := os.Getenv("R2_BUCKET_NAME"); bucket != "" {
		return bucket
	}
	return "umedia-images"
}

// objectKey prefixes the client's file name with the upload time so repeated
// uploads of the same name never collide.
func objectKey(fileName string) string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), fileName)
}

// GetUploadURL returns a presigned PUT URL the client uploads to directly,
// plus the object key it must store alongside the resulting public URL.
func GetUploadURL(c *gin.Context) {
	fileName := c.Query("fileName")
	fileType := c.Query("fileType")
	if fileName == "" || fileType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing parameters"})
		return
	}

	_, presign, err := storageClients()
	if err != nil {
		log.Printf("storage client error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Storage not configured"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	key := objectKey(fileName)
	req, err := presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucketName()),
		Key:         aws.String(key),
		ContentType: aws.String(fileType),
	}, func(o *s3.PresignOptions) {
		o.Expires = presignExpiry
	})
	if err != nil {
		log.Printf("presign error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate upload URL"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":      req.URL,
		"fileName": key,
	})
}

// DeleteFile removes an object by key.
func DeleteFile(c *gin.Context) {
	fileName := c.Query("fileName")
	if fileName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fileName parameter"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := deleteObject(ctx, fileName); err != nil {
		log.Printf("delete object error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "File deleted successfully"})
}

func deleteObject(ctx context.Context, key string) error {
	client, _, err := storageClients()
	if err != nil {
		return err
	}

	_, err = client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucketName()),
		Key:    aws.String(key),
	})
	return err
}

// deleteObjectByURL extracts the object key (last path segment) from a
// public URL and deletes that object.
func deleteObjectByURL(ctx context.Context, rawURL string) error {
	key := rawURL
	if idx := strings.LastIndex(rawURL, "/"); idx >= 0 {
		key = rawURL[idx+1:]
	}
	if key == "" {
		return fmt.Errorf("no object key in url %q", rawURL)
	}
	return deleteObject(ctx, key)
}
