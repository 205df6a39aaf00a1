package utils

import (
	"context"
	"crypto/sha1"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/KiwiStays/KiwiOps/backend/shared/go-utils"
	"github.com/go-resty/resty/v2"
)

// CloudinaryConfig holds the credentials for signed uploads.
type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
	BaseURL   string // API root, e.g. https://api.cloudinary.com
	Timeout   time.Duration
}

// CloudinaryClient uploads local files with Cloudinary's signed upload API.
type CloudinaryClient struct {
	cfg  CloudinaryConfig
	http *resty.Client
	now  func() time.Time
}

type cloudinaryUploadResponse struct {
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
	PublicID  string `json:"public_id"`
}

type cloudinaryErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func NewCloudinaryClient(cfg CloudinaryConfig) *CloudinaryClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.cloudinary.com"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	return &CloudinaryClient{cfg: cfg, http: client, now: time.Now}
}

// Upload sends the file at localPath as public_id <folder>/<displayName> and
// returns its secure URL.
func (c *CloudinaryClient) Upload(ctx context.Context, localPath, displayName string) (string, error) {
	publicID := displayName
	if c.cfg.Folder != "" {
		publicID = c.cfg.Folder + "/" + displayName
	}
	timestamp := strconv.FormatInt(c.now().Unix(), 10)

	var (
		result  cloudinaryUploadResponse
		failure cloudinaryErrorResponse
	)
	resp, err := c.http.R().
		SetContext(ctx).
		SetFile("file", localPath).
		SetFormData(map[string]string{
			"api_key":   c.cfg.APIKey,
			"public_id": publicID,
			"timestamp": timestamp,
			"signature": c.sign(publicID, timestamp),
		}).
		SetResult(&result).
		SetError(&failure).
		Post(fmt.Sprintf("/v1_1/%s/auto/upload", url.PathEscape(c.cfg.CloudName)))
	if err != nil {
		return "", fmt.Errorf("%w: cloudinary request: %v", ErrMediaUpload, err)
	}
	if resp.IsError() {
		utils.Logger.WithField("status", resp.StatusCode()).
			WithField("public_id", publicID).
			Warn("[Cloudinary] upload rejected")
		return "", fmt.Errorf("%w: cloudinary status %d: %s", ErrMediaUpload, resp.StatusCode(), failure.Error.Message)
	}

	if result.SecureURL != "" {
		return result.SecureURL, nil
	}
	if result.URL != "" {
		return result.URL, nil
	}
	return "", fmt.Errorf("%w: cloudinary response without url", ErrMediaUpload)
}

// Owns reports whether url was issued by Cloudinary.
func (c *CloudinaryClient) Owns(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false
	}
	return strings.Contains(strings.ToLower(u.Host), "cloudinary")
}

// sign follows Cloudinary's scheme: sha1 over the sorted signed params
// followed by the API secret.
func (c *CloudinaryClient) sign(publicID, timestamp string) string {
	payload := "public_id=" + publicID + "&timestamp=" + timestamp + c.cfg.APISecret
	return fmt.Sprintf("%x", sha1.Sum([]byte(payload)))
}
