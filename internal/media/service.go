package media

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"time"

	"storefront-be/internal/logger"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

const credentialTTL = 15 * time.Minute

// UploadCredential is a pre-authorized, short-lived write grant for the
// external blob endpoint. The browser uploads directly; this service never
// sees file contents.
type UploadCredential struct {
	Token     string    `json:"token"`
	UploadURL string    `json:"upload_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Service interface {
	Authorize(ctx context.Context, filename string) (*UploadCredential, error)

	// Complete consumes the token and returns the retrievable public URL of
	// the uploaded blob.
	Complete(ctx context.Context, token string) (string, error)
}

type service struct {
	tokens    TokenStore
	endpoint  string
	publicURL string
	client    *http.Client
	breaker   *gobreaker.CircuitBreaker[*http.Response]
}

func NewService(tokens TokenStore, endpoint, publicURL string) Service {
	cb := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:    "blob-probe",
		Timeout: 30 * time.Second,
	})

	return &service{
		tokens:    tokens,
		endpoint:  endpoint,
		publicURL: publicURL,
		client:    &http.Client{Timeout: 10 * time.Second},
		breaker:   cb,
	}
}

func (s *service) Authorize(ctx context.Context, filename string) (*UploadCredential, error) {
	if filename == "" {
		return nil, ErrFilenameRequired
	}

	token := uuid.New().String()
	blobName := uuid.New().String() + path.Ext(filename)

	rec := UploadRecord{Filename: filename, BlobName: blobName}
	if err := s.tokens.Save(ctx, token, rec, credentialTTL); err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Debug("upload credential issued",
		zap.String("layer", "service"),
		zap.String("blob_name", blobName),
	)

	return &UploadCredential{
		Token:     token,
		UploadURL: fmt.Sprintf("%s/%s?token=%s", s.endpoint, blobName, token),
		ExpiresAt: time.Now().Add(credentialTTL),
	}, nil
}

func (s *service) Complete(ctx context.Context, token string) (string, error) {
	rec, err := s.tokens.Take(ctx, token)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/%s", s.publicURL, rec.BlobName)

	if err := s.probe(ctx, url); err != nil {
		return "", err
	}

	return url, nil
}

// probe checks the blob actually landed at the endpoint. The breaker keeps a
// flapping blob store from hanging every completion call.
func (s *service) probe(ctx context.Context, url string) error {
	resp, err := s.breaker.Execute(func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
		if err != nil {
			return nil, err
		}
		return s.client.Do(req)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBlobUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: endpoint returned %d", ErrBlobUnavailable, resp.StatusCode)
	}

	return nil
}
