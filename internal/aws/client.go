package aws

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudcontrol"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/eks"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"
)

type Error string

const (
	ErrNoCredentials      = Error("no AWS credentials found")
	ErrExpiredCredentials = Error("AWS credentials have expired")
	ErrNoConnection       = Error("no connection to AWS")
	ErrInvalidRegion      = Error("invalid AWS region")
)

func (e Error) Error() string {
	return string(e)
}

const (
	// DefaultRegion is used for global services and when no region is set.
	DefaultRegion = "us-east-1"
)

// Connection hands out service clients for the active profile.
type Connection interface {
	Config() *ClientConfig
	ActiveProfile() string
	ActiveRegion() string
	AccountID(ctx context.Context) (string, error)
	EC2(region string) *ec2.Client
	S3() *s3.Client
	S3Regional(region string) *s3.Client
	IAM() *iam.Client
	EKS(region string) *eks.Client
	STS(region string) *sts.Client
	CloudControl(region string) *cloudcontrol.Client
	CloudFormation(region string) *cloudformation.Client
}

type ClientConfig struct {
	Profile string
	Region  string
	Timeout time.Duration
}

type ServiceClients struct {
	ec2Client            *ec2.Client
	s3Client             *s3.Client
	iamClient            *iam.Client
	eksClient            *eks.Client
	stsClient            *sts.Client
	cloudcontrolClient   *cloudcontrol.Client
	cloudformationClient *cloudformation.Client
	awsConfig            aws.Config
	createdAt            time.Time
}

type APIClient struct {
	config    *ClientConfig
	clients   map[string]*ServiceClients
	accountID string
	loader    func(ctx context.Context, profile, region string) (aws.Config, error)
	mx        sync.RWMutex
}

// NewAPIClient creates a new APIClient instance for the given configuration.
// Service clients are created lazily per region.
func NewAPIClient(cfg *ClientConfig) (*APIClient, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}

	return &APIClient{
		config:  cfg,
		clients: make(map[string]*ServiceClients),
		loader:  loadConfig,
	}, nil
}

// Config returns the client configuration.
func (c *APIClient) Config() *ClientConfig {
	c.mx.RLock()
	defer c.mx.RUnlock()
	// Return a copy
	return &ClientConfig{
		Profile: c.config.Profile,
		Region:  c.config.Region,
		Timeout: c.config.Timeout,
	}
}

// ActiveProfile returns the currently active AWS profile.
func (c *APIClient) ActiveProfile() string {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return c.config.Profile
}

// ActiveRegion returns the currently active AWS region.
func (c *APIClient) ActiveRegion() string {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return c.config.Region
}

// AccountID resolves the account of the active credentials via STS
// GetCallerIdentity. The result is cached.
func (c *APIClient) AccountID(ctx context.Context) (string, error) {
	c.mx.RLock()
	id := c.accountID
	c.mx.RUnlock()
	if id != "" {
		return id, nil
	}

	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	stsClient := c.STS(c.ActiveRegion())
	if stsClient == nil {
		return "", ErrNoConnection
	}
	result, err := stsClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", WrapAWSError(err, "get caller identity")
	}

	c.mx.Lock()
	defer c.mx.Unlock()
	c.accountID = SafeString(result.Account)

	return c.accountID, nil
}

// EC2 returns an EC2 client for the specified region.
func (c *APIClient) EC2(region string) *ec2.Client {
	clients, err := c.getClients(region)
	if err != nil {
		return nil
	}
	return clients.ec2Client
}

// S3 returns an S3 client (uses us-east-1 for bucket listing).
func (c *APIClient) S3() *s3.Client {
	clients, err := c.getClients(DefaultRegion)
	if err != nil {
		return nil
	}
	return clients.s3Client
}

// S3Regional returns an S3 client for a specific region.
func (c *APIClient) S3Regional(region string) *s3.Client {
	if region == "" {
		region = DefaultRegion
	}
	clients, err := c.getClients(region)
	if err != nil {
		return nil
	}
	return clients.s3Client
}

// IAM returns an IAM client (uses us-east-1 as IAM is a global service).
func (c *APIClient) IAM() *iam.Client {
	clients, err := c.getClients(DefaultRegion)
	if err != nil {
		return nil
	}
	return clients.iamClient
}

// EKS returns an EKS client for the specified region.
func (c *APIClient) EKS(region string) *eks.Client {
	clients, err := c.getClients(region)
	if err != nil {
		return nil
	}
	return clients.eksClient
}

// STS returns an STS client for the specified region.
func (c *APIClient) STS(region string) *sts.Client {
	clients, err := c.getClients(region)
	if err != nil {
		return nil
	}
	return clients.stsClient
}

// CloudControl returns a CloudControl client for the specified region.
func (c *APIClient) CloudControl(region string) *cloudcontrol.Client {
	clients, err := c.getClients(region)
	if err != nil {
		return nil
	}
	return clients.cloudcontrolClient
}

// CloudFormation returns a CloudFormation client for the specified region.
func (c *APIClient) CloudFormation(region string) *cloudformation.Client {
	clients, err := c.getClients(region)
	if err != nil {
		return nil
	}
	return clients.cloudformationClient
}

// Reset clears all cached clients.
func (c *APIClient) Reset() {
	c.mx.Lock()
	defer c.mx.Unlock()

	c.clients = make(map[string]*ServiceClients)
	c.accountID = ""
}

// getClients retrieves or creates service clients for the specified region.
func (c *APIClient) getClients(region string) (*ServiceClients, error) {
	if region == "" {
		region = c.ActiveRegion()
	}

	c.mx.RLock()
	key := c.config.Profile + ":" + region
	if clients, ok := c.clients[key]; ok {
		c.mx.RUnlock()
		return clients, nil
	}
	c.mx.RUnlock()

	c.mx.Lock()
	defer c.mx.Unlock()

	// Double-check after acquiring write lock
	if clients, ok := c.clients[key]; ok {
		return clients, nil
	}

	clients, err := c.createClients(c.config.Profile, region)
	if err != nil {
		return nil, err
	}
	c.clients[key] = clients

	return clients, nil
}

// createClients creates a new set of service clients for the specified profile and region.
func (c *APIClient) createClients(profile, region string) (*ServiceClients, error) {
	ctx := context.Background()
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	cfg, err := c.loader(ctx, profile, region)
	if err != nil {
		return nil, WrapAWSError(err, "load AWS config")
	}

	return &ServiceClients{
		awsConfig:            cfg,
		createdAt:            time.Now(),
		ec2Client:            ec2.NewFromConfig(cfg),
		s3Client:             s3.NewFromConfig(cfg),
		iamClient:            iam.NewFromConfig(cfg),
		eksClient:            eks.NewFromConfig(cfg),
		stsClient:            sts.NewFromConfig(cfg),
		cloudcontrolClient:   cloudcontrol.NewFromConfig(cfg),
		cloudformationClient: cloudformation.NewFromConfig(cfg),
	}, nil
}

func loadConfig(ctx context.Context, profile, region string) (aws.Config, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
	}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}

	return config.LoadDefaultConfig(ctx, opts...)
}

// WrapAWSError wraps AWS SDK errors with additional context.
func WrapAWSError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied", "AccessDeniedException":
			return fmt.Errorf("access denied for %s: %w", operation, err)
		case "ExpiredToken", "ExpiredTokenException":
			return fmt.Errorf("%w: %s", ErrExpiredCredentials, operation)
		case "ThrottlingException":
			return fmt.Errorf("rate limited during %s: %w", operation, err)
		case "InvalidClientTokenId":
			return fmt.Errorf("%w: %s", ErrNoCredentials, operation)
		default:
			return fmt.Errorf("%s failed: %s (%s)", operation, apiErr.ErrorMessage(), apiErr.ErrorCode())
		}
	}

	return fmt.Errorf("%s failed: %w", operation, err)
}

// ParseS3URI splits an s3://bucket/key URI.
func ParseS3URI(uri string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(uri, "s3://")
	if !ok {
		return "", "", fmt.Errorf("not an s3 uri: %q", uri)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("missing bucket in s3 uri: %q", uri)
	}

	return bucket, key, nil
}
