// Package awsclient builds the shared AWS SDK configuration and service
// clients used by every manager. Clients are constructed once and injected,
// never rebuilt per call.
package awsclient

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

const (
	maxRetryAttempts = 5
	connectTimeout   = 10 * time.Second
	readTimeout      = 60 * time.Second
)

// Config holds the connection settings for the AWS service clients.
type Config struct {
	// Region is the AWS region. Empty falls through to the SDK's default
	// resolution (env, shared config, IMDS).
	Region string
	// Endpoint overrides the service endpoint, used for LocalStack.
	Endpoint string
}

// Client holds the configured service clients.
type Client struct {
	cfg           aws.Config
	organizations *organizations.Client
	iam           *iam.Client
	sts           *sts.Client
}

// New loads the AWS configuration and constructs the service clients with a
// standard-mode retryer and bounded connect/read timeouts.
func New(ctx context.Context, cfg Config) (*Client, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRetryer(func() aws.Retryer {
			return retry.NewStandard(func(o *retry.StandardOptions) {
				o.MaxAttempts = maxRetryAttempts
			})
		}),
		config.WithHTTPClient(awshttp.NewBuildableClient().
			WithDialerOptions(func(d *net.Dialer) {
				d.Timeout = connectTimeout
			}).
			WithTransportOptions(func(tr *http.Transport) {
				tr.ResponseHeaderTimeout = readTimeout
			})),
	}

	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}

	if cfg.Endpoint != "" {
		// BaseEndpoint for LocalStack support
		opts = append(opts, config.WithBaseEndpoint(cfg.Endpoint))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Client{
		cfg:           awsConfig,
		organizations: organizations.NewFromConfig(awsConfig),
		iam:           iam.NewFromConfig(awsConfig),
		sts:           sts.NewFromConfig(awsConfig),
	}, nil
}

// Region returns the resolved region.
func (c *Client) Region() string {
	return c.cfg.Region
}

// Organizations returns the AWS Organizations client.
func (c *Client) Organizations() *organizations.Client {
	return c.organizations
}

// IAM returns the IAM client.
func (c *Client) IAM() *iam.Client {
	return c.iam
}

// STS returns the STS client.
func (c *Client) STS() *sts.Client {
	return c.sts
}
