package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/wolfeidau/awsorg/internal/awsclient"
	"github.com/wolfeidau/awsorg/internal/logger"
	"github.com/wolfeidau/awsorg/internal/orgs"
	"github.com/wolfeidau/awsorg/internal/roles"
)

type Globals struct {
	Debug    bool
	Region   string
	Endpoint string
	LogFile  string
	Version  string
}

// setup builds the shared command plumbing: a logger installed in the context
// and an AWS client for the configured region and endpoint.
func setup(ctx context.Context, globals *Globals) (context.Context, *awsclient.Client, error) {
	log := logger.Setup(logger.Config{Debug: globals.Debug, File: globals.LogFile})
	ctx = log.WithContext(ctx)

	client, err := awsclient.New(ctx, awsclient.Config{
		Region:   globals.Region,
		Endpoint: globals.Endpoint,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create AWS client: %w", err)
	}

	return ctx, client, nil
}

func orgService(ctx context.Context, globals *Globals) (context.Context, *orgs.Service, error) {
	ctx, client, err := setup(ctx, globals)
	if err != nil {
		return nil, nil, err
	}
	return ctx, orgs.New(client.Organizations(), orgs.Config{}), nil
}

func roleProvisioner(ctx context.Context, globals *Globals) (context.Context, *roles.Provisioner, error) {
	ctx, client, err := setup(ctx, globals)
	if err != nil {
		return nil, nil, err
	}
	return ctx, roles.New(client.IAM(), client.STS()), nil
}

// printJSON writes v to stdout as indented JSON, the output format shared by
// all subcommands.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
