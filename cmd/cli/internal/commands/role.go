package commands

import (
	"context"
	"time"
)

type RoleCmd struct {
	Create RoleCreateCmd `cmd:"" help:"Create the management role, or reuse an existing one"`
	Assume RoleAssumeCmd `cmd:"" help:"Assume a role and print temporary credentials"`
}

type RoleCreateCmd struct {
	Name              string `arg:"" optional:"" help:"Name of the role" default:"OrgAdminRole"`
	TrustPrincipalARN string `help:"Restrict the trust policy to this principal ARN"`
}

func (c *RoleCreateCmd) Run(ctx context.Context, globals *Globals) error {
	ctx, p, err := roleProvisioner(ctx, globals)
	if err != nil {
		return err
	}

	role, err := p.CreateOrGetRole(ctx, c.Name, c.TrustPrincipalARN)
	if err != nil {
		return err
	}

	return printJSON(role)
}

type RoleAssumeCmd struct {
	RoleARN     string        `arg:"" help:"ARN of the role to assume"`
	SessionName string        `help:"Role session name" default:"awsorg-session"`
	Duration    time.Duration `help:"Credential lifetime" default:"1h"`
}

func (c *RoleAssumeCmd) Run(ctx context.Context, globals *Globals) error {
	ctx, p, err := roleProvisioner(ctx, globals)
	if err != nil {
		return err
	}

	creds, err := p.AssumeRole(ctx, c.RoleARN, c.SessionName, c.Duration)
	if err != nil {
		return err
	}

	return printJSON(creds)
}
