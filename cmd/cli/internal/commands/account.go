package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/wolfeidau/awsorg/internal/orgs"
)

type CreateAccountCmd struct {
	Name  string `arg:"" help:"Name of the member account"`
	Email string `arg:"" help:"Email address for the account root user"`
	OU    string `arg:"" help:"Name or ID of the destination organizational unit"`

	RoleName     string        `help:"Name of the management role created in the account" default:"OrgAdminRole"`
	PollInterval time.Duration `help:"Delay between account creation status checks" default:"20s"`
	PollTimeout  time.Duration `help:"Give up waiting for account creation after this long" default:"15m"`
}

func (c *CreateAccountCmd) Run(ctx context.Context, globals *Globals) error {
	ctx, client, err := setup(ctx, globals)
	if err != nil {
		return err
	}

	svc := orgs.New(client.Organizations(), orgs.Config{
		PollInterval: c.PollInterval,
		PollTimeout:  c.PollTimeout,
	})

	res, err := svc.CreateMemberAccount(ctx, orgs.CreateAccountInput{
		Name:     c.Name,
		Email:    c.Email,
		OU:       c.OU,
		RoleName: c.RoleName,
	})
	if err != nil {
		return err
	}

	return printJSON(res)
}

type ListAccountsCmd struct{}

func (c *ListAccountsCmd) Run(ctx context.Context, globals *Globals) error {
	ctx, svc, err := orgService(ctx, globals)
	if err != nil {
		return err
	}

	accounts, err := svc.ListAccounts(ctx)
	if err != nil {
		return err
	}

	return printJSON(accounts)
}

type GetAccountCmd struct {
	AccountID string `arg:"" help:"ID of the member account"`
}

func (c *GetAccountCmd) Run(ctx context.Context, globals *Globals) error {
	ctx, svc, err := orgService(ctx, globals)
	if err != nil {
		return err
	}

	account, err := svc.GetAccount(ctx, c.AccountID)
	if err != nil {
		return err
	}

	return printJSON(account)
}

type MoveAccountCmd struct {
	AccountID string `arg:"" help:"ID of the member account"`
	OU        string `arg:"" help:"Name or ID of the destination organizational unit"`
}

func (c *MoveAccountCmd) Run(ctx context.Context, globals *Globals) error {
	ctx, svc, err := orgService(ctx, globals)
	if err != nil {
		return err
	}

	res, err := svc.MoveAccount(ctx, c.AccountID, c.OU)
	if err != nil {
		return err
	}

	return printJSON(res)
}

type CloseAccountCmd struct {
	AccountID string `arg:"" help:"ID of the member account"`
}

func (c *CloseAccountCmd) Run(ctx context.Context, globals *Globals) error {
	ctx, svc, err := orgService(ctx, globals)
	if err != nil {
		return err
	}

	if !svc.CloseAccount(ctx, c.AccountID) {
		fmt.Printf("failed to close account %s\n", c.AccountID)
		return nil
	}

	fmt.Printf("closed account %s\n", c.AccountID)
	return nil
}
