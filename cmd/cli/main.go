package main

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/wolfeidau/awsorg/cmd/cli/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		CreateOU      commands.CreateOUCmd      `cmd:"" name:"create-ou" help:"Create an organizational unit, or reuse one with the same name"`
		GetOU         commands.GetOUCmd         `cmd:"" name:"get-ou" help:"Resolve an organizational unit name to its ID"`
		ListOUs       commands.ListOUsCmd       `cmd:"" name:"list-ous" help:"List organizational units under the root"`
		RenameOU      commands.RenameOUCmd      `cmd:"" name:"rename-ou" help:"Rename an organizational unit"`
		DeleteOU      commands.DeleteOUCmd      `cmd:"" name:"delete-ou" help:"Delete an empty organizational unit"`
		ListRoot      commands.ListRootCmd      `cmd:"" name:"list-root" help:"Print the organization root ID"`
		CreateAccount commands.CreateAccountCmd `cmd:"" name:"create-account" help:"Create a member account and move it into an OU"`
		ListAccounts  commands.ListAccountsCmd  `cmd:"" name:"list-accounts" help:"List member accounts"`
		GetAccount    commands.GetAccountCmd    `cmd:"" name:"get-account" help:"Show a member account"`
		MoveAccount   commands.MoveAccountCmd   `cmd:"" name:"move-account" help:"Move an account to another OU"`
		CloseAccount  commands.CloseAccountCmd  `cmd:"" name:"close-account" help:"Close a member account"`
		Org           commands.OrgCmd           `cmd:"" help:"Manage the organization itself"`
		Role          commands.RoleCmd          `cmd:"" help:"Provision and assume the organization management role"`

		Debug    bool   `help:"Enable debug mode."`
		Region   string `help:"AWS region." env:"AWS_REGION"`
		Endpoint string `help:"Override the AWS endpoint, e.g. for LocalStack." env:"AWSORG_ENDPOINT"`
		LogFile  string `help:"Also write logs to this rotating file." env:"AWSORG_LOG_FILE"`
		Version  kong.VersionFlag
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{
		Debug:    cli.Debug,
		Region:   cli.Region,
		Endpoint: cli.Endpoint,
		LogFile:  cli.LogFile,
		Version:  version,
	})
	cmd.FatalIfErrorf(err)
}
