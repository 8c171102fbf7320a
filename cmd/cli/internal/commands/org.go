package commands

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type OrgCmd struct {
	Get    OrgGetCmd    `cmd:"" help:"Show the organization"`
	Create OrgCreateCmd `cmd:"" help:"Create the organization with all features enabled"`
	Tag    OrgTagCmd    `cmd:"" help:"Apply tags to the organization"`
	Delete OrgDeleteCmd `cmd:"" help:"Delete the organization"`
}

type OrgGetCmd struct{}

func (c *OrgGetCmd) Run(ctx context.Context, globals *Globals) error {
	ctx, svc, err := orgService(ctx, globals)
	if err != nil {
		return err
	}

	org, err := svc.GetOrganization(ctx)
	if err != nil {
		return err
	}
	if org == nil {
		fmt.Println("no organization exists")
		return nil
	}

	return printJSON(org)
}

type OrgCreateCmd struct{}

func (c *OrgCreateCmd) Run(ctx context.Context, globals *Globals) error {
	ctx, svc, err := orgService(ctx, globals)
	if err != nil {
		return err
	}

	org, err := svc.CreateOrganization(ctx)
	if err != nil {
		return err
	}

	return printJSON(org)
}

type OrgTagCmd struct {
	File string            `help:"YAML file with a flat key: value mapping of tags" type:"existingfile"`
	Tags map[string]string `help:"Tags as key=value pairs, merged over the file"`
}

func (c *OrgTagCmd) Run(ctx context.Context, globals *Globals) error {
	tags, err := c.mergedTags()
	if err != nil {
		return err
	}
	if len(tags) == 0 {
		return fmt.Errorf("no tags supplied, use --file or --tags")
	}

	ctx, svc, err := orgService(ctx, globals)
	if err != nil {
		return err
	}

	res, err := svc.UpdateOrganizationTags(ctx, tags)
	if err != nil {
		return err
	}
	if res == nil {
		fmt.Println("no organization exists")
		return nil
	}

	return printJSON(res)
}

func (c *OrgTagCmd) mergedTags() (map[string]string, error) {
	tags := map[string]string{}

	if c.File != "" {
		raw, err := os.ReadFile(c.File)
		if err != nil {
			return nil, fmt.Errorf("failed to read tags file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &tags); err != nil {
			return nil, fmt.Errorf("failed to parse tags file %s: %w", c.File, err)
		}
	}

	for k, v := range c.Tags {
		tags[k] = v
	}

	return tags, nil
}

type OrgDeleteCmd struct{}

func (c *OrgDeleteCmd) Run(ctx context.Context, globals *Globals) error {
	ctx, svc, err := orgService(ctx, globals)
	if err != nil {
		return err
	}

	ok, err := svc.DeleteOrganization(ctx)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("no organization exists")
		return nil
	}

	fmt.Println("deleted organization")
	return nil
}
