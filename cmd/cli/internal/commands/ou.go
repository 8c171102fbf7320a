package commands

import (
	"context"
	"fmt"
)

type CreateOUCmd struct {
	Name string `arg:"" help:"Name of the organizational unit"`
}

func (c *CreateOUCmd) Run(ctx context.Context, globals *Globals) error {
	ctx, svc, err := orgService(ctx, globals)
	if err != nil {
		return err
	}

	ou, err := svc.CreateOU(ctx, c.Name)
	if err != nil {
		return err
	}

	return printJSON(ou)
}

type GetOUCmd struct {
	Name string `arg:"" help:"Name or ID of the organizational unit"`
}

func (c *GetOUCmd) Run(ctx context.Context, globals *Globals) error {
	ctx, svc, err := orgService(ctx, globals)
	if err != nil {
		return err
	}

	id, err := svc.ResolveOU(ctx, c.Name)
	if err != nil {
		return err
	}

	fmt.Println(id)
	return nil
}

type ListOUsCmd struct{}

func (c *ListOUsCmd) Run(ctx context.Context, globals *Globals) error {
	ctx, svc, err := orgService(ctx, globals)
	if err != nil {
		return err
	}

	ous, err := svc.ListOUs(ctx)
	if err != nil {
		return err
	}

	return printJSON(ous)
}

type RenameOUCmd struct {
	OU      string `arg:"" help:"Name or ID of the organizational unit"`
	NewName string `arg:"" help:"New name"`
}

func (c *RenameOUCmd) Run(ctx context.Context, globals *Globals) error {
	ctx, svc, err := orgService(ctx, globals)
	if err != nil {
		return err
	}

	id, err := svc.ResolveOU(ctx, c.OU)
	if err != nil {
		return err
	}

	ou, err := svc.RenameOU(ctx, id, c.NewName)
	if err != nil {
		return err
	}

	return printJSON(ou)
}

type DeleteOUCmd struct {
	OU string `arg:"" help:"Name or ID of the organizational unit"`
}

func (c *DeleteOUCmd) Run(ctx context.Context, globals *Globals) error {
	ctx, svc, err := orgService(ctx, globals)
	if err != nil {
		return err
	}

	id, err := svc.ResolveOU(ctx, c.OU)
	if err != nil {
		return err
	}

	if !svc.DeleteOU(ctx, id) {
		fmt.Printf("failed to delete OU %s\n", id)
		return nil
	}

	fmt.Printf("deleted OU %s\n", id)
	return nil
}

type ListRootCmd struct{}

func (c *ListRootCmd) Run(ctx context.Context, globals *Globals) error {
	ctx, svc, err := orgService(ctx, globals)
	if err != nil {
		return err
	}

	rootID, err := svc.ListRootID(ctx)
	if err != nil {
		return err
	}

	fmt.Println(rootID)
	return nil
}
