package orgs

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	"github.com/aws/aws-sdk-go-v2/service/organizations/types"
	"github.com/rs/zerolog"
)

// ListRootID returns the ID of the organization's root container. AWS
// guarantees exactly one root per organization, so the first entry is
// authoritative.
func (s *Service) ListRootID(ctx context.Context) (string, error) {
	out, err := s.client.ListRoots(ctx, &organizations.ListRootsInput{})
	if err != nil {
		return "", fmt.Errorf("failed to list roots: %w", err)
	}
	if len(out.Roots) == 0 {
		return "", ErrNoRoots
	}
	return aws.ToString(out.Roots[0].Id), nil
}

// ResolveOU resolves an OU name or ID to an OU ID. ID-shaped input wins
// outright and is returned unchanged without a remote call; anything else is
// matched by exact name against the OUs directly under root, first match wins.
// Returns ErrOUNotFound when no OU carries the name.
func (s *Service) ResolveOU(ctx context.Context, nameOrID string) (string, error) {
	if ouIDPattern.MatchString(nameOrID) {
		return nameOrID, nil
	}

	rootID, err := s.ListRootID(ctx)
	if err != nil {
		return "", err
	}

	paginator := organizations.NewListOrganizationalUnitsForParentPaginator(s.client, &organizations.ListOrganizationalUnitsForParentInput{
		ParentId: aws.String(rootID),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to list organizational units under %s: %w", rootID, err)
		}
		for _, ou := range page.OrganizationalUnits {
			if aws.ToString(ou.Name) == nameOrID {
				ouID := aws.ToString(ou.Id)
				zerolog.Ctx(ctx).Info().Str("ou_name", nameOrID).Str("ou_id", ouID).Msg("resolved OU name")
				return ouID, nil
			}
		}
	}

	return "", fmt.Errorf("no OU named %q under root %s: %w", nameOrID, rootID, ErrOUNotFound)
}

// CreateOU creates an organizational unit under root. A duplicate name is
// treated as success: the existing OU is resolved and returned.
func (s *Service) CreateOU(ctx context.Context, name string) (*OU, error) {
	rootID, err := s.ListRootID(ctx)
	if err != nil {
		return nil, err
	}

	out, err := s.client.CreateOrganizationalUnit(ctx, &organizations.CreateOrganizationalUnitInput{
		ParentId: aws.String(rootID),
		Name:     aws.String(name),
	})
	if err != nil {
		var dupErr *types.DuplicateOrganizationalUnitException
		if errors.As(err, &dupErr) {
			ouID, resolveErr := s.ResolveOU(ctx, name)
			if resolveErr != nil {
				return nil, fmt.Errorf("OU %q reported duplicate but not resolvable: %w", name, resolveErr)
			}
			zerolog.Ctx(ctx).Info().Str("ou_name", name).Str("ou_id", ouID).Msg("OU already exists, reusing")
			return &OU{Name: name, ID: ouID}, nil
		}
		return nil, fmt.Errorf("failed to create OU %q: %w", name, err)
	}

	ouID := aws.ToString(out.OrganizationalUnit.Id)
	zerolog.Ctx(ctx).Info().Str("ou_name", name).Str("ou_id", ouID).Msg("OU created")
	return &OU{Name: name, ID: ouID}, nil
}

// ListOUs returns every organizational unit directly under root.
func (s *Service) ListOUs(ctx context.Context) ([]OUDetail, error) {
	rootID, err := s.ListRootID(ctx)
	if err != nil {
		return nil, err
	}

	var ous []OUDetail
	paginator := organizations.NewListOrganizationalUnitsForParentPaginator(s.client, &organizations.ListOrganizationalUnitsForParentInput{
		ParentId: aws.String(rootID),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list organizational units under %s: %w", rootID, err)
		}
		for _, ou := range page.OrganizationalUnits {
			ous = append(ous, OUDetail{
				ID:       aws.ToString(ou.Id),
				Name:     aws.ToString(ou.Name),
				ParentID: rootID,
			})
		}
	}

	zerolog.Ctx(ctx).Info().Int("count", len(ous)).Str("root_id", rootID).Msg("listed OUs")
	return ous, nil
}

// RenameOU renames an organizational unit. Unlike CreateOU there is no
// duplicate-name handling; a conflicting rename surfaces the remote error.
func (s *Service) RenameOU(ctx context.Context, ouID, newName string) (*OU, error) {
	out, err := s.client.UpdateOrganizationalUnit(ctx, &organizations.UpdateOrganizationalUnitInput{
		OrganizationalUnitId: aws.String(ouID),
		Name:                 aws.String(newName),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to rename OU %s: %w", ouID, err)
	}

	zerolog.Ctx(ctx).Info().Str("ou_id", ouID).Str("ou_name", newName).Msg("OU renamed")
	return &OU{Name: newName, ID: aws.ToString(out.OrganizationalUnit.Id)}, nil
}

// DeleteOU deletes an organizational unit. Failures are swallowed into false:
// a non-empty OU and any other remote failure both report false, with the
// distinction carried in the log only.
func (s *Service) DeleteOU(ctx context.Context, ouID string) bool {
	_, err := s.client.DeleteOrganizationalUnit(ctx, &organizations.DeleteOrganizationalUnitInput{
		OrganizationalUnitId: aws.String(ouID),
	})
	if err != nil {
		var notEmptyErr *types.OrganizationalUnitNotEmptyException
		if errors.As(err, &notEmptyErr) {
			zerolog.Ctx(ctx).Error().Str("ou_id", ouID).Msg("OU not empty, remove child accounts first")
		} else {
			zerolog.Ctx(ctx).Error().Err(err).Str("ou_id", ouID).Msg("failed to delete OU")
		}
		return false
	}

	zerolog.Ctx(ctx).Info().Str("ou_id", ouID).Msg("OU deleted")
	return true
}
