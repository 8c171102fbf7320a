package orgs

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	"github.com/aws/aws-sdk-go-v2/service/organizations/types"
	"github.com/rs/zerolog"
)

// GetOrganization returns the organization, or (nil, nil) when the caller
// cannot see one: Organizations not in use, access denied or invalid input.
// Any other failure is an error.
func (s *Service) GetOrganization(ctx context.Context) (*Organization, error) {
	out, err := s.client.DescribeOrganization(ctx, &organizations.DescribeOrganizationInput{})
	if err != nil {
		switch errorCode(err) {
		case "AWSOrganizationsNotInUseException", "AccessDeniedException", "InvalidInputException":
			zerolog.Ctx(ctx).Warn().Err(err).Msg("could not describe organization")
			return nil, nil
		}
		return nil, fmt.Errorf("failed to describe organization: %w", err)
	}

	org := fromOrganization(out.Organization)
	zerolog.Ctx(ctx).Info().Str("organization_id", org.ID).Msg("organization retrieved")
	return org, nil
}

// CreateOrganization creates the organization with the full feature set. When
// the caller is already in an organization the existing one is returned.
// Access denied surfaces as an error; creation requires the management account.
func (s *Service) CreateOrganization(ctx context.Context) (*Organization, error) {
	out, err := s.client.CreateOrganization(ctx, &organizations.CreateOrganizationInput{
		FeatureSet: types.OrganizationFeatureSetAll,
	})
	if err != nil {
		var alreadyErr *types.AlreadyInOrganizationException
		if errors.As(err, &alreadyErr) {
			zerolog.Ctx(ctx).Info().Msg("already in an organization, returning current organization")
			return s.GetOrganization(ctx)
		}
		if errorCode(err) == "AccessDeniedException" {
			return nil, fmt.Errorf("access denied creating organization, caller must be the management account: %w", err)
		}
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}

	org := fromOrganization(out.Organization)
	zerolog.Ctx(ctx).Info().Str("organization_id", org.ID).Msg("organization created")
	return org, nil
}

// UpdateOrganizationTags applies tags to the organization in a single call.
// Returns (nil, nil) when no organization exists. Keys are sorted so the
// request is deterministic.
func (s *Service) UpdateOrganizationTags(ctx context.Context, tags map[string]string) (*OrganizationTags, error) {
	org, err := s.GetOrganization(ctx)
	if err != nil {
		return nil, err
	}
	if org == nil {
		zerolog.Ctx(ctx).Warn().Msg("no organization found to update")
		return nil, nil
	}

	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	awsTags := make([]types.Tag, 0, len(tags))
	for _, k := range keys {
		awsTags = append(awsTags, types.Tag{Key: aws.String(k), Value: aws.String(tags[k])})
	}

	_, err = s.client.TagResource(ctx, &organizations.TagResourceInput{
		ResourceId: aws.String(org.ID),
		Tags:       awsTags,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to tag organization %s: %w", org.ID, err)
	}

	zerolog.Ctx(ctx).Info().Str("organization_id", org.ID).Int("tags", len(tags)).Msg("organization tags updated")
	return &OrganizationTags{OrganizationID: org.ID, Tags: tags}, nil
}

// DeleteOrganization deletes the organization. Returns (false, nil) when no
// organization exists; access denied and all other failures are errors.
func (s *Service) DeleteOrganization(ctx context.Context) (bool, error) {
	_, err := s.client.DeleteOrganization(ctx, &organizations.DeleteOrganizationInput{})
	if err != nil {
		var notInUseErr *types.AWSOrganizationsNotInUseException
		if errors.As(err, &notInUseErr) {
			zerolog.Ctx(ctx).Warn().Msg("no organization exists to delete")
			return false, nil
		}
		if errorCode(err) == "AccessDeniedException" {
			return false, fmt.Errorf("access denied, only the management account can delete an organization: %w", err)
		}
		return false, fmt.Errorf("failed to delete organization: %w", err)
	}

	zerolog.Ctx(ctx).Info().Msg("organization deleted")
	return true, nil
}

func fromOrganization(org *types.Organization) *Organization {
	if org == nil {
		return nil
	}
	return &Organization{
		ID:                 aws.ToString(org.Id),
		ARN:                aws.ToString(org.Arn),
		FeatureSet:         string(org.FeatureSet),
		MasterAccountID:    aws.ToString(org.MasterAccountId),
		MasterAccountEmail: aws.ToString(org.MasterAccountEmail),
	}
}
