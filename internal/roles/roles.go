// Package roles provisions the IAM role used for cross-account organization
// management and issues temporary credentials for it.
package roles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/rs/zerolog"
)

// OrganizationsFullAccessPolicyARN is the managed policy attached to every
// provisioned role.
const OrganizationsFullAccessPolicyARN = "arn:aws:iam::aws:policy/AWSOrganizationsFullAccess"

// DefaultSessionDuration is the assume-role credential lifetime when the
// caller does not supply one.
const DefaultSessionDuration = time.Hour

// IAMAPI is the subset of the IAM client used by Provisioner.
type IAMAPI interface {
	CreateRole(ctx context.Context, params *iam.CreateRoleInput, optFns ...func(*iam.Options)) (*iam.CreateRoleOutput, error)
	GetRole(ctx context.Context, params *iam.GetRoleInput, optFns ...func(*iam.Options)) (*iam.GetRoleOutput, error)
	AttachRolePolicy(ctx context.Context, params *iam.AttachRolePolicyInput, optFns ...func(*iam.Options)) (*iam.AttachRolePolicyOutput, error)
}

// STSAPI is the subset of the STS client used by Provisioner.
type STSAPI interface {
	AssumeRole(ctx context.Context, params *sts.AssumeRoleInput, optFns ...func(*sts.Options)) (*sts.AssumeRoleOutput, error)
}

// Provisioner creates management roles and assumes them.
type Provisioner struct {
	iam IAMAPI
	sts STSAPI
}

// New creates a Provisioner with injected clients.
func New(iamClient IAMAPI, stsClient STSAPI) *Provisioner {
	return &Provisioner{iam: iamClient, sts: stsClient}
}

// Role identifies a provisioned IAM role.
type Role struct {
	Name string `json:"role_name"`
	ARN  string `json:"role_arn"`
}

// Credentials are temporary credentials for an assumed role.
type Credentials struct {
	AccessKeyID     string    `json:"AccessKeyId"`
	SecretAccessKey string    `json:"SecretAccessKey"`
	SessionToken    string    `json:"SessionToken"`
	Expiration      time.Time `json:"Expiration"`
}

type policyDocument struct {
	Version   string            `json:"Version"`
	Statement []policyStatement `json:"Statement"`
}

type policyStatement struct {
	Effect    string          `json:"Effect"`
	Principal policyPrincipal `json:"Principal"`
	Action    string          `json:"Action"`
}

type policyPrincipal struct {
	AWS string `json:"AWS"`
}

// trustPolicy builds the assume-role trust policy. The principal defaults to
// any principal unless scoped to a specific ARN.
func trustPolicy(trustPrincipalARN string) (string, error) {
	principal := "*"
	if trustPrincipalARN != "" {
		principal = trustPrincipalARN
	}

	doc, err := json.Marshal(policyDocument{
		Version: "2012-10-17",
		Statement: []policyStatement{{
			Effect:    "Allow",
			Principal: policyPrincipal{AWS: principal},
			Action:    "sts:AssumeRole",
		}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal trust policy: %w", err)
	}
	return string(doc), nil
}

// CreateOrGetRole creates the named role with an assume-role trust policy, or
// reuses the existing role when one is already there. A reused role keeps its
// original trust policy. The organizations managed policy is (re-)attached on
// every invocation; attachment is idempotent at the service.
func (p *Provisioner) CreateOrGetRole(ctx context.Context, name, trustPrincipalARN string) (*Role, error) {
	log := zerolog.Ctx(ctx)

	policy, err := trustPolicy(trustPrincipalARN)
	if err != nil {
		return nil, err
	}

	var roleARN string
	out, err := p.iam.CreateRole(ctx, &iam.CreateRoleInput{
		RoleName:                 aws.String(name),
		AssumeRolePolicyDocument: aws.String(policy),
		Description:              aws.String("Role for organization and account automation"),
	})
	if err != nil {
		var existsErr *iamtypes.EntityAlreadyExistsException
		if !errors.As(err, &existsErr) {
			return nil, fmt.Errorf("failed to create role %s: %w", name, err)
		}

		got, err := p.iam.GetRole(ctx, &iam.GetRoleInput{RoleName: aws.String(name)})
		if err != nil {
			return nil, fmt.Errorf("failed to get existing role %s: %w", name, err)
		}
		roleARN = aws.ToString(got.Role.Arn)
		log.Info().Str("role_name", name).Str("role_arn", roleARN).Msg("reusing existing IAM role")
	} else {
		roleARN = aws.ToString(out.Role.Arn)
		log.Info().Str("role_name", name).Str("role_arn", roleARN).Msg("created IAM role")
	}

	_, err = p.iam.AttachRolePolicy(ctx, &iam.AttachRolePolicyInput{
		RoleName:  aws.String(name),
		PolicyArn: aws.String(OrganizationsFullAccessPolicyARN),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to attach policy to role %s: %w", name, err)
	}

	log.Info().Str("role_name", name).Str("policy_arn", OrganizationsFullAccessPolicyARN).Msg("attached managed policy")
	return &Role{Name: name, ARN: roleARN}, nil
}

// AssumeRole obtains temporary credentials for the role. Any failure is
// surfaced to the caller.
func (p *Provisioner) AssumeRole(ctx context.Context, roleARN, sessionName string, duration time.Duration) (*Credentials, error) {
	if duration <= 0 {
		duration = DefaultSessionDuration
	}

	out, err := p.sts.AssumeRole(ctx, &sts.AssumeRoleInput{
		RoleArn:         aws.String(roleARN),
		RoleSessionName: aws.String(sessionName),
		DurationSeconds: aws.Int32(int32(duration.Seconds())),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to assume role %s: %w", roleARN, err)
	}

	creds := out.Credentials
	zerolog.Ctx(ctx).Info().
		Str("role_arn", roleARN).
		Time("expiration", aws.ToTime(creds.Expiration)).
		Msg("assumed role")

	return &Credentials{
		AccessKeyID:     aws.ToString(creds.AccessKeyId),
		SecretAccessKey: aws.ToString(creds.SecretAccessKey),
		SessionToken:    aws.ToString(creds.SessionToken),
		Expiration:      aws.ToTime(creds.Expiration),
	}, nil
}
