// Package orgs manages the lifecycle of an AWS organization: the organization
// itself, its organizational units and its member accounts. All state lives in
// AWS Organizations; this package holds no local state.
package orgs

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/organizations"
	"github.com/aws/smithy-go"
)

// Sentinel errors for common error conditions
var (
	ErrNoRoots                = errors.New("organization has no roots")
	ErrOUNotFound             = errors.New("organizational unit not found")
	ErrAccountCreationFailed  = errors.New("account creation failed")
	ErrAccountCreationTimeout = errors.New("account creation timed out")
)

// Default poll settings for the asynchronous account-creation workflow.
const (
	DefaultPollInterval = 20 * time.Second
	DefaultPollTimeout  = 15 * time.Minute
)

// DefaultAccountRoleName is the management role created in new member accounts
// when the caller does not supply one.
const DefaultAccountRoleName = "OrgAdminRole"

// OU IDs look like ou-<root fragment>-<unique fragment>. Input matching this
// shape is always treated as an ID, never resolved as a name.
var ouIDPattern = regexp.MustCompile(`^ou-[0-9a-z]{4,32}-[0-9a-z]{8,32}$`)

// OrganizationsAPI is the subset of the AWS Organizations client used by
// Service. The method set satisfies the SDK paginator client interfaces, so
// stubs slot straight into NewListAccountsPaginator and friends.
type OrganizationsAPI interface {
	DescribeOrganization(ctx context.Context, params *organizations.DescribeOrganizationInput, optFns ...func(*organizations.Options)) (*organizations.DescribeOrganizationOutput, error)
	CreateOrganization(ctx context.Context, params *organizations.CreateOrganizationInput, optFns ...func(*organizations.Options)) (*organizations.CreateOrganizationOutput, error)
	DeleteOrganization(ctx context.Context, params *organizations.DeleteOrganizationInput, optFns ...func(*organizations.Options)) (*organizations.DeleteOrganizationOutput, error)
	TagResource(ctx context.Context, params *organizations.TagResourceInput, optFns ...func(*organizations.Options)) (*organizations.TagResourceOutput, error)
	ListRoots(ctx context.Context, params *organizations.ListRootsInput, optFns ...func(*organizations.Options)) (*organizations.ListRootsOutput, error)
	ListOrganizationalUnitsForParent(ctx context.Context, params *organizations.ListOrganizationalUnitsForParentInput, optFns ...func(*organizations.Options)) (*organizations.ListOrganizationalUnitsForParentOutput, error)
	CreateOrganizationalUnit(ctx context.Context, params *organizations.CreateOrganizationalUnitInput, optFns ...func(*organizations.Options)) (*organizations.CreateOrganizationalUnitOutput, error)
	UpdateOrganizationalUnit(ctx context.Context, params *organizations.UpdateOrganizationalUnitInput, optFns ...func(*organizations.Options)) (*organizations.UpdateOrganizationalUnitOutput, error)
	DeleteOrganizationalUnit(ctx context.Context, params *organizations.DeleteOrganizationalUnitInput, optFns ...func(*organizations.Options)) (*organizations.DeleteOrganizationalUnitOutput, error)
	CreateAccount(ctx context.Context, params *organizations.CreateAccountInput, optFns ...func(*organizations.Options)) (*organizations.CreateAccountOutput, error)
	DescribeCreateAccountStatus(ctx context.Context, params *organizations.DescribeCreateAccountStatusInput, optFns ...func(*organizations.Options)) (*organizations.DescribeCreateAccountStatusOutput, error)
	ListAccounts(ctx context.Context, params *organizations.ListAccountsInput, optFns ...func(*organizations.Options)) (*organizations.ListAccountsOutput, error)
	DescribeAccount(ctx context.Context, params *organizations.DescribeAccountInput, optFns ...func(*organizations.Options)) (*organizations.DescribeAccountOutput, error)
	MoveAccount(ctx context.Context, params *organizations.MoveAccountInput, optFns ...func(*organizations.Options)) (*organizations.MoveAccountOutput, error)
	CloseAccount(ctx context.Context, params *organizations.CloseAccountInput, optFns ...func(*organizations.Options)) (*organizations.CloseAccountOutput, error)
	ListParents(ctx context.Context, params *organizations.ListParentsInput, optFns ...func(*organizations.Options)) (*organizations.ListParentsOutput, error)
}

// Config holds the tunables for the account-creation poll loop.
type Config struct {
	// PollInterval is the fixed delay between creation status checks.
	PollInterval time.Duration
	// PollTimeout bounds the total time spent waiting for account creation.
	PollTimeout time.Duration
}

// Service implements organization, OU and account management against a single
// injected Organizations client.
type Service struct {
	client OrganizationsAPI
	cfg    Config
}

// New creates a Service. Zero config values fall back to the defaults.
func New(client OrganizationsAPI, cfg Config) *Service {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = DefaultPollTimeout
	}
	return &Service{client: client, cfg: cfg}
}

// Organization is the AWS-wide container for the managed accounts.
type Organization struct {
	ID                 string `json:"Id"`
	ARN                string `json:"Arn"`
	FeatureSet         string `json:"FeatureSet"`
	MasterAccountID    string `json:"MasterAccountId"`
	MasterAccountEmail string `json:"MasterAccountEmail"`
}

// OrganizationTags is the result of applying tags to the organization.
type OrganizationTags struct {
	OrganizationID string            `json:"OrganizationId"`
	Tags           map[string]string `json:"Tags"`
}

// OU identifies an organizational unit.
type OU struct {
	Name string `json:"OUName"`
	ID   string `json:"OUID"`
}

// OUDetail is a listing entry for an organizational unit under root.
type OUDetail struct {
	ID       string `json:"Id"`
	Name     string `json:"Name"`
	ParentID string `json:"ParentId"`
}

// Account is a member account of the organization.
type Account struct {
	ID     string `json:"Id"`
	ARN    string `json:"Arn"`
	Name   string `json:"Name"`
	Email  string `json:"Email"`
	Status string `json:"Status"`
}

// CreateAccountResult is the composed outcome of the account-creation workflow.
type CreateAccountResult struct {
	AccountID    string `json:"AccountId"`
	AccountName  string `json:"AccountName"`
	AccountEmail string `json:"AccountEmail"`
	OUID         string `json:"OUID"`
}

// MoveResult reports an account move between parents.
type MoveResult struct {
	AccountID string `json:"AccountId"`
	NewOUID   string `json:"NewOUID"`
}

// errorCode returns the AWS error code, or empty when err is not an API error.
// Matching on codes covers conditions the SDK does not model as typed errors.
func errorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}
