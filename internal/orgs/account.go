package orgs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	"github.com/aws/aws-sdk-go-v2/service/organizations/types"
	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"
)

// errAccountPending marks a poll attempt that found creation still in
// progress. It never escapes CreateMemberAccount.
var errAccountPending = errors.New("account creation in progress")

// CreateAccountInput holds the parameters for the account-creation workflow.
type CreateAccountInput struct {
	Name  string
	Email string
	// OU is the destination organizational unit, by name or ID.
	OU string
	// RoleName is the management role created in the new account. Empty
	// falls back to DefaultAccountRoleName.
	RoleName string
}

// CreateMemberAccount creates a member account and moves it into the
// destination OU. Account creation is asynchronous at the service: the create
// call returns a request ID which is polled at the configured interval until
// it succeeds, fails with a remote reason, or the poll budget is exhausted.
// New accounts always land under root, so the move is a required final step.
//
// The operation is not safely retryable once the creation request has been
// accepted; retrying creates a duplicate account.
func (s *Service) CreateMemberAccount(ctx context.Context, in CreateAccountInput) (*CreateAccountResult, error) {
	log := zerolog.Ctx(ctx)

	roleName := in.RoleName
	if roleName == "" {
		roleName = DefaultAccountRoleName
	}

	ouID, err := s.ResolveOU(ctx, in.OU)
	if err != nil {
		return nil, err
	}

	rootID, err := s.ListRootID(ctx)
	if err != nil {
		return nil, err
	}

	log.Info().Str("root_id", rootID).Str("ou_id", ouID).Msg("starting account creation")

	out, err := s.client.CreateAccount(ctx, &organizations.CreateAccountInput{
		AccountName:            aws.String(in.Name),
		Email:                  aws.String(in.Email),
		RoleName:               aws.String(roleName),
		IamUserAccessToBilling: types.IAMUserAccessToBillingAllow,
	})
	if err != nil {
		if errorCode(err) == "ConcurrentCreationLimitExceededException" {
			log.Error().Msg("concurrent account creation limit reached, try again later")
		} else {
			log.Error().Err(err).Msg("failed to initiate account creation")
		}
		return nil, fmt.Errorf("failed to initiate account creation for %q: %w", in.Name, err)
	}

	requestID := aws.ToString(out.CreateAccountStatus.Id)
	log.Info().Str("account_name", in.Name).Str("request_id", requestID).Msg("account creation started")

	accountID, err := s.waitForAccount(ctx, requestID)
	if err != nil {
		return nil, err
	}

	log.Info().Str("account_name", in.Name).Str("account_id", accountID).Msg("account creation succeeded")

	_, err = s.client.MoveAccount(ctx, &organizations.MoveAccountInput{
		AccountId:           aws.String(accountID),
		SourceParentId:      aws.String(rootID),
		DestinationParentId: aws.String(ouID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to move account %s to OU %s: %w", accountID, ouID, err)
	}

	log.Info().Str("account_id", accountID).Str("ou_id", ouID).Msg("moved account to OU")

	return &CreateAccountResult{
		AccountID:    accountID,
		AccountName:  in.Name,
		AccountEmail: in.Email,
		OUID:         ouID,
	}, nil
}

// waitForAccount polls the creation request at a fixed interval until it
// reaches a terminal state or the poll budget runs out. The deadline is
// checked inside the attempt so a still-pending request only times out once
// the budget has actually elapsed, never a poll interval early. Cancelling
// ctx aborts the wait.
func (s *Service) waitForAccount(ctx context.Context, requestID string) (string, error) {
	deadline := time.Now().Add(s.cfg.PollTimeout)

	accountID, err := backoff.Retry(ctx, func() (string, error) {
		out, err := s.client.DescribeCreateAccountStatus(ctx, &organizations.DescribeCreateAccountStatusInput{
			CreateAccountRequestId: aws.String(requestID),
		})
		if err != nil {
			return "", backoff.Permanent(fmt.Errorf("failed to describe creation status %s: %w", requestID, err))
		}

		status := out.CreateAccountStatus
		switch status.State {
		case types.CreateAccountStateSucceeded:
			return aws.ToString(status.AccountId), nil
		case types.CreateAccountStateFailed:
			reason := string(status.FailureReason)
			if reason == "" {
				reason = "Unknown"
			}
			return "", backoff.Permanent(fmt.Errorf("%w: %s", ErrAccountCreationFailed, reason))
		}

		if time.Now().After(deadline) {
			return "", backoff.Permanent(fmt.Errorf("creation request %s still pending after %s: %w", requestID, s.cfg.PollTimeout, ErrAccountCreationTimeout))
		}

		zerolog.Ctx(ctx).Info().Str("request_id", requestID).Msg("waiting for account creation to complete")
		return "", errAccountPending
	},
		backoff.WithBackOff(backoff.NewConstantBackOff(s.cfg.PollInterval)),
		// The backstop sits above the deadline, the in-attempt check decides.
		backoff.WithMaxElapsedTime(s.cfg.PollTimeout+2*s.cfg.PollInterval),
	)
	if err != nil {
		if errors.Is(err, errAccountPending) {
			return "", fmt.Errorf("creation request %s still pending after %s: %w", requestID, s.cfg.PollTimeout, ErrAccountCreationTimeout)
		}
		return "", err
	}

	return accountID, nil
}

// ListAccounts returns every member account of the organization, unfiltered.
func (s *Service) ListAccounts(ctx context.Context) ([]Account, error) {
	var accounts []Account
	paginator := organizations.NewListAccountsPaginator(s.client, &organizations.ListAccountsInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list accounts: %w", err)
		}
		for _, acct := range page.Accounts {
			accounts = append(accounts, fromAccount(acct))
		}
	}

	zerolog.Ctx(ctx).Info().Int("count", len(accounts)).Msg("listed member accounts")
	return accounts, nil
}

// GetAccount returns the details of a single member account.
func (s *Service) GetAccount(ctx context.Context, accountID string) (*Account, error) {
	out, err := s.client.DescribeAccount(ctx, &organizations.DescribeAccountInput{
		AccountId: aws.String(accountID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", accountID, err)
	}

	acct := fromAccount(*out.Account)
	return &acct, nil
}

// MoveAccount moves an account into the destination OU, given by name or ID.
// The account's current parent is looked up first; the service may report
// several parents in theory but the first is authoritative.
func (s *Service) MoveAccount(ctx context.Context, accountID, destination string) (*MoveResult, error) {
	destID, err := s.ResolveOU(ctx, destination)
	if err != nil {
		return nil, err
	}

	parents, err := s.client.ListParents(ctx, &organizations.ListParentsInput{
		ChildId: aws.String(accountID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list parents of account %s: %w", accountID, err)
	}
	if len(parents.Parents) == 0 {
		return nil, fmt.Errorf("account %s has no parent", accountID)
	}
	sourceID := aws.ToString(parents.Parents[0].Id)

	_, err = s.client.MoveAccount(ctx, &organizations.MoveAccountInput{
		AccountId:           aws.String(accountID),
		SourceParentId:      aws.String(sourceID),
		DestinationParentId: aws.String(destID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to move account %s to OU %s: %w", accountID, destID, err)
	}

	zerolog.Ctx(ctx).Info().Str("account_id", accountID).Str("ou_id", destID).Msg("moved account")
	return &MoveResult{AccountID: accountID, NewOUID: destID}, nil
}

// CloseAccount requests closure of a member account. Closure is asynchronous
// at the service and not polled here. Failures are swallowed into false and
// logged, matching DeleteOU.
func (s *Service) CloseAccount(ctx context.Context, accountID string) bool {
	_, err := s.client.CloseAccount(ctx, &organizations.CloseAccountInput{
		AccountId: aws.String(accountID),
	})
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("account_id", accountID).Msg("failed to close account")
		return false
	}

	zerolog.Ctx(ctx).Info().Str("account_id", accountID).Msg("closed member account")
	return true
}

func fromAccount(acct types.Account) Account {
	return Account{
		ID:     aws.ToString(acct.Id),
		ARN:    aws.ToString(acct.Arn),
		Name:   aws.ToString(acct.Name),
		Email:  aws.ToString(acct.Email),
		Status: string(acct.Status),
	}
}
