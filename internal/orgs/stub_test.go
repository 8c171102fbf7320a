package orgs

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/service/organizations"
	"github.com/rs/zerolog"
)

// testContext returns a context carrying a logger. Pass a buffer to capture
// log output, or nil to discard it.
func testContext(buf *bytes.Buffer) context.Context {
	var w io.Writer = io.Discard
	if buf != nil {
		w = buf
	}
	log := zerolog.New(w)
	return log.WithContext(context.Background())
}

// stubOrganizationsAPI is a function-field test double for OrganizationsAPI.
// Unset methods fail loudly; calls counts invocations per operation.
type stubOrganizationsAPI struct {
	calls map[string]int

	describeOrganization        func(*organizations.DescribeOrganizationInput) (*organizations.DescribeOrganizationOutput, error)
	createOrganization          func(*organizations.CreateOrganizationInput) (*organizations.CreateOrganizationOutput, error)
	deleteOrganization          func(*organizations.DeleteOrganizationInput) (*organizations.DeleteOrganizationOutput, error)
	tagResource                 func(*organizations.TagResourceInput) (*organizations.TagResourceOutput, error)
	listRoots                   func(*organizations.ListRootsInput) (*organizations.ListRootsOutput, error)
	listOUsForParent            func(*organizations.ListOrganizationalUnitsForParentInput) (*organizations.ListOrganizationalUnitsForParentOutput, error)
	createOU                    func(*organizations.CreateOrganizationalUnitInput) (*organizations.CreateOrganizationalUnitOutput, error)
	updateOU                    func(*organizations.UpdateOrganizationalUnitInput) (*organizations.UpdateOrganizationalUnitOutput, error)
	deleteOU                    func(*organizations.DeleteOrganizationalUnitInput) (*organizations.DeleteOrganizationalUnitOutput, error)
	createAccount               func(*organizations.CreateAccountInput) (*organizations.CreateAccountOutput, error)
	describeCreateAccountStatus func(*organizations.DescribeCreateAccountStatusInput) (*organizations.DescribeCreateAccountStatusOutput, error)
	listAccounts                func(*organizations.ListAccountsInput) (*organizations.ListAccountsOutput, error)
	describeAccount             func(*organizations.DescribeAccountInput) (*organizations.DescribeAccountOutput, error)
	moveAccount                 func(*organizations.MoveAccountInput) (*organizations.MoveAccountOutput, error)
	closeAccount                func(*organizations.CloseAccountInput) (*organizations.CloseAccountOutput, error)
	listParents                 func(*organizations.ListParentsInput) (*organizations.ListParentsOutput, error)
}

var _ OrganizationsAPI = (*stubOrganizationsAPI)(nil)

func newStub() *stubOrganizationsAPI {
	return &stubOrganizationsAPI{calls: make(map[string]int)}
}

func (s *stubOrganizationsAPI) record(op string) {
	s.calls[op]++
}

func errUnexpected(op string) error {
	return fmt.Errorf("unexpected call to %s", op)
}

func (s *stubOrganizationsAPI) DescribeOrganization(_ context.Context, params *organizations.DescribeOrganizationInput, _ ...func(*organizations.Options)) (*organizations.DescribeOrganizationOutput, error) {
	s.record("DescribeOrganization")
	if s.describeOrganization == nil {
		return nil, errUnexpected("DescribeOrganization")
	}
	return s.describeOrganization(params)
}

func (s *stubOrganizationsAPI) CreateOrganization(_ context.Context, params *organizations.CreateOrganizationInput, _ ...func(*organizations.Options)) (*organizations.CreateOrganizationOutput, error) {
	s.record("CreateOrganization")
	if s.createOrganization == nil {
		return nil, errUnexpected("CreateOrganization")
	}
	return s.createOrganization(params)
}

func (s *stubOrganizationsAPI) DeleteOrganization(_ context.Context, params *organizations.DeleteOrganizationInput, _ ...func(*organizations.Options)) (*organizations.DeleteOrganizationOutput, error) {
	s.record("DeleteOrganization")
	if s.deleteOrganization == nil {
		return nil, errUnexpected("DeleteOrganization")
	}
	return s.deleteOrganization(params)
}

func (s *stubOrganizationsAPI) TagResource(_ context.Context, params *organizations.TagResourceInput, _ ...func(*organizations.Options)) (*organizations.TagResourceOutput, error) {
	s.record("TagResource")
	if s.tagResource == nil {
		return nil, errUnexpected("TagResource")
	}
	return s.tagResource(params)
}

func (s *stubOrganizationsAPI) ListRoots(_ context.Context, params *organizations.ListRootsInput, _ ...func(*organizations.Options)) (*organizations.ListRootsOutput, error) {
	s.record("ListRoots")
	if s.listRoots == nil {
		return nil, errUnexpected("ListRoots")
	}
	return s.listRoots(params)
}

func (s *stubOrganizationsAPI) ListOrganizationalUnitsForParent(_ context.Context, params *organizations.ListOrganizationalUnitsForParentInput, _ ...func(*organizations.Options)) (*organizations.ListOrganizationalUnitsForParentOutput, error) {
	s.record("ListOrganizationalUnitsForParent")
	if s.listOUsForParent == nil {
		return nil, errUnexpected("ListOrganizationalUnitsForParent")
	}
	return s.listOUsForParent(params)
}

func (s *stubOrganizationsAPI) CreateOrganizationalUnit(_ context.Context, params *organizations.CreateOrganizationalUnitInput, _ ...func(*organizations.Options)) (*organizations.CreateOrganizationalUnitOutput, error) {
	s.record("CreateOrganizationalUnit")
	if s.createOU == nil {
		return nil, errUnexpected("CreateOrganizationalUnit")
	}
	return s.createOU(params)
}

func (s *stubOrganizationsAPI) UpdateOrganizationalUnit(_ context.Context, params *organizations.UpdateOrganizationalUnitInput, _ ...func(*organizations.Options)) (*organizations.UpdateOrganizationalUnitOutput, error) {
	s.record("UpdateOrganizationalUnit")
	if s.updateOU == nil {
		return nil, errUnexpected("UpdateOrganizationalUnit")
	}
	return s.updateOU(params)
}

func (s *stubOrganizationsAPI) DeleteOrganizationalUnit(_ context.Context, params *organizations.DeleteOrganizationalUnitInput, _ ...func(*organizations.Options)) (*organizations.DeleteOrganizationalUnitOutput, error) {
	s.record("DeleteOrganizationalUnit")
	if s.deleteOU == nil {
		return nil, errUnexpected("DeleteOrganizationalUnit")
	}
	return s.deleteOU(params)
}

func (s *stubOrganizationsAPI) CreateAccount(_ context.Context, params *organizations.CreateAccountInput, _ ...func(*organizations.Options)) (*organizations.CreateAccountOutput, error) {
	s.record("CreateAccount")
	if s.createAccount == nil {
		return nil, errUnexpected("CreateAccount")
	}
	return s.createAccount(params)
}

func (s *stubOrganizationsAPI) DescribeCreateAccountStatus(_ context.Context, params *organizations.DescribeCreateAccountStatusInput, _ ...func(*organizations.Options)) (*organizations.DescribeCreateAccountStatusOutput, error) {
	s.record("DescribeCreateAccountStatus")
	if s.describeCreateAccountStatus == nil {
		return nil, errUnexpected("DescribeCreateAccountStatus")
	}
	return s.describeCreateAccountStatus(params)
}

func (s *stubOrganizationsAPI) ListAccounts(_ context.Context, params *organizations.ListAccountsInput, _ ...func(*organizations.Options)) (*organizations.ListAccountsOutput, error) {
	s.record("ListAccounts")
	if s.listAccounts == nil {
		return nil, errUnexpected("ListAccounts")
	}
	return s.listAccounts(params)
}

func (s *stubOrganizationsAPI) DescribeAccount(_ context.Context, params *organizations.DescribeAccountInput, _ ...func(*organizations.Options)) (*organizations.DescribeAccountOutput, error) {
	s.record("DescribeAccount")
	if s.describeAccount == nil {
		return nil, errUnexpected("DescribeAccount")
	}
	return s.describeAccount(params)
}

func (s *stubOrganizationsAPI) MoveAccount(_ context.Context, params *organizations.MoveAccountInput, _ ...func(*organizations.Options)) (*organizations.MoveAccountOutput, error) {
	s.record("MoveAccount")
	if s.moveAccount == nil {
		return nil, errUnexpected("MoveAccount")
	}
	return s.moveAccount(params)
}

func (s *stubOrganizationsAPI) CloseAccount(_ context.Context, params *organizations.CloseAccountInput, _ ...func(*organizations.Options)) (*organizations.CloseAccountOutput, error) {
	s.record("CloseAccount")
	if s.closeAccount == nil {
		return nil, errUnexpected("CloseAccount")
	}
	return s.closeAccount(params)
}

func (s *stubOrganizationsAPI) ListParents(_ context.Context, params *organizations.ListParentsInput, _ ...func(*organizations.Options)) (*organizations.ListParentsOutput, error) {
	s.record("ListParents")
	if s.listParents == nil {
		return nil, errUnexpected("ListParents")
	}
	return s.listParents(params)
}
