package domain

import "time"

// Account kinds carried in token claims. A delegated account never has an
// entitlement of its own; it inherits the owning primary account's.
const (
	KindPrimary   = "PRIMARY"
	KindDelegated = "DELEGATED"
)

// Lifecycle states. "active" records are the only ones visible to login,
// recovery and uniqueness checks; withdrawn/deleted rows are kept for audit.
const (
	StateActive    = "active"
	StateWithdrawn = "withdrawn"
	StateDeleted   = "deleted"
)

// PrimaryAccount is a top-level tenant identity with billing and corporate
// registration attributes. The account id is human-chosen and immutable.
type PrimaryAccount struct {
	AccountID           string     `json:"id" dynamodbav:"account_id"`
	CorpRegNo           string     `json:"corp_reg_no" dynamodbav:"corp_reg_no"`
	BizRegNo            string     `json:"biz_reg_no" dynamodbav:"biz_reg_no"`
	CompanyName         string     `json:"company_name" dynamodbav:"company_name"`
	PasswordHash        string     `json:"-" dynamodbav:"password_hash"`
	Email               string     `json:"email" dynamodbav:"email"`
	MemberType          string     `json:"member_type" dynamodbav:"member_type"`
	BusinessLicenseKey  string     `json:"business_license_key" dynamodbav:"business_license_key"`
	BusinessLicenseName string     `json:"business_license_name" dynamodbav:"business_license_name"`
	ContractFileKey     string     `json:"contract_file_key,omitempty" dynamodbav:"contract_file_key"`
	ContractFileName    string     `json:"contract_file_name,omitempty" dynamodbav:"contract_file_name"`
	ManagerName         string     `json:"manager_name,omitempty" dynamodbav:"manager_name"`
	ManagerPhone        string     `json:"manager_phone,omitempty" dynamodbav:"manager_phone"`
	ResponsibleName     string     `json:"responsible_name,omitempty" dynamodbav:"responsible_name"`
	ResponsiblePhone    string     `json:"responsible_phone,omitempty" dynamodbav:"responsible_phone"`
	Paid                bool       `json:"paid" dynamodbav:"paid"`
	State               string     `json:"state" dynamodbav:"state"`
	JoinedAt            time.Time  `json:"joined_at" dynamodbav:"joined_at"`
	WithdrawnAt         *time.Time `json:"withdrawn_at,omitempty" dynamodbav:"withdrawn_at"`
}

// Active reports whether the account is visible to login and recovery.
func (a *PrimaryAccount) Active() bool { return a.State == StateActive }

// SubAccount is a delegated identity created by and subordinate to a primary
// account. Its id shares the uniqueness namespace with primary account ids.
type SubAccount struct {
	AccountID     string     `json:"id" dynamodbav:"account_id"`
	OwnerID       string     `json:"owner_id" dynamodbav:"owner_id"`
	PasswordHash  string     `json:"-" dynamodbav:"password_hash"`
	Email         string     `json:"email" dynamodbav:"email"`
	ManagerName   string     `json:"manager_name,omitempty" dynamodbav:"manager_name"`
	Department    string     `json:"department,omitempty" dynamodbav:"department"`
	ContactNumber string     `json:"contact_number,omitempty" dynamodbav:"contact_number"`
	Memo          string     `json:"memo,omitempty" dynamodbav:"memo"`
	State         string     `json:"state" dynamodbav:"state"`
	JoinedAt      time.Time  `json:"joined_at" dynamodbav:"joined_at"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty" dynamodbav:"deleted_at"`
}

func (s *SubAccount) Active() bool { return s.State == StateActive }

// Account is the sum of the two physical account kinds behind the shared id
// namespace. Exactly one of Primary/Sub is non-nil.
type Account struct {
	Kind    string
	Primary *PrimaryAccount
	Sub     *SubAccount
}

// ID returns the resolved account's login id regardless of kind.
func (a *Account) ID() string {
	if a.Kind == KindPrimary {
		return a.Primary.AccountID
	}
	return a.Sub.AccountID
}

// MaxActiveSubAccounts caps how many active sub-accounts a primary may own.
const MaxActiveSubAccounts = 10

type RegisterAccountRequest struct {
	AccountID        string `json:"id" validate:"required,min=4,max=50"`
	Password         string `json:"password" validate:"required,min=8,max=72"`
	Email            string `json:"email" validate:"required,email"`
	CorpRegNo        string `json:"corp_reg_no" validate:"required,max=20,regno"`
	BizRegNo         string `json:"biz_reg_no" validate:"required,max=20,regno"`
	CompanyName      string `json:"company_name" validate:"required,max=100"`
	MemberType       string `json:"member_type"`
	ManagerName      string `json:"manager_name"`
	ManagerPhone     string `json:"manager_phone"`
	ResponsibleName  string `json:"responsible_name"`
	ResponsiblePhone string `json:"responsible_phone"`
}

type UpdateAccountRequest struct {
	Email            *string `json:"email" validate:"omitempty,email"`
	ManagerName      *string `json:"manager_name"`
	ManagerPhone     *string `json:"manager_phone"`
	ResponsibleName  *string `json:"responsible_name"`
	ResponsiblePhone *string `json:"responsible_phone"`
}

type CreateSubAccountRequest struct {
	AccountID     string `json:"id" validate:"required,min=4,max=50"`
	Password      string `json:"password" validate:"required,min=8,max=72"`
	Email         string `json:"email" validate:"required,email"`
	ManagerName   string `json:"manager_name"`
	Department    string `json:"department"`
	ContactNumber string `json:"contact_number"`
	Memo          string `json:"memo" validate:"max=4000"`
}
