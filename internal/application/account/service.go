package account

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/staHong/user-auth-account-system/internal/domain"
	"github.com/staHong/user-auth-account-system/internal/pkg/id"
	"github.com/staHong/user-auth-account-system/internal/pkg/password"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldEmail            = "email"
	fieldManagerName      = "manager_name"
	fieldManagerPhone     = "manager_phone"
	fieldResponsibleName  = "responsible_name"
	fieldResponsiblePhone = "responsible_phone"
	fieldPasswordHash     = "password_hash"
)

// FindIDOutcome is the result of an account-id recovery attempt. Mismatch
// outcomes name the failing field so the client can tell the user which
// input to re-enter.
type FindIDOutcome string

const (
	// FindIDSent means a matching account was found and its id was emailed.
	FindIDSent FindIDOutcome = "SENT"
	// FindIDCorpRegNoMismatch means the corporate registration number does
	// not match any active account, or not the one the email resolves to.
	FindIDCorpRegNoMismatch FindIDOutcome = "CORP_REG_NO_MISMATCH"
	// FindIDBizRegNoMismatch is the same for the business registration
	// number.
	FindIDBizRegNoMismatch FindIDOutcome = "BIZ_REG_NO_MISMATCH"
	// FindIDNoMatch means the email does not belong to any active account.
	FindIDNoMatch FindIDOutcome = "NO_MATCH"
)

// FileInput is a document handed in with a registration request.
type FileInput struct {
	Name    string
	Size    int64
	Content io.Reader
}

// LoginResult carries the signed token plus the resolved identity.
type LoginResult struct {
	Token   string          `json:"token"`
	Account *domain.Account `json:"-"`
}

type Service interface {
	Register(ctx context.Context, req domain.RegisterAccountRequest, license, contract *FileInput) (*domain.PrimaryAccount, error)
	Login(ctx context.Context, accountID, plainPassword string) (*LoginResult, error)
	FindID(ctx context.Context, corpRegNo, bizRegNo, email string) (FindIDOutcome, error)
	ResetPassword(ctx context.Context, accountID, email, newPassword string) error
	LookupEmailByID(ctx context.Context, accountID string) (string, error)
	Get(ctx context.Context, accountID string) (*domain.Account, error)
	Update(ctx context.Context, accountID string, req domain.UpdateAccountRequest) (*domain.PrimaryAccount, error)
	Withdraw(ctx context.Context, accountID string) error
}

type accountStore interface {
	Put(ctx context.Context, a *domain.PrimaryAccount) error
	GetActive(ctx context.Context, accountID string) (*domain.PrimaryAccount, error)
	GetActiveByEmail(ctx context.Context, email string) (*domain.PrimaryAccount, error)
	ExistsActiveByCorpRegNo(ctx context.Context, corpRegNo string) (bool, error)
	ExistsActiveByBizRegNo(ctx context.Context, bizRegNo string) (bool, error)
	Update(ctx context.Context, accountID string, updates map[string]interface{}) error
	Withdraw(ctx context.Context, accountID string, at time.Time) error
}

type subAccountStore interface {
	GetActive(ctx context.Context, accountID string) (*domain.SubAccount, error)
	GetActiveByEmail(ctx context.Context, email string) (*domain.SubAccount, error)
	ListActiveByOwner(ctx context.Context, ownerID string) ([]domain.SubAccount, error)
	Update(ctx context.Context, accountID string, updates map[string]interface{}) error
	SoftDelete(ctx context.Context, accountID string, at time.Time) error
}

type accountResolver interface {
	Resolve(ctx context.Context, accountID string) (*domain.Account, error)
	IDExists(ctx context.Context, accountID string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

type tokenSigner interface {
	Sign(accountID string, paid bool, kind string) (string, error)
}

type mailer interface {
	SendEmail(to, subject, htmlBody string) error
}

type objectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

type service struct {
	accounts      accountStore
	subs          subAccountStore
	resolver      accountResolver
	jwtProvider   tokenSigner
	mailer        mailer
	objects       objectStore
	findIDSubject string
}

type ServiceDeps struct {
	AccountRepo    accountStore
	SubAccountRepo subAccountStore
	Resolver       accountResolver
	JWTProvider    tokenSigner
	Mailer         mailer
	ObjectStore    objectStore
	FindIDSubject  string
}

func NewService(deps ServiceDeps) Service {
	return &service{
		accounts:      deps.AccountRepo,
		subs:          deps.SubAccountRepo,
		resolver:      deps.Resolver,
		jwtProvider:   deps.JWTProvider,
		mailer:        deps.Mailer,
		objects:       deps.ObjectStore,
		findIDSubject: deps.FindIDSubject,
	}
}

// Register creates a primary account. The id and email must be unused across
// both the primary and sub-account namespaces, and a business license
// document is mandatory. Uploaded documents are deleted again if the record
// write fails.
func (s *service) Register(ctx context.Context, req domain.RegisterAccountRequest, license, contract *FileInput) (*domain.PrimaryAccount, error) {
	if license == nil {
		return nil, fmt.Errorf("business license file is required: %w", domain.ErrBadRequest)
	}
	if err := validateDocument(license); err != nil {
		return nil, err
	}
	if contract != nil {
		if err := validateDocument(contract); err != nil {
			return nil, err
		}
	}
	taken, err := s.resolver.IDExists(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("account id already taken: %w", domain.ErrConflict)
	}
	taken, err = s.resolver.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	a := &domain.PrimaryAccount{
		AccountID:        req.AccountID,
		CorpRegNo:        req.CorpRegNo,
		BizRegNo:         req.BizRegNo,
		CompanyName:      req.CompanyName,
		PasswordHash:     hash,
		Email:            req.Email,
		MemberType:       req.MemberType,
		ManagerName:      req.ManagerName,
		ManagerPhone:     req.ManagerPhone,
		ResponsibleName:  req.ResponsibleName,
		ResponsiblePhone: req.ResponsiblePhone,
		Paid:             false,
		State:            domain.StateActive,
		JoinedAt:         time.Now().UTC(),
	}

	var uploaded []string
	a.BusinessLicenseName = path.Base(license.Name)
	a.BusinessLicenseKey, err = s.uploadDocument(ctx, "licenses", req.AccountID, license)
	if err != nil {
		return nil, err
	}
	uploaded = append(uploaded, a.BusinessLicenseKey)

	if contract != nil {
		a.ContractFileName = path.Base(contract.Name)
		a.ContractFileKey, err = s.uploadDocument(ctx, "contracts", req.AccountID, contract)
		if err != nil {
			s.deleteObjects(ctx, uploaded)
			return nil, err
		}
		uploaded = append(uploaded, a.ContractFileKey)
	}

	if err := s.accounts.Put(ctx, a); err != nil {
		s.deleteObjects(ctx, uploaded)
		return nil, err
	}
	return a, nil
}

// Login authenticates against the primary namespace first, then the
// sub-account one. A delegated login carries the owning account's paid flag
// in its token, never its own.
func (s *service) Login(ctx context.Context, accountID, plainPassword string) (*LoginResult, error) {
	a, err := s.resolver.Resolve(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("unknown account id: %w", domain.ErrNotFound)
	}

	switch a.Kind {
	case domain.KindPrimary:
		if !password.Verify(plainPassword, a.Primary.PasswordHash) {
			return nil, fmt.Errorf("wrong password: %w", domain.ErrInvalidCredential)
		}
		token, err := s.jwtProvider.Sign(a.Primary.AccountID, a.Primary.Paid, domain.KindPrimary)
		if err != nil {
			return nil, err
		}
		return &LoginResult{Token: token, Account: a}, nil
	default:
		if !password.Verify(plainPassword, a.Sub.PasswordHash) {
			return nil, fmt.Errorf("wrong password: %w", domain.ErrInvalidCredential)
		}
		owner, err := s.accounts.GetActive(ctx, a.Sub.OwnerID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("owning account withdrawn: %w", domain.ErrUnauthorized)
			}
			return nil, err
		}
		token, err := s.jwtProvider.Sign(a.Sub.AccountID, owner.Paid, domain.KindDelegated)
		if err != nil {
			return nil, err
		}
		return &LoginResult{Token: token, Account: a}, nil
	}
}

// FindID recovers a forgotten account id. Both registration numbers must
// be known, and the email must belong to an account whose company record
// carries exactly those numbers (directly, or through a sub-account's
// owner). A mismatch outcome names the first field that failed. The id
// itself is only ever delivered by email, never in the response.
func (s *service) FindID(ctx context.Context, corpRegNo, bizRegNo, email string) (FindIDOutcome, error) {
	corpKnown, err := s.accounts.ExistsActiveByCorpRegNo(ctx, corpRegNo)
	if err != nil {
		return "", err
	}
	if !corpKnown {
		return FindIDCorpRegNoMismatch, nil
	}
	bizKnown, err := s.accounts.ExistsActiveByBizRegNo(ctx, bizRegNo)
	if err != nil {
		return "", err
	}
	if !bizKnown {
		return FindIDBizRegNoMismatch, nil
	}

	accountID, outcome, err := s.matchIDByCompanyEmail(ctx, corpRegNo, bizRegNo, email)
	if err != nil {
		return "", err
	}
	if accountID == "" {
		return outcome, nil
	}

	body := fmt.Sprintf("<p>Your account id is <strong>%s</strong>.</p>", accountID)
	if err := s.mailer.SendEmail(email, s.findIDSubject, body); err != nil {
		return "", fmt.Errorf("send account id email: %v: %w", err, domain.ErrDeliveryFailure)
	}
	return FindIDSent, nil
}

// companyMismatch compares both registration numbers of a resolved record,
// reporting the first that differs. Both must match exactly.
func companyMismatch(p *domain.PrimaryAccount, corpRegNo, bizRegNo string) FindIDOutcome {
	if p.CorpRegNo != corpRegNo {
		return FindIDCorpRegNoMismatch
	}
	if p.BizRegNo != bizRegNo {
		return FindIDBizRegNoMismatch
	}
	return ""
}

func (s *service) matchIDByCompanyEmail(ctx context.Context, corpRegNo, bizRegNo, email string) (string, FindIDOutcome, error) {
	p, err := s.accounts.GetActiveByEmail(ctx, email)
	if err == nil {
		if out := companyMismatch(p, corpRegNo, bizRegNo); out != "" {
			return "", out, nil
		}
		return p.AccountID, "", nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return "", "", err
	}

	// The email may belong to a sub-account; the company check then runs
	// against its owner.
	sub, err := s.subs.GetActiveByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", FindIDNoMatch, nil
		}
		return "", "", err
	}
	owner, err := s.accounts.GetActive(ctx, sub.OwnerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", FindIDNoMatch, nil
		}
		return "", "", err
	}
	if out := companyMismatch(owner, corpRegNo, bizRegNo); out != "" {
		return "", out, nil
	}
	return sub.AccountID, "", nil
}

// ResetPassword replaces the password of the account matching both the id
// and the email exactly, primary namespace first.
func (s *service) ResetPassword(ctx context.Context, accountID, email, newPassword string) error {
	hash, err := password.Hash(newPassword)
	if err != nil {
		return err
	}

	p, err := s.accounts.GetActive(ctx, accountID)
	if err == nil {
		if p.Email != email {
			return fmt.Errorf("id and email do not match: %w", domain.ErrNotFound)
		}
		return s.accounts.Update(ctx, accountID, map[string]interface{}{fieldPasswordHash: hash})
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	sub, err := s.subs.GetActive(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("unknown account id: %w", domain.ErrNotFound)
		}
		return err
	}
	if sub.Email != email {
		return fmt.Errorf("id and email do not match: %w", domain.ErrNotFound)
	}
	return s.subs.Update(ctx, accountID, map[string]interface{}{fieldPasswordHash: hash})
}

// LookupEmailByID returns the email on file for an account id, used to
// address the verification code during credential recovery.
func (s *service) LookupEmailByID(ctx context.Context, accountID string) (string, error) {
	a, err := s.resolver.Resolve(ctx, accountID)
	if err != nil {
		return "", err
	}
	if a == nil {
		return "", fmt.Errorf("unknown account id: %w", domain.ErrNotFound)
	}
	if a.Kind == domain.KindPrimary {
		return a.Primary.Email, nil
	}
	return a.Sub.Email, nil
}

func (s *service) Get(ctx context.Context, accountID string) (*domain.Account, error) {
	a, err := s.resolver.Resolve(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("unknown account id: %w", domain.ErrNotFound)
	}
	return a, nil
}

// Update applies my-page changes to a primary account. The id, registration
// numbers and uploaded documents are immutable here.
func (s *service) Update(ctx context.Context, accountID string, req domain.UpdateAccountRequest) (*domain.PrimaryAccount, error) {
	updates := map[string]interface{}{}
	if req.Email != nil {
		current, err := s.accounts.GetActive(ctx, accountID)
		if err != nil {
			return nil, err
		}
		if *req.Email != current.Email {
			taken, err := s.resolver.EmailExists(ctx, *req.Email)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
			}
			updates[fieldEmail] = *req.Email
		}
	}
	if req.ManagerName != nil {
		updates[fieldManagerName] = *req.ManagerName
	}
	if req.ManagerPhone != nil {
		updates[fieldManagerPhone] = *req.ManagerPhone
	}
	if req.ResponsibleName != nil {
		updates[fieldResponsibleName] = *req.ResponsibleName
	}
	if req.ResponsiblePhone != nil {
		updates[fieldResponsiblePhone] = *req.ResponsiblePhone
	}
	if len(updates) == 0 {
		return s.accounts.GetActive(ctx, accountID)
	}
	if err := s.accounts.Update(ctx, accountID, updates); err != nil {
		return nil, err
	}
	return s.accounts.GetActive(ctx, accountID)
}

// Withdraw marks the primary account withdrawn, then soft-deletes every
// active sub-account it owns. Sub-account failures are collected rather than
// aborting: the primary stays withdrawn either way and a retry can finish
// the stragglers.
func (s *service) Withdraw(ctx context.Context, accountID string) error {
	// UpdateItem upserts, so withdrawing an unknown id would otherwise
	// materialize a phantom row.
	if _, err := s.accounts.GetActive(ctx, accountID); err != nil {
		return err
	}
	now := time.Now().UTC()
	if err := s.accounts.Withdraw(ctx, accountID, now); err != nil {
		return err
	}
	subs, err := s.subs.ListActiveByOwner(ctx, accountID)
	if err != nil {
		return fmt.Errorf("list sub-accounts for cascade: %w", err)
	}
	var errs error
	for _, sub := range subs {
		if err := s.subs.SoftDelete(ctx, sub.AccountID, now); err != nil {
			errs = errors.Join(errs, fmt.Errorf("delete sub-account %s: %w", sub.AccountID, err))
		}
	}
	if errs != nil {
		slog.Warn("cascade withdrawal left sub-accounts behind", "account_id", accountID, "err", errs)
	}
	return errs
}

// Registration documents are scans or exports, so only image and PDF
// formats are accepted, capped at 10MB.
const maxDocumentSize = 10 << 20

var allowedDocumentExtensions = map[string]bool{
	".pdf": true, ".png": true, ".jpeg": true, ".jpg": true,
}

func validateDocument(f *FileInput) error {
	ext := strings.ToLower(path.Ext(f.Name))
	if !allowedDocumentExtensions[ext] {
		return fmt.Errorf("document type %q not allowed: %w", ext, domain.ErrBadRequest)
	}
	if f.Size > maxDocumentSize {
		return fmt.Errorf("document %q exceeds the 10MB limit: %w", f.Name, domain.ErrBadRequest)
	}
	return nil
}

func (s *service) uploadDocument(ctx context.Context, prefix, accountID string, f *FileInput) (string, error) {
	safeName := path.Base(f.Name)
	key := fmt.Sprintf("%s/%s/%s_%s", prefix, accountID, id.New(), safeName)
	return s.objects.Upload(ctx, key, f.Content, contentTypeFromName(safeName))
}

func (s *service) deleteObjects(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.objects.Delete(ctx, key); err != nil {
			slog.Warn("failed to clean up uploaded document", "key", key, "err", err)
		}
	}
}

func contentTypeFromName(filename string) string {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".jpg") || strings.HasSuffix(lower, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(lower, ".png"):
		return "image/png"
	case strings.HasSuffix(lower, ".pdf"):
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
