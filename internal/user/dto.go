package user

import (
	"net/url"
	"regexp"
	"strings"

	errors "github.com/frahmantamala/contract-portal/internal"
	"github.com/frahmantamala/contract-portal/internal/core/access"
	"github.com/frahmantamala/contract-portal/internal/core/common/validation"
)

const (
	MinPasswordLength       = 8
	TemporaryPasswordLength = 16
)

var (
	panPattern     = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	aadhaarPattern = regexp.MustCompile(`^[0-9]{12}$`)
	phonePattern   = regexp.MustCompile(`^\+?[0-9][0-9 \-]{6,19}$`)

	roleNames = []string{string(access.RoleClient), string(access.RoleEmployee), string(access.RoleAdmin)}
)

type ListFilters struct {
	Search string
	Role   access.Role
}

func ParseListFilters(q url.Values) (ListFilters, *errors.AppError) {
	f := ListFilters{
		Search: strings.TrimSpace(q.Get("search")),
		Role:   access.Role(strings.ToLower(strings.TrimSpace(q.Get("role")))),
	}

	v := validation.NewValidator()
	v.Field("search", f.Search).MaxLength(200)
	v.Field("role", string(f.Role)).OneOf(roleNames, errors.ErrCodeInvalidRole)
	if err := v.Validate(); err != nil {
		return ListFilters{}, err
	}
	return f, nil
}

// identityFields are shared by registration and profile edits.
type identityFields struct {
	Phone         *string `json:"phone,omitempty"`
	CompanyName   *string `json:"company_name,omitempty"`
	Address       *string `json:"address,omitempty"`
	PANNumber     *string `json:"pan_number,omitempty"`
	AadhaarNumber *string `json:"aadhaar_number,omitempty"`
}

func (f *identityFields) normalize() {
	f.Phone = trimmed(f.Phone)
	f.CompanyName = trimmed(f.CompanyName)
	f.Address = trimmed(f.Address)
	if f.PANNumber != nil {
		pan := strings.ToUpper(strings.TrimSpace(*f.PANNumber))
		f.PANNumber = &pan
	}
	if f.AadhaarNumber != nil {
		aadhaar := strings.ReplaceAll(strings.TrimSpace(*f.AadhaarNumber), " ", "")
		f.AadhaarNumber = &aadhaar
	}
}

func (f *identityFields) validate(v *validation.ValidationBuilder) {
	v.Field("phone", f.Phone).Pattern(phonePattern, "digits with an optional leading +", errors.ErrCodeInvalidFormat)
	v.Field("company_name", f.CompanyName).MaxLength(255)
	v.Field("address", f.Address).MaxLength(1000)
	v.Field("pan_number", f.PANNumber).Pattern(panPattern, "the PAN format AAAAA9999A", errors.ErrCodeInvalidFormat)
	v.Field("aadhaar_number", f.AadhaarNumber).Pattern(aadhaarPattern, "12 digits", errors.ErrCodeInvalidFormat)
}

// RegisterUserDTO is used by admins to create accounts of any role.
type RegisterUserDTO struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
	identityFields
}

func (d *RegisterUserDTO) Validate() *errors.AppError {
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.Name = strings.TrimSpace(d.Name)
	d.Role = strings.ToLower(strings.TrimSpace(d.Role))
	d.normalize()

	v := validation.NewValidator()
	v.Field("email", d.Email).Required().Email().MaxLength(255)
	v.Field("name", d.Name).Required().MaxLength(255)
	v.Field("password", d.Password).Required().MinLength(MinPasswordLength).MaxLength(72)
	v.Field("role", d.Role).Required().OneOf(roleNames, errors.ErrCodeInvalidRole)
	d.validate(v)
	return v.Validate()
}

type UpdateRoleDTO struct {
	Role string `json:"role"`
}

func (d *UpdateRoleDTO) Validate() *errors.AppError {
	d.Role = strings.ToLower(strings.TrimSpace(d.Role))

	v := validation.NewValidator()
	v.Field("role", d.Role).Required().OneOf(roleNames, errors.ErrCodeInvalidRole)
	return v.Validate()
}

// UpdateProfileDTO is a self-service partial update. An empty string clears an
// optional field.
type UpdateProfileDTO struct {
	Name *string `json:"name,omitempty"`
	identityFields
}

func (d *UpdateProfileDTO) Validate() *errors.AppError {
	if d.Name != nil {
		name := strings.TrimSpace(*d.Name)
		d.Name = &name
	}
	d.normalize()

	v := validation.NewValidator()
	if d.Name != nil {
		v.Field("name", *d.Name).Required().MaxLength(255)
	}
	d.validate(v)
	return v.Validate()
}

// Apply copies the provided fields onto u.
func (d *UpdateProfileDTO) Apply(u *User) {
	if d.Name != nil {
		u.Name = *d.Name
	}
	u.Phone = merge(u.Phone, d.Phone)
	u.CompanyName = merge(u.CompanyName, d.CompanyName)
	u.Address = merge(u.Address, d.Address)
	u.PANNumber = merge(u.PANNumber, d.PANNumber)
	u.AadhaarNumber = merge(u.AadhaarNumber, d.AadhaarNumber)
}

type ResetPasswordResponse struct {
	UserID            int64  `json:"user_id"`
	TemporaryPassword string `json:"temporary_password"`
}

type ListResponse struct {
	Users []*User `json:"users"`
	Count int     `json:"count"`
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

// merge keeps current when patch is nil and clears the field when patch is empty.
func merge(current, patch *string) *string {
	switch {
	case patch == nil:
		return current
	case *patch == "":
		return nil
	default:
		v := *patch
		return &v
	}
}

func optional(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
