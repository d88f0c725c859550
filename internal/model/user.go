package model

import (
	"strings"
)

// User role constants
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an employee provisioned via SCIM. The directory owns these
// rows; the application only reads them.
type User struct {
	Base
	Email       string  `json:"email" db:"email"`
	Name        string  `json:"name" db:"name"`
	SlackUserID *string `json:"slack_user_id" db:"slack_user_id"`
	Role        string  `json:"role" db:"role"`
	SamlNameID  *string `json:"-" db:"saml_name_id"`
	ExternalID  *string `json:"external_id" db:"external_id"`

	// SCIM Enterprise User schema attributes
	Department     *string `json:"department" db:"department"`
	Division       *string `json:"division" db:"division"`
	JobTitle       *string `json:"job_title" db:"job_title"`
	EmployeeNumber *string `json:"employee_number" db:"employee_number"`
	CostCenter     *string `json:"cost_center" db:"cost_center"`
	Organization   *string `json:"organization" db:"organization"`

	IsActive bool `json:"is_active" db:"is_active"`

	Setting *NotificationSetting `json:"notification_setting,omitempty" db:"-"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// attributeColumns maps a normalized target attribute key to its users table
// column. The key set is fixed to the SCIM enterprise attributes we sync.
var attributeColumns = map[string]string{
	"department":     "department",
	"division":       "division",
	"jobtitle":       "job_title",
	"employeenumber": "employee_number",
	"costcenter":     "cost_center",
	"organization":   "organization",
}

// AttributeColumn resolves a target attribute key (case-insensitive) to the
// backing column. ok is false for keys outside the recognized set.
func AttributeColumn(key string) (string, bool) {
	col, ok := attributeColumns[strings.ToLower(strings.TrimSpace(key))]
	return col, ok
}

// AttributeKeys lists the recognized target attribute keys in their
// canonical form.
func AttributeKeys() []string {
	return []string{"department", "division", "jobTitle", "employeeNumber", "costCenter", "organization"}
}

// UserFilters represents user search parameters for the admin listing.
type UserFilters struct {
	SearchTerm string `json:"search_term" form:"search_term"`
	ActiveOnly bool   `json:"active_only" form:"active_only"`
}
