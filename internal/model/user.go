package model

import "fmt"

// User represents an individual account on the storage provider, scoped to
// exactly one enterprise. UserID stays empty until creation succeeds.
type User struct {
	EnterpriseID string // owning enterprise, sent as a nested reference
	Login        string // email, unique provider-wide
	Name         string
	Admin        bool  // maps to the provider role string
	SpaceAmount  int64 // storage quota in bytes; 0 means provider default
	Language     string
	JobTitle     string
	Phone        string
	Address      string
	Timezone     string
	Status       string
	UserID       string // provider-assigned identifier
}

// Provider role strings. The local model keeps a plain bool.
const (
	RoleCoadmin = "coadmin"
	RoleUser    = "user"
)

// Defaults applied to every user the connector provisions.
const (
	defaultLanguage = "en"
	defaultTimezone = "Australia/Melbourne"
)

// RoleForAdmin maps the admin flag to the provider role string.
func RoleForAdmin(admin bool) string {
	if admin {
		return RoleCoadmin
	}
	return RoleUser
}

// AdminForRole maps a provider role string back to the admin flag. Anything
// other than "coadmin" is a regular user.
func AdminForRole(role string) bool {
	return role == RoleCoadmin
}

// UserFromOAProfile builds a provider user from an OA user resource. Admins
// carry their work phone and a single-line postal address over to the
// provider; regular users get neither. A resource without an email or full
// name cannot be provisioned and is reported as a mapping error.
func UserFromOAProfile(oaUser map[string]any) (User, error) {
	email := AsString(oaUser["email"])
	if email == "" {
		return User{}, fmt.Errorf("model: email missing in OA user resource")
	}
	name := AsString(oaUser["fullName"])
	if name == "" {
		return User{}, fmt.Errorf("model: fullName missing in OA user resource")
	}
	admin, _ := oaUser["isAccountAdmin"].(bool)

	u := User{
		Login:    email,
		Name:     name,
		Admin:    admin,
		Language: defaultLanguage,
		Timezone: defaultTimezone,
	}
	if admin {
		u.Phone = AsString(oaUser["telWork"])
		if postal, ok := oaUser["addressPostal"].(map[string]any); ok {
			u.Address = formatPostalAddress(postal)
		}
	}
	return u, nil
}

// formatPostalAddress flattens an OA postal address into the single string
// field the provider stores.
func formatPostalAddress(postal map[string]any) string {
	return fmt.Sprintf("%s,%s,%s,%s,%s",
		AsString(postal["streetAddress"]),
		AsString(postal["locality"]),
		AsString(postal["region"]),
		AsString(postal["postalCode"]),
		AsString(postal["countryName"]))
}

// Wire builds the outbound payload for the user. The role is always sent
// (both values are meaningful); optional fields are omitted when empty, and
// the owning enterprise rides along as a nested id reference.
func (u *User) Wire() map[string]any {
	w := map[string]any{
		"login": u.Login,
		"name":  u.Name,
		"role":  RoleForAdmin(u.Admin),
	}
	if u.SpaceAmount > 0 {
		w["space_amount"] = u.SpaceAmount
	}
	putString(w, "language", u.Language)
	putString(w, "job_title", u.JobTitle)
	putString(w, "phone", u.Phone)
	putString(w, "address", u.Address)
	putString(w, "timezone", u.Timezone)
	putString(w, "status", u.Status)
	if u.EnterpriseID != "" {
		w["enterprise"] = map[string]any{"id": u.EnterpriseID}
	}
	return w
}

// MergeCanonical overwrites local fields with the values present in a
// canonical provider record, leaving the rest untouched.
func (u *User) MergeCanonical(rec map[string]any) {
	if v, ok := rec["id"]; ok {
		u.UserID = AsString(v)
	}
	if v, ok := rec["login"]; ok {
		u.Login = AsString(v)
	}
	if v, ok := rec["name"]; ok {
		u.Name = AsString(v)
	}
	if v, ok := rec["role"]; ok {
		u.Admin = AdminForRole(AsString(v))
	}
	if v, ok := rec["space_amount"]; ok {
		u.SpaceAmount = int64(AsInt(v))
	}
	if v, ok := rec["language"]; ok {
		u.Language = AsString(v)
	}
	if v, ok := rec["job_title"]; ok {
		u.JobTitle = AsString(v)
	}
	if v, ok := rec["phone"]; ok {
		u.Phone = AsString(v)
	}
	if v, ok := rec["address"]; ok {
		u.Address = AsString(v)
	}
	if v, ok := rec["timezone"]; ok {
		u.Timezone = AsString(v)
	}
	if v, ok := rec["status"]; ok {
		u.Status = AsString(v)
	}
	if v, ok := rec["enterprise"]; ok {
		if m, ok := v.(map[string]any); ok {
			if id, ok := m["id"]; ok {
				u.EnterpriseID = AsString(id)
			}
		}
	}
}
