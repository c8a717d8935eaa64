package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoleMapping(t *testing.T) {
	require.Equal(t, "coadmin", RoleForAdmin(true))
	require.Equal(t, "user", RoleForAdmin(false))
	require.True(t, AdminForRole("coadmin"))
	require.False(t, AdminForRole("user"))
	require.False(t, AdminForRole("owner"))
}

func TestUserFromOAProfileAdmin(t *testing.T) {
	u, err := UserFromOAProfile(map[string]any{
		"email":          "a@acme.com",
		"fullName":       "A A",
		"isAccountAdmin": true,
		"telWork":        "1",
		"addressPostal": map[string]any{
			"streetAddress": "1 Main St",
			"locality":      "Melbourne",
			"region":        "VIC",
			"postalCode":    "3000",
			"countryName":   "Australia",
		},
	})
	require.NoError(t, err)
	require.Equal(t, "a@acme.com", u.Login)
	require.Equal(t, "A A", u.Name)
	require.True(t, u.Admin)
	require.Equal(t, "1", u.Phone)
	require.Equal(t, "1 Main St,Melbourne,VIC,3000,Australia", u.Address)
	require.Equal(t, "en", u.Language)
	require.Equal(t, "Australia/Melbourne", u.Timezone)
}

func TestUserFromOAProfileRegularUserDropsContactDetails(t *testing.T) {
	u, err := UserFromOAProfile(map[string]any{
		"email":          "b@acme.com",
		"fullName":       "B B",
		"isAccountAdmin": false,
		"telWork":        "2",
		"addressPostal":  map[string]any{"streetAddress": "2 Side St"},
	})
	require.NoError(t, err)
	require.False(t, u.Admin)
	require.Empty(t, u.Phone)
	require.Empty(t, u.Address)
}

func TestUserFromOAProfileMissingEmail(t *testing.T) {
	_, err := UserFromOAProfile(map[string]any{"fullName": "A A"})
	require.ErrorContains(t, err, "email")
}

func TestUserWire(t *testing.T) {
	u := &User{
		EnterpriseID: "ent-123",
		Login:        "b@acme.com",
		Name:         "B B",
		Language:     "en",
		Timezone:     "Australia/Melbourne",
	}
	w := u.Wire()

	require.Equal(t, "b@acme.com", w["login"])
	require.Equal(t, "user", w["role"])
	require.Equal(t, map[string]any{"id": "ent-123"}, w["enterprise"])

	for _, key := range []string{"space_amount", "job_title", "phone", "address", "status"} {
		_, present := w[key]
		require.Falsef(t, present, "key %q should be omitted", key)
	}
}

func TestUserMergeCanonical(t *testing.T) {
	u := &User{Login: "b@acme.com", Name: "B B"}
	u.MergeCanonical(map[string]any{
		"id":     float64(42),
		"role":   "coadmin",
		"status": "active",
	})
	require.Equal(t, "42", u.UserID)
	require.True(t, u.Admin)
	require.Equal(t, "active", u.Status)
	require.Equal(t, "b@acme.com", u.Login)
}
