package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func boolPtr(v bool) *bool { return &v }

func TestDealStatusMapping(t *testing.T) {
	require.Equal(t, "trial", DealStatusForTrial(boolPtr(true)))
	require.Equal(t, "live_deal", DealStatusForTrial(boolPtr(false)))
	require.Equal(t, "", DealStatusForTrial(nil))

	require.Equal(t, boolPtr(true), TrialForDealStatus("trial"))
	require.Equal(t, boolPtr(false), TrialForDealStatus("live_deal"))
	require.Nil(t, TrialForDealStatus(nil))
	require.Nil(t, TrialForDealStatus(""))
}

func TestEnterpriseWireIsSparse(t *testing.T) {
	ent := &Enterprise{Name: "Acme-sub555", UsersLimit: 50}
	w := ent.Wire()

	require.Equal(t, "Acme-sub555", w["name"])
	require.Equal(t, 50, w["seats"])

	// Unset optional attributes must be absent, not null.
	for _, key := range []string{"deal_status", "trial_end_at", "plan_code", "billing_cycle", "subdomain", "active_status", "administered_by"} {
		_, present := w[key]
		require.Falsef(t, present, "key %q should be omitted", key)
	}
}

func TestEnterpriseWireTrialAndAdmin(t *testing.T) {
	ent := &Enterprise{
		Name:       "Acme",
		UsersLimit: 10,
		Trial:      boolPtr(true),
		AdministeredBy: &AdminContact{
			Name:  "A A",
			Login: "a@acme.com",
			Phone: "1",
		},
	}
	w := ent.Wire()
	require.Equal(t, "trial", w["deal_status"])

	admin, ok := w["administered_by"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "A A", admin["name"])
	require.Equal(t, "a@acme.com", admin["login"])
	require.Equal(t, "1", admin["phone"])
}

func TestEnterpriseMergeCanonical(t *testing.T) {
	ent := &Enterprise{Name: "Acme-sub555", UsersLimit: 50, PlanCode: "generic_business"}
	ent.MergeCanonical(map[string]any{
		"id":          "ent-123",
		"seats":       float64(50),
		"seats_used":  float64(3),
		"deal_status": "live_deal",
		"administered_by": map[string]any{
			"name":  "A A",
			"login": "a@acme.com",
			"id":    "usr-9",
		},
	})

	require.Equal(t, "ent-123", ent.EnterpriseID)
	require.Equal(t, 50, ent.UsersLimit)
	require.Equal(t, 3, ent.UsersAmount)
	require.Equal(t, boolPtr(false), ent.Trial)
	require.NotNil(t, ent.AdministeredBy)
	require.Equal(t, "usr-9", ent.AdministeredBy.UserID)

	// Fields the canonical record did not mention stay untouched.
	require.Equal(t, "generic_business", ent.PlanCode)
	require.Equal(t, "Acme-sub555", ent.Name)
}
