package model

// Enterprise represents a tenant's account on the storage provider. The
// provider calls this record an "enterprise"; the control plane sees it as a
// tenant. EnterpriseID stays empty until the first successful create and is
// immutable afterwards.
//
// Fields:
//  Name           – display name shown in the provider console.
//  UsersAmount    – seats in use; read-only, populated from provider reads.
//  UsersLimit     – seat limit sold with the subscription.
//  EnterpriseID   – provider-assigned identifier.
//  PlanCode       – provider plan code mapped from the OA tenant type.
//  BillingCycle   – e.g. "monthly".
//  Subdomain      – optional vanity subdomain.
//  Trial          – nil when the deal status is unknown.
//  TrialEndAt     – end of the trial period, provider time format.
//  AdministeredBy – the user anchoring the enterprise; required at creation.
//  ActiveStatus   – "deactivated" marks a soft-deleted enterprise.
type Enterprise struct {
	Name           string
	UsersAmount    int
	UsersLimit     int
	EnterpriseID   string
	PlanCode       string
	BillingCycle   string
	Subdomain      string
	Trial          *bool
	TrialEndAt     string
	AdministeredBy *AdminContact
	ActiveStatus   string
}

// AdminContact is the nested administrator block the provider round-trips on
// enterprise records.
type AdminContact struct {
	Name   string
	Phone  string
	Login  string
	UserID string
}

// StatusDeactivated is the active_status value the provider uses for
// soft-deleted enterprises. Enterprises are never hard-deleted.
const StatusDeactivated = "deactivated"

// DefaultBillingCycle is sent on every enterprise write. The reseller
// agreement bills monthly; leaving the field out would let the provider pick
// its own default.
const DefaultBillingCycle = "monthly"

// Provider deal-status values. The local model keeps a tri-state bool
// instead: true for trial, false for a live deal, nil when unknown.
const (
	DealStatusTrial = "trial"
	DealStatusLive  = "live_deal"
)

// DealStatusForTrial maps the trial flag to the provider's textual
// enumeration. Unknown (nil) maps to the empty string, which the sparse wire
// format then omits.
func DealStatusForTrial(trial *bool) string {
	switch {
	case trial == nil:
		return ""
	case *trial:
		return DealStatusTrial
	default:
		return DealStatusLive
	}
}

// TrialForDealStatus maps a provider deal-status value back to the trial
// flag. A missing or null value yields nil (unknown); any non-"trial" string
// is a live deal.
func TrialForDealStatus(v any) *bool {
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}
	t := s == DealStatusTrial
	return &t
}

// Wire builds the outbound payload for the enterprise. Only non-empty fields
// are included: the provider treats present keys as updates, so unset
// optional attributes must be omitted rather than sent as nulls.
func (e *Enterprise) Wire() map[string]any {
	w := map[string]any{}
	putString(w, "name", e.Name)
	if e.UsersLimit > 0 {
		w["seats"] = e.UsersLimit
	}
	putString(w, "deal_status", DealStatusForTrial(e.Trial))
	putString(w, "trial_end_at", e.TrialEndAt)
	putString(w, "plan_code", e.PlanCode)
	putString(w, "billing_cycle", e.BillingCycle)
	putString(w, "subdomain", e.Subdomain)
	putString(w, "active_status", e.ActiveStatus)
	if e.AdministeredBy != nil {
		admin := map[string]any{
			"name":  e.AdministeredBy.Name,
			"login": e.AdministeredBy.Login,
		}
		putString(admin, "phone", e.AdministeredBy.Phone)
		w["administered_by"] = admin
	}
	return w
}

// MergeCanonical overwrites local fields with the values present in a
// canonical provider record, leaving fields the record does not mention
// untouched. It runs after create and refresh so local state always matches
// what the server stored, including the generated identifier.
func (e *Enterprise) MergeCanonical(rec map[string]any) {
	if v, ok := rec["id"]; ok {
		e.EnterpriseID = AsString(v)
	}
	if v, ok := rec["name"]; ok {
		e.Name = AsString(v)
	}
	if v, ok := rec["seats_used"]; ok {
		e.UsersAmount = AsInt(v)
	}
	if v, ok := rec["seats"]; ok {
		e.UsersLimit = AsInt(v)
	}
	if v, ok := rec["deal_status"]; ok {
		e.Trial = TrialForDealStatus(v)
	}
	if v, ok := rec["trial_end_at"]; ok {
		e.TrialEndAt = AsString(v)
	}
	if v, ok := rec["plan_code"]; ok {
		e.PlanCode = AsString(v)
	}
	if v, ok := rec["billing_cycle"]; ok {
		e.BillingCycle = AsString(v)
	}
	if v, ok := rec["subdomain"]; ok {
		e.Subdomain = AsString(v)
	}
	if v, ok := rec["active_status"]; ok {
		e.ActiveStatus = AsString(v)
	}
	if v, ok := rec["administered_by"]; ok {
		if m, ok := v.(map[string]any); ok {
			admin := &AdminContact{
				Name:  AsString(m["name"]),
				Phone: AsString(m["phone"]),
				Login: AsString(m["login"]),
			}
			if id, ok := m["id"]; ok {
				admin.UserID = AsString(id)
			}
			e.AdministeredBy = admin
		}
	}
}
