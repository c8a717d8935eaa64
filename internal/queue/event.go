// Package queue defines message payloads exchanged over the message broker.
package queue

// TenantProvisionedEvent is published after an enterprise is successfully
// created for a tenant. Downstream consumers (billing reconciliation,
// notifications) get enough context to act without calling back into either
// remote system.
type TenantProvisionedEvent struct {
	OATenantID    string `json:"oa_tenant_id"`
	EnterpriseID  string `json:"enterprise_id"`
	Name          string `json:"name"`
	PlanCode      string `json:"plan_code,omitempty"`
	UsersLimit    int    `json:"users_limit,omitempty"`
	AdminLogin    string `json:"admin_login"`
	ProvisionedAt string `json:"provisioned_at"`
}
