package authz

// Operation names a permission-gated API operation.
type Operation string

const (
	OpOrganizationView Operation = "organizations.view"
	OpWorkspaceCreate  Operation = "workspaces.create"
	OpWorkspaceEdit    Operation = "workspaces.edit"
	OpExperimentEdit   Operation = "experiments.edit"
	OpExperimentDecide Operation = "experiments.decide"
	OpFunnelEdit       Operation = "funnels.edit"
	OpActivationEdit   Operation = "activations.edit"
	OpAssetEdit        Operation = "assets.edit"
	OpCreatorEdit      Operation = "creators.edit"
	OpReportEdit       Operation = "reports.edit"
	OpReportApprove    Operation = "reports.approve"
	OpStrategyEdit     Operation = "strategy.edit"
	OpChannelEdit      Operation = "channels.edit"
	OpChannelSync      Operation = "channels.sync"
	OpAlertResolve     Operation = "alerts.resolve"
	OpAISuggest        Operation = "ai.suggest"
	OpAICreative       Operation = "ai.creative"
	OpAuditView        Operation = "audit.view"
	OpUserAdmin        Operation = "users.admin"
)

// policy is the single source of truth for which roles may perform which
// operation. Routes reference operations; no role list lives inline in a
// handler.
var policy = map[Operation][]Role{
	OpOrganizationView: {RoleAdmin, RoleGrowthLead},
	OpWorkspaceCreate:  {RoleAdmin},
	OpWorkspaceEdit:    {RoleAdmin, RoleGrowthLead},
	OpExperimentEdit:   {RoleAdmin, RoleGrowthLead, RolePerformance},
	OpExperimentDecide: {RoleAdmin, RoleGrowthLead},
	OpFunnelEdit:       {RoleAdmin, RoleGrowthLead, RoleAnalystOps},
	OpActivationEdit:   {RoleAdmin, RoleGrowthLead, RoleAnalystOps},
	OpAssetEdit:        {RoleAdmin, RoleGrowthLead, RoleCreative},
	OpCreatorEdit:      {RoleAdmin, RoleGrowthLead, RoleCreative},
	OpReportEdit:       {RoleAdmin, RoleGrowthLead, RoleAnalystOps},
	OpReportApprove:    {RoleAdmin, RoleGrowthLead},
	OpStrategyEdit:     {RoleAdmin, RoleGrowthLead},
	OpChannelEdit:      {RoleAdmin, RoleGrowthLead},
	OpChannelSync:      {RoleAdmin, RoleGrowthLead, RolePerformance, RoleAnalystOps},
	OpAlertResolve:     {RoleAdmin, RoleGrowthLead, RolePerformance, RoleAnalystOps},
	OpAISuggest:        {RoleAdmin, RoleGrowthLead},
	OpAICreative:       {RoleAdmin, RoleGrowthLead, RoleCreative},
	OpAuditView:        {RoleAdmin},
	OpUserAdmin:        {RoleAdmin},
}

// AllowedRoles returns the allow-list for an operation. Unknown operations
// return nil, which the gate treats as deny-all.
func AllowedRoles(op Operation) []Role {
	return policy[op]
}
