package cnst

// Keys under which the session store persists per-browser state. Token and
// tenant are written together by login and cleared together by logout;
// pending-plan keys are cleared individually once consumed.
const (
	KeyToken        = "token"
	KeyTenant       = "tenant"
	KeyPendingPlan  = "pending_plan"
	KeyPendingCycle = "pending_cycle"
)

// Redis cluster types for the session store and preview relay
const (
	RedisClusterTypeSingle   = "single"
	RedisClusterTypeSentinel = "sentinel"
	RedisClusterTypeCluster  = "cluster"
)
