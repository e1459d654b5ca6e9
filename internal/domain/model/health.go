package model

// HealthStatus represents the outcome of a vault health check.
type HealthStatus string

const (
	HealthPassing HealthStatus = "passing"
	HealthWarning HealthStatus = "warning"
	HealthFailing HealthStatus = "failing"
)

// HealthCheck is the result of one named check.
type HealthCheck struct {
	Name   string
	Status HealthStatus
	Detail string
}

// HealthReport aggregates individual checks. Status is the worst status among
// Checks.
type HealthReport struct {
	Checks []HealthCheck
	Status HealthStatus
}
