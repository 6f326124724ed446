// Package axiomguard provides in-process capability access control for
// Go applications built on composable context architectures. It
// classifies capabilities as local or external-service, validates
// role/category compatibility and view observation at call sites, and
// enforces decisions under a configurable violation policy (log, warn,
// block, crash). Every denial is returned as a typed error regardless
// of policy.
//
// Usage:
//
//	ag, err := axiomguard.New(axiomguard.WithPreset("production"))
//	photos := axiomguard.Component{Name: "PhotoContext", Role: axiomguard.RoleContext}
//	if err := ag.RequestCapabilityAccess(photos, "CameraCapability"); err != nil {
//	    // denied: contexts may only use local capabilities
//	}
//
// The SDK links directly against internal packages for zero-subprocess
// overhead. External users import
// github.com/axiomframework/axiomguard/sdk/go/axiomguard.
package axiomguard
