// Package handlers contains reusable HTTP building blocks for the SkillSwap API.
//
// # Health Checks
//
// The HealthChecker interface allows registering multiple named health checks
// that are executed in parallel:
//
//	checker := handlers.NewCompositeHealthChecker("v1.0.0")
//	checker.AddCheck("postgres", handlers.NewDatabaseCheck(conn))
//	checker.AddCheck("redis", handlers.NewCacheCheck(cache))
//
//	status := checker.Check(ctx)
//	if !status.Healthy {
//	    log.Error("health check failed", logger.String("message", status.Message))
//	}
//
// # Middleware
//
// Middleware is composed with Chain:
//
//	h := handlers.ChainHandler(mux,
//	    handlers.SecurityHeadersMiddleware,
//	    handlers.RequestSizeLimitMiddleware(1<<20),
//	)
package handlers
