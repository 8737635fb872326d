// Package health serves liveness and readiness probes for long-running processes.
package health

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/Apurer/go-inventory-service/internal/shared/errors"
)

const checkTimeout = 2 * time.Second

// Check reports whether one dependency is usable.
type Check func(ctx context.Context) error

// NewRouter returns a gin engine exposing /healthz, which always answers 200, and
// /readyz, which runs every check and answers 503 listing the failing ones. Unknown
// routes and handler panics are answered with Problem Details.
func NewRouter(serviceName string, checks map[string]Check) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.CustomRecovery(func(c *gin.Context, recovered any) {
			apperrors.RespondError(c, fmt.Errorf("panic serving %s: %v", c.FullPath(), recovered))
		}),
		otelgin.Middleware(serviceName),
	)
	router.NoRoute(func(c *gin.Context) {
		apperrors.RespondError(c, apperrors.NewNotFound("route "+c.Request.URL.Path))
	})
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/readyz", func(c *gin.Context) {
		failures := runChecks(c.Request.Context(), checks)
		if len(failures) > 0 {
			apperrors.Respond(c, apperrors.ErrUnavailableProblem.
				WithDetail("one or more dependencies are not ready").
				WithExtension("checks", failures))
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	return router
}

// runChecks executes all checks concurrently and returns failures keyed by check name.
func runChecks(ctx context.Context, checks map[string]Check) map[string]string {
	var (
		mu       sync.Mutex
		failures = map[string]string{}
		g        errgroup.Group
	)
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		check := checks[name]
		if check == nil {
			continue
		}
		g.Go(func() error {
			checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
			defer cancel()
			if err := check(checkCtx); err != nil {
				mu.Lock()
				failures[name] = err.Error()
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return failures
}

// NewServer wraps the router in an http.Server listening on addr.
func NewServer(addr, serviceName string, checks map[string]Check) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           NewRouter(serviceName, checks),
		ReadHeaderTimeout: 5 * time.Second,
	}
}
