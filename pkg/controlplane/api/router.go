package api

import (
	"crypto/ecdsa"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/docrep/docrep/internal/logger"
	"github.com/docrep/docrep/internal/telemetry"
	"github.com/docrep/docrep/pkg/controlplane/api/handlers"
	"github.com/docrep/docrep/pkg/metrics"
	"github.com/docrep/docrep/pkg/repository/models"
	"github.com/docrep/docrep/pkg/repository/service"
	"github.com/docrep/docrep/pkg/session"
)

// NewRouter creates and configures the chi router with all middleware and routes.
//
// The router is configured with:
//   - Request ID middleware for request tracking
//   - Real IP extraction for proper client identification
//   - Custom request logging using the internal logger
//   - Panic recovery to prevent server crashes
//   - Request timeout to prevent hung requests
//
// Routes (all under /api/v1, except the /healthz liveness probe):
//   - POST /auth/organization - Organization bootstrap (plaintext, server-signed echo)
//   - POST /auth/session - Session handshake (client-signed)
//   - GET /organizations/ - Organization list (public)
//   - GET /files/ - Ciphertext blob download by handle (public, server-signed)
//   - POST/DELETE/GET /sessions/roles - Assume, drop, list session roles
//   - GET/PUT /organizations/subjects/state - Subject states, suspend/reactivate
//   - POST /organizations/subjects - Subject creation
//   - GET /organizations/subjects/roles - Roles of a subject
//   - POST /organizations/roles - Role creation
//   - PUT /organizations/roles/{suspend,reactivate} - Role state changes
//   - POST/DELETE/GET /organizations/roles/permissions - Permission grants
//   - POST/DELETE/GET /organizations/roles/subjects - Role membership
//   - GET /organizations/permissions/roles - Roles holding a permission
//   - GET/POST/DELETE /organizations/documents - Document listing, upload, delete
//   - GET /organizations/documents/metadata - Document metadata
//   - POST /organizations/documents/acl - Document ACL mutation
//
// Everything past the handshake travels inside the AEAD session envelope;
// the handlers package owns decapsulation.
func NewRouter(svc *service.Service, registry *session.Registry, serverKey *ecdsa.PrivateKey, m metrics.APIMetrics) http.Handler {
	r := chi.NewRouter()

	// Middleware stack - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestTracing)
	r.Use(requestLogger)
	r.Use(requestMetrics(m))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(middleware.Timeout(30 * time.Second))

	h := handlers.New(svc, registry, serverKey, m)

	r.Get("/healthz", h.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/organization", h.CreateOrganization)
			r.Post("/session", h.CreateSession)
		})

		r.Get("/files", h.GetFile)

		r.Route("/sessions/roles", func(r chi.Router) {
			r.Post("/", h.AssumeRole())
			r.Delete("/", h.DropRole())
			r.Get("/", h.ListSessionRoles())
		})

		r.Route("/organizations", func(r chi.Router) {
			r.Get("/", h.ListOrganizations)

			r.Route("/subjects", func(r chi.Router) {
				r.Post("/", h.CreateSubject())
				r.Get("/state", h.SubjectStates())
				r.Put("/state", h.SetSubjectState())
				r.Get("/roles", h.SubjectRoles())
			})

			r.Route("/roles", func(r chi.Router) {
				r.Post("/", h.CreateRole())
				r.Put("/suspend", h.SetRoleState(models.RoleSuspended))
				r.Put("/reactivate", h.SetRoleState(models.RoleActive))

				r.Post("/permissions", h.AddRolePermission())
				r.Delete("/permissions", h.RemoveRolePermission())
				r.Get("/permissions", h.RolePermissions())

				r.Post("/subjects", h.AddRoleMember())
				r.Delete("/subjects", h.RemoveRoleMember())
				r.Get("/subjects", h.RoleMembers())
			})

			r.Get("/permissions/roles", h.RolesWithPermission())

			r.Route("/documents", func(r chi.Router) {
				r.Get("/", h.ListDocuments())
				r.Post("/", h.CreateDocument())
				r.Delete("/", h.DeleteDocument())
				r.Get("/metadata", h.DocumentMetadata())
				r.Post("/acl", h.ModifyDocumentACL())
			})
		})
	})

	return r
}

// requestMetrics records per-endpoint request counts and latency. The
// endpoint label is the chi route pattern, not the raw path, to keep
// cardinality bounded. A nil APIMetrics disables recording.
func requestMetrics(m metrics.APIMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			endpoint := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					endpoint = pattern
				}
			}
			m.RecordRequest(endpoint, ww.Status(), time.Since(start))
		})
	}
}

// requestTracing wraps each request in a server span. The route pattern is
// only known after routing resolves, so endpoint and status attributes are
// set once the handler returns.
func requestTracing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := telemetry.StartSpan(r.Context(), telemetry.SpanAPIRequest,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(telemetry.ClientAddr(r.RemoteAddr)))
		defer span.End()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		if rctx := chi.RouteContext(ctx); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				span.SetAttributes(telemetry.Endpoint(pattern))
			}
		}
		span.SetAttributes(telemetry.Status(ww.Status()))
		if ww.Status() >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(ww.Status()))
		}
	})
}

// requestLogger is a custom middleware that logs requests using the internal logger.
//
// It logs:
//   - Request start (DEBUG level): method, path, remote addr
//   - Request completion (INFO level): method, path, status, duration
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := middleware.GetReqID(r.Context())

		logger.Debug("API request started",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)

		// Wrap response writer to capture status code
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		duration := time.Since(start)

		fields := []any{
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", duration.String(),
		}
		// Empty when tracing is disabled.
		if traceID := telemetry.TraceID(r.Context()); traceID != "" {
			fields = append(fields, "trace_id", traceID)
		}
		logger.Info("API request completed", fields...)
	})
}
