package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"aidanwoods.dev/go-paseto/v2"
	"github.com/getkin/kin-openapi/openapi3filter"

	"github.com/architeacher/svc-trip-planner/internal/config"
	"github.com/architeacher/svc-trip-planner/internal/domain"
	"github.com/architeacher/svc-trip-planner/internal/infrastructure"
	"github.com/architeacher/svc-trip-planner/internal/ports"
)

const (
	bearerSecurityScheme = "bearerAuth"
	bearerPrefix         = "Bearer "

	subjectKey contextKey = "auth_subject"
)

var (
	errMissingToken  = errors.New("missing bearer token")
	errInvalidIssuer = errors.New("token issuer is not trusted")
)

// tokenVerifier checks v4.public PASETO tokens against the current public key.
type tokenVerifier struct {
	cfg        config.AuthConfig
	keyService ports.KeyService
}

func (v tokenVerifier) verify(ctx context.Context, header string) (string, error) {
	tainted, ok := strings.CutPrefix(header, bearerPrefix)
	if !ok || strings.TrimSpace(tainted) == "" {
		return "", errMissingToken
	}

	key, err := v.keyService.GetPublicKey(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get verification key: %w", err)
	}

	parser := paseto.NewParser()
	parser.AddRule(func(token paseto.Token) error {
		issuer, err := token.GetIssuer()
		if err != nil {
			return err
		}

		if !slices.Contains(v.cfg.ValidIssuers, issuer) {
			return fmt.Errorf("%w: %q", errInvalidIssuer, issuer)
		}

		return nil
	})

	token, err := parser.ParseV4Public(key, strings.TrimSpace(tainted), nil)
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	subject, _ := token.GetSubject()

	return subject, nil
}

// PasetoAuthMiddleware guards every route outside AuthConfig.SkipPaths.
type PasetoAuthMiddleware struct {
	verifier tokenVerifier
	logger   infrastructure.Logger
}

func NewPasetoAuthMiddleware(
	cfg config.AuthConfig,
	logger infrastructure.Logger,
	keyService ports.KeyService,
) *PasetoAuthMiddleware {
	return &PasetoAuthMiddleware{
		verifier: tokenVerifier{cfg: cfg, keyService: keyService},
		logger:   logger,
	}
}

func (m *PasetoAuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.verifier.cfg.Enabled || slices.Contains(m.verifier.cfg.SkipPaths, r.URL.Path) {
			next.ServeHTTP(w, r)

			return
		}

		subject, err := m.verifier.verify(r.Context(), r.Header.Get("Authorization"))
		if err != nil {
			m.logger.Warn().Err(err).Str("path", r.URL.Path).Msg("request rejected by authentication")

			domainErr := domain.NewUnauthorizedError("Missing or invalid credentials")
			writeError(w, domainErr.StatusCode, domainErr.Code, domainErr.Message)

			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), subjectKey, subject)))
	})
}

// NewPasetoAuthenticationFunc verifies bearerAuth requirements declared in the
// API document while requests are validated.
func NewPasetoAuthenticationFunc(
	cfg config.AuthConfig,
	logger infrastructure.Logger,
	keyService ports.KeyService,
) openapi3filter.AuthenticationFunc {
	verifier := tokenVerifier{cfg: cfg, keyService: keyService}

	return func(ctx context.Context, input *openapi3filter.AuthenticationInput) error {
		if !cfg.Enabled {
			return nil
		}

		if input.SecuritySchemeName != bearerSecurityScheme {
			return fmt.Errorf("unsupported security scheme %q", input.SecuritySchemeName)
		}

		req := input.RequestValidationInput.Request

		// Already verified by PasetoAuthMiddleware.
		if _, ok := SubjectFromContext(req.Context()); ok {
			return nil
		}

		if _, err := verifier.verify(ctx, req.Header.Get("Authorization")); err != nil {
			logger.Debug().Err(err).Str("path", req.URL.Path).Msg("bearer token rejected")

			return errors.Join(domain.ErrUnauthorized, err)
		}

		return nil
	}
}

// SubjectFromContext returns the subject of the verified token, if any.
func SubjectFromContext(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(subjectKey).(string)

	return subject, ok
}
