package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	oresmerrors "github.com/diwise/oresm/pkg/oresm/errors"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/open-policy-agent/opa/rego"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("resource-server/api/authz")

// AllowAll is used when no policy file is configured
const AllowAll string = `
package oresm.authz

default allow := false

allow = response {
    response := {
    }
}
`

type Enticator interface {
	CheckAccess(ctx context.Context, r *http.Request, resource string) error
}

type enticatorImpl struct {
	preparedQuery rego.PreparedEvalQuery
}

// NewAuthenticator prepares a rego module that defines data.oresm.authz.allow.
// A request is allowed when allow evaluates to an object.
func NewAuthenticator(ctx context.Context, policies io.Reader) (Enticator, error) {
	module, err := io.ReadAll(policies)
	if err != nil {
		return nil, fmt.Errorf("unable to read authz policies: %s", err.Error())
	}

	impl := &enticatorImpl{}

	impl.preparedQuery, err = rego.New(
		rego.Query("x = data.oresm.authz.allow"),
		rego.Module("oresm.rego", string(module)),
	).PrepareForEval(ctx)

	if err != nil {
		return nil, err
	}

	return impl, nil
}

func (e *enticatorImpl) CheckAccess(ctx context.Context, r *http.Request, resource string) error {
	var err error

	ctx, span := tracer.Start(ctx, "check-auth")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	token, _ := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")

	input := map[string]any{
		"method":   r.Method,
		"path":     strings.Split(strings.Trim(r.URL.Path, "/"), "/"),
		"token":    token,
		"resource": resource,
	}

	results, err := e.preparedQuery.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		err = fmt.Errorf("opa eval failed: %w", err)
		return err
	}

	if len(results) == 0 {
		err = oresmerrors.NewUnauthorizedError("auth failed: opa query could not be satisfied")
		return err
	}

	binding := results[0].Bindings["x"]

	// a denied request binds a single false
	allowed, ok := binding.(bool)
	if ok && !allowed {
		err = oresmerrors.NewUnauthorizedError("authorization failed")
		return err
	}

	if _, ok = binding.(map[string]any); !ok {
		err = errors.New("opa error: unexpected result type")
		return err
	}

	return nil
}
