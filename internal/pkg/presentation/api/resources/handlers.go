package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/diwise/oresm/internal/pkg/application/resources"
	"github.com/diwise/oresm/internal/pkg/presentation/api/auth"
	oresmerrors "github.com/diwise/oresm/pkg/oresm/errors"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("resource-server/api")

const (
	TraceAttributeResource string = "resource"
	TraceAttributeRecordID string = "record-id"
)

// RegisterHandlers serves {prefix}/{resource} and {prefix}/{resource}/{id}.
// Every request is checked against the rego policies before it reaches the repository.
func RegisterHandlers(ctx context.Context, r chi.Router, prefix string, policies io.Reader, repo resources.Repository) error {

	authenticator, err := auth.NewAuthenticator(ctx, policies)
	if err != nil {
		return fmt.Errorf("failed to create api authenticator: %w", err)
	}

	routes := func(r chi.Router) {
		r.Use(
			Logger(logging.GetFromContext(ctx)),
			RequiredContentTypes([]string{"application/json"}),
		)

		r.Route("/{resource}", func(r chi.Router) {
			r.Get("/", NewListHandler(repo, authenticator))
			r.Post("/", NewCreateHandler(repo, authenticator))

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", NewRetrieveHandler(repo, authenticator))
				r.Put("/", NewReplaceHandler(repo, authenticator))
				r.Patch("/", NewMergeHandler(repo, authenticator))
				r.Delete("/", NewDeleteHandler(repo, authenticator))
			})
		})
	}

	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		r.Group(routes)
		return nil
	}

	r.Route("/"+prefix, routes)

	return nil
}

func NewListHandler(repo resources.Repository, authenticator auth.Enticator) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error

		resource := chi.URLParam(r, "resource")

		ctx, span := tracer.Start(r.Context(), "list-records",
			trace.WithAttributes(attribute.String(TraceAttributeResource, resource)),
		)
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		if err = authenticator.CheckAccess(ctx, r, resource); err != nil {
			oresmerrors.ReportError(w, err, traceID(ctx))
			return
		}

		records, err := repo.List(ctx, resource)
		if err != nil {
			oresmerrors.ReportError(w, err, traceID(ctx))
			return
		}

		writeJSON(ctx, w, http.StatusOK, records)
	})
}

func NewCreateHandler(repo resources.Repository, authenticator auth.Enticator) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error

		resource := chi.URLParam(r, "resource")

		ctx, span := tracer.Start(r.Context(), "create-record",
			trace.WithAttributes(attribute.String(TraceAttributeResource, resource)),
		)
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		if err = authenticator.CheckAccess(ctx, r, resource); err != nil {
			oresmerrors.ReportError(w, err, traceID(ctx))
			return
		}

		record, err := decodeRecord(r)
		if err != nil {
			oresmerrors.ReportError(w, err, traceID(ctx))
			return
		}

		created, err := repo.Create(ctx, resource, record)
		if err != nil {
			oresmerrors.ReportError(w, err, traceID(ctx))
			return
		}

		w.Header().Add("Location", fmt.Sprintf("%s/%v", strings.TrimRight(r.URL.Path, "/"), created[repo.Key()]))
		writeJSON(ctx, w, http.StatusCreated, created)
	})
}

func NewRetrieveHandler(repo resources.Repository, authenticator auth.Enticator) http.HandlerFunc {
	return newRecordHandler("retrieve-record", http.StatusOK, authenticator,
		func(ctx context.Context, resource, id string, _ map[string]any) (map[string]any, error) {
			return repo.Retrieve(ctx, resource, id)
		})
}

func NewReplaceHandler(repo resources.Repository, authenticator auth.Enticator) http.HandlerFunc {
	return newRecordHandler("replace-record", http.StatusOK, authenticator, repo.Replace)
}

func NewMergeHandler(repo resources.Repository, authenticator auth.Enticator) http.HandlerFunc {
	return newRecordHandler("merge-record", http.StatusOK, authenticator, repo.Merge)
}

func NewDeleteHandler(repo resources.Repository, authenticator auth.Enticator) http.HandlerFunc {
	return newRecordHandler("delete-record", http.StatusNoContent, authenticator,
		func(ctx context.Context, resource, id string, _ map[string]any) (map[string]any, error) {
			return nil, repo.Delete(ctx, resource, id)
		})
}

type recordFunc func(ctx context.Context, resource, id string, body map[string]any) (map[string]any, error)

func newRecordHandler(spanName string, successCode int, authenticator auth.Enticator, fn recordFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error

		resource := chi.URLParam(r, "resource")
		id := chi.URLParam(r, "id")

		ctx, span := tracer.Start(r.Context(), spanName,
			trace.WithAttributes(attribute.String(TraceAttributeResource, resource)),
			trace.WithAttributes(attribute.String(TraceAttributeRecordID, id)),
		)
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		if err = authenticator.CheckAccess(ctx, r, resource); err != nil {
			oresmerrors.ReportError(w, err, traceID(ctx))
			return
		}

		var body map[string]any
		if r.Method == http.MethodPut || r.Method == http.MethodPatch {
			body, err = decodeRecord(r)
			if err != nil {
				oresmerrors.ReportError(w, err, traceID(ctx))
				return
			}
		}

		result, err := fn(ctx, resource, id, body)
		if err != nil {
			oresmerrors.ReportError(w, err, traceID(ctx))
			return
		}

		if successCode == http.StatusNoContent {
			w.WriteHeader(successCode)
			return
		}

		writeJSON(ctx, w, successCode, result)
	})
}

func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			_, ctx, _ = o11y.AddTraceIDToLoggerAndStoreInContext(
				trace.SpanFromContext(ctx),
				logger,
				ctx)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RequiredContentTypes(validTypes []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			contentType := r.Header.Get("Content-Type")
			isValidContentType := true

			if len(contentType) > 0 {
				isValidContentType = false

				for _, t := range validTypes {
					if strings.HasPrefix(contentType, t) {
						isValidContentType = true
						break
					}
				}
			}

			if isValidContentType {
				next.ServeHTTP(w, r)
			} else {
				http.Error(w, "unsupported media type", http.StatusUnsupportedMediaType)
			}
		})
	}
}

func decodeRecord(r *http.Request) (map[string]any, error) {
	record := map[string]any{}

	err := json.NewDecoder(r.Body).Decode(&record)
	if err != nil {
		return nil, oresmerrors.NewBadRequestError(fmt.Sprintf("unable to decode request payload: %s", err.Error()))
	}

	return record, nil
}

func writeJSON(ctx context.Context, w http.ResponseWriter, code int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		logging.GetFromContext(ctx).Error("failed to marshal response", "err", err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(b)
}

func traceID(ctx context.Context) string {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if sc.HasTraceID() {
		return sc.TraceID().String()
	}
	return ""
}
