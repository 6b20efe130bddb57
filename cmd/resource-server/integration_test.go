package main

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/diwise/oresm/internal/pkg/application/resources"
	"github.com/diwise/oresm/internal/pkg/infrastructure/router"
	"github.com/diwise/oresm/internal/pkg/presentation/api/auth"
	api "github.com/diwise/oresm/internal/pkg/presentation/api/resources"
	"github.com/diwise/oresm/pkg/oresm"
	"github.com/diwise/oresm/pkg/oresm/client"
	oresmerrors "github.com/diwise/oresm/pkg/oresm/errors"

	"github.com/matryer/is"
)

func TestIntegrateModelLifecycle(t *testing.T) {
	is, users, ctx := setupIntegrationTest(t)

	user := users.New(oresm.Attributes{"username": "test"})
	is.NoErr(user.Save(ctx, nil))
	is.True(!user.IsNew()) // server should have assigned a key

	id := user.KeyValue()

	is.NoErr(user.Patch(ctx, oresm.Attributes{"type": 1}))
	is.NoErr(user.Save(ctx, oresm.Attributes{"email": "test@example.com"}))

	found, err := users.Find(ctx, id)
	is.NoErr(err)
	is.Equal(found.Entity(), oresm.Attributes{
		"id": id, "username": "test", "type": 1.0, "email": "test@example.com",
	})

	all, err := users.Get(ctx)
	is.NoErr(err)
	is.Equal(all.Len(), 1)

	is.NoErr(user.Delete(ctx))
	is.Equal(user.State(), oresm.Destroyed)

	_, err = users.Find(ctx, id)
	is.True(errors.Is(err, oresmerrors.ErrNotFound))
}

func TestIntegrateSaveWithSuppliedKeyOfUnknownRecordFails(t *testing.T) {
	is, users, ctx := setupIntegrationTest(t)

	user := users.New(oresm.Attributes{"id": "unknown", "username": "test"})
	err := user.Save(ctx, nil)

	is.True(errors.Is(err, oresmerrors.ErrNotFound))
}

func setupIntegrationTest(t *testing.T) (*is.I, *oresm.Type, context.Context) {
	is := is.New(t)
	ctx := context.Background()

	r := router.New(serviceName)
	is.NoErr(api.RegisterHandlers(ctx, r, "api", strings.NewReader(auth.AllowAll), resources.New("id")))

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)

	users := oresm.NewType("User", client.NewHTTPTransport(), oresm.Host(ts.URL), oresm.Prefix("api"))

	return is, users, ctx
}
