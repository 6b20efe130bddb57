package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	oresmerrors "github.com/diwise/oresm/pkg/oresm/errors"
	testutils "github.com/diwise/service-chassis/pkg/test/http"
	"github.com/diwise/service-chassis/pkg/test/http/expects"
	"github.com/diwise/service-chassis/pkg/test/http/response"

	"github.com/matryer/is"
)

var Expects = testutils.Expects
var Returns = testutils.Returns
var anyInput = expects.AnyInput
var method = expects.RequestMethod
var path = expects.RequestPath
var body = expects.RequestBody

func TestPost(t *testing.T) {
	is := is.New(t)

	s := testutils.NewMockServiceThat(
		Expects(
			is,
			method(http.MethodPost),
			path("/api/users"),
			body("{\"name\":\"test\"}"),
			HeaderEquals("Content-Type", "application/json"),
		),
		Returns(
			response.ContentType("application/json"),
			response.Code(http.StatusCreated),
			response.Body([]byte(`{"id":1,"name":"test"}`)),
		),
	)
	defer s.Close()

	c := NewHTTPTransport()

	result, err := c.Post(context.Background(), s.URL()+"/api/users", map[string]any{"name": "test"})

	is.NoErr(err)
	is.Equal(result, map[string]any{"id": 1.0, "name": "test"})
}

func TestPostWithoutBodySendsEmptyObject(t *testing.T) {
	is := is.New(t)

	s := testutils.NewMockServiceThat(
		Expects(is, method(http.MethodPost), body("{}")),
		Returns(response.Code(http.StatusCreated)),
	)
	defer s.Close()

	result, err := NewHTTPTransport().Post(context.Background(), s.URL()+"/users", nil)

	is.NoErr(err)
	is.Equal(result, nil)
}

func TestPut(t *testing.T) {
	is := is.New(t)

	s := testutils.NewMockServiceThat(
		Expects(
			is,
			method(http.MethodPut),
			path("/users/1"),
			body("{\"id\":1,\"name\":\"test\"}"),
		),
		Returns(
			response.ContentType("application/json"),
			response.Code(http.StatusOK),
			response.Body([]byte(`{"id":1,"name":"test"}`)),
		),
	)
	defer s.Close()

	_, err := NewHTTPTransport().Put(context.Background(), s.URL()+"/users/1", map[string]any{"id": 1, "name": "test"})

	is.NoErr(err)
	is.Equal(s.RequestCount(), 1)
}

func TestPatchWithNoContentResponse(t *testing.T) {
	is := is.New(t)

	s := testutils.NewMockServiceThat(
		Expects(
			is,
			method(http.MethodPatch),
			path("/users/1"),
			body("{\"type\":1}"),
		),
		Returns(response.Code(http.StatusNoContent)),
	)
	defer s.Close()

	result, err := NewHTTPTransport().Patch(context.Background(), s.URL()+"/users/1", map[string]any{"type": 1})

	is.NoErr(err)
	is.Equal(result, nil)
}

func TestDelete(t *testing.T) {
	is := is.New(t)

	s := testutils.NewMockServiceThat(
		Expects(
			is,
			method(http.MethodDelete),
			path("/users/1"),
			body(""),
		),
		Returns(response.Code(http.StatusNoContent)),
	)
	defer s.Close()

	err := NewHTTPTransport().Delete(context.Background(), s.URL()+"/users/1")

	is.NoErr(err)
	is.Equal(s.RequestCount(), 1)
}

func TestDeleteNotFound(t *testing.T) {
	is := is.New(t)

	pr := oresmerrors.NewNotFound("no such user", "traceID")
	b, _ := json.Marshal(pr)

	s := testutils.NewMockServiceThat(
		Expects(is, anyInput()),
		Returns(
			response.ContentType("application/problem+json"),
			response.Code(http.StatusNotFound),
			response.Body(b),
		),
	)
	defer s.Close()

	err := NewHTTPTransport().Delete(context.Background(), s.URL()+"/users/1")

	is.True(err != nil)
	is.True(errors.Is(err, oresmerrors.ErrNotFound))
	is.Equal(err.Error(), "no such user")
}

func TestGetWithParameters(t *testing.T) {
	is := is.New(t)

	s := testutils.NewMockServiceThat(
		Expects(
			is,
			method(http.MethodGet),
			path("/users"),
			expects.QueryParamEquals("attrs", "name,email"),
			expects.QueryParamEquals("limit", "10"),
			expects.QueryParamEquals("q", "name==a b"),
		),
		Returns(
			response.ContentType("application/json"),
			response.Code(http.StatusOK),
			response.Body([]byte(`[{"id":1},{"id":2}]`)),
		),
	)
	defer s.Close()

	result, err := NewHTTPTransport().Get(
		context.Background(), s.URL()+"/users",
		Attributes([]string{"name", "email"}), Limit(10), Param("q", "name==a b"),
	)

	is.NoErr(err)
	is.Equal(len(result.([]any)), 2)
}

func TestGetHandlesConflictAndBadRequest(t *testing.T) {
	is := is.New(t)

	for code, target := range map[int]error{
		http.StatusBadRequest:   oresmerrors.ErrBadRequest,
		http.StatusUnauthorized: oresmerrors.ErrUnauthorized,
		http.StatusConflict:     oresmerrors.ErrConflict,
		http.StatusBadGateway:   oresmerrors.ErrInternal,
	} {
		s := testutils.NewMockServiceThat(
			Expects(is, anyInput()),
			Returns(response.Code(code)),
		)

		_, err := NewHTTPTransport().Get(context.Background(), s.URL()+"/users/1")
		s.Close()

		is.True(errors.Is(err, target))
	}
}

func TestGetHandlesUnexpectedResponseCode(t *testing.T) {
	is := is.New(t)

	s := testutils.NewMockServiceThat(
		Expects(is, anyInput()),
		Returns(response.Code(http.StatusMultipleChoices)),
	)
	defer s.Close()

	_, err := NewHTTPTransport().Get(context.Background(), s.URL()+"/users/1")

	is.True(err != nil)
	is.Equal(err.Error(), "unexpected response code 300 (internal error)")
}

func TestGetHandlesBadResponseBody(t *testing.T) {
	is := is.New(t)

	s := testutils.NewMockServiceThat(
		Expects(is, anyInput()),
		Returns(
			response.ContentType("application/json"),
			response.Code(http.StatusOK),
			response.Body([]byte("this is not my json")),
		),
	)
	defer s.Close()

	_, err := NewHTTPTransport().Get(context.Background(), s.URL()+"/users/1")

	is.True(errors.Is(err, oresmerrors.ErrBadResponse))
}

func TestRequestFailure(t *testing.T) {
	is := is.New(t)

	_, err := NewHTTPTransport().Get(context.Background(), "http://127.0.0.1:0/users")

	is.True(errors.Is(err, oresmerrors.ErrRequest))
}

func TestConfiguredHeadersAreSent(t *testing.T) {
	is := is.New(t)

	s := testutils.NewMockServiceThat(
		Expects(
			is,
			HeaderEquals("Authorization", "Bearer token"),
			HeaderEquals("X-Tenant", "default"),
		),
		Returns(response.Code(http.StatusNoContent)),
	)
	defer s.Close()

	cfg := &Config{Headers: map[string]string{"Authorization": "Bearer token"}}
	c := NewHTTPTransport(WithConfig(cfg), Headers(map[string][]string{"X-Tenant": {"default"}}))

	err := c.Delete(context.Background(), s.URL()+"/users/1")
	is.NoErr(err)
}

func HeaderEquals(name, value string) func(*is.I, *http.Request) {
	return func(is *is.I, r *http.Request) {
		is.Equal(r.Header.Get(name), value) // header should match
	}
}
