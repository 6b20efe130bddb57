package oresm

import (
	"context"
	"fmt"

	"github.com/diwise/oresm/pkg/oresm/client"
	"github.com/diwise/oresm/pkg/oresm/errors"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
)

// Find retrieves a single record by id
func (t *Type) Find(ctx context.Context, id any, parameters ...client.RequestDecoratorFunc) (*Model, error) {
	endpoint := t.Endpoint(id)

	body, err := t.transport.Get(ctx, endpoint, parameters...)
	if err != nil {
		return nil, err
	}

	record, err := recordFromBody(body, endpoint)
	if err != nil {
		return nil, err
	}

	return t.New(record), nil
}

// Get retrieves the collection of records behind the resource endpoint
func (t *Type) Get(ctx context.Context, parameters ...client.RequestDecoratorFunc) (Collection, error) {
	body, err := t.transport.Get(ctx, t.Endpoint(), parameters...)
	if err != nil {
		return nil, err
	}

	return Collect(t, body)
}

// Save merges data into the model and then creates the record (POST) if the
// model has no key yet, or replaces it (PUT) otherwise. The decision is made
// after the merge, so a key supplied in data results in a PUT.
func (m *Model) Save(ctx context.Context, data Attributes) error {
	if err := m.Update(data); err != nil {
		return err
	}

	if m.IsNew() {
		return m.store(ctx)
	}

	return m.update(ctx, m.typ.transport.Put, m.Entity())
}

// Patch merges data into the model and sends only the dirty attributes
func (m *Model) Patch(ctx context.Context, data Attributes) error {
	if err := m.Update(data); err != nil {
		return err
	}

	body := make(Attributes, len(m.dirty))
	for _, name := range m.dirty {
		body[name] = copyValue(m.entity[name])
	}

	return m.update(ctx, m.typ.transport.Patch, body)
}

// Delete removes the record and leaves the model destroyed
func (m *Model) Delete(ctx context.Context) error {
	if err := m.checkKey(); err != nil {
		return err
	}

	endpoint := m.EndpointWithKey()

	err := m.typ.transport.Delete(ctx, endpoint)
	if err != nil {
		return err
	}

	logging.GetFromContext(ctx).Debug("resource deleted", "endpoint", endpoint)

	m.state = Destroyed
	return nil
}

// Refresh replaces the attributes with the current remote state of the record
func (m *Model) Refresh(ctx context.Context, parameters ...client.RequestDecoratorFunc) error {
	if err := m.checkKey(); err != nil {
		return err
	}

	endpoint := m.EndpointWithKey()

	body, err := m.typ.transport.Get(ctx, endpoint, parameters...)
	if err != nil {
		return err
	}

	record, err := recordFromBody(body, endpoint)
	if err != nil {
		return err
	}

	m.setEntity(record)
	return nil
}

func (m *Model) store(ctx context.Context) error {
	endpoint := m.Endpoint()

	response, err := m.typ.transport.Post(ctx, endpoint, m.Entity())
	if err != nil {
		return err
	}

	if response != nil {
		m.setEntity(response)
	}

	m.synced()

	logging.GetFromContext(ctx).Debug("resource created", "endpoint", endpoint, "key", m.KeyValue())

	return nil
}

type sendFunc func(ctx context.Context, endpoint string, body map[string]any) (map[string]any, error)

func (m *Model) update(ctx context.Context, send sendFunc, body Attributes) error {
	if err := m.checkKey(); err != nil {
		return err
	}

	endpoint := m.EndpointWithKey()

	response, err := send(ctx, endpoint, body)
	if err != nil {
		return err
	}

	if response != nil {
		if err = m.Update(response); err != nil {
			return err
		}
	}

	m.synced()

	logging.GetFromContext(ctx).Debug("resource updated", "endpoint", endpoint, "attributes", len(body))

	return nil
}

func (m *Model) synced() {
	m.dirty = []string{}

	if m.IsNew() {
		m.state = New
	} else {
		m.state = Clean
	}
}

func (m *Model) checkAction() error {
	if m.state == Destroyed {
		return errors.NewActionNotAllowedError("action not allowed")
	}
	return nil
}

func (m *Model) checkKey() error {
	if err := m.checkAction(); err != nil {
		return err
	}

	if m.IsNew() {
		return errors.NewMissingKeyError(
			fmt.Sprintf("%s can not be updated because it is missing the key %q", m.typ.name, m.typ.key),
		)
	}

	return nil
}

func recordFromBody(body any, endpoint string) (Attributes, error) {
	if body == nil {
		return nil, nil
	}

	record, ok := asAttributes(body)
	if !ok {
		return nil, errors.NewInvalidInputError(fmt.Sprintf("response from %s is not a record (%T)", endpoint, body))
	}

	return record, nil
}
