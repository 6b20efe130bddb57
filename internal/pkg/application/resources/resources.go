package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"strconv"
	"sync"

	"github.com/diwise/oresm/pkg/oresm/errors"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/google/uuid"
)

// Repository keeps records grouped by resource noun, e.g. "users"
type Repository interface {
	Key() string

	List(ctx context.Context, resource string) ([]map[string]any, error)
	Retrieve(ctx context.Context, resource, id string) (map[string]any, error)
	Create(ctx context.Context, resource string, record map[string]any) (map[string]any, error)
	Replace(ctx context.Context, resource, id string, record map[string]any) (map[string]any, error)
	Merge(ctx context.Context, resource, id string, fragment map[string]any) (map[string]any, error)
	Delete(ctx context.Context, resource, id string) error
}

func New(key string) Repository {
	if key == "" {
		key = "id"
	}

	return &repository{
		key:       key,
		resources: map[string]*collection{},
	}
}

type collection struct {
	order   []string
	records map[string]map[string]any
}

type repository struct {
	mu        sync.RWMutex
	key       string
	resources map[string]*collection
}

func (r *repository) Key() string {
	return r.key
}

func (r *repository) List(ctx context.Context, resource string) ([]map[string]any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []map[string]any{}

	c, ok := r.resources[resource]
	if !ok {
		return result, nil
	}

	for _, id := range c.order {
		result = append(result, maps.Clone(c.records[id]))
	}

	return result, nil
}

func (r *repository) Retrieve(ctx context.Context, resource, id string) (map[string]any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, err := r.find(resource, id)
	if err != nil {
		return nil, err
	}

	return maps.Clone(record), nil
}

func (r *repository) Create(ctx context.Context, resource string, record map[string]any) (map[string]any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record = maps.Clone(record)
	if record == nil {
		record = map[string]any{}
	}

	id := formatID(record[r.key])
	if id == "" {
		id = uuid.NewString()
		record[r.key] = id
	}

	c, ok := r.resources[resource]
	if !ok {
		c = &collection{records: map[string]map[string]any{}}
		r.resources[resource] = c
	}

	if _, exists := c.records[id]; exists {
		return nil, errors.NewConflictError(fmt.Sprintf("%s/%s already exists", resource, id))
	}

	c.order = append(c.order, id)
	c.records[id] = record

	logging.GetFromContext(ctx).Debug("record created", "resource", resource, "id", id)

	return maps.Clone(record), nil
}

func (r *repository) Replace(ctx context.Context, resource, id string, record map[string]any) (map[string]any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, err := r.find(resource, id)
	if err != nil {
		return nil, err
	}

	record = maps.Clone(record)
	if record == nil {
		record = map[string]any{}
	}
	record[r.key] = existing[r.key]

	r.resources[resource].records[id] = record

	return maps.Clone(record), nil
}

func (r *repository) Merge(ctx context.Context, resource, id string, fragment map[string]any) (map[string]any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, err := r.find(resource, id)
	if err != nil {
		return nil, err
	}

	for name, value := range fragment {
		if name == r.key {
			continue
		}
		existing[name] = value
	}

	return maps.Clone(existing), nil
}

func (r *repository) Delete(ctx context.Context, resource, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.find(resource, id); err != nil {
		return err
	}

	c := r.resources[resource]
	delete(c.records, id)

	for idx := range c.order {
		if c.order[idx] == id {
			c.order = append(c.order[:idx], c.order[idx+1:]...)
			break
		}
	}

	logging.GetFromContext(ctx).Debug("record deleted", "resource", resource, "id", id)

	return nil
}

func (r *repository) find(resource, id string) (map[string]any, error) {
	c, ok := r.resources[resource]
	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("no resource named %s", resource))
	}

	record, ok := c.records[id]
	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("%s/%s not found", resource, id))
	}

	return record, nil
}

func formatID(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case float64:
		if id == 0 {
			return ""
		}
		return strconv.FormatFloat(id, 'f', -1, 64)
	case json.Number:
		return id.String()
	}
	return fmt.Sprint(v)
}
