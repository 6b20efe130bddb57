package oresm

import (
	"encoding/json"
	"errors"
	"testing"

	oresmerrors "github.com/diwise/oresm/pkg/oresm/errors"
	"github.com/matryer/is"
)

func TestSetEntity(t *testing.T) {
	is, users, _ := setupTest(t)

	user := users.New(nil)
	is.Equal(len(user.Fields()), 0) // model should have no attributes

	data := Attributes{"id": 1, "username": "test", "roles": []any{"admin"}}
	user.setEntity(data)

	is.Equal(user.Entity(), data)
	is.Equal(user.State(), Clean)
}

func TestEntityIsACopy(t *testing.T) {
	is, users, _ := setupTest(t)

	data := Attributes{"id": 1, "address": map[string]any{"city": "Sundsvall"}}
	user := users.New(data)

	entity := user.Entity()
	entity["id"] = 2
	entity["address"].(map[string]any)["city"] = "Stockholm"
	data["address"].(map[string]any)["city"] = "Härnösand"

	is.Equal(user.KeyValue(), 1)
	address, _ := user.Get("address")
	is.Equal(address.(map[string]any)["city"], "Sundsvall") // model should not share nested values
}

func TestEntityCopiesTypedSlicesAndMaps(t *testing.T) {
	is, users, _ := setupTest(t)

	user := users.New(Attributes{
		"id":       1,
		"tags":     []string{"a"},
		"contacts": []map[string]any{{"email": "test@example.com"}},
		"scores":   map[string]int{"math": 5},
	})

	entity := user.Entity()
	entity["tags"].([]string)[0] = "x"
	entity["contacts"].([]map[string]any)[0]["email"] = "other@example.com"
	entity["scores"].(map[string]int)["math"] = 1

	tags, _ := user.Get("tags")
	is.Equal(tags, []string{"a"})
	contacts, _ := user.Get("contacts")
	is.Equal(contacts, []map[string]any{{"email": "test@example.com"}})
	scores, _ := user.Get("scores")
	is.Equal(scores, map[string]int{"math": 5})
}

func TestUpdateCopiesInput(t *testing.T) {
	is, users, _ := setupTest(t)

	user := users.New(Attributes{"id": 1})

	address := map[string]any{"city": "Sundsvall"}
	tags := []string{"a"}
	is.NoErr(user.Update(Attributes{"address": address, "tags": tags}))

	address["city"] = "Stockholm"
	tags[0] = "x"

	is.Equal(user.Entity(), Attributes{
		"id":      1,
		"address": map[string]any{"city": "Sundsvall"},
		"tags":    []string{"a"},
	})
}

func TestJSONNumberZeroKeyIsEmpty(t *testing.T) {
	is, users, _ := setupTest(t)

	for _, zero := range []json.Number{"0", "0.0", "-0", "0e0"} {
		is.True(users.New(Attributes{"id": zero}).IsNew()) // zero valued key
	}

	is.True(!users.New(Attributes{"id": json.Number("0.5")}).IsNew())
}

func TestChangingKeyIsNotAllowed(t *testing.T) {
	is, users, _ := setupTest(t)

	user := users.New(Attributes{"id": 1})
	err := user.Set("id", 2)

	is.True(errors.Is(err, oresmerrors.ErrKeyImmutable))
	is.Equal(user.KeyValue(), 1)
}

func TestChangingCustomKeyIsNotAllowed(t *testing.T) {
	is, _, transport := setupTest(t)
	users := NewType("User", transport, Key("user_id"))

	user := users.New(Attributes{"user_id": "abc", "id": 5})

	is.True(errors.Is(user.Set("user_id", "def"), oresmerrors.ErrKeyImmutable))
	is.NoErr(user.Set("id", 6)) // id is an ordinary attribute for this type
}

func TestEmptyKeyCanBeSet(t *testing.T) {
	is, users, _ := setupTest(t)

	user := users.New(Attributes{"id": "", "username": "test"})
	is.True(user.IsNew())

	is.NoErr(user.Set("id", "abc"))
	is.Equal(user.KeyValue(), "abc")
	is.True(!user.IsNew())
}

func TestSetWritesThroughToEntity(t *testing.T) {
	is, users, _ := setupTest(t)

	user := users.New(Attributes{"id": 1, "username": "old"})
	is.NoErr(user.Set("username", "new"))

	username, ok := user.Get("username")
	is.True(ok)
	is.Equal(username, "new")
	is.Equal(user.Entity()["username"], "new")
}

func TestSetOfUnknownAttributeIsRejected(t *testing.T) {
	is, users, _ := setupTest(t)

	user := users.New(Attributes{"id": 1})
	err := user.Set("username", "new")

	is.True(errors.Is(err, oresmerrors.ErrUnknownAttribute))
	is.True(!user.Has("username"))
}

func TestUpdateAddsNewAttributes(t *testing.T) {
	is, users, _ := setupTest(t)

	user := users.New(Attributes{"id": 1, "username": "test"})
	is.NoErr(user.Update(Attributes{"lastname": "lastname"}))

	is.Equal(user.Entity(), Attributes{"id": 1, "lastname": "lastname", "username": "test"})
	is.NoErr(user.Set("lastname", "other")) // merged attributes should be settable
}

func TestUpdateSkipsKeyThatHasAValue(t *testing.T) {
	is, users, _ := setupTest(t)

	user := users.New(Attributes{"id": 1})
	user.ClearDirty()

	is.NoErr(user.Update(Attributes{"id": 2, "username": "test"}))

	is.Equal(user.KeyValue(), 1)
	is.Equal(user.Dirty(), []string{"username"})
}

func TestUpdateSetsKeyThatIsEmpty(t *testing.T) {
	is, users, _ := setupTest(t)

	user := users.New(Attributes{"username": "test"})
	is.NoErr(user.Update(Attributes{"id": 7}))

	is.Equal(user.KeyValue(), 7)
	is.Equal(user.State(), Dirty)
}

func TestLoadedAttributesAreDirty(t *testing.T) {
	is, users, _ := setupTest(t)

	user := users.New(Attributes{"username": "111", "id": 1})

	is.Equal(user.Dirty(), []string{"id", "username"})
}

func TestDirtyKeepsOrderOfWrites(t *testing.T) {
	is, users, _ := setupTest(t)

	user := users.New(Attributes{"id": 1, "a": 1, "b": 2, "c": 3})
	user.ClearDirty()
	is.Equal(user.State(), Clean)

	is.NoErr(user.Set("c", 30))
	is.NoErr(user.Set("a", 10))
	is.NoErr(user.Set("c", 31))

	is.Equal(user.Dirty(), []string{"c", "a"})
	is.Equal(user.State(), Dirty)
}

func TestDirtyReturnsACopy(t *testing.T) {
	is, users, _ := setupTest(t)

	user := users.New(Attributes{"id": 1, "a": 1})
	dirty := user.Dirty()
	dirty[0] = "b"

	is.Equal(user.Dirty(), []string{"a", "id"})
}

func TestModelWithoutKeyIsNew(t *testing.T) {
	is, users, _ := setupTest(t)

	is.True(users.New(Attributes{"name": 1}).IsNew())
	is.True(users.New(Attributes{"id": 0}).IsNew())
	is.True(users.New(Attributes{"id": nil}).IsNew())
	is.True(!users.New(Attributes{"id": 1}).IsNew())
	is.True(!users.New(Attributes{"id": "urn:user:1"}).IsNew())

	is.Equal(users.New(Attributes{"name": 1}).State(), New)
	is.Equal(users.New(Attributes{"id": 1}).State(), Clean)
}

func TestMarshalModel(t *testing.T) {
	is, users, _ := setupTest(t)

	b, err := users.New(Attributes{"id": 1, "name": "test"}).MarshalJSON()
	is.NoErr(err)
	is.Equal(string(b), `{"id":1,"name":"test"}`)
}
