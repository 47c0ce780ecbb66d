package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	dErrors "rrss/pkg/domain-errors"
	"rrss/pkg/identifier"
	"rrss/pkg/platform/sentinel"
)

type testItem struct {
	Entry
	payload string
}

func newItem(t testing.TB, registryID, registrant, id string) testItem {
	t.Helper()
	e, err := NewEntry(registryID, registrant, id)
	require.NoError(t, err)
	return testItem{Entry: e, payload: registrant + "/" + id}
}

type testPriorityItem struct {
	PriorityEntry
}

func newPriorityItem(t testing.TB, id string, priority float64) testPriorityItem {
	t.Helper()
	e, err := NewPriorityEntry("rrss.test", "rrss.test", id, priority)
	require.NoError(t, err)
	return testPriorityItem{PriorityEntry: e}
}

func ids[T Data](items []T) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Identifier().String())
	}
	return out
}

// =============================================================================
// ListRegistry Test Suite
// =============================================================================

type ListRegistrySuite struct {
	suite.Suite
	reg *ListRegistry[testItem]
}

func TestListRegistrySuite(t *testing.T) {
	suite.Run(t, new(ListRegistrySuite))
}

func (s *ListRegistrySuite) SetupTest() {
	s.reg = NewListRegistry[testItem](identifier.MustParse("rrss.test.registry"))
}

func (s *ListRegistrySuite) item(registrant, id string) testItem {
	return newItem(s.T(), "rrss.test.registry", registrant, id)
}

func (s *ListRegistrySuite) TestAdd() {
	s.Run("added item is visible", func() {
		x := s.item("svc.a", "h1")
		s.Require().NoError(s.reg.Add(x))
		s.True(s.reg.Has(x.Registrant(), identifier.MustParse("h1").Ptr()))
		s.True(s.reg.Has(x.Registrant(), nil))
		s.Equal(1, s.reg.Len())
	})

	s.Run("duplicate fails and leaves size unchanged", func() {
		err := s.reg.Add(s.item("svc.a", "h1"))
		s.Require().Error(err)
		s.ErrorIs(err, ErrDuplicatedRegistryData)
		s.ErrorIs(err, sentinel.ErrConflict)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.Equal(1, s.reg.Len())

		var regErr *Error
		s.Require().ErrorAs(err, &regErr)
		s.Equal(identifier.Identifier("svc.a"), regErr.Registrant)
		s.Equal(identifier.Identifier("h1"), regErr.Identifier)
		s.Equal(identifier.Identifier("rrss.test.registry"), regErr.RegistryID)
	})

	s.Run("same identifier under another registrant is allowed", func() {
		s.Require().NoError(s.reg.Add(s.item("svc.b", "h1")))
		s.Equal(2, s.reg.Len())
	})

	s.Run("insertion order is preserved", func() {
		s.Require().NoError(s.reg.Add(s.item("svc.a", "h0")))
		s.Equal([]string{"h1", "h1", "h0"}, ids(s.reg.List()))
	})
}

func (s *ListRegistrySuite) TestRemove() {
	for _, x := range []testItem{
		s.item("svc.a", "h1"),
		s.item("svc.a", "h2"),
		s.item("svc.b", "h1"),
		s.item("svc.a", "h3"),
	} {
		s.Require().NoError(s.reg.Add(x))
	}

	s.Run("exact removal removes only that item", func() {
		s.Require().NoError(s.reg.Remove("svc.a", identifier.MustParse("h2").Ptr()))
		s.Equal(3, s.reg.Len())
		s.False(s.reg.Has("svc.a", identifier.MustParse("h2").Ptr()))
		s.True(s.reg.Has("svc.b", identifier.MustParse("h1").Ptr()))
	})

	s.Run("absent identifier fails", func() {
		err := s.reg.Remove("svc.a", identifier.MustParse("missing").Ptr())
		s.ErrorIs(err, ErrRegistryDataNotFound)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("absent registrant fails", func() {
		err := s.reg.Remove("svc.none", nil)
		s.ErrorIs(err, ErrRegistryDataNotFound)

		var regErr *Error
		s.Require().ErrorAs(err, &regErr)
		s.Equal(identifier.Identifier("svc.none"), regErr.Registrant)
		s.True(regErr.Identifier.IsNil())
	})

	s.Run("nil identifier removes every item of the registrant", func() {
		s.Require().NoError(s.reg.Remove("svc.a", nil))
		s.False(s.reg.Has("svc.a", nil))
		s.Equal([]string{"h1"}, ids(s.reg.List()))
	})

	s.Run("removing the last item clears the registrant", func() {
		s.Require().NoError(s.reg.Remove("svc.b", identifier.MustParse("h1").Ptr()))
		s.False(s.reg.Has("svc.b", nil))
		s.Equal(0, s.reg.Len())
	})
}

func (s *ListRegistrySuite) TestGet() {
	x := s.item("svc.a", "h1")
	s.Require().NoError(s.reg.Add(x))

	got, err := s.reg.Get("svc.a", "h1")
	s.Require().NoError(err)
	s.Equal(x.payload, got.payload)

	_, err = s.reg.Get("svc.a", "h2")
	s.ErrorIs(err, ErrRegistryDataNotFound)
}

func (s *ListRegistrySuite) TestListIsSnapshot() {
	s.Require().NoError(s.reg.Add(s.item("svc.a", "h1")))
	snapshot := s.reg.List()
	s.Require().NoError(s.reg.Add(s.item("svc.a", "h2")))
	s.Require().NoError(s.reg.Remove("svc.a", identifier.MustParse("h1").Ptr()))

	s.Equal([]string{"h1"}, ids(snapshot))
	s.Equal([]string{"h2"}, ids(s.reg.List()))

	var seen []string
	for item := range s.reg.All() {
		seen = append(seen, item.Identifier().String())
	}
	s.Equal([]string{"h2"}, seen)
}

func (s *ListRegistrySuite) TestCustomErrorTable() {
	errHandlerNotFound := errors.New("handler not found")
	reg := NewListRegistry[testItem](
		identifier.MustParse("rrss.test.registry"),
		WithErrorTable(ErrorTable{
			RegistryDataNotFound: func() *Error {
				return NewError(KindRegistryDataNotFound, "handler_not_found", errHandlerNotFound)
			},
		}),
	)

	err := reg.Remove("svc.a", identifier.MustParse("h1").Ptr())
	s.ErrorIs(err, errHandlerNotFound)
	s.ErrorIs(err, ErrRegistryDataNotFound)
	s.Equal("handler_not_found (registry=rrss.test.registry registrant=svc.a identifier=h1)", err.Error())

	s.Run("unset constructors fall back to defaults", func() {
		s.Require().NoError(reg.Add(s.item("svc.a", "h1")))
		err := reg.Add(s.item("svc.a", "h1"))
		var regErr *Error
		s.Require().ErrorAs(err, &regErr)
		s.Equal("registry_data_already_exists", regErr.Title)
	})
}

// =============================================================================
// PriorityRegistry Tests
// =============================================================================

func TestPriorityRegistry(t *testing.T) {
	t.Run("descending priority order", func(t *testing.T) {
		reg := NewPriorityRegistry[testPriorityItem](identifier.MustParse("rrss.test"))
		require.NoError(t, reg.Add(newPriorityItem(t, "p3", 3)))
		require.NoError(t, reg.Add(newPriorityItem(t, "p1", 1)))
		require.NoError(t, reg.Add(newPriorityItem(t, "p2", 2)))

		assert.Equal(t, []string{"p3", "p2", "p1"}, ids(reg.List()))
	})

	t.Run("equal priority keeps insertion order", func(t *testing.T) {
		reg := NewPriorityRegistry[testPriorityItem](identifier.MustParse("rrss.test"))
		require.NoError(t, reg.Add(newPriorityItem(t, "first", 1)))
		require.NoError(t, reg.Add(newPriorityItem(t, "high", 5)))
		require.NoError(t, reg.Add(newPriorityItem(t, "second", 1)))
		require.NoError(t, reg.Add(newPriorityItem(t, "default", 0)))

		assert.Equal(t, []string{"high", "first", "second", "default"}, ids(reg.List()))
	})

	t.Run("duplicate does not disturb order", func(t *testing.T) {
		reg := NewPriorityRegistry[testPriorityItem](identifier.MustParse("rrss.test"))
		require.NoError(t, reg.Add(newPriorityItem(t, "a", 1)))
		require.NoError(t, reg.Add(newPriorityItem(t, "b", 2)))
		err := reg.Add(newPriorityItem(t, "a", 9))
		assert.ErrorIs(t, err, ErrDuplicatedRegistryData)
		assert.Equal(t, []string{"b", "a"}, ids(reg.List()))
	})
}

func TestEntry(t *testing.T) {
	t.Run("fields are validated", func(t *testing.T) {
		_, err := NewEntry("Bad", "svc.a", "h1")
		assert.ErrorIs(t, err, identifier.ErrInvalid)
		_, err = NewEntry("rrss.test", "svc-a", "h1")
		assert.ErrorIs(t, err, identifier.ErrInvalid)
		_, err = NewEntry("rrss.test", "svc.a", "h..1")
		assert.ErrorIs(t, err, identifier.ErrInvalid)
		_, err = NewPriorityEntry("rrss.test", "svc.a", "", 1)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("string form", func(t *testing.T) {
		e, err := NewEntry("order.created", "svc.a", "h1")
		require.NoError(t, err)
		assert.Equal(t, "<Registerable[order.created] reg=svc.a id=h1>", e.String())
		assert.Equal(t, "<EventHandler[order.created] reg=svc.a id=h1>", Describe("EventHandler", e))
	})
}
