package cart

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddAccumulates(t *testing.T) {
	s := NewService()

	require.Equal(t, 1, s.Add(1, 10, 1))
	require.Equal(t, 3, s.Add(1, 10, 2))
	require.Equal(t, 4, s.Add(1, 11, 1))

	require.Equal(t, map[int64]int{10: 3, 11: 1}, s.Items(1))
}

func TestAddDefaultsQuantityToOne(t *testing.T) {
	s := NewService()
	require.Equal(t, 1, s.Add(1, 10, 0))
	require.Equal(t, 2, s.Add(1, 10, -5))
}

func TestCartsAreIsolatedPerCustomer(t *testing.T) {
	s := NewService()
	s.Add(1, 10, 2)
	s.Add(2, 10, 5)

	require.Equal(t, 2, s.Count(1))
	require.Equal(t, 5, s.Count(2))
}

func TestRemoveAndClear(t *testing.T) {
	s := NewService()
	s.Add(1, 10, 2)
	s.Add(1, 11, 1)

	s.Remove(1, 10)
	require.Equal(t, map[int64]int{11: 1}, s.Items(1))

	s.Remove(1, 99) // absent item is a no-op
	s.Clear(1)
	require.Empty(t, s.Items(1))
	require.Zero(t, s.Count(1))
}

func TestItemsReturnsACopy(t *testing.T) {
	s := NewService()
	s.Add(1, 10, 1)

	items := s.Items(1)
	items[10] = 100

	require.Equal(t, 1, s.Count(1))
}
