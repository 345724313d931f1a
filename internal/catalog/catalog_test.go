package catalog

import (
	"testing"

	"github.com/pr-poehali-dev/leopard-bag-project/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProjects(t *testing.T) *Catalog[models.Project] {
	t.Helper()
	c, err := New(PortfolioSentinel, Projects)
	require.NoError(t, err)
	return c
}

func TestCategoriesFirstSeenOrder(t *testing.T) {
	c := newProjects(t)

	assert.Equal(t,
		[]string{"All", "Web Development", "Mobile Development", "Design"},
		c.Categories())
}

func TestFilterSentinelReturnsFullList(t *testing.T) {
	c := newProjects(t)

	assert.Equal(t, Projects, c.Filter(PortfolioSentinel))
}

func TestFilterByCategory(t *testing.T) {
	c, err := New(StoreSentinel, Products)
	require.NoError(t, err)

	for _, category := range c.Categories()[1:] {
		got := c.Filter(category)
		require.NotEmpty(t, got)
		for _, p := range got {
			assert.Equal(t, category, p.Category)
		}

		want := 0
		for _, p := range Products {
			if p.Category == category {
				want++
			}
		}
		assert.Len(t, got, want, "category %s", category)
	}
}

func TestFilterUnknownCategoryIsEmpty(t *testing.T) {
	c := newProjects(t)

	got := c.Filter("Все")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFilterReturnsCopy(t *testing.T) {
	c := newProjects(t)

	got := c.Filter(PortfolioSentinel)
	got[0].Title = "mutated"

	first, err := c.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "E-commerce Platform", first.Title)
}

func TestNewRejectsDuplicateIDs(t *testing.T) {
	_, err := New("All", []models.Project{
		{ID: 1, Category: "Design"},
		{ID: 1, Category: "Design"},
	})
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestNewRejectsSentinelCategory(t *testing.T) {
	_, err := New("All", []models.Project{{ID: 1, Category: "All"}})
	assert.ErrorIs(t, err, ErrSentinelCategory)
}

func TestGet(t *testing.T) {
	c, err := New(StoreSentinel, Products)
	require.NoError(t, err)

	p, err := c.Get(1)
	require.NoError(t, err)
	assert.Equal(t, int64(12990), p.Price)

	_, err = c.Get(999)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestSelection(t *testing.T) {
	c := newProjects(t)
	s := NewSelection(c)

	assert.Equal(t, PortfolioSentinel, s.Selected())
	assert.Len(t, s.Visible(), len(Projects))

	require.NoError(t, s.Select("Design"))
	assert.Equal(t, "Design", s.Selected())
	assert.Len(t, s.Visible(), 2)

	err := s.Select("Photography")
	assert.ErrorIs(t, err, ErrUnknownCategory)
	assert.Equal(t, "Design", s.Selected())

	require.NoError(t, s.Select(PortfolioSentinel))
	assert.Len(t, s.Visible(), len(Projects))
}
