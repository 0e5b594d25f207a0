package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GriffinCanCode/chatform/internal/shared/types"
	"github.com/GriffinCanCode/chatform/internal/testutil"
)

func itemIDs(items []types.Item) []int {
	ids := make([]int, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}

func TestSelectionToggle(t *testing.T) {
	sel := NewItemSelection()

	assert.True(t, sel.Toggle(testutil.ItemBlueTowel))
	assert.True(t, sel.Toggle(testutil.ItemBlueSheet))
	assert.Equal(t, 2, sel.Len())

	assert.False(t, sel.Toggle(testutil.ItemBlueTowel))
	assert.Equal(t, []int{testutil.ItemBlueSheet.ID}, itemIDs(sel.Values()))
	assert.False(t, sel.Contains(testutil.ItemBlueTowel.ID))
}

func TestSelectionToggleTwiceRestores(t *testing.T) {
	sel := NewItemSelection()
	sel.Toggle(testutil.ItemWhiteTowel)
	before := sel.Values()

	sel.Toggle(testutil.ItemPillowCase)
	sel.Toggle(testutil.ItemPillowCase)

	assert.Equal(t, before, sel.Values())
}

func TestSelectionIdentityIsID(t *testing.T) {
	sel := NewItemSelection()
	sel.Toggle(testutil.ItemBlueTowel)

	renamed := testutil.ItemBlueTowel
	renamed.Name = "Blue towel (renamed)"

	assert.False(t, sel.Toggle(renamed), "same id removes")
	assert.Zero(t, sel.Len())
}

func TestSelectionRemoveKeepsIndex(t *testing.T) {
	sel := NewItemSelection()
	for _, item := range testutil.Items() {
		sel.Toggle(item)
	}

	sel.Toggle(testutil.ItemWhiteTowel)

	got, ok := sel.Get(testutil.ItemPillowCase.ID)
	assert.True(t, ok)
	assert.Equal(t, testutil.ItemPillowCase, got)
	assert.Equal(t, []int{10, 12, 13}, itemIDs(sel.Values()))

	sel.Toggle(testutil.ItemPillowCase)
	assert.Equal(t, []int{10, 12}, itemIDs(sel.Values()))
}

func TestSelectionValuesIsCopy(t *testing.T) {
	sel := NewItemSelection()
	sel.Toggle(testutil.ItemBlueTowel)

	values := sel.Values()
	values[0].Name = "changed"

	got, _ := sel.Get(testutil.ItemBlueTowel.ID)
	assert.Equal(t, testutil.ItemBlueTowel.Name, got.Name)
}

func TestReconcile(t *testing.T) {
	tests := []struct {
		name           string
		selected       []types.Item
		candidates     []types.Item
		wantSelected   []int
		wantUnselected []int
	}{
		{
			name:           "nothing selected",
			candidates:     testutil.Items(),
			wantSelected:   []int{},
			wantUnselected: []int{10, 11, 12, 13},
		},
		{
			name:           "selected removed from candidates in candidate order",
			selected:       []types.Item{testutil.ItemPillowCase, testutil.ItemWhiteTowel},
			candidates:     testutil.Items(),
			wantSelected:   []int{13, 11},
			wantUnselected: []int{10, 12},
		},
		{
			name:           "selection kept when filtered out of candidates",
			selected:       []types.Item{testutil.ItemBlueSheet},
			candidates:     []types.Item{testutil.ItemBlueTowel, testutil.ItemWhiteTowel},
			wantSelected:   []int{12},
			wantUnselected: []int{10, 11},
		},
		{
			name:           "empty candidates",
			selected:       []types.Item{testutil.ItemBlueTowel},
			wantSelected:   []int{10},
			wantUnselected: []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := NewItemSelection()
			for _, item := range tt.selected {
				sel.Toggle(item)
			}

			selected, unselected := Reconcile(sel, tt.candidates)

			assert.Equal(t, tt.wantSelected, itemIDs(selected))
			assert.Equal(t, tt.wantUnselected, itemIDs(unselected))

			for _, u := range unselected {
				assert.False(t, sel.Contains(u.ID), "entity %d in both lists", u.ID)
			}
		})
	}
}
