package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kara-india/boliapp/internal/model"
)

func TestRegistryGetUnknown(t *testing.T) {
	r := NewListingRegistry()
	_, err := r.Get("missing")
	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestRegistryUpsertOrder(t *testing.T) {
	r := NewListingRegistry()
	r.Upsert(&model.Listing{ID: "a", Title: "first"})
	r.Upsert(&model.Listing{ID: "b", Title: "second"})
	r.Upsert(&model.Listing{ID: "c", Title: "third"})

	all := r.List()
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].ID)
	assert.Equal(t, "b", all[1].ID)
	assert.Equal(t, "a", all[2].ID)
}

func TestRegistryUpsertReplaceKeepsPosition(t *testing.T) {
	r := NewListingRegistry()
	r.Upsert(&model.Listing{ID: "a"})
	r.Upsert(&model.Listing{ID: "b"})

	r.Upsert(&model.Listing{ID: "a", Title: "updated"})

	all := r.List()
	require.Len(t, all, 2)
	assert.Equal(t, "b", all[0].ID)
	assert.Equal(t, "updated", all[1].Title)

	got, err := r.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "updated", got.Title)
}
