package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreError_Is(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("create: %w", &StoreError{Kind: StoreUnavailable, Msg: "write links record", Err: cause})

	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrCorruptStore)
	assert.Equal(t, StoreUnavailable, KindOf(err))
	assert.Equal(t, "create: write links record: boom", err.Error())
}

func TestKindOf_PlainError(t *testing.T) {
	assert.Equal(t, Kind(0), KindOf(errors.New("plain")))
	assert.Equal(t, Kind(0), KindOf(nil))
}

func TestRandomCode(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		code, err := RandomCode()
		assert.NoError(t, err)
		assert.Len(t, code, 8)
		seen[code] = struct{}{}
	}
	assert.Greater(t, len(seen), 90)
}

func TestLinkTable_Records(t *testing.T) {
	table := LinkTable{"b": "https://example.com/b", "a": "https://example.com/a"}

	assert.Equal(t, []LinkRecord{
		{Code: "a", Destination: "https://example.com/a"},
		{Code: "b", Destination: "https://example.com/b"},
	}, table.Records())
}
