package validation

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errShort = errors.New("too short")
	errSign  = errors.New("must be positive")
)

func TestCollectorWithoutViolationsReturnsNil(t *testing.T) {
	var c Collector
	c.Check(true, "name", errShort)
	c.Add("price", nil)
	assert.NoError(t, c.Err())
}

func TestCollectorJoinsViolations(t *testing.T) {
	var c Collector
	c.Check(false, "name", errShort)
	c.Check(false, "price", errSign)

	err := fmt.Errorf("insert product: %w", c.Err())

	require.Error(t, err)
	assert.ErrorIs(t, err, errShort)
	assert.ErrorIs(t, err, errSign)

	verr, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, map[string]string{"name": "too short", "price": "must be positive"}, verr.Messages())
	assert.Equal(t, "name", verr.Fields()[0].Field)
	assert.Contains(t, verr.Error(), "name: too short; price: must be positive")
}
