package generic_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/warp/site-statement/generic"
)

func TestErrorClassification(t *testing.T) {
	wrap := func(err error) error { return fmt.Errorf("obra-a: %w", err) }

	assert.True(t, generic.IsClientError(wrap(generic.ErrSchema)))
	assert.True(t, generic.IsClientError(wrap(generic.ErrInvalidDate)))
	assert.False(t, generic.IsClientError(wrap(generic.ErrLedgerNotFound)))
	assert.False(t, generic.IsClientError(wrap(generic.ErrNoLedgers)))

	assert.True(t, generic.IsNotFound(wrap(generic.ErrLedgerNotFound)))
	assert.False(t, generic.IsNotFound(generic.ErrSchema))
}
