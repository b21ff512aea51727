package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errOverlap = errors.New("booking: dates overlap")

func TestKindsKeepCause(t *testing.T) {
	err := Input(fmt.Errorf("create: %w", errOverlap))
	assert.True(t, IsInput(err))
	assert.False(t, IsAccess(err))
	assert.ErrorIs(t, err, errOverlap)
	assert.Equal(t, "create: booking: dates overlap", err.Error())
}

func TestWrapIsNoopForNilAndClassified(t *testing.T) {
	assert.Nil(t, Input(nil))
	access := Accessf("not the owner")
	assert.Same(t, access, Input(access))
	assert.True(t, IsAccess(Input(access)))
}

func TestClassified(t *testing.T) {
	assert.False(t, Classified(errors.New("disk full")))
	assert.True(t, Classified(fmt.Errorf("outer: %w", Inputf("bad date"))))
}
