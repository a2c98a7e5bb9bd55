package medstate

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeIsIdempotent(t *testing.T) {
	resetForTest()
	defer resetForTest()

	require.NoError(t, Initialize())
	g1, err := Get()
	require.NoError(t, err)

	require.NoError(t, Initialize())
	g2, err := Get()
	require.NoError(t, err)

	assert.Same(t, g1, g2)
}

func TestBehaviorStackPushPop(t *testing.T) {
	stack := NewBehaviorStack(DefaultBehavior())
	assert.True(t, stack.Current().Has(ReturnOnFail))

	stack.Push(Behavior{Mask: SuppressWarning})
	assert.True(t, stack.Current().Has(SuppressWarning))
	assert.False(t, stack.Current().Has(ReturnOnFail))

	stack.Pop()
	assert.True(t, stack.Current().Has(ReturnOnFail))

	stack.Pop() // popping the floor value is a no-op
	assert.True(t, stack.Current().Has(ReturnOnFail))
}

func TestWarnRespectsSuppress(t *testing.T) {
	resetForTest()
	defer resetForTest()

	require.NoError(t, Initialize())
	g, err := Get()
	require.NoError(t, err)

	var buf bytes.Buffer
	g.Console = &buf

	g.Warn(Behavior{Mask: SuppressWarning}, "Open", "unreachable")
	assert.Empty(t, buf.String())

	g.Warn(Behavior{}, "Open", "segment %d missing records", 3)
	assert.Contains(t, buf.String(), "Open: warning:")
	assert.Contains(t, buf.String(), "segment 3 missing records")
}
