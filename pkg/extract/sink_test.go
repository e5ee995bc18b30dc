package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/genqa/pkg/extract"
)

func TestGroups_SortOrder(t *testing.T) {
	t.Parallel()

	// (2,1), (1,None), (None,5), (1,1) must sort to
	// (1,1), (1,None), (2,1), (None,5).
	sink := extract.NewGroupedSink()
	for _, c := range []extract.Context{
		ctx(2, 1),
		ctx(1, nil),
		ctx(nil, 5),
		ctx(1, 1),
	} {
		sink.Add(c, extract.Entry{Type: "T", Message: "m"})
	}

	groups := sink.Groups()

	require.Len(t, groups, 4)
	assert.Equal(t, ctx(1, 1), groups[0].Context)
	assert.Equal(t, ctx(1, nil), groups[1].Context)
	assert.Equal(t, ctx(2, 1), groups[2].Context)
	assert.Equal(t, ctx(nil, 5), groups[3].Context)
}

func TestGroups_AppendOrderWithinGroup(t *testing.T) {
	t.Parallel()

	sink := extract.NewGroupedSink()
	c := ctx(1, 2)
	sink.Add(c, extract.Entry{Type: "A", Message: "first"})
	sink.Add(c, extract.Entry{Type: "B", Message: "second"})

	groups := sink.Groups()

	require.Len(t, groups, 1)
	assert.Equal(t, []extract.Entry{
		{Type: "A", Message: "first"},
		{Type: "B", Message: "second"},
	}, groups[0].Entries)
}

func TestGroupedSink_Counters(t *testing.T) {
	t.Parallel()

	sink := extract.NewGroupedSink()
	assert.True(t, sink.Empty())
	assert.Equal(t, 0, sink.GroupCount())

	sink.Add(ctx(1, 1), extract.Entry{Type: "T", Message: "a"})
	sink.Add(ctx(1, 1), extract.Entry{Type: "T", Message: "b"})
	sink.Add(ctx(2, nil), extract.Entry{Type: "T", Message: "c"})

	assert.False(t, sink.Empty())
	assert.Equal(t, 3, sink.Len())
	assert.Equal(t, 2, sink.GroupCount())
}

func TestOptInt_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "None", extract.OptInt{}.String())
	assert.Equal(t, "7", extract.SomeInt(7).String())
	assert.Equal(t, "-1", extract.SomeInt(-1).String())
}

func TestContext_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "attempt=None round=None", extract.Context{}.String())
	assert.Equal(t, "attempt=3 round=None", ctx(3, nil).String())
	assert.Equal(t, "attempt=3 round=1", ctx(3, 1).String())
}

func TestContext_Compare(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b extract.Context
		want int
	}{
		{"equal", ctx(1, 1), ctx(1, 1), 0},
		{"attempt ascending", ctx(1, 9), ctx(2, 0), -1},
		{"unset attempt sorts last", ctx(nil, 0), ctx(99, 9), 1},
		{"round breaks ties", ctx(1, 1), ctx(1, 2), -1},
		{"unset round sorts last", ctx(1, nil), ctx(1, 99), 1},
		{"both unset equal", extract.Context{}, extract.Context{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.a.Compare(tt.b))
			assert.Equal(t, -tt.want, tt.b.Compare(tt.a))
		})
	}
}
