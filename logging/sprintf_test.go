package logging

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSprintf(t *testing.T) {
	out, err := Sprintf(0, "%d items in %s", 3, "queue")
	require.NoError(t, err)
	assert.Equal(t, "3 items in queue", out)

	out, err = Sprintf(0, "no verbs")
	require.NoError(t, err)
	assert.Equal(t, "no verbs", out)
}

func TestSprintfOverflow(t *testing.T) {
	_, err := Sprintf(8, "%s", "0123456789")
	require.Error(t, err)
	assert.Equal(t, ErrFormatOverflow, errors.Cause(err))

	out, err := Sprintf(10, "%s", "0123456789")
	require.NoError(t, err)
	assert.Equal(t, "0123456789", out)

	out, err = Sprintf(0, "%s", strings.Repeat("a", 10000))
	require.NoError(t, err)
	assert.Len(t, out, 10000)
}

func TestSprintfBadFormat(t *testing.T) {
	cases := []struct {
		name   string
		format string
		args   []any
	}{
		{"missing argument", "%d", nil},
		{"wrong type", "%d", []any{"text"}},
		{"extra argument", "%s", []any{"a", "b"}},
		{"literal bad verb", "disk 100%!", nil},
		{"trailing percent", "100%", nil},
		{"bad index", "%[3]s", []any{"a"}},
		{"star width not int", "%*d", []any{"w", 1}},
		{"nested wrong type", "%d", []any{[]any{"x"}}},
		{"wrap verb", "%w", []any{errors.New("x")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := Sprintf(0, tc.format, tc.args...)
			require.Error(t, err)
			assert.Equal(t, ErrBadFormat, errors.Cause(err))
			assert.Empty(t, out)
		})
	}
}

func TestSprintfArgumentsContainingMarkers(t *testing.T) {
	out, err := Sprintf(0, "%s", "100%!")
	require.NoError(t, err)
	assert.Equal(t, "100%!", out)

	out, err = Sprintf(0, "%[1]s and again %[1]s", "50%!")
	require.NoError(t, err)
	assert.Equal(t, "50%! and again 50%!", out)

	out, err = Sprintf(0, "%s", "%!d(string=x)")
	require.NoError(t, err)
	assert.Equal(t, "%!d(string=x)", out)
}

func TestSprintfValidDirectives(t *testing.T) {
	cases := []struct {
		format string
		args   []any
		want   string
	}{
		{"%5.1f|%-4d|%x", []any{3.14159, 7, 255}, "  3.1|7   |ff"},
		{"%*d", []any{4, 9}, "   9"},
		{"%.*s", []any{2, "abcdef"}, "ab"},
		{"%[2]d %[1]d", []any{1, 2}, "2 1"},
		{"100%% done", nil, "100% done"},
		{"%v %+v", []any{nil, struct{ A int }{1}}, "<nil> {A:1}"},
		{"%q %c %U", []any{"x", 'y', 'z'}, "\"x\" y U+007A"},
		{"%s", []any{errors.New("boom")}, "boom"},
	}
	for _, tc := range cases {
		out, err := Sprintf(0, tc.format, tc.args...)
		require.NoError(t, err, tc.format)
		assert.Equal(t, tc.want, out, tc.format)
	}
}

func TestFormat(t *testing.T) {
	wrongType := "%d"
	assert.Equal(t, "x=1", Format("x=%d", 1))
	assert.Equal(t, FormatFailedMessage, Format(wrongType, "text"))
	assert.Equal(t, FormatFailedMessage, Format("%s", strings.Repeat("a", DefaultMaxMessageSize+1)))
}

func TestAppendKeyValues(t *testing.T) {
	assert.Equal(t, "msg", AppendKeyValues("msg"))
	assert.Equal(t, "msg a=1 b=two", AppendKeyValues("msg", "a", 1, "b", "two"))
	assert.Equal(t, "msg a=1 !BADKEY=x", AppendKeyValues("msg", "a", 1, "x"))
}
