// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package memo

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_GetOrCompute(t *testing.T) {
	c := New[string, int]()
	calls := 0
	compute := func() (int, error) {
		calls++
		return 42, nil
	}

	v, err := c.GetOrCompute("a", compute)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	v, err = c.GetOrCompute("a", compute)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, calls, "second lookup should hit the cache")
	assert.Equal(t, 1, c.Len())
}

func TestCache_ErrorNotCached(t *testing.T) {
	c := New[string, int]()
	boom := errors.New("boom")

	calls := 0
	_, err := c.GetOrCompute("a", func() (int, error) {
		calls++
		return 0, boom
	})
	assert.Same(t, boom, err)
	assert.Equal(t, 0, c.Len())

	v, err := c.GetOrCompute("a", func() (int, error) {
		calls++
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.Equal(t, 2, calls)
}

func TestCache_FirstWriterWins(t *testing.T) {
	c := New[string, string]()

	// A nested compute for the same key stores first; the outer result is
	// discarded in favor of it.
	v, err := c.GetOrCompute("k", func() (string, error) {
		inner, _ := c.GetOrCompute("k", func() (string, error) { return "inner", nil })
		assert.Equal(t, "inner", inner)
		return "outer", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "inner", v)
}

func TestByCwd_SameDirComputesOnce(t *testing.T) {
	t.Chdir(t.TempDir())

	calls := 0
	f := ByCwd(func(s string) (string, error) {
		calls++
		return s + "!", nil
	})

	for i := 0; i < 3; i++ {
		v, err := f.Call("hi")
		require.NoError(t, err)
		assert.Equal(t, "hi!", v)
	}
	assert.Equal(t, 1, calls)

	_, err := f.Call("other")
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "different args should recompute")
	assert.Equal(t, 2, f.Len())
}

func TestByCwd_DifferentDirsCachedIndependently(t *testing.T) {
	d1 := t.TempDir()
	d2 := t.TempDir()

	calls := 0
	f := ByCwd(func(_ struct{}) (int, error) {
		calls++
		return calls, nil
	})

	t.Chdir(d1)
	v1, err := f.Call(struct{}{})
	require.NoError(t, err)

	t.Chdir(d2)
	v2, err := f.Call(struct{}{})
	require.NoError(t, err)
	assert.NotEqual(t, v1, v2)
	assert.Equal(t, 2, calls)

	t.Chdir(d1)
	v1again, err := f.Call(struct{}{})
	require.NoError(t, err)
	assert.Equal(t, v1, v1again)
	assert.Equal(t, 2, calls)
}

func TestByCwd_MultipleArgsAsStruct(t *testing.T) {
	t.Chdir(t.TempDir())

	type args struct {
		dir  string
		name string
	}
	calls := 0
	f := ByCwd(func(a args) (string, error) {
		calls++
		return filepath.Join(a.dir, a.name), nil
	})

	_, _ = f.Call(args{"a", "b"})
	_, _ = f.Call(args{"a", "b"})
	_, _ = f.Call(args{"a", "c"})
	assert.Equal(t, 2, calls)
}

func TestByCwd_GetwdFailure(t *testing.T) {
	wdErr := errors.New("no cwd")
	orig := getwd
	getwd = func() (string, error) { return "", wdErr }
	t.Cleanup(func() { getwd = orig })

	called := false
	f := ByCwd(func(int) (int, error) {
		called = true
		return 1, nil
	})

	_, err := f.Call(1)
	assert.ErrorIs(t, err, wdErr)
	assert.False(t, called)
}
