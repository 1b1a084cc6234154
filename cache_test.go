// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mordor

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheGetSetRoundTrip(t *testing.T) {
	c := NewCache()
	key := NewKey[int]("keep-alive-timeout")

	_, ok := Get(c, key)
	assert.False(t, ok)

	Set(c, key, 30)
	v, ok := Get(c, key)
	assert.True(t, ok)
	assert.Equal(t, 30, v)
}

func TestCacheDistinctKeyTypesDoNotCollide(t *testing.T) {
	c := NewCache()
	intKey := NewKey[int]("n")
	strKey := NewKey[string]("n")

	Set(c, intKey, 7)
	Set(c, strKey, "seven")

	iv, ok := Get(c, intKey)
	assert.True(t, ok)
	assert.Equal(t, 7, iv)

	sv, ok := Get(c, strKey)
	assert.True(t, ok)
	assert.Equal(t, "seven", sv)
}

func TestCacheConcurrentAccessIsSafe(t *testing.T) {
	c := NewCache()
	key := NewKey[int]("counter")
	Set(c, key, 0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			Set(c, key, n)
			_, _ = Get(c, key)
		}(i)
	}
	wg.Wait()

	_, ok := Get(c, key)
	assert.True(t, ok)
}
