// Copyright 2026 fanjia1024
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package prompt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocCacheLoadAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "system.md")
	require.NoError(t, os.WriteFile(path, []byte("you are a helpful bot\n"), 0o644))

	c := NewDocCache(map[string]string{"system": path})

	got, err := c.Load("system")
	require.NoError(t, err)
	assert.Equal(t, "you are a helpful bot", got)

	// 缓存后改盘不影响 Load
	require.NoError(t, os.WriteFile(path, []byte("changed"), 0o644))
	got, err = c.Load("system")
	require.NoError(t, err)
	assert.Equal(t, "you are a helpful bot", got)

	// Reload 强制刷新
	got, err = c.Reload("system")
	require.NoError(t, err)
	assert.Equal(t, "changed", got)
}

func TestDocCacheUnconfiguredPath(t *testing.T) {
	c := NewDocCache(nil)
	got, err := c.Load("persona")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestDocCacheMissingFile(t *testing.T) {
	c := NewDocCache(map[string]string{"system": "/no/such/file.md"})
	_, err := c.Load("system")
	require.Error(t, err)
}
