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

// Package prompt 系统指令与人格设定文档的加载与缓存。
package prompt

import (
	"os"
	"strings"
	"sync"
)

// DocCache 提示词文档缓存：首次访问读盘，之后常驻内存，Reload 强制刷新。
// 路径为空的文档视为空内容，不算错误。
type DocCache struct {
	mu    sync.RWMutex
	paths map[string]string // name -> file path
	docs  map[string]string // name -> content
}

// NewDocCache 创建文档缓存；paths 为 name -> 路径
func NewDocCache(paths map[string]string) *DocCache {
	p := make(map[string]string, len(paths))
	for k, v := range paths {
		p[k] = v
	}
	return &DocCache{
		paths: p,
		docs:  make(map[string]string),
	}
}

// Load 取文档内容，缺席时读盘填充。文件不存在或读failed返回 error，
// 路径未配置返回空串。
func (c *DocCache) Load(name string) (string, error) {
	c.mu.RLock()
	doc, ok := c.docs[name]
	c.mu.RUnlock()
	if ok {
		return doc, nil
	}
	return c.Reload(name)
}

// Reload 强制重读文档（热更新提示词时用）
func (c *DocCache) Reload(name string) (string, error) {
	c.mu.RLock()
	path := c.paths[name]
	c.mu.RUnlock()
	if path == "" {
		return "", nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	doc := strings.TrimSpace(string(raw))
	c.mu.Lock()
	c.docs[name] = doc
	c.mu.Unlock()
	return doc, nil
}
