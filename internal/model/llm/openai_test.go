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

package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIClientChat(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"pong"}}]}`))
	}))
	defer server.Close()

	c, err := NewOpenAIClient("openai", "gpt-4o-mini", "test-key", server.URL)
	require.NoError(t, err)

	got, err := c.ChatWithContext(context.Background(), []Message{
		{Role: RoleSystem, Content: "be brief"},
		{Role: RoleUser, Content: "ping"},
	}, GenerateOptions{Temperature: 0.5, MaxTokens: 128})
	require.NoError(t, err)
	assert.Equal(t, "pong", got)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "gpt-4o-mini", gotBody["model"])
	msgs := gotBody["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
}

func TestOpenAIClientAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"bad key"}`))
	}))
	defer server.Close()

	c, err := NewOpenAIClient("openai", "gpt-4o-mini", "bad", server.URL)
	require.NoError(t, err)

	_, err = c.Chat([]Message{{Role: RoleUser, Content: "hi"}}, GenerateOptions{})
	require.Error(t, err)
}

func TestOpenAIClientNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	c, err := NewOpenAIClient("openai", "gpt-4o-mini", "k", server.URL)
	require.NoError(t, err)

	// 空结果必须是显式 error，不是静默空串
	_, err = c.Chat([]Message{{Role: RoleUser, Content: "hi"}}, GenerateOptions{})
	require.Error(t, err)
}

func TestOpenAIClientDefaults(t *testing.T) {
	c, err := NewOpenAIClient("", "", "k", "https://example.com/v1")
	require.NoError(t, err)
	assert.Equal(t, "openai", c.Provider())
	assert.NotEmpty(t, c.Model())
}
