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

package reply

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStabilizeEmpty(t *testing.T) {
	assert.Equal(t, FallbackMessage, Stabilize(""))
}

func TestStabilizeWhitespaceOnlyIsNotEmpty(t *testing.T) {
	// 空判定作用于原始值；全空白修剪后为空串，但不是兜底路径
	got := Stabilize("   ")
	assert.Equal(t, "", got)
}

func TestStabilizePlainText(t *testing.T) {
	assert.Equal(t, "hello", Stabilize("  hello \n"))
}

func TestStabilizeMarkerExtractsTail(t *testing.T) {
	got := Stabilize("thinking aloud...\n[FINAL] the actual answer\n")
	assert.Equal(t, "the actual answer", got)
}

func TestStabilizeFirstMarkerWins(t *testing.T) {
	got := Stabilize("[FINAL] first [FINAL] second")
	assert.Equal(t, "first [FINAL] second", got)
}

func TestStabilizeMarkerWithEmptyTail(t *testing.T) {
	got := Stabilize("all the reasoning [FINAL]   ")
	assert.Equal(t, "all the reasoning [FINAL]", got)
}

func TestStabilizeNeverEmptyForNonEmptyMarkedInput(t *testing.T) {
	for _, in := range []string{"[FINAL]", "x[FINAL]", "[FINAL] y"} {
		assert.NotEmpty(t, Stabilize(in), "input %q", in)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))

	long := strings.Repeat("あ", 2000)
	got := Truncate(long, 0)
	assert.Equal(t, 1900, len([]rune(got)))

	got = Truncate("abcdef", 3)
	assert.Equal(t, "abc", got)
}
