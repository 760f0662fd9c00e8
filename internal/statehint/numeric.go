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

package statehint

import (
	"strconv"
	"strings"
)

// ParseLooseInt 宽松整数解析：去掉首尾空白和配置的尾部标点后，
// 允许一个可选的前导负号，其余必须全是数字。其他情况一律解析failed。
func ParseLooseInt(s string, trailingPunct []string) (int, bool) {
	s = strings.TrimSpace(s)
	for {
		trimmed := false
		for _, p := range trailingPunct {
			if p != "" && strings.HasSuffix(s, p) {
				s = strings.TrimSuffix(s, p)
				trimmed = true
			}
		}
		if !trimmed {
			break
		}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	body := s
	if strings.HasPrefix(body, "-") {
		body = body[1:]
	}
	if body == "" {
		return 0, false
	}
	for _, r := range body {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
