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

package brain

// DefaultMachineMarkers 机器指令约束的默认标记词表。
// 命中任一（不区分大小写）即视为输出格式/调试类机器指令，从 constraints 中剔除。
// 可由配置 heuristics.machine_markers 覆盖。
var DefaultMachineMarkers = []string{
	// 输出格式指令
	"json only",
	"only json",
	"respond in json",
	"output json",
	"json形式",
	"jsonで",
	"```",
	"code block",
	"コードブロック",
	"markdown",
	// 调试/实验标记
	"for debugging",
	"デバッグ用",
	"experimental",
	"実験的",
}
