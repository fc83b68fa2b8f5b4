// lang-visible 按季度统计各编程语言在 GitHub 事件中的占比，并输出可直接绘图的序列。
package main

import (
	"lang-visible/cmd"
)

func main() {
	cmd.Execute()
}
