package collect

import (
	"path"
	"strings"
)

// extensionLanguages 将文件扩展名映射到语言名，语言名与 chart 的颜色表一致。
var extensionLanguages = map[string]string{
	".c":      "C",
	".h":      "C",
	".cc":     "C++",
	".cpp":    "C++",
	".cxx":    "C++",
	".hpp":    "C++",
	".cs":     "C#",
	".clj":    "Clojure",
	".coffee": "CoffeeScript",
	".css":    "CSS",
	".dart":   "Dart",
	".ex":     "Elixir",
	".exs":    "Elixir",
	".elm":    "Elm",
	".erl":    "Erlang",
	".fs":     "F#",
	".go":     "Go",
	".groovy": "Groovy",
	".hs":     "Haskell",
	".html":   "HTML",
	".java":   "Java",
	".js":     "JavaScript",
	".mjs":    "JavaScript",
	".jsx":    "JavaScript",
	".jl":     "Julia",
	".ipynb":  "Jupyter Notebook",
	".kt":     "Kotlin",
	".kts":    "Kotlin",
	".lua":    "Lua",
	".m":      "Objective-C",
	".ml":     "OCaml",
	".nix":    "Nix",
	".php":    "PHP",
	".pl":     "Perl",
	".ps1":    "PowerShell",
	".py":     "Python",
	".r":      "R",
	".rb":     "Ruby",
	".rs":     "Rust",
	".scala":  "Scala",
	".sh":     "Shell",
	".bash":   "Shell",
	".sol":    "Solidity",
	".swift":  "Swift",
	".tex":    "TeX",
	".tf":     "HCL",
	".ts":     "TypeScript",
	".tsx":    "TypeScript",
	".vim":    "Vim Script",
	".vue":    "Vue",
	".zig":    "Zig",
}

// fileLanguages 将没有扩展名的特殊文件名映射到语言名。
var fileLanguages = map[string]string{
	"Dockerfile": "Dockerfile",
	"Makefile":   "Makefile",
}

// LanguageOf 根据文件路径判断语言，无法识别时返回空字符串。
func LanguageOf(name string) string {
	base := path.Base(name)
	if lang, ok := fileLanguages[base]; ok {
		return lang
	}
	return extensionLanguages[strings.ToLower(path.Ext(base))]
}
