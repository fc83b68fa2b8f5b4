// Package config 提供 lang-visible 的配置管理功能。
//
// 配置文件存储在 ~/.config/lang-visible/config.yaml，使用 YAML 格式。
// 支持的配置项包括默认事件类型、数据目录、Top N、默认可见数量、视图、
// 严格模式、语言颜色覆盖以及 collect 使用的本地仓库列表。
package config
