// Package repo 管理 collect 命令统计的本地 Git 仓库。
//
// 主要功能：
//   - ScanRepos: 递归扫描目录查找 Git 仓库
//   - AddRepos / RemoveRepo / VerifyRepos: 维护保存在配置中的仓库列表
package repo
