// Package chart 将按季度统计的语言热度数据转换为可直接交给图表渲染器的序列结构。
//
// 处理流程：
//   - Categories: 生成横轴季度标签
//   - SeriesBuilder: 按语言分组、Top N 过滤、可见性与颜色分配、补零对齐
//   - Percentage: 按季度归一化为占比
//   - Reducer: 判断是否需要重建并组装最终的 Configuration
package chart
