// Package dataset 读取和写入按季度统计的语言热度数据文件。
//
// 数据文件存放在数据目录下，以事件类型命名（如 pull_requests.json 或 stars.csv），
// 每行包含 name、year、quarter、count 四个字段。
package dataset
