// Package protocolids 定义 go-dialback 使用的协议 ID 常量
//
// 协议 ID 是协议的唯一真源：其他包引用本包常量，而不是各自定义字符串。
//
// 命名空间：
//   - /dep2p/sys/...  系统协议（基础设施，全网通用）
//
// 使用示例:
//
//	import "github.com/dep2p/go-dialback/pkg/protocolids"
//
//	mux.AddHandler(string(protocolids.SysDialBack), handleDialBack)
package protocolids
