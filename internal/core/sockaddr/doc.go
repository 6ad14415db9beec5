// Package sockaddr 提供平台中立套接字地址与操作系统原生
// 地址族标记结构之间的无损二进制转换
//
// # 概述
//
// 操作系统原生形式是一个按地址族打标签的联合体
// （IPv4：32 位地址 + 16 位端口；IPv6：128 位地址 + 端口 +
// 流标签 + 作用域标识）。本包是唯一允许触碰该二进制布局的组件，
// 其余代码只使用平台中立的 SocketAddress。
//
// # 契约
//
//   - Encode 对两种受支持的地址族是全函数，总是成功
//   - Decode 当且仅当地址族标签不是 AF_INET/AF_INET6 时失败
//   - 对每个可表示的地址 a，Decode(Encode(a)) == a
//
// 端口按网络字节序（大端）存放；IPv6 的流标签与作用域标识
// 原样透传。
package sockaddr
