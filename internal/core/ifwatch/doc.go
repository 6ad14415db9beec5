// Package ifwatch 提供网络接口就绪检查功能
//
// # 概述
//
// ifwatch 包实现隧道建立前的接口就绪等待，包括：
// - 接口/地址变更通知的回调注册与生命周期管理
// - 等待接口首次获得所请求地址族的地址（先订阅后查询，无竞态）
// - 轮询单播地址表直到全部地址通过重复地址检测（DAD）
//
// # 控制流
//
// 隧道建立流程依次调用 WaitForInterfaces 与 WaitForAddresses，
// 两者都成功后才宣告接口可用：
//
//	readiness := ifwatch.NewReadiness(source, nil)
//	ifindex, _ := source.InterfaceIndex("tun0")
//	if err := readiness.WaitForInterfaces(ctx, ifindex, true, true); err != nil { ... }
//	if err := readiness.WaitForAddresses(ctx, ifindex); err != nil { ... }
//
// # 并发模型
//
// WaitForAddresses 的轮询循环执行阻塞的操作系统查询，运行在
// 专属 goroutine 上，结果经一次性信号通道送回调用方；通知回调
// 由互斥锁串行化，该锁从不跨阻塞点持有。
//
// # 错误
//
// 每个失败都以可区分的类型上抛：重复地址、超时、平台错误
// 各不相同（调用方需要区分可重试与致命）。本包从不静默降级。
package ifwatch
