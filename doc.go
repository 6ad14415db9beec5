// Package netready 提供 VPN 隧道管理器的网络监控子系统
//
// 子系统包含三个能力：
//
//   - 连通性监控：以参考地址的路由可达性判定主机是否离线，
//     状态翻转时向隧道状态机发送命令
//   - 接口就绪检查：等待隧道设备在系统网络栈中注册，
//     并等待其单播地址完成重复地址检测
//   - 套接字地址编解码：平台原始套接字地址与传输层地址的互转
//
// 快速开始：
//
//	commands := make(chan interfaces.TunnelCommand, 16)
//	sys, err := netready.New(netready.WithCommandChannel(commands))
//	if err != nil {
//		return err
//	}
//	if err := sys.Start(ctx); err != nil {
//		return err
//	}
//	defer sys.Stop(ctx)
//
// 各组件也可脱离 System 单独使用，见 internal/core 下各模块的
// Fx 装配入口。
package netready
