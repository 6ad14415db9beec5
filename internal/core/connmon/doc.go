// Package connmon 提供主机连通性监控功能
//
// # 概述
//
// connmon 包维护主机是否"离线"的尽力而为判断：
// 探测是否存在到一个固定的、全球可路由参考地址的路由，
// 在每次路由表变更时重算，仅在判断翻转时向下游通知。
//
// # 使用示例
//
//	strong, weak := weakref.New(commands)
//	monitor := connmon.NewMonitor(routeManager, weak, nil)
//	if err := monitor.Start(ctx); err != nil { ... }
//	defer monitor.Stop()
//
//	offline := monitor.IsOffline(ctx)
//
// # 错误偏置
//
// 路由协作方出错时一律按"在线"处理（记录日志后吞掉），
// 避免瞬时测量失败触发虚假断连。这是有意的取舍：
// 一个持续损坏的路由协作方永远不会表现为"离线"。
//
// # 生命周期
//
// 监控器在守护进程启动时创建一次，存活于整个网络生命周期，
// 不随连接尝试重建。下游发送端仅被弱持有：最后一个强引用
// 消失后，后台循环自行永久终止。
package connmon
