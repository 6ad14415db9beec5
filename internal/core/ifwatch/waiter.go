package ifwatch

import (
	"context"
	"fmt"
	"sync"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-netready/pkg/interfaces"
)

// ============================================================================
//                              Readiness
// ============================================================================

// Readiness 接口就绪检查器
//
// 聚合两步就绪等待：WaitForInterfaces 等待所请求地址族首次出现，
// WaitForAddresses 等待全部单播地址通过 DAD。
type Readiness struct {
	source interfaces.SystemSource
	cfg    *Config
	clk    clock.Clock
}

// 确保实现接口
var _ interfaces.DeviceReadiness = (*Readiness)(nil)

// NewReadiness 创建接口就绪检查器
func NewReadiness(source interfaces.SystemSource, cfg *Config) *Readiness {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg.Validate()

	return &Readiness{
		source: source,
		cfg:    cfg,
		clk:    clock.New(),
	}
}

// WaitForInterfaces 等待接口首次获得所请求地址族的地址
//
// 构造上无竞态：先注册变更回调，再查询当前地址表；
// 若所请求地址族已经在场则立即返回，订阅被直接丢弃。
// 无内部超时，由调用方通过 ctx 施加取消。
func (r *Readiness) WaitForInterfaces(ctx context.Context, ifindex int, wantIPv4, wantIPv6 bool) error {
	if !wantIPv4 && !wantIPv6 {
		return nil
	}

	var (
		mu       sync.Mutex
		foundV4  = !wantIPv4
		foundV6  = !wantIPv6
		resolved bool
	)
	ready := make(chan struct{})

	// 事件投递顺序与表查询结果之间没有顺序保证，
	// 先订阅后查询关闭了这个竞态窗口。
	handle, err := RegisterAddressChanges(r.source, func(ev interfaces.InterfaceChangeEvent) {
		if ev.Kind != interfaces.ChangeAdded || ev.Interface != ifindex {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if resolved {
			return
		}
		switch ev.Family {
		case interfaces.FamilyIPv4:
			foundV4 = true
		case interfaces.FamilyIPv6:
			foundV6 = true
		}
		if foundV4 && foundV6 {
			resolved = true
			close(ready)
		}
	}, nil)
	if err != nil {
		return err
	}
	defer handle.Close()

	entries, err := r.source.UnicastAddresses(nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrObtainUnicastAddress, err)
	}

	mu.Lock()
	for _, entry := range entries {
		if entry.Interface != ifindex {
			continue
		}
		switch entry.Family {
		case interfaces.FamilyIPv4:
			foundV4 = true
		case interfaces.FamilyIPv6:
			foundV6 = true
		}
	}
	satisfied := foundV4 && foundV6
	if satisfied {
		resolved = true
	}
	mu.Unlock()

	if satisfied {
		logger.Debug("所请求地址族已在场，无需等待",
			"interface", ifindex,
			"ipv4", wantIPv4,
			"ipv6", wantIPv6)
		return nil
	}

	select {
	case <-ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
