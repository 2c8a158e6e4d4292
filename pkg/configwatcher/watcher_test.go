package configwatcher

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatchConfig_ReloadsOnEveryWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	write := func(port string) {
		content := fmt.Sprintf("server:\n  port: \"%s\"\n  mode: debug\n", port)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	write("8080")

	reloaded := make(chan interface{}, 4)
	go WatchConfig(path, nil, func(cfg interface{}) {
		reloaded <- cfg
	})

	// 等watcher注册完成
	time.Sleep(200 * time.Millisecond)

	// 防抖计时器触发过一次之后，后续写入仍然要能触发热加载
	for i, port := range []string{"8081", "8082"} {
		write(port)
		select {
		case <-reloaded:
		case <-time.After(5 * time.Second):
			t.Fatalf("第%d次写入未触发热加载", i+1)
		}
	}
}
