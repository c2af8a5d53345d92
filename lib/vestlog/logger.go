package vestlog

import (
	"os"

	logging "github.com/ipfs/go-log/v2"
)

// SetupLogLevels 初始化日志等级
// 未设置 GOLOG_LOG_LEVEL 时全局使用 level，并压低数据库与事件日志
func SetupLogLevels(level string) {
	if _, set := os.LookupEnv("GOLOG_LOG_LEVEL"); set {
		return
	}
	if level == "" {
		level = "INFO"
	}
	_ = logging.SetLogLevel("*", level)
	_ = logging.SetLogLevel("events", "WARN")
	_ = logging.SetLogLevel("repository", "WARN")
}
