package statapi

import (
	"github.com/gin-gonic/gin"
	"github.com/gowvp/wink/plugin/stat"
	"github.com/ixugo/goddd/pkg/web"
)

// Register 注册运行状态查询接口
func Register(r gin.IRouter) {
	r.GET("/app/stat", web.WrapH(getStat))
}

func getStat(_ *gin.Context, _ *struct{}) (map[string]any, error) {
	m := stat.Snapshot()
	if m == nil {
		m = map[string]any{}
	}
	return m, nil
}
