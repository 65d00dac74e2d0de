package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	"github.com/gowvp/wink/internal/conf"
	"github.com/gowvp/wink/internal/core/game"
	"github.com/gowvp/wink/internal/core/round"
	"github.com/gowvp/wink/internal/core/round/store/rounddb"
	"github.com/ixugo/goddd/domain/version/versionapi"
	"github.com/ixugo/goddd/pkg/orm"
	"github.com/ixugo/goddd/pkg/web"
	"gorm.io/gorm"
)

var (
	ProviderVersionSet = wire.NewSet(versionapi.NewVersionCore)
	ProviderSet        = wire.NewSet(
		wire.Struct(new(Usecase), "*"),
		NewHTTPHandler,
		versionapi.New,
		NewRoundCore, NewRoundAPI,
		NewGameCore, NewGameAPI,
		NewUserAPI,
		NewAIWebhookAPI,
	)
)

type Usecase struct {
	Conf    *conf.Bootstrap
	DB      *gorm.DB
	Version versionapi.API

	GameAPI      GameAPI
	RoundAPI     RoundAPI
	UserAPI      UserAPI
	AIWebhookAPI AIWebhookAPI
}

// NewHTTPHandler 生成Gin框架路由内容
func NewHTTPHandler(uc *Usecase) http.Handler {
	cfg := uc.Conf.Server
	if cfg.HTTP.JwtSecret == "" {
		uc.Conf.Server.HTTP.JwtSecret = orm.GenerateRandomString(32)
	}
	if !uc.Conf.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	g := gin.New()
	g.NoRoute(func(c *gin.Context) {
		c.JSON(404, "来到了无人的荒漠")
	})
	if cfg.HTTP.PProf.Enabled {
		web.SetupPProf(g, &cfg.HTTP.PProf.AccessIps)
	}

	setupRouter(g, uc)
	uc.Version.RecordVersion()
	return g
}

// NewRoundCore 对局记录领域
func NewRoundCore(db *gorm.DB) round.Core {
	return round.NewCore(rounddb.NewDB(db).AutoMigrate(orm.GetEnabledAutoMigrate()))
}

// NewGameCore 眼态与计时控制器，对局停止时经 recorder 落库
func NewGameCore(bc *conf.Bootstrap, roundCore round.Core) *game.Core {
	return game.NewCore(
		game.WithClosedThreshold(bc.Game.ClosedThreshold),
		game.WithRecorder(roundRecorder{core: roundCore}),
	)
}

// NewGameAPI 创建游戏 API 实例
func NewGameAPI(bc *conf.Bootstrap, core *game.Core) GameAPI {
	return GameAPI{conf: bc, game: core}
}

// NewRoundAPI 创建对局查询 API 实例
func NewRoundAPI(core round.Core) RoundAPI {
	return RoundAPI{core: core}
}

// roundRecorder 适配 game.Recorder 到 round 领域
// 在控制器循环上被调用，落库放到独立协程避免阻塞循环
type roundRecorder struct {
	core round.Core
}

func (r roundRecorder) SaveRound(in game.RoundRecord) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := r.core.AddRound(ctx, &round.AddRoundInput{
			StartedAt: in.StartedAt,
			StoppedAt: in.StoppedAt,
			Score:     in.Score,
			Resets:    in.Resets,
		}); err != nil {
			slog.Error("save round", "err", err)
		}
	}()
}
