package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gowvp/wink/internal/conf"
	"github.com/ixugo/goddd/pkg/reason"
	"github.com/ixugo/goddd/pkg/web"
)

// UserAPI 登录签发 token，保护 start/删除等写操作
type UserAPI struct {
	conf *conf.Bootstrap
}

func NewUserAPI(conf *conf.Bootstrap) UserAPI {
	if conf.Server.Username == "" && conf.Server.Password == "" {
		conf.Server.Username = "admin"
		conf.Server.Password = "admin"
	}
	return UserAPI{conf: conf}
}

func RegisterUser(r gin.IRouter, api UserAPI, _ ...gin.HandlerFunc) {
	r.POST("/login", web.WrapH(api.login))
}

type loginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginOutput struct {
	Token string `json:"token"`
	User  string `json:"user"`
}

// login 校验用户名密码并签发 JWT
func (api UserAPI) login(_ *gin.Context, in *loginInput) (*loginOutput, error) {
	if in.Username != api.conf.Server.Username || in.Password != api.conf.Server.Password {
		return nil, reason.ErrNameOrPasswd
	}

	data := web.NewClaimsData().SetUsername(in.Username)
	token, err := web.NewToken(data, api.conf.Server.HTTP.JwtSecret, web.WithExpiresAt(time.Now().Add(3*24*time.Hour)))
	if err != nil {
		return nil, reason.ErrServer.SetMsg("生成token失败: " + err.Error())
	}
	return &loginOutput{Token: token, User: in.Username}, nil
}
